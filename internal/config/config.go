package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "recipe-costing/internal/config/env"
)

var cfg *config

type config struct {
	Server   Server
	Logger   Logger
	Postgres Database
	Units    Units
}

// Load reads .env files (when present) and then the process environment.
// With no paths, godotenv looks for .env in the working directory.
func Load(path ...string) error {
	const op = "config.Load"

	if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: load .env: %w", op, err)
	}

	serverCfg, err := envconfig.NewHTTPServerConfig()
	if err != nil {
		return fmt.Errorf("%s Server: %w", op, err)
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	postgresCfg, err := envconfig.NewPostgresConfig()
	if err != nil {
		return fmt.Errorf("%s Postgres: %w", op, err)
	}

	unitsCfg, err := envconfig.NewUnitsConfig()
	if err != nil {
		return fmt.Errorf("%s Units: %w", op, err)
	}

	cfg = &config{
		Server:   serverCfg,
		Logger:   loggerCfg,
		Postgres: postgresCfg,
		Units:    unitsCfg,
	}

	return nil
}

func C() *config { return cfg }
