package envconfig

import "github.com/caarlos0/env/v11"

type postgresEnv struct {
	URL string `env:"DATABASE_URL"`
}

type postgres struct {
	raw postgresEnv
}

func NewPostgresConfig() (*postgres, error) {
	var raw postgresEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &postgres{raw: raw}, nil
}

func (cfg *postgres) DSN() string { return cfg.raw.URL }
