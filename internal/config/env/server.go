package envconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type httpServerEnv struct {
	Port           int    `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	BodyLimitBytes int64  `env:"REQUEST_BODY_LIMIT" envDefault:"1048576"`
}

type httpServer struct {
	raw httpServerEnv
}

func NewHTTPServerConfig() (*httpServer, error) {
	var raw httpServerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &httpServer{raw: raw}, nil
}

func (cfg *httpServer) Port() int { return cfg.raw.Port }
func (cfg *httpServer) Address() string { return fmt.Sprintf(":%d", cfg.raw.Port) }
func (cfg *httpServer) AllowedOrigins() string { return cfg.raw.AllowedOrigins }
func (cfg *httpServer) BodyLimitBytes() int64 { return cfg.raw.BodyLimitBytes }
