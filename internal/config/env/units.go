package envconfig

import "github.com/caarlos0/env/v11"

type unitsEnv struct {
	File string `env:"UNITS_FILE"`
}

type units struct {
	raw unitsEnv
}

func NewUnitsConfig() (*units, error) {
	var raw unitsEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &units{raw: raw}, nil
}

// File is an optional YAML file of extra unit definitions.
func (cfg *units) File() string { return cfg.raw.File }
