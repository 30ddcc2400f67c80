package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"recipe-costing/internal/core"
)

type unitsFile struct {
	Units []core.UnitDefinition `yaml:"units"`
}

// ReadUnitsFile parses a YAML document of the form
//
//	units:
//	  - code: tbsp
//	    category: volume
//	    ratio_to_base: 15
func ReadUnitsFile(path string) ([]core.UnitDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read units file: %w", err)
	}
	var doc unitsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse units file %s: %w", path, err)
	}
	return doc.Units, nil
}

// RegisterUnits adds the definitions in path (if any) to the process-wide unit
// registry and seals it. Call once during startup.
func RegisterUnits(path string) error {
	if path != "" {
		defs, err := ReadUnitsFile(path)
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := core.RegisterUnit(def); err != nil {
				return fmt.Errorf("register unit %q: %w", def.Code, err)
			}
		}
	}
	core.SealUnits()
	return nil
}
