package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate ensures the configuration is structurally usable. Presence of
// input/output directories and thresholds is checked by the convert command
// instead, so inspection commands work with a minimal config.
func (c *Config) Validate() error {
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateRaster(); err != nil {
		return err
	}
	if err := c.validateVector(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateThresholds() error {
	for i, t := range c.Thresholds.Values {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("thresholds.values[%d] must be a finite number", i)
		}
	}
	return nil
}

func (c *Config) validateRaster() error {
	if len(c.Raster.Extensions) == 0 {
		return errors.New("raster.extensions must list at least one extension")
	}
	for _, ext := range c.Raster.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("raster.extensions entry %q must look like %q", ext, ".asc")
		}
	}
	return nil
}

func (c *Config) validateVector() error {
	if c.Vector.FieldName == "" {
		return errors.New("vector.field_name must be set")
	}
	// Shapefile DBF attribute names are capped at 10 characters.
	if len(c.Vector.FieldName) > 10 {
		return fmt.Errorf("vector.field_name %q exceeds 10 characters", c.Vector.FieldName)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
