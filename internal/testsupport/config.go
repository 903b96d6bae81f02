package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gridtrace/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Input and output directories exist on return.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Thresholds.Values = []float64{0.5}

	for _, dir := range []string{cfg.Paths.InputDir, cfg.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithThresholds overrides the threshold list on the test config.
func WithThresholds(values ...float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Thresholds.Values = values
	}
}

// WithExtensions overrides the raster extensions on the test config.
func WithExtensions(exts ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Raster.Extensions = exts
	}
}
