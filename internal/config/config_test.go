package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridtrace/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config file to be found at %q", path)
	}
	if got := cfg.Vector.FieldName; got != "DN" {
		t.Fatalf("expected default field name DN, got %q", got)
	}
	if len(cfg.Raster.Extensions) != 1 || cfg.Raster.Extensions[0] != ".asc" {
		t.Fatalf("expected default extensions [.asc], got %v", cfg.Raster.Extensions)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger enabled by default")
	}
}

func TestLoadParsesThresholdsInOrder(t *testing.T) {
	path := writeConfig(t, `
[thresholds]
values = [0.9, 0.1, 0.1]
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []float64{0.9, 0.1, 0.1}
	if len(cfg.Thresholds.Values) != len(want) {
		t.Fatalf("expected %d thresholds, got %v", len(want), cfg.Thresholds.Values)
	}
	for i, v := range want {
		if cfg.Thresholds.Values[i] != v {
			t.Fatalf("threshold order not preserved: %v", cfg.Thresholds.Values)
		}
	}
}

func TestNormalizeExtensions(t *testing.T) {
	path := writeConfig(t, `
[raster]
extensions = ["ASC", " .tif ", ""]
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Raster.Extensions) != 2 {
		t.Fatalf("expected 2 extensions, got %v", cfg.Raster.Extensions)
	}
	if cfg.Raster.Extensions[0] != ".asc" || cfg.Raster.Extensions[1] != ".tif" {
		t.Fatalf("extensions not normalized: %v", cfg.Raster.Extensions)
	}
}

func TestValidateRejectsLongFieldName(t *testing.T) {
	path := writeConfig(t, `
[vector]
field_name = "THRESHOLDVALUE"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for field name over 10 characters")
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "xml"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Vector.FieldName != "DN" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/rasters")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "rasters") {
		t.Fatalf("expected %q, got %q", filepath.Join(home, "rasters"), got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.Thresholds.Values) == 0 {
		t.Fatal("expected sample to carry threshold values")
	}
}
