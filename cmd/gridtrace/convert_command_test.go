package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gridtrace/internal/batch"
	"gridtrace/internal/config"
	"gridtrace/internal/testsupport"
)

type stubEngine struct {
	features int
	maskErr  error
}

func (s *stubEngine) CreateThresholdRaster(ctx context.Context, src, dst string, threshold float64) error {
	if s.maskErr != nil {
		return s.maskErr
	}
	return os.WriteFile(dst, nil, 0o644)
}

func (s *stubEngine) Polygonize(ctx context.Context, rasterPath, vectorPath string) error {
	return os.WriteFile(vectorPath, nil, 0o644)
}

func (s *stubEngine) InspectVector(ctx context.Context, path string) (int, error) {
	return s.features, nil
}

func withStubEngine(t *testing.T, engine batch.Engine) {
	t.Helper()
	prev := newConversionEngine
	newConversionEngine = func(cfg *config.Config) batch.Engine { return engine }
	t.Cleanup(func() { newConversionEngine = prev })
}

func TestConvertCommandProcessesRasters(t *testing.T) {
	env := setupCLITestEnv(t)
	withStubEngine(t, &stubEngine{features: 3})

	testsupport.WriteRaster(t, env.cfg.Paths.InputDir, "flow.asc")
	testsupport.WriteRaster(t, env.cfg.Paths.InputDir, "surge.asc")

	out, _, err := runCLI(t, []string{"convert"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "2 pairs: 2 succeeded, 0 skipped, 0 failed; 2 layers collected")
	requireContains(t, out, "Run recorded as")

	for _, name := range []string{
		"flow_threshold_0.5.tif",
		"flow_threshold_0.5_polygons.shp",
		"surge_threshold_0.5.tif",
		"surge_threshold_0.5_polygons.shp",
	} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, filepath.Base(env.cfg.Paths.InputDir))
}

func TestConvertCommandThresholdFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	withStubEngine(t, &stubEngine{features: 1})

	testsupport.WriteRaster(t, env.cfg.Paths.InputDir, "flow.asc")

	out, _, err := runCLI(t, []string{"convert", "--thresholds", "0.1,0.9"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "2 pairs: 2 succeeded")

	for _, name := range []string{"flow_threshold_0.1.tif", "flow_threshold_0.9.tif"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
}

func TestConvertCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	withStubEngine(t, &stubEngine{maskErr: errors.New("driver unavailable")})

	testsupport.WriteRaster(t, env.cfg.Paths.InputDir, "flow.asc")

	out, _, err := runCLI(t, []string{"convert"}, env.configPath)
	if err == nil {
		t.Fatal("expected convert to fail")
	}
	requireContains(t, err.Error(), "1 of 1 pairs failed")
	requireContains(t, out, "1 pairs: 0 succeeded, 0 skipped, 1 failed")
}

func TestConvertCommandEmptyInput(t *testing.T) {
	env := setupCLITestEnv(t)
	withStubEngine(t, &stubEngine{features: 1})

	out, _, err := runCLI(t, []string{"convert"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "No rasters matching")
}

func TestConvertCommandRequiresThresholds(t *testing.T) {
	env := setupCLITestEnv(t)
	withStubEngine(t, &stubEngine{features: 1})

	env.cfg.Thresholds.Values = nil
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"convert"}, env.configPath)
	if err == nil {
		t.Fatal("expected convert to fail without thresholds")
	}
	requireContains(t, err.Error(), "no thresholds set")
}
