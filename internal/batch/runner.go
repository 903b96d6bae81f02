package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gridtrace/internal/config"
	"gridtrace/internal/layers"
	"gridtrace/internal/ledger"
	"gridtrace/internal/services"
)

// Masker writes a thresholded copy of a source raster.
type Masker interface {
	CreateThresholdRaster(ctx context.Context, src, dst string, threshold float64) error
}

// Tracer converts a raster into a polygon vector dataset.
type Tracer interface {
	Polygonize(ctx context.Context, rasterPath, vectorPath string) error
}

// Inspector opens a vector dataset and reports its feature count; an error
// fails the validity gate.
type Inspector interface {
	InspectVector(ctx context.Context, path string) (int, error)
}

// Engine bundles the three capabilities the runner needs. The GDAL engine
// satisfies it; tests substitute fakes.
type Engine interface {
	Masker
	Tracer
	Inspector
}

// Runner drives the per-raster, per-threshold conversion pipeline. Pairs
// run strictly sequentially; a failing pair is recorded and the batch
// moves on.
type Runner struct {
	cfg       *config.Config
	engine    Engine
	collector layers.Collector
	logger    *slog.Logger

	store *ledger.Store
	runID string
}

// NewRunner constructs a runner. Config, engine, collector, and logger are
// required.
func NewRunner(cfg *config.Config, engine Engine, collector layers.Collector, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || engine == nil || collector == nil || logger == nil {
		return nil, errors.New("batch runner requires config, engine, collector, and logger")
	}
	return &Runner{
		cfg:       cfg,
		engine:    engine,
		collector: collector,
		logger:    logger,
	}, nil
}

// SetLedger attaches a run ledger; each pair outcome is recorded under the
// given run. Optional.
func (r *Runner) SetLedger(store *ledger.Store, runID string) {
	r.store = store
	r.runID = runID
}

// ProcessFolder enumerates rasters in inputDir (by configured extension,
// in sorted name order) and processes each independently. An empty or
// raster-free directory yields zero results and no error. The returned
// error is non-nil only for enumeration failures or context cancellation;
// per-pair faults live in the results.
func (r *Runner) ProcessFolder(ctx context.Context, inputDir string) ([]PairResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "batch", "read input directory", inputDir, err)
	}

	var rasters []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if r.matchesExtension(entry.Name()) {
			rasters = append(rasters, filepath.Join(inputDir, entry.Name()))
		}
	}
	sort.Strings(rasters)

	r.logger.Info("starting batch",
		"input_dir", inputDir,
		"rasters", len(rasters),
		"thresholds", len(r.cfg.Thresholds.Values))

	var results []PairResult
	for _, rasterPath := range rasters {
		rasterResults, err := r.ProcessRaster(ctx, rasterPath)
		results = append(results, rasterResults...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ProcessRaster runs every configured threshold against one raster, in the
// given order, duplicates included. The returned error is non-nil only for
// context cancellation.
func (r *Runner) ProcessRaster(ctx context.Context, rasterPath string) ([]PairResult, error) {
	stem := rasterStem(rasterPath)
	logger := r.logger.With("raster", filepath.Base(rasterPath))
	logger.Info("processing raster")

	results := make([]PairResult, 0, len(r.cfg.Thresholds.Values))
	for _, threshold := range r.cfg.Thresholds.Values {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := r.processPair(ctx, logger, rasterPath, stem, threshold)
		r.record(ctx, logger, result)
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) processPair(ctx context.Context, logger *slog.Logger, rasterPath, stem string, threshold float64) PairResult {
	label := FormatThreshold(threshold)
	result := PairResult{
		RasterPath:   rasterPath,
		Threshold:    threshold,
		RasterOutput: filepath.Join(r.cfg.Paths.OutputDir, fmt.Sprintf("%s_threshold_%s.tif", stem, label)),
		VectorOutput: filepath.Join(r.cfg.Paths.OutputDir, fmt.Sprintf("%s_threshold_%s_polygons.shp", stem, label)),
	}

	logger = logger.With("threshold", label)
	logger.Info("processing threshold")

	if err := r.engine.CreateThresholdRaster(ctx, rasterPath, result.RasterOutput, threshold); err != nil {
		result.Status = StatusFailed
		result.Err = services.Wrap(services.ErrExternalTool, "mask", "create threshold raster", "", err)
		logger.Error("threshold raster failed", "error", err)
		return result
	}

	if err := r.engine.Polygonize(ctx, result.RasterOutput, result.VectorOutput); err != nil {
		result.Status = StatusFailed
		result.Err = services.Wrap(services.ErrExternalTool, "trace", "polygonize raster", "", err)
		logger.Error("polygonize failed", "error", err)
		return result
	}

	featureCount, err := r.engine.InspectVector(ctx, result.VectorOutput)
	if err != nil {
		// Outputs exist on disk; the layer just is not registered.
		result.Status = StatusSkipped
		result.SkipReason = err.Error()
		logger.Warn("polygon layer failed validation, skipping", "error", err)
		return result
	}

	layer := layers.Layer{
		Name:         fmt.Sprintf("%s_Threshold %s", stem, label),
		VectorPath:   result.VectorOutput,
		RasterPath:   rasterPath,
		Threshold:    threshold,
		FeatureCount: featureCount,
	}
	r.collector.Add(layer)

	result.Status = StatusSucceeded
	result.Layer = &layer
	logger.Info("layer collected", "layer", layer.Name, "features", featureCount)
	return result
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, result PairResult) {
	if r.store == nil {
		return
	}

	rec := ledger.PairRecord{
		RasterPath:   result.RasterPath,
		Threshold:    result.Threshold,
		RasterOutput: result.RasterOutput,
		VectorOutput: result.VectorOutput,
		Status:       string(result.Status),
	}
	if result.Layer != nil {
		rec.FeatureCount = result.Layer.FeatureCount
	}
	switch {
	case result.Err != nil:
		rec.Error = result.Err.Error()
	case result.SkipReason != "":
		rec.Error = result.SkipReason
	}

	if err := r.store.RecordPair(ctx, r.runID, rec); err != nil {
		// Ledger trouble must not fail the conversion itself.
		logger.Warn("ledger record failed", "error", err)
	}
}

func (r *Runner) matchesExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range r.cfg.Raster.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// rasterStem derives the output filename stem: the base name up to the
// first dot, so "flow.out.asc" maps to "flow".
func rasterStem(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}
