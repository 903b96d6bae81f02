package batch

import (
	"strconv"

	"gridtrace/internal/layers"
)

// PairStatus classifies the outcome of one (raster, threshold) pair.
type PairStatus string

const (
	// StatusSucceeded: both outputs written and the layer collected.
	StatusSucceeded PairStatus = "succeeded"
	// StatusSkipped: outputs written but the layer failed the validity
	// gate and was not collected.
	StatusSkipped PairStatus = "skipped"
	// StatusFailed: masking or tracing failed; see Err.
	StatusFailed PairStatus = "failed"
)

// PairResult is the typed outcome of one (raster, threshold) pair. The
// batch continues past failures, so callers inspect results instead of
// aborting on the first fault.
type PairResult struct {
	RasterPath   string
	Threshold    float64
	RasterOutput string
	VectorOutput string
	Status       PairStatus
	// Layer is set only for succeeded pairs.
	Layer *layers.Layer
	// Err is set for failed pairs and carries a services sentinel.
	Err error
	// SkipReason explains a skipped pair's failed validity gate.
	SkipReason string
}

// Summary aggregates a batch's pair results.
type Summary struct {
	Rasters   int
	Pairs     int
	Succeeded int
	Skipped   int
	Failed    int
}

// Summarize folds results into counters. Rasters counts distinct inputs.
func Summarize(results []PairResult) Summary {
	sum := Summary{Pairs: len(results)}
	seen := map[string]struct{}{}
	for _, res := range results {
		if _, ok := seen[res.RasterPath]; !ok {
			seen[res.RasterPath] = struct{}{}
			sum.Rasters++
		}
		switch res.Status {
		case StatusSucceeded:
			sum.Succeeded++
		case StatusSkipped:
			sum.Skipped++
		case StatusFailed:
			sum.Failed++
		}
	}
	return sum
}

// FormatThreshold renders a cutoff for filenames and layer labels using the
// shortest decimal form that round-trips the value.
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
