package ledger

import "time"

// Pair outcome statuses persisted in the run_pairs table.
const (
	StatusSucceeded = "succeeded"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	InputDir   string
	OutputDir  string
	Thresholds []float64
	Rasters    int
	Pairs      int
	Succeeded  int
	Skipped    int
	Failed     int
}

// Finished reports whether the run has been closed out.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// PairRecord captures the outcome of one (raster, threshold) pair.
type PairRecord struct {
	ID           int64
	RunID        string
	RasterPath   string
	Threshold    float64
	RasterOutput string
	VectorOutput string
	FeatureCount int
	Status       string
	Error        string
	CreatedAt    time.Time
}

// Totals aggregates run counters written by FinishRun.
type Totals struct {
	Rasters   int
	Pairs     int
	Succeeded int
	Skipped   int
	Failed    int
}
