// Package batch orchestrates the conversion pipeline: for every raster in
// the input directory and every configured threshold, mask the raster,
// trace the surviving regions into polygons, validate the result, and hand
// the layer to the collector.
//
// Processing is strictly sequential with no cross-pair state. Each pair
// produces a typed PairResult; faults are recorded per pair and the batch
// continues, so one malformed raster cannot sink the rest of the run.
package batch
