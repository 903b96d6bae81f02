package raster

import "math"

// Threshold returns a copy of g where every cell below the cutoff is
// replaced with no-data and every other cell keeps its source value.
// Comparison is value >= threshold, so existing no-data cells stay
// no-data (NaN compares false against anything). Dimensions,
// geotransform, and projection carry over unchanged.
func Threshold(g Grid, threshold float64) Grid {
	out := g.Clone()
	for i, v := range out.Data {
		if !(v >= threshold) {
			out.Data[i] = math.NaN()
		}
	}
	return out
}
