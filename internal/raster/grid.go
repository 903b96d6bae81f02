package raster

import "math"

// Grid is a single-band raster held in memory: cell values in row-major
// order plus the affine geotransform and projection needed to write the
// grid back out without losing georeferencing. No-data cells are stored
// as NaN regardless of the sentinel the source file used.
type Grid struct {
	Width  int
	Height int

	// GeoTransform is the standard six-element affine mapping from pixel to
	// world coordinates: origin X, pixel width, row rotation, origin Y,
	// column rotation, pixel height.
	GeoTransform [6]float64

	// Projection is the CRS in WKT form, empty when the source had none.
	Projection string

	// Data holds Width*Height values, row by row from the top-left cell.
	Data []float64
}

// NewGrid allocates a grid of the given dimensions with all cells no-data.
func NewGrid(width, height int) Grid {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = math.NaN()
	}
	return Grid{Width: width, Height: height, Data: data}
}

// At returns the value at column c, row r. It panics when out of bounds,
// matching slice indexing semantics.
func (g Grid) At(c, r int) float64 {
	return g.Data[r*g.Width+c]
}

// Set stores v at column c, row r.
func (g *Grid) Set(c, r int, v float64) {
	g.Data[r*g.Width+c] = v
}

// IsNoData reports whether v is the no-data sentinel.
func IsNoData(v float64) bool {
	return math.IsNaN(v)
}

// MarkNoData rewrites every cell equal to the given sentinel as NaN so the
// rest of the pipeline only ever deals with one no-data representation.
// Sources that already use NaN are left untouched.
func (g *Grid) MarkNoData(sentinel float64) {
	if math.IsNaN(sentinel) {
		return
	}
	for i, v := range g.Data {
		if v == sentinel {
			g.Data[i] = math.NaN()
		}
	}
}

// ValidCells counts cells carrying a measurement.
func (g Grid) ValidCells() int {
	n := 0
	for _, v := range g.Data {
		if !IsNoData(v) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy sharing no storage with g.
func (g Grid) Clone() Grid {
	out := g
	out.Data = make([]float64, len(g.Data))
	copy(out.Data, g.Data)
	return out
}
