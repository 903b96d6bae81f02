package raster_test

import (
	"math"
	"testing"

	"gridtrace/internal/raster"
)

func sampleGrid() raster.Grid {
	g := raster.NewGrid(4, 1)
	g.GeoTransform = [6]float64{100, 10, 0, 200, 0, -10}
	g.Projection = `GEOGCS["WGS 84"]`
	for i, v := range []float64{0.05, 0.3, 0.6, 0.95} {
		g.Set(i, 0, v)
	}
	return g
}

func TestThresholdMasksCellsBelowCutoff(t *testing.T) {
	g := sampleGrid()
	out := raster.Threshold(g, 0.5)

	if !raster.IsNoData(out.At(0, 0)) || !raster.IsNoData(out.At(1, 0)) {
		t.Fatalf("expected cells below cutoff masked, got %v", out.Data)
	}
	if out.At(2, 0) != 0.6 || out.At(3, 0) != 0.95 {
		t.Fatalf("expected surviving cells to keep source values, got %v", out.Data)
	}
	if out.ValidCells() != 2 {
		t.Fatalf("expected 2 surviving cells, got %d", out.ValidCells())
	}
}

func TestThresholdKeepsCellEqualToCutoff(t *testing.T) {
	g := sampleGrid()
	out := raster.Threshold(g, 0.6)
	if raster.IsNoData(out.At(2, 0)) {
		t.Fatal("cell equal to the cutoff must survive")
	}
}

func TestThresholdPreservesGeoreferencing(t *testing.T) {
	g := sampleGrid()
	out := raster.Threshold(g, 0.5)
	if out.GeoTransform != g.GeoTransform {
		t.Fatalf("geotransform changed: %v != %v", out.GeoTransform, g.GeoTransform)
	}
	if out.Projection != g.Projection {
		t.Fatalf("projection changed: %q != %q", out.Projection, g.Projection)
	}
	if out.Width != g.Width || out.Height != g.Height {
		t.Fatalf("dimensions changed: %dx%d", out.Width, out.Height)
	}
}

func TestThresholdLeavesSourceUntouched(t *testing.T) {
	g := sampleGrid()
	_ = raster.Threshold(g, 0.5)
	if g.At(0, 0) != 0.05 {
		t.Fatalf("source grid mutated: %v", g.Data)
	}
}

func TestThresholdIdempotent(t *testing.T) {
	g := sampleGrid()
	once := raster.Threshold(g, 0.5)
	twice := raster.Threshold(once, 0.5)
	for i := range once.Data {
		a, b := once.Data[i], twice.Data[i]
		if raster.IsNoData(a) != raster.IsNoData(b) {
			t.Fatalf("cell %d: no-data disagreement", i)
		}
		if !raster.IsNoData(a) && a != b {
			t.Fatalf("cell %d: %v != %v", i, a, b)
		}
	}
}

func TestThresholdMonotone(t *testing.T) {
	g := sampleGrid()
	low := raster.Threshold(g, 0.2)
	high := raster.Threshold(g, 0.7)
	for i := range g.Data {
		if !raster.IsNoData(high.Data[i]) && raster.IsNoData(low.Data[i]) {
			t.Fatalf("cell %d survives the higher cutoff but not the lower one", i)
		}
	}
	if high.ValidCells() > low.ValidCells() {
		t.Fatalf("higher cutoff kept more cells: %d > %d", high.ValidCells(), low.ValidCells())
	}
}

func TestThresholdKeepsExistingNoData(t *testing.T) {
	g := sampleGrid()
	g.Set(1, 0, math.NaN())
	out := raster.Threshold(g, 0.0)
	if !raster.IsNoData(out.At(1, 0)) {
		t.Fatal("expected source no-data cell to stay no-data at any cutoff")
	}
}

func TestMarkNoDataRewritesSentinel(t *testing.T) {
	g := raster.NewGrid(3, 1)
	g.Set(0, 0, -9999)
	g.Set(1, 0, 0.4)
	g.Set(2, 0, -9999)
	g.MarkNoData(-9999)
	if g.ValidCells() != 1 {
		t.Fatalf("expected one valid cell after sentinel rewrite, got %d", g.ValidCells())
	}
	if g.At(1, 0) != 0.4 {
		t.Fatalf("valid cell value changed: %v", g.At(1, 0))
	}
}
