package geoengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"gridtrace/internal/config"
	"gridtrace/internal/raster"
)

var registerOnce sync.Once

// register loads every GDAL driver exactly once per process.
func register() {
	registerOnce.Do(godal.RegisterAll)
}

// Engine implements the pipeline's masking, tracing, and inspection
// capabilities on top of GDAL via the godal binding.
type Engine struct {
	fieldName string
}

// New builds an engine using the configured polygon attribute field.
func New(cfg *config.Config) *Engine {
	fieldName := "DN"
	if cfg != nil && strings.TrimSpace(cfg.Vector.FieldName) != "" {
		fieldName = cfg.Vector.FieldName
	}
	return &Engine{fieldName: fieldName}
}

// ReadGrid loads band 1 of a raster into memory, normalizing the file's
// no-data sentinel to NaN.
func (e *Engine) ReadGrid(path string) (raster.Grid, error) {
	register()

	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return raster.Grid{}, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer ds.Close()

	return readGrid(ds, path)
}

func readGrid(ds *godal.Dataset, path string) (raster.Grid, error) {
	structure := ds.Structure()
	if structure.NBands < 1 {
		return raster.Grid{}, fmt.Errorf("raster %s has no bands", path)
	}
	if structure.SizeX <= 0 || structure.SizeY <= 0 {
		return raster.Grid{}, fmt.Errorf("raster %s has empty dimensions", path)
	}

	band := ds.Bands()[0]
	data := make([]float64, structure.SizeX*structure.SizeY)
	if err := band.Read(0, 0, data, structure.SizeX, structure.SizeY); err != nil {
		return raster.Grid{}, fmt.Errorf("read band 1 of %s: %w", path, err)
	}

	grid := raster.Grid{
		Width:      structure.SizeX,
		Height:     structure.SizeY,
		Projection: ds.Projection(),
		Data:       data,
	}
	if gt, err := ds.GeoTransform(); err == nil {
		grid.GeoTransform = gt
	}
	if sentinel, ok := band.NoData(); ok {
		grid.MarkNoData(sentinel)
	}
	return grid, nil
}

// CreateThresholdRaster writes dst as a Float32 GeoTIFF identical to src in
// dimensions, geotransform, and projection, with every cell below the
// threshold masked to no-data (NaN).
func (e *Engine) CreateThresholdRaster(ctx context.Context, src, dst string, threshold float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	register()

	grid, err := e.ReadGrid(src)
	if err != nil {
		return err
	}
	masked := raster.Threshold(grid, threshold)

	out, err := godal.Create(godal.GTiff, dst, 1, godal.Float32, masked.Width, masked.Height)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if err := writeGrid(out, masked); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}

func writeGrid(ds *godal.Dataset, grid raster.Grid) error {
	if err := ds.SetGeoTransform(grid.GeoTransform); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}
	if grid.Projection != "" {
		if err := ds.SetProjection(grid.Projection); err != nil {
			return fmt.Errorf("set projection: %w", err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(math.NaN()); err != nil {
		return fmt.Errorf("set nodata: %w", err)
	}

	values := make([]float32, len(grid.Data))
	for i, v := range grid.Data {
		values[i] = float32(v)
	}
	if err := band.Write(0, 0, values, grid.Width, grid.Height); err != nil {
		return fmt.Errorf("write band: %w", err)
	}
	return nil
}

// Polygonize traces maximal 4-connected regions of equal, non-no-data cell
// value in band 1 of the raster into an ESRI Shapefile layer. Each feature
// carries the region's integer cell value in the configured attribute
// field. Equal-valued but disjoint regions stay separate features;
// 8-connectivity is deliberately not enabled, matching GDALPolygonize's
// default.
func (e *Engine) Polygonize(ctx context.Context, rasterPath, vectorPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	register()

	ds, err := godal.Open(rasterPath, godal.RasterOnly())
	if err != nil {
		return fmt.Errorf("open raster %s: %w", rasterPath, err)
	}
	defer ds.Close()

	if ds.Structure().NBands < 1 {
		return fmt.Errorf("raster %s has no bands", rasterPath)
	}
	band := ds.Bands()[0]

	vds, err := godal.CreateVector(godal.Shapefile, vectorPath)
	if err != nil {
		return fmt.Errorf("create vector %s: %w", vectorPath, err)
	}

	layerName := strings.TrimSuffix(filepath.Base(vectorPath), filepath.Ext(vectorPath))
	layer, err := vds.CreateLayer(layerName, ds.SpatialRef(), godal.GTPolygon,
		godal.NewFieldDefinition(e.fieldName, godal.FTInt))
	if err != nil {
		_ = vds.Close()
		return fmt.Errorf("create layer %s: %w", layerName, err)
	}

	if err := band.Polygonize(layer, godal.PixelValueFieldIndex(0)); err != nil {
		_ = vds.Close()
		return fmt.Errorf("polygonize %s: %w", rasterPath, err)
	}
	if err := vds.Close(); err != nil {
		return fmt.Errorf("close vector %s: %w", vectorPath, err)
	}
	return nil
}

// InspectVector opens a vector dataset and returns the feature count of its
// first layer. An error means the dataset failed the validity gate and its
// layer must not be collected.
func (e *Engine) InspectVector(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	register()

	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return 0, fmt.Errorf("open vector %s: %w", path, err)
	}
	defer ds.Close()

	vectorLayers := ds.Layers()
	if len(vectorLayers) == 0 {
		return 0, errors.New("vector dataset has no layers")
	}
	count, err := vectorLayers[0].FeatureCount()
	if err != nil {
		return 0, fmt.Errorf("count features of %s: %w", path, err)
	}
	return count, nil
}
