// Package geoengine backs the conversion pipeline with GDAL through the
// godal binding: reading source grids (ESRI ASCII or any other raster
// driver), writing thresholded Float32 GeoTIFFs with preserved
// georeferencing, tracing surviving regions into shapefile polygon layers,
// and inspecting the result for the validity gate.
//
// Tracing uses GDALPolygonize's default 4-connectivity, so diagonal-only
// neighbours of equal value become separate features.
package geoengine
