// Package raster models a single-band grid in memory and implements the
// threshold mask that drives the conversion pipeline.
//
// The Grid type carries cell values together with the geotransform and
// projection so masked outputs can be written with identical georeferencing
// to their source. No-data is normalized to NaN on the way in; the GDAL
// engine converts back to the output format's sentinel on the way out.
package raster
