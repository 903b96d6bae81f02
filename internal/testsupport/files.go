package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// A minimal but well-formed ESRI ASCII grid; the fake engines in batch
// tests never parse it, they only need a file on disk.
const asciiGrid = `ncols 2
nrows 2
xllcorner 0.0
yllcorner 0.0
cellsize 10.0
NODATA_value -9999
0.05 0.3
0.6 0.95
`

// WriteRaster drops a placeholder .asc raster into dir and returns its path.
func WriteRaster(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(asciiGrid), 0o644); err != nil {
		t.Fatalf("write raster %s: %v", path, err)
	}
	return path
}
