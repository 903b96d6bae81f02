package layers

import "sync"

// Layer describes one polygon layer produced from a (raster, threshold) pair.
type Layer struct {
	// Name labels the layer: "<stem>_Threshold <value>".
	Name string
	// VectorPath is the shapefile holding the traced polygons.
	VectorPath string
	// RasterPath is the source raster the layer was derived from.
	RasterPath string
	// Threshold is the cutoff the layer was traced at.
	Threshold float64
	// FeatureCount is the number of polygon features in the layer.
	FeatureCount int
}

// Collector receives layers that passed the post-trace validity gate. The
// batch runner appends to it; callers own its lifecycle, so a CLI run can
// use an in-memory collector while an embedding application registers
// layers with its own session state.
type Collector interface {
	Add(Layer)
}

// MemoryCollector accumulates layers in memory in arrival order.
type MemoryCollector struct {
	mu     sync.Mutex
	layers []Layer
}

// NewMemoryCollector returns an empty collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Add appends a layer.
func (c *MemoryCollector) Add(layer Layer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = append(c.layers, layer)
}

// Layers returns a snapshot of the collected layers.
func (c *MemoryCollector) Layers() []Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

// Len reports how many layers have been collected.
func (c *MemoryCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layers)
}
