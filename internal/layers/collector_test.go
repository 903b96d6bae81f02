package layers_test

import (
	"testing"

	"gridtrace/internal/layers"
)

func TestMemoryCollectorPreservesOrder(t *testing.T) {
	c := layers.NewMemoryCollector()
	c.Add(layers.Layer{Name: "a_Threshold 0.1", Threshold: 0.1})
	c.Add(layers.Layer{Name: "a_Threshold 0.5", Threshold: 0.5})

	got := c.Layers()
	if len(got) != 2 || c.Len() != 2 {
		t.Fatalf("expected 2 layers, got %d", len(got))
	}
	if got[0].Name != "a_Threshold 0.1" || got[1].Name != "a_Threshold 0.5" {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestMemoryCollectorSnapshotIsolated(t *testing.T) {
	c := layers.NewMemoryCollector()
	c.Add(layers.Layer{Name: "a"})
	snap := c.Layers()
	snap[0].Name = "mutated"
	if c.Layers()[0].Name != "a" {
		t.Fatal("snapshot mutation leaked into collector")
	}
}
