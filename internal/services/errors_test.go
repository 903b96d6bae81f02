package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gridtrace/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("boom")
	err := services.Wrap(services.ErrExternalTool, "mask", "create threshold raster", "input.asc", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool classification, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	for _, fragment := range []string{"mask", "create threshold raster", "input.asc"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error message %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "trace", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default ErrExternalTool marker, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}
