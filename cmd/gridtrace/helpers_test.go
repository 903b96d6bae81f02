package main

import (
	"testing"
	"time"
)

func TestParseThresholdsPreservesOrderAndDuplicates(t *testing.T) {
	values, err := parseThresholds("0.9, 0.1,0.5,0.5")
	if err != nil {
		t.Fatalf("parseThresholds: %v", err)
	}
	want := []float64{0.9, 0.1, 0.5, 0.5}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(values))
	}
	for i, v := range values {
		if v != want[i] {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], v)
		}
	}
}

func TestParseThresholdsRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "0.5,,0.9", "0.5,abc"} {
		if _, err := parseThresholds(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("expected truncated ID, got %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("expected short ID unchanged, got %q", got)
	}
}

func TestFormatTimeZeroValues(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Fatalf("expected dash for zero time, got %q", got)
	}
	if got := formatOptionalTime(nil); got != "-" {
		t.Fatalf("expected dash for nil time, got %q", got)
	}
}
