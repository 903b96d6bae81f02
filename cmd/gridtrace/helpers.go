package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseThresholds parses a comma-separated threshold list, preserving order
// and duplicates.
func parseThresholds(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("thresholds: empty value in %q", raw)
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("thresholds: parse %q: %w", part, err)
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("thresholds: no values in %q", raw)
	}
	return values, nil
}

// shortID truncates a run UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func formatOptionalTime(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return formatTime(*ts)
}
