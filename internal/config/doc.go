// Package config loads, normalizes, and validates gridtrace configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML from ~/.config/gridtrace/config.toml or a
// project-local gridtrace.toml. The Config type centralizes every knob the
// CLI needs: input/output directories, the ordered threshold list, raster
// enumeration extensions, the polygon attribute field, ledger persistence,
// and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extensions, and clear validation errors.
package config
