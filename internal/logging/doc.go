// Package logging constructs the slog loggers used across gridtrace.
//
// Two handlers are provided: a compact console handler for interactive runs
// (colorized only when the stream is a terminal) and a JSON handler for
// machine consumption. NewFromConfig fans output to stdout and to a log
// file under the configured log directory.
package logging
