// Package logging assembles structured slog loggers and formatting helpers used
// across autosrt.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline stages tag log
// lines with run IDs, stage names, and transcription task IDs. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
