// Package logging assembles structured slog loggers and formatting helpers
// used across vocabscan components.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes attr helpers so components tag log lines with
// consistent field keys (component, image, run ID). The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing as the rest of the
// system.
package logging
