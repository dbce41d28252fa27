// Package logging assembles the structured slog loggers and formatting
// helpers used across prism.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and provides a no-op logger for tests and wiring code that cannot fail.
// The ProgressSampler here backs the log-based progress backend, suppressing
// repetitive progress lines while preserving signal when actions or
// percentage buckets change.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the toolkit.
package logging
