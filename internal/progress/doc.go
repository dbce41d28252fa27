// Package progress implements the task progress indicator used by long
// running operations such as remote fetches and multi-frame conversions.
//
// An Indicator is a small state machine (pending, running, finished, failed)
// that composes human-readable progress strings and forwards them to a
// pluggable Backend. Rendering is rate-limited to one forwarded update per
// 100ms unless forced. Backends include an in-place rewriting terminal
// renderer, a structured-log renderer, and a silent default.
package progress
