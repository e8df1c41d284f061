// Package utils provides shared low-level helpers used throughout the
// prompt-assistant internals. It covers JSON-over-HTTP request helpers for
// synchronous communication with AI provider APIs and generic string
// utilities for log-safe output.
//
// Key entry points: [DoPostSync] and [DoGetSync] for synchronous JSON
// round-trips, and [TruncateString] for bounding raw provider output in
// errors and logs.
package utils
