// Package tracing is a thin wrapper around OpenTelemetry so that the rest of
// the code-base can open and close spans without depending on the upstream
// API surface. Initialisation is opt-in; without it spans are no-ops.
package tracing
