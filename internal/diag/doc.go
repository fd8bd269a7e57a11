// Package diag defines the diagnostic model shared by the lint passes.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: one of Normal, Hint, Info, Warning, Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages, e.g. qualification hints.
//   - Fixes: optional edits that resolve the finding.
//
// # Emitting diagnostics
//
// Passes talk to a Reporter, never to storage. ReportWarning / ReportError
// return a ReportBuilder that collects notes and fixes before Emit. Use
// BagReporter to collect into a Bag, NopReporter for silent runs and
// DedupReporter to drop repeated findings.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
