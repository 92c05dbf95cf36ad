// Package diag defines the diagnostic model shared by the policy engine,
// the fix engine and the output formatters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – disabled, advice, info, warning or error (severity.go).
//     Disabled diagnostics are never reported.
//   - Code – composite string code "<PolicyCode><SubCode>" such as BRACE1;
//     engine-level checks use a bare code (BOM).
//   - Message – human oriented text from the owning policy.
//   - Primary span – the byte range of the original text in the file as
//     stored, so BOM bookkeeping is already applied.
//   - Notes – optional secondary spans/messages.
//   - Fixes – optional Fix records.
//
// # Fix suggestions
//
// A style violation proposes an original -> replacement pair. It is stored as
// a Fix with a single TextEdit whose OldText is the original text and whose
// NewText is the replacement; Diagnostic.Replacement returns the pair back.
// OldText doubles as a guard: internal/fix refuses to apply an edit when the
// file no longer holds the expected text.
//
// # Emitting diagnostics
//
// Policies report through a Reporter. ReportBuilder chains WithNote /
// WithReplacement before Emit. BagReporter collects into a Bag, which keeps
// emission order and performs no deduplication or merging.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/json/sarif formats.
//   - internal/fix: applies the edits to source files.
//   - internal/driver: collects a bag per file and hands it to the CLI.
package diag
