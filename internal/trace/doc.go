// Package trace provides a tracing subsystem for cstyle.
//
// The trace package tracks the run, producer jobs, per-file analysis and,
// at debug level, per-policy dispatch to help diagnose slow or hanging checks.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	cstyle check --trace=- --trace-level=phase src/
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: discards everything when tracing is off
//   - StreamTracer: writes each event as it happens (file or stderr)
//   - RingTracer: keeps the last events in memory for dumps
//
// --trace-mode=both feeds a stream and a ring at once.
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Run and per-file analysis boundaries
//   - LevelDetail: Producer jobs
//   - LevelDebug: Everything including policy dispatch per tree
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeRun: Top-level CLI operations
//   - ScopeFile: Analysis of one file by the policy engine
//   - ScopeProducer: One tree producer job
//   - ScopePolicy: One policy over one tree
//
// # Context Propagation
//
// Tracers are propagated through the check pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "analyze", parentID)
//	defer span.End("")
package trace
