// Package trace provides span tracing for qmllint runs.
//
// # Usage
//
//	qmllint check --trace=- --trace-level=phase ./qml
//
// # Tracers
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: keeps the last events in memory for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only dumps on failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including scope enter/leave inside the lint pass
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "lint", parentID)
//	defer span.End("")
package trace
