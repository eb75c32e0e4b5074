// Package trace provides the structured event log of alignby.
//
// Events describe the run (ScopeDriver), each processed file (ScopeFile) and
// each aligned group (ScopeGroup). They are written as text or NDJSON to a
// file or stderr.
//
// # Usage
//
//	alignby --trace=- --trace-level=detail ./...
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Run boundaries and discovery
//   - LevelDetail: One span per file
//   - LevelDebug: Everything including groups
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, path, parentID)
//	defer span.End("")
package trace
