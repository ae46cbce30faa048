// Package trace records structured events for rsanum commands and prime
// searches.
//
// Enable it from the command line:
//
//	rsanum prime --bits 2048 --jobs 8 --trace=- --trace-level=job
//
// Tracers: Nop (disabled), StreamTracer (immediate text or NDJSON output),
// RingTracer (in-memory buffer dumped when a command fails) and MultiTracer.
//
// Levels are off, error, command, job and debug. Error events (Fail) pass
// every level but off; the other levels admit scopes up to command, job and
// attempt respectively.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeJob, "job:1", parent)
//	defer span.End("")
package trace
