// Package trace records what the indexer is doing: sessions, update
// batches and the per-file work inside them.
//
//	vlxref index --trace=- --trace-level=detail rtl/
//	vlxref watch --trace-mode=ring --trace-heartbeat=5s rtl/
//
// A stream tracer writes events as they happen (text, ndjson or a
// chrome://tracing document); a ring keeps the tail in memory and is
// dumped when the command exits. Levels pick scopes: phase admits session
// and batch events, detail adds files, debug adds single symbols.
//
// The tracer and the current span travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeBatch, "merge")
//	defer span.End("")
package trace
