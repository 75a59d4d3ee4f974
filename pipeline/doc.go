// Package pipeline provides composable, pull-based stream stages.
//
// A Pipeline is a lazy recipe: nothing is read until a terminal (Collect,
// Drain, ForEach) pulls values. Each stage asks the previous one for its next
// value on demand, so a slow consumer naturally slows the producer and memory
// use stays bounded by what the stages themselves hold.
//
// # Operators
//
// Sequential (run on the caller's goroutine):
//
//   - Map: transform each value, failing the stream on error
//   - Filter: keep values matching a predicate
//   - FilterMap: transform and drop in one step
//   - Tap: side effect (counters, logging) without altering the value
//   - Batch: group values into fixed-size slices
//
// Concurrent:
//
//   - OrderedParallel: worker pool over fixed-size chunks whose results are
//     re-sequenced so the output order equals the input order
//
// # Usage
//
//	lines := pipeline.From[string](src)
//	errs := pipeline.Filter(lines, func(s string) bool { return strings.Contains(s, "ERROR") })
//	out := pipeline.OrderedParallel(errs, pipeline.OrderedConfig{Workers: 4, ChunkSize: 100}, reformat)
//	err := pipeline.Drain(out, sink.Write).Run(ctx)
package pipeline
