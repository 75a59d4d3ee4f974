// Package logproc selects, parses and rewrites records of line-oriented log
// files with bounded memory.
//
// A run is a chain of lazy stages built on package pipeline:
//
//	LineSource -> Filter -> ParseRecords -> Transform (parallel, ordered) -> WriteFile
//
// Only Transform runs concurrently. Its output order always equals the
// input order, regardless of the worker count or chunk size, so two runs
// over the same input produce byte-identical output.
//
// # Usage
//
//	opts := logproc.DefaultOptions()
//	opts.WorkerCount = 8
//	sum, err := logproc.Process(ctx, "app.log", "errors.log", opts)
//
// Lines with fewer than Options.MinSegments fields are dropped and counted
// in Summary.Dropped. Records whose timestamp does not match
// Options.SourceLayout are skipped (and counted) or abort the run, depending
// on Options.OnTransformError.
package logproc
