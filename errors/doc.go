// Package errors provides the error taxonomy of the log pipeline.
// Every fatal failure is an *AppError carrying a machine-readable code,
// the pipeline stage that failed, diagnostic details (path, line number)
// and the underlying cause.
package errors
