// Package logger provides structured logging for logpipe using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so they never interleave with pipeline output written to stdout.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("transform")
//	log.Warn("record skipped", logger.Fields(logger.FieldLine, 42))
package logger
