package logproc

import (
	"context"
	"time"

	"github.com/kbukum/logpipe/errors"
	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/pipeline"
)

// Default timestamp layouts, in Go reference-time notation.
const (
	DefaultSourceLayout = "2006-01-02 15:04:05"
	DefaultTargetLayout = "02-01-2006 15:04:05"
)

// OnError selects what Transform does with a record it cannot transform.
type OnError string

const (
	// OnErrorSkip drops the record, logs a warning and keeps going.
	OnErrorSkip OnError = "skip"
	// OnErrorAbort stops the run with the first failure.
	OnErrorAbort OnError = "abort"
)

// TransformFunc converts one record. It is called from several goroutines
// at once and must not share mutable state.
type TransformFunc func(LogRecord) (TransformedRecord, error)

// TimestampReformatter rewrites the record timestamp from SourceLayout to
// TargetLayout and passes the message through unchanged.
type TimestampReformatter struct {
	SourceLayout string
	TargetLayout string
}

// DefaultReformatter converts "2024-01-31 10:00:00" into "31-01-2024 10:00:00".
func DefaultReformatter() TimestampReformatter {
	return TimestampReformatter{SourceLayout: DefaultSourceLayout, TargetLayout: DefaultTargetLayout}
}

// Transform implements TransformFunc. A timestamp that does not match
// SourceLayout yields a FORMAT_ERROR carrying the line number.
func (r TimestampReformatter) Transform(rec LogRecord) (TransformedRecord, error) {
	ts, err := time.Parse(r.SourceLayout, rec.Timestamp)
	if err != nil {
		return TransformedRecord{}, errors.Format("timestamp", rec.Timestamp, r.SourceLayout, err).
			WithStage(errors.StageTransform).
			WithDetail("line", rec.LineNo)
	}
	return TransformedRecord{
		LineNo:    rec.LineNo,
		Timestamp: ts.Format(r.TargetLayout),
		Message:   rec.Message,
	}, nil
}

// TransformConfig configures the parallel transform stage.
type TransformConfig struct {
	Workers   int
	ChunkSize int
	// Window caps the chunks in flight. Zero means 2 × Workers.
	Window  int
	OnError OnError
	// Fn defaults to DefaultReformatter().Transform.
	Fn TransformFunc
	// OnSkip is called, possibly concurrently, for every skipped record.
	OnSkip func(LogRecord, error)
	Logger *logger.Logger
}

// Transform applies cfg.Fn to every record using cfg.Workers goroutines.
// Output order equals input order. Failures follow cfg.OnError; the empty
// policy behaves as OnErrorSkip.
func Transform(p *pipeline.Pipeline[LogRecord], cfg TransformConfig) *pipeline.Pipeline[TransformedRecord] {
	fn := cfg.Fn
	if fn == nil {
		fn = DefaultReformatter().Transform
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get(ComponentTransform)
	}

	ordered := pipeline.OrderedConfig{Workers: cfg.Workers, ChunkSize: cfg.ChunkSize, Window: cfg.Window}
	return pipeline.OrderedParallel(p, ordered, func(_ context.Context, rec LogRecord) (TransformedRecord, error) {
		out, err := fn(rec)
		if err == nil {
			return out, nil
		}
		appErr := asTransformError(rec, err)
		if cfg.OnError == OnErrorAbort {
			return TransformedRecord{}, appErr
		}
		log.Warn("record skipped", logger.Fields(
			logger.FieldLine, rec.LineNo,
			logger.FieldValue, rec.Timestamp,
			logger.FieldError, appErr.Error(),
		))
		if cfg.OnSkip != nil {
			cfg.OnSkip(rec, appErr)
		}
		return TransformedRecord{}, pipeline.ErrSkip
	})
}

// asTransformError makes sure a failure from a custom TransformFunc still
// reports its stage and line.
func asTransformError(rec LogRecord, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		if appErr.Stage == "" {
			appErr.Stage = errors.StageTransform
		}
		if _, ok := appErr.Details["line"]; !ok {
			appErr.WithDetail("line", rec.LineNo)
		}
		return appErr
	}
	return errors.New(errors.ErrCodeFormat, "cannot transform record").
		WithStage(errors.StageTransform).
		WithDetail("line", rec.LineNo).
		WithCause(err)
}
