package logproc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/logpipe/errors"
	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/observability"
	"github.com/kbukum/logpipe/pipeline"
)

// Component names of the loggers Process uses when Options.Logger is nil.
// They are looked up in the logger registry.
const (
	ComponentPipeline  = "pipeline"
	ComponentTransform = "transform"
)

const meterName = "github.com/kbukum/logpipe/logproc"

// Process reads inputPath, keeps the matching and well-formed lines,
// transforms them in parallel and writes the result to outputPath.
//
// It returns the run Summary together with the first fatal error. Options
// are validated before any file is touched. The output file is not removed
// when the run fails.
func Process(ctx context.Context, inputPath, outputPath string, opts Options) (sum Summary, err error) {
	start := time.Now()
	sum.RunID = uuid.NewString()

	log := componentLogger(opts.Logger, ComponentPipeline).
		WithFields(logger.Fields(logger.FieldRunID, sum.RunID))

	if err := opts.Validate(); err != nil {
		log.Error("invalid options", logger.ErrorFields("validate", err))
		return sum, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanProcess)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, sum.RunID)
	observability.SetSpanAttribute(ctx, observability.AttrInputPath, inputPath)
	observability.SetSpanAttribute(ctx, observability.AttrOutputPath, outputPath)
	observability.SetSpanAttribute(ctx, observability.AttrWorkers, opts.WorkerCount)
	observability.SetSpanAttribute(ctx, observability.AttrChunkSize, opts.ChunkSize)

	var c counters
	defer func() {
		c.fill(&sum)
		sum.Duration = time.Since(start)
		if err != nil && !errors.IsAppError(err) {
			err = errors.Normalize(err)
		}
		finish(ctx, log, opts.Metrics, sum, err)
	}()

	log.Debug("pipeline started", logger.Fields(
		logger.FieldPath, inputPath,
		"output", outputPath,
		logger.FieldWorkers, opts.WorkerCount,
		logger.FieldChunkSize, opts.ChunkSize,
	))

	src, err := OpenLineSource(inputPath, opts.MaxLineSize)
	if err != nil {
		return sum, err
	}
	// Drain closes the source on the normal path; this covers a sink that
	// fails before pulling anything.
	defer src.Close()

	lines := pipeline.Tap(pipeline.From[RawLine](src), count[RawLine](&c.read))
	matched := pipeline.Tap(Filter(lines, opts.matcher()), count[RawLine](&c.matched))
	records := pipeline.Tap(
		ParseRecords(matched, Parser{Delimiter: opts.Delimiter, MinSegments: opts.MinSegments}),
		count[LogRecord](&c.parsed),
	)
	transformed := pipeline.Tap(Transform(records, TransformConfig{
		Workers:   opts.WorkerCount,
		ChunkSize: opts.ChunkSize,
		OnError:   opts.OnTransformError,
		Fn:        opts.transform(),
		OnSkip:    func(LogRecord, error) { c.skipped.Add(1) },
		Logger:    componentLogger(opts.Logger, ComponentTransform).WithFields(logger.Fields(logger.FieldRunID, sum.RunID)),
	}), count[TransformedRecord](&c.transformed))

	sum.Written, err = WriteFile(ctx, outputPath, transformed, SinkConfig{LevelMarker: opts.LevelMarker})
	return sum, err
}

// finish logs the outcome and records it on the span and the metrics.
func finish(ctx context.Context, log *logger.Logger, metrics *observability.Metrics, sum Summary, err error) {
	if metrics == nil {
		m, merr := observability.NewMetrics(observability.Meter(meterName))
		if merr != nil {
			log.Warn("metrics unavailable", logger.ErrorFields("metrics", merr))
		}
		metrics = m
	}

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusFailed
	}
	observability.SetSpanCounts(ctx, sum.Counts())
	if metrics != nil {
		metrics.RecordRun(ctx, status, sum.Counts(), sum.Duration)
	}

	if err == nil {
		log.Info("pipeline completed", sum.Fields())
		return
	}

	observability.SetSpanError(ctx, err)
	fields := logger.MergeWithError(sum.Fields(), err)
	if appErr, ok := errors.AsAppError(err); ok {
		fields[logger.FieldStage] = appErr.Stage
		if line, ok := appErr.Details["line"]; ok {
			fields[logger.FieldLine] = line
		}
		if metrics != nil {
			metrics.RecordError(ctx, string(appErr.Code), appErr.Stage)
		}
	}
	log.Error("pipeline failed", fields)
}

// componentLogger tags base, or the registered logger, with a component name.
func componentLogger(base *logger.Logger, component string) *logger.Logger {
	if base == nil {
		return logger.Get(component)
	}
	return base.WithComponent(component)
}
