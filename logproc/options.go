package logproc

import (
	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/observability"
	"github.com/kbukum/logpipe/validation"
)

// Defaults used by DefaultOptions.
const (
	DefaultMarkerToken = "ERROR"
	DefaultDelimiter   = " - "
	DefaultMinSegments = 3
	DefaultWorkerCount = 4
	DefaultChunkSize   = 100
)

// Options configure a Process run. The mapstructure tags match the keys of
// the command line configuration file.
type Options struct {
	// MarkerToken selects lines containing it. Ignored when Matcher is set.
	MarkerToken string `mapstructure:"marker"`
	Delimiter   string `mapstructure:"delimiter" validate:"required"`
	MinSegments int    `mapstructure:"min_segments" validate:"min=3"`
	WorkerCount int    `mapstructure:"workers" validate:"min=1,max=1024"`
	ChunkSize   int    `mapstructure:"chunk_size" validate:"min=1,max=1000000"`
	// OnTransformError is "skip" or "abort".
	OnTransformError OnError `mapstructure:"on_transform_error" validate:"oneof=skip abort"`
	SourceLayout     string  `mapstructure:"source_layout" validate:"required"`
	TargetLayout     string  `mapstructure:"target_layout" validate:"required"`
	LevelMarker      string  `mapstructure:"level_marker" validate:"required"`
	MaxLineSize      int     `mapstructure:"max_line_size" validate:"min=1"`

	// Matcher replaces the MarkerToken substring match.
	Matcher Matcher `mapstructure:"-" validate:"-"`
	// Transform replaces the timestamp reformatter built from the layouts.
	Transform TransformFunc `mapstructure:"-" validate:"-"`
	// Logger defaults to the "pipeline" and "transform" component loggers.
	Logger *logger.Logger `mapstructure:"-" validate:"-"`
	// Metrics defaults to instruments on the global meter provider.
	Metrics *observability.Metrics `mapstructure:"-" validate:"-"`
}

// DefaultOptions returns options that keep ERROR lines of
// "<YYYY-MM-DD hh:mm:ss> - <level> - <message>" files and rewrite the
// timestamp as DD-MM-YYYY.
func DefaultOptions() Options {
	return Options{
		MarkerToken:      DefaultMarkerToken,
		Delimiter:        DefaultDelimiter,
		MinSegments:      DefaultMinSegments,
		WorkerCount:      DefaultWorkerCount,
		ChunkSize:        DefaultChunkSize,
		OnTransformError: OnErrorSkip,
		SourceLayout:     DefaultSourceLayout,
		TargetLayout:     DefaultTargetLayout,
		LevelMarker:      DefaultLevelMarker,
		MaxLineSize:      DefaultMaxLineSize,
	}
}

// Validate reports every invalid option as one INVALID_CONFIG error.
func (o Options) Validate() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	v := validation.New().
		Custom(o.Matcher != nil || o.MarkerToken != "", "marker", "is required when no matcher is set")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (o Options) matcher() Matcher {
	if o.Matcher != nil {
		return o.Matcher
	}
	return Contains(o.MarkerToken)
}

func (o Options) transform() TransformFunc {
	if o.Transform != nil {
		return o.Transform
	}
	return TimestampReformatter{SourceLayout: o.SourceLayout, TargetLayout: o.TargetLayout}.Transform
}
