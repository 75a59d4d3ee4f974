package main

import (
	"github.com/spf13/pflag"

	"github.com/kbukum/logpipe/config"
	"github.com/kbukum/logpipe/logproc"
)

const (
	serviceName = "logpipe"
	envPrefix   = "LOGPIPE"
)

// appConfig is the merged result of defaults, config file, environment
// and flags.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline             logproc.Options `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills values the sources left empty.
func (c *appConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
}

// Validate checks the service fields and the pipeline options.
func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Validate()
}

// flagKeys maps flags whose config key is not the flag name with
// underscores.
var flagKeys = map[string]string{
	"config":     "config_file",
	"version":    "show_version",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func defaults() map[string]any {
	d := logproc.DefaultOptions()
	return map[string]any{
		"name":               serviceName,
		"marker":             d.MarkerToken,
		"delimiter":          d.Delimiter,
		"min_segments":       d.MinSegments,
		"workers":            d.WorkerCount,
		"chunk_size":         d.ChunkSize,
		"on_transform_error": string(d.OnTransformError),
		"source_layout":      d.SourceLayout,
		"target_layout":      d.TargetLayout,
		"level_marker":       d.LevelMarker,
		"max_line_size":      d.MaxLineSize,
	}
}

// cliFlags are the flags read before the configuration is loaded.
type cliFlags struct {
	configFile  string
	envFile     string
	showVersion bool
}

func newFlagSet() (*pflag.FlagSet, *cliFlags) {
	d := logproc.DefaultOptions()
	cf := &cliFlags{}

	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVar(&cf.configFile, "config", "", "YAML config file (default: ./config.yml or ./cmd/logpipe/config.yml when present)")
	fs.StringVar(&cf.envFile, "env-file", "", ".env file with LOGPIPE_* overrides")
	fs.String("marker", d.MarkerToken, "keep lines containing this token")
	fs.String("delimiter", d.Delimiter, "field delimiter of input lines")
	fs.Int("min-segments", d.MinSegments, "minimum delimiter-separated segments of a record")
	fs.Int("workers", d.WorkerCount, "transform worker goroutines")
	fs.Int("chunk-size", d.ChunkSize, "records handed to a worker at once")
	fs.String("on-transform-error", string(d.OnTransformError), "skip or abort on a bad timestamp")
	fs.String("source-layout", d.SourceLayout, "input timestamp layout (Go reference time)")
	fs.String("target-layout", d.TargetLayout, "output timestamp layout (Go reference time)")
	fs.String("level-marker", d.LevelMarker, "level written on every output line")
	fs.Int("max-line-size", d.MaxLineSize, "longest accepted input line in bytes")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error (default info)")
	fs.String("log-format", "", "log format: console or json (default console)")
	fs.BoolVar(&cf.showVersion, "version", false, "print version information")
	return fs, cf
}

func loadConfig(fs *pflag.FlagSet, cf *cliFlags) (*appConfig, error) {
	var cfg appConfig
	opts := []config.LoaderOption{
		config.WithDefaults(defaults()),
		config.WithEnvPrefix(envPrefix),
		config.WithFlags(fs, flagKeys),
	}
	if cf.configFile != "" {
		opts = append(opts, config.WithConfigFile(cf.configFile))
	}
	if cf.envFile != "" {
		opts = append(opts, config.WithEnvFile(cf.envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
