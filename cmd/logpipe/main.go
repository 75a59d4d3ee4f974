// Command logpipe keeps the matching records of a log file, rewrites their
// timestamps in parallel and writes them, in input order, to a new file.
//
// Usage:
//
//	logpipe [flags] <input> <output>
//
// Exit status is 0 on success, 1 when the run fails and 2 for usage or
// configuration errors.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/logpipe/errors"
	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/logproc"
	"github.com/kbukum/logpipe/validation"
	"github.com/kbukum/logpipe/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet()
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <input> <output>\n\nFlags:\n", serviceName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitConfig
	}

	info := version.Get()
	if cf.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, info)
		return errors.ExitOK
	}

	v := validation.New().Custom(fs.NArg() == 2, "args", "expected <input> <output>")
	if appErr := v.Validate(); appErr != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, appErr)
		fs.Usage()
		return errors.ExitConfig
	}
	input, output := fs.Arg(0), fs.Arg(1)

	cfg, err := loadConfig(fs, cf)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitCode(err)
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)
	logger.SetGlobalLogger(log)
	logger.RegisterDefaults(logproc.ComponentPipeline, logproc.ComponentTransform)

	log.Info("starting", logger.MergeFields(info.Fields(), logger.Fields(
		"environment", cfg.Environment,
		logger.FieldPath, input,
		"output", output,
	)))

	if _, err := logproc.Process(ctx, input, output, cfg.Pipeline); err != nil {
		// Process has logged the stage, path and offending line.
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
