package logproc

import (
	"bufio"
	"context"
	stderrors "errors"
	"os"

	"github.com/kbukum/logpipe/errors"
	"github.com/kbukum/logpipe/pipeline"
)

// DefaultLevelMarker is the level written on every output line.
const DefaultLevelMarker = "ERROR"

// OutputDelimiter separates the fields of an output line.
const OutputDelimiter = " - "

// SinkConfig configures WriteFile.
type SinkConfig struct {
	// LevelMarker defaults to DefaultLevelMarker.
	LevelMarker string
}

// WriteFile creates (or truncates) path and writes every record from p as
// "<timestamp> - <level marker> - <message>", one per line, in the order
// received. It returns the number of lines written.
//
// The file is flushed and closed on every exit path. Their failures are
// joined with the error that ended the run. Output written before a failure
// is left in place.
func WriteFile(ctx context.Context, path string, p *pipeline.Pipeline[TransformedRecord], cfg SinkConfig) (written int64, err error) {
	marker := cfg.LevelMarker
	if marker == "" {
		marker = DefaultLevelMarker
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.IO(errors.StageSink, "create", path, err)
	}
	w := bufio.NewWriter(f)
	writeFailed := false

	defer func() {
		// A failed write leaves the same error sticky in w.
		if !writeFailed {
			if ferr := w.Flush(); ferr != nil {
				err = joinErr(err, errors.IO(errors.StageSink, "flush", path, ferr))
			}
		}
		if cerr := f.Close(); cerr != nil {
			err = joinErr(err, errors.IO(errors.StageSink, "close", path, cerr))
		}
	}()

	err = pipeline.Drain(p, func(_ context.Context, rec TransformedRecord) error {
		w.WriteString(rec.Timestamp)
		w.WriteString(OutputDelimiter)
		w.WriteString(marker)
		w.WriteString(OutputDelimiter)
		w.WriteString(rec.Message)
		if werr := w.WriteByte('\n'); werr != nil {
			writeFailed = true
			return errors.IO(errors.StageSink, "write", path, werr).WithDetail("line", rec.LineNo)
		}
		written++
		return nil
	}).Run(ctx)
	return written, err
}

func joinErr(err, next error) error {
	if err == nil {
		return next
	}
	return stderrors.Join(err, next)
}
