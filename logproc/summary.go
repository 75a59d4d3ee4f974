package logproc

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kbukum/logpipe/logger"
	"github.com/kbukum/logpipe/observability"
)

// Summary reports the record counts of one run. On failure the counts
// cover the records handled before the run stopped.
type Summary struct {
	RunID string
	// Read is the number of input lines.
	Read int64
	// Matched is the number of lines accepted by the matcher.
	Matched int64
	// Parsed is the number of matched lines that became records.
	Parsed int64
	// Dropped is the number of matched lines with too few segments.
	Dropped int64
	// Transformed is the number of records the transform emitted.
	Transformed int64
	// Skipped is the number of records the transform rejected.
	Skipped int64
	// Written is the number of output lines.
	Written  int64
	Duration time.Duration
}

// Counts returns the totals in the form recorded by observability.Metrics.
func (s Summary) Counts() observability.RunCounts {
	return observability.RunCounts{
		Read:        s.Read,
		Matched:     s.Matched,
		Parsed:      s.Parsed,
		Dropped:     s.Dropped,
		Transformed: s.Transformed,
		Skipped:     s.Skipped,
		Written:     s.Written,
	}
}

// Fields returns the counts and duration as structured log fields.
func (s Summary) Fields() map[string]interface{} {
	return logger.Fields(
		"read", s.Read,
		"matched", s.Matched,
		"parsed", s.Parsed,
		"dropped", s.Dropped,
		"transformed", s.Transformed,
		"skipped", s.Skipped,
		"written", s.Written,
		logger.FieldDuration, s.Duration.Milliseconds(),
	)
}

func (s Summary) String() string {
	return fmt.Sprintf("read=%d matched=%d parsed=%d dropped=%d transformed=%d skipped=%d written=%d in %s",
		s.Read, s.Matched, s.Parsed, s.Dropped, s.Transformed, s.Skipped, s.Written, s.Duration)
}

// counters are updated from the dispatcher, the workers and the sink.
type counters struct {
	read        atomic.Int64
	matched     atomic.Int64
	parsed      atomic.Int64
	transformed atomic.Int64
	skipped     atomic.Int64
}

func (c *counters) fill(s *Summary) {
	s.Read = c.read.Load()
	s.Matched = c.matched.Load()
	s.Parsed = c.parsed.Load()
	s.Dropped = s.Matched - s.Parsed
	s.Transformed = c.transformed.Load()
	s.Skipped = c.skipped.Load()
}

// count returns a pipeline.Tap callback incrementing n.
func count[T any](n *atomic.Int64) func(context.Context, T) error {
	return func(context.Context, T) error {
		n.Add(1)
		return nil
	}
}
