package logproc

import (
	"strings"

	"github.com/kbukum/logpipe/pipeline"
)

// recordFields is the number of fields a LogRecord is split into.
const recordFields = 3

// Parser splits lines of the form "<timestamp><d><level><d><message>".
type Parser struct {
	Delimiter string
	// MinSegments is the number of delimiter-separated segments a line
	// needs to become a record. Values below 3 behave as 3.
	MinSegments int
}

// Parse converts line into a record. It reports false for a line with too
// few segments. Only the first two delimiters are split on, so a message
// that contains the delimiter is kept whole.
func (p Parser) Parse(line RawLine) (LogRecord, bool) {
	if p.Delimiter == "" {
		return LogRecord{}, false
	}
	if strings.Count(line.Text, p.Delimiter)+1 < max(p.MinSegments, recordFields) {
		return LogRecord{}, false
	}
	parts := strings.SplitN(line.Text, p.Delimiter, recordFields)
	return LogRecord{
		LineNo:    line.No,
		Timestamp: parts[0],
		Level:     parts[1],
		Message:   parts[2],
	}, true
}

// ParseRecords parses every line with parser and drops the malformed ones.
func ParseRecords(p *pipeline.Pipeline[RawLine], parser Parser) *pipeline.Pipeline[LogRecord] {
	return pipeline.FilterMap(p, parser.Parse)
}
