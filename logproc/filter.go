package logproc

import (
	"strings"

	"github.com/kbukum/logpipe/pipeline"
)

// Matcher reports whether a line should be kept. It must be pure.
type Matcher func(line string) bool

// Contains matches lines holding token as a substring.
func Contains(token string) Matcher {
	return func(line string) bool {
		return strings.Contains(line, token)
	}
}

// Filter keeps the lines accepted by m, in input order.
func Filter(p *pipeline.Pipeline[RawLine], m Matcher) *pipeline.Pipeline[RawLine] {
	return pipeline.Filter(p, func(l RawLine) bool { return m(l.Text) })
}
