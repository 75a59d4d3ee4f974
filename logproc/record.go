package logproc

// RawLine is one input line with surrounding whitespace removed.
type RawLine struct {
	// No is the 1-based line number in the input file.
	No   int
	Text string
}

// LogRecord is a parsed line. Timestamp is still in the source layout.
type LogRecord struct {
	LineNo    int
	Timestamp string
	Level     string
	Message   string
}

// TransformedRecord is a record ready to be written. The level is not kept;
// the sink writes a fixed marker instead.
type TransformedRecord struct {
	LineNo    int
	Timestamp string
	Message   string
}
