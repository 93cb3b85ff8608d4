package svdrp

import "strings"

// Response collects the lines of one command cycle in arrival order.
// An empty Response means the device produced no data.
type Response struct {
	lines []ResponseLine
	raw   []string
	err   error
}

func (r *Response) add(raw string) {
	r.raw = append(r.raw, raw)
	r.lines = append(r.lines, ParseLine(raw))
}

// Lines returns the parsed lines in arrival order.
func (r *Response) Lines() []ResponseLine {
	if r == nil {
		return nil
	}
	return r.lines
}

// Len returns the number of lines received.
func (r *Response) Len() int {
	if r == nil {
		return 0
	}
	return len(r.lines)
}

// Empty reports whether nothing was received.
func (r *Response) Empty() bool { return r.Len() == 0 }

// First returns the first line, usually the 220 greeting.
func (r *Response) First() (ResponseLine, bool) { return r.FromEnd(r.Len()) }

// Last returns the last line, usually the 221 quit acknowledgment.
func (r *Response) Last() (ResponseLine, bool) { return r.FromEnd(1) }

// FromEnd returns the n-th line counted from the end (1 = last).
func (r *Response) FromEnd(n int) (ResponseLine, bool) {
	if n < 1 || n > r.Len() {
		return ResponseLine{}, false
	}
	return r.lines[len(r.lines)-n], true
}

// Text returns the raw reply lines joined by newlines.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.raw, "\n")
}

// Err is the connect or read failure recorded for diagnostics, if any.
// Decoders never look at it.
func (r *Response) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}
