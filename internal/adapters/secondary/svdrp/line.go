package svdrp

import "regexp"

// SVDRP reply codes the decoders care about.
const (
	CodeSuccess = "250"
	CodeEPGData = "215"

	// codeUnparsed is reported for lines that carry no recognizable code.
	codeUnparsed = "221"
)

// ResponseLine is one parsed SVDRP reply line:
// <3-digit code><'-' | ' ' | tag><payload>.
type ResponseLine struct {
	Code string
	// Separator is "-" or " " for plain continuation/final lines, or the
	// field tag / numeric position when the payload is structured
	// (e.g. "C", "E", "T", "e", "c" in LSTE, the channel number in LSTC).
	Separator string
	Value     string
}

var (
	lineTagged   = regexp.MustCompile(`^(\d{3})[-\s]([0-9]+|[A-Za-z])\s(.*)$`)
	lineTagOnly  = regexp.MustCompile(`^(\d{3})[-\s]([0-9]+|[A-Za-z])()$`)
	lineFallback = regexp.MustCompile(`^(\d{3})(.)(.*)`)
)

// ParseLine parses a single raw reply line. It never fails: a line that
// does not start with a reply code yields {"221", "", ""}.
func ParseLine(line string) ResponseLine {
	for _, re := range []*regexp.Regexp{lineTagged, lineTagOnly, lineFallback} {
		if m := re.FindStringSubmatch(line); m != nil {
			return ResponseLine{Code: m[1], Separator: m[2], Value: m[3]}
		}
	}
	return ResponseLine{Code: codeUnparsed}
}
