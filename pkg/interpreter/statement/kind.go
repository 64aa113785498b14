package statement

import "strings"

// Kind is the kind of a source line.
type Kind byte

// This block defines all known statement kinds.
const (
	Unknown Kind = iota
	Blank
	StartMarker
	EndMarker
	Declaration
	Print
	Arithmetic
)

// Markers and anchors of the faka grammar.
const (
	startMarker     = "faka start"
	endMarker       = "faka end"
	declareAnchor   = "variable will be"
	printKeyword    = "print"
	calcKeyword     = "calculate"
	calcAnchor      = "will be"
	assignSeparator = " = "
	terminator      = "."
)

// String implements fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case StartMarker:
		return "start"
	case EndMarker:
		return "end"
	case Declaration:
		return "declaration"
	case Print:
		return "print"
	case Arithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// Trim removes leading and trailing spaces and tabs.
func Trim(line string) string {
	return strings.Trim(line, " \t")
}

// Classify returns the kind of a trimmed line. The first matching rule wins,
// so a line can only be of one kind even if it matches several rules.
func Classify(line string) Kind {
	switch {
	case line == "":
		return Blank
	case line == startMarker:
		return StartMarker
	case line == endMarker:
		return EndMarker
	case strings.Contains(line, declareAnchor):
		return Declaration
	case strings.HasPrefix(line, printKeyword):
		return Print
	case strings.HasPrefix(line, calcKeyword) && strings.Contains(line, calcAnchor):
		return Arithmetic
	default:
		return Unknown
	}
}
