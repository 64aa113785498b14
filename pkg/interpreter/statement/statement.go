/*
Package statement implements recognition and parsing of faka source lines.

Classify decides the kind of a trimmed line, Parse turns it into one of the
statement variants carrying already extracted fields:

	faka start                                  -> StartStmt
	faka end                                    -> EndStmt
	x variable will be int = 5.                 -> DeclareStmt{x, int, 5}
	print x.                                    -> PrintStmt{x}
	calculate r will be int = a + b.            -> CalculateStmt{r, int, a + b}
*/
package statement

import (
	"errors"
	"strings"

	"github.com/fakalang/faka/pkg/interpreter/fault"
)

// Various parsing errors.
var (
	ErrUnknownStatement   = errors.New("unknown statement")
	ErrInvalidDeclaration = errors.New("invalid variable declaration")
	ErrInvalidPrint       = errors.New("invalid print statement")
	ErrInvalidArithmetic  = errors.New("invalid arithmetic statement")
)

// Statement is a parsed line of a faka program.
type Statement interface {
	Kind() Kind
	String() string
}

type (
	// BlankStmt is an empty line.
	BlankStmt struct{}

	// StartStmt opens the program block.
	StartStmt struct{}

	// EndStmt closes the program block.
	EndStmt struct{}

	// DeclareStmt binds a value of the given type to a name.
	DeclareStmt struct {
		Name  string
		Type  string
		Value string
	}

	// PrintStmt prints the value bound to a name.
	PrintStmt struct {
		Name string
	}

	// CalculateStmt binds the result of a two-operand expression to a name.
	CalculateStmt struct {
		Result string
		Type   string
		Expr   string
	}
)

// Kind implements the Statement interface.
func (BlankStmt) Kind() Kind { return Blank }

// Kind implements the Statement interface.
func (StartStmt) Kind() Kind { return StartMarker }

// Kind implements the Statement interface.
func (EndStmt) Kind() Kind { return EndMarker }

// Kind implements the Statement interface.
func (DeclareStmt) Kind() Kind { return Declaration }

// Kind implements the Statement interface.
func (PrintStmt) Kind() Kind { return Print }

// Kind implements the Statement interface.
func (CalculateStmt) Kind() Kind { return Arithmetic }

func (BlankStmt) String() string { return "" }

func (StartStmt) String() string { return startMarker }

func (EndStmt) String() string { return endMarker }

func (s DeclareStmt) String() string {
	return s.Name + " " + declareAnchor + " " + s.Type + assignSeparator + s.Value + terminator
}

func (s PrintStmt) String() string {
	return printKeyword + " " + s.Name + terminator
}

func (s CalculateStmt) String() string {
	return calcKeyword + " " + s.Result + " " + calcAnchor + " " + s.Type + assignSeparator + s.Expr + terminator
}

// Parse classifies a trimmed line and extracts its fields.
func Parse(line string) (Statement, error) {
	switch Classify(line) {
	case Blank:
		return BlankStmt{}, nil
	case StartMarker:
		return StartStmt{}, nil
	case EndMarker:
		return EndStmt{}, nil
	case Declaration:
		return parseDeclaration(line)
	case Print:
		return parsePrint(line)
	case Arithmetic:
		return parseArithmetic(line)
	default:
		return nil, fault.Newf(fault.Parse, ErrUnknownStatement, "%s", line)
	}
}

// parseDeclaration parses `NAME variable will be TYPE = VALUE.`.
func parseDeclaration(line string) (Statement, error) {
	fail := fault.Newf(fault.Parse, ErrInvalidDeclaration, "%s", line)
	body, ok := trimTerminator(line)
	if !ok {
		return nil, fail
	}
	name, rest, ok := strings.Cut(body, " "+declareAnchor+" ")
	if !ok || !isIdent(name) {
		return nil, fail
	}
	typ, value, ok := strings.Cut(rest, assignSeparator)
	if !ok || !isIdent(typ) || value == "" {
		return nil, fail
	}
	return DeclareStmt{Name: name, Type: typ, Value: value}, nil
}

// parsePrint parses `print NAME.`.
func parsePrint(line string) (Statement, error) {
	body, ok := trimTerminator(line)
	if !ok || !strings.HasPrefix(body, printKeyword+" ") {
		return nil, fault.Newf(fault.Parse, ErrInvalidPrint, "%s", line)
	}
	name := body[len(printKeyword)+1:]
	if !isIdent(name) {
		return nil, fault.Newf(fault.Parse, ErrInvalidPrint, "%s", line)
	}
	return PrintStmt{Name: name}, nil
}

// parseArithmetic parses `calculate NAME will be TYPE = EXPRESSION.`.
func parseArithmetic(line string) (Statement, error) {
	fail := fault.Newf(fault.Parse, ErrInvalidArithmetic, "%s", line)
	body, ok := trimTerminator(line)
	if !ok || !strings.HasPrefix(body, calcKeyword+" ") {
		return nil, fail
	}
	name, rest, ok := strings.Cut(body[len(calcKeyword)+1:], " "+calcAnchor+" ")
	if !ok || !isIdent(name) {
		return nil, fail
	}
	typ, expr, ok := strings.Cut(rest, assignSeparator)
	if !ok || !isIdent(typ) || expr == "" {
		return nil, fail
	}
	return CalculateStmt{Result: name, Type: typ, Expr: expr}, nil
}

func trimTerminator(line string) (string, bool) {
	if !strings.HasSuffix(line, terminator) {
		return line, false
	}
	return line[:len(line)-len(terminator)], true
}

// isIdent checks that s is a non-empty sequence of ASCII letters, digits and
// underscores.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
