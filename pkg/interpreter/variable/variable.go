/*
Package variable contains typed faka variables and the store binding them to
names.
*/
package variable

import (
	"errors"
	"strconv"

	"github.com/fakalang/faka/pkg/interpreter/fault"
)

// Boolean literals.
const (
	True  = "true"
	False = "false"
)

// Various validation errors.
var (
	ErrInvalidInt  = errors.New("invalid int value")
	ErrInvalidBool = errors.New("invalid boolean value")
)

// Variable is a named value of some kind. Value is the raw string form which
// is always valid for Kind.
type Variable struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// New validates raw against kind and returns a new variable keeping raw as
// it was declared, so `007` stays `007`.
func New(name string, kind Kind, raw string) (Variable, error) {
	switch kind {
	case IntegerT:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return Variable{}, fault.Newf(fault.Type, ErrInvalidInt, "%s", raw)
		}
	case BooleanT:
		if raw != True && raw != False {
			return Variable{}, fault.Newf(fault.Type, ErrInvalidBool, "%s", raw)
		}
	case TextT:
	default:
		return Variable{}, fault.Newf(fault.Type, ErrUnknownType, "%s", kind)
	}
	return Variable{Name: name, Kind: kind, Value: raw}, nil
}

// NewInt returns a new integer variable.
func NewInt(name string, n int64) Variable {
	return Variable{Name: name, Kind: IntegerT, Value: strconv.FormatInt(n, 10)}
}
