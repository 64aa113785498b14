package variable

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fakalang/faka/pkg/interpreter/fault"
)

// Kind represents the kind of a variable value.
type Kind byte

// This block defines all known value kinds.
const (
	IntegerT Kind = iota + 1
	TextT
	BooleanT
)

// Typewords used in the source code for each kind.
const (
	intType     = "int"
	stringType  = "string"
	booleanType = "boolean"
)

// ErrUnknownType is returned for typewords not naming any kind.
var ErrUnknownType = errors.New("unknown type")

// String implements fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case IntegerT:
		return "Integer"
	case TextT:
		return "Text"
	case BooleanT:
		return "Boolean"
	default:
		return "INVALID"
	}
}

// Typeword returns the source code keyword for the kind.
func (k Kind) Typeword() string {
	switch k {
	case IntegerT:
		return intType
	case TextT:
		return stringType
	case BooleanT:
		return booleanType
	default:
		return ""
	}
}

// IsValid checks if k is a well defined kind.
func (k Kind) IsValid() bool {
	switch k {
	case IntegerT, TextT, BooleanT:
		return true
	default:
		return false
	}
}

// KindFromTypeword returns the kind named by a typeword of the declaration
// statement.
func KindFromTypeword(s string) (Kind, error) {
	switch s {
	case intType:
		return IntegerT, nil
	case stringType:
		return TextT, nil
	case booleanType:
		return BooleanT, nil
	default:
		return 0, fault.Newf(fault.Type, ErrUnknownType, "%s", s)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid kind %d", k)
	}
	return []byte(strconv.Quote(k.Typeword())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (k *Kind) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	kind, err := KindFromTypeword(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
