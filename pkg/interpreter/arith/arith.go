/*
Package arith evaluates faka arithmetic expressions. An expression is exactly
two identifiers joined by `+` or `-`, operands are always names looked up in
the variable store, never literals.
*/
package arith

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/fakalang/faka/pkg/interpreter/variable"
)

// Various evaluation errors.
var (
	ErrNoOperator = errors.New("no arithmetic operator found")
	ErrNonInteger = errors.New("cannot perform arithmetic on non-integer values")
)

// Lookup provides raw values of variables by name.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// Operator is a binary arithmetic operator.
type Operator byte

// Supported operators.
const (
	Add Operator = '+'
	Sub Operator = '-'
)

// Expr is a split expression.
type Expr struct {
	Left  string
	Op    Operator
	Right string
}

// Split splits expr at the first operator character. The operator is chosen by
// its position only, `a - b + c` is split at `-`.
func Split(expr string) (Expr, error) {
	pos := strings.IndexAny(expr, string([]byte{byte(Add), byte(Sub)}))
	if pos < 0 {
		return Expr{}, fault.New(fault.Operator, ErrNoOperator)
	}
	return Expr{
		Left:  strings.Trim(expr[:pos], " \t"),
		Op:    Operator(expr[pos]),
		Right: strings.Trim(expr[pos+1:], " \t"),
	}, nil
}

// Evaluate splits expr and computes it using vars to resolve operands.
// Overflow wraps around.
func Evaluate(expr string, vars Lookup) (int64, error) {
	e, err := Split(expr)
	if err != nil {
		return 0, err
	}
	lraw, err := lookup(e.Left, vars)
	if err != nil {
		return 0, err
	}
	rraw, err := lookup(e.Right, vars)
	if err != nil {
		return 0, err
	}
	left, lerr := strconv.ParseInt(lraw, 10, 64)
	right, rerr := strconv.ParseInt(rraw, 10, 64)
	if lerr != nil || rerr != nil {
		return 0, fault.New(fault.Type, ErrNonInteger)
	}
	if e.Op == Add {
		return left + right, nil
	}
	return left - right, nil
}

func lookup(name string, vars Lookup) (string, error) {
	raw, ok := vars.Lookup(name)
	if !ok {
		return "", fault.Newf(fault.Reference, variable.ErrNotFound, "%s", name)
	}
	return raw, nil
}
