package interpreter

import (
	"errors"

	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/fakalang/faka/pkg/interpreter/statement"
)

// State represents the position of the interpreter relative to the program
// block.
type State byte

// List of possible interpreter states.
const (
	// NotStarted is the initial state, no `faka start` seen yet.
	NotStarted State = iota
	// InBlock is the state between `faka start` and `faka end`.
	InBlock
	// Ended is the final state reached by `faka end`.
	Ended
)

// Effect is what the driver has to do with a classified line.
type Effect byte

// List of possible effects of a transition.
const (
	// Skip means the line has no effect.
	Skip Effect = iota
	// Execute means the line has to be parsed and executed.
	Execute
	// Halt means no more lines are to be processed.
	Halt
)

// Structural errors.
var (
	ErrOutsideBlock   = errors.New("statement outside block")
	ErrMissingMarkers = errors.New("missing faka start or faka end")
	ErrDuplicateStart = errors.New("duplicate faka start")
)

// String implements fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT STARTED"
	case InBlock:
		return "IN BLOCK"
	case Ended:
		return "ENDED"
	default:
		return "INVALID"
	}
}

// String implements fmt.Stringer interface.
func (e Effect) String() string {
	switch e {
	case Skip:
		return "skip"
	case Execute:
		return "execute"
	case Halt:
		return "halt"
	default:
		return "invalid"
	}
}

// Transition returns the next state and the effect of a line of the given
// kind seen in state s. A repeated start marker is accepted unless strictStart
// is set.
func Transition(s State, k statement.Kind, strictStart bool) (State, Effect, error) {
	if s == Ended {
		return s, Halt, nil
	}
	switch k {
	case statement.Blank:
		return s, Skip, nil
	case statement.StartMarker:
		if s == InBlock && strictStart {
			return s, Halt, fault.New(fault.Structural, ErrDuplicateStart)
		}
		return InBlock, Skip, nil
	case statement.EndMarker:
		if s == NotStarted {
			return s, Halt, fault.New(fault.Structural, ErrMissingMarkers)
		}
		return Ended, Halt, nil
	}
	if s == NotStarted {
		return s, Halt, fault.New(fault.Structural, ErrOutsideBlock)
	}
	return s, Execute, nil
}
