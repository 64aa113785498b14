package interpreter

import (
	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/fakalang/faka/pkg/interpreter/statement"
)

// Check validates block structure and statement grammar of a program without
// executing it. Errors depending on variable values (unbound names, invalid
// values) are not detected.
func Check(lines []string, strictStart bool) error {
	state := NotStarted
	for n, l := range lines {
		trimmed := statement.Trim(l)
		next, effect, err := Transition(state, statement.Classify(trimmed), strictStart)
		if err != nil {
			return fault.AtLine(err, n+1)
		}
		state = next
		if effect == Halt {
			break
		}
		if effect == Execute {
			if _, err = statement.Parse(trimmed); err != nil {
				return fault.AtLine(err, n+1)
			}
		}
	}
	if state != Ended {
		return fault.New(fault.Structural, ErrMissingMarkers)
	}
	return nil
}
