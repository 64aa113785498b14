/*
Package interpreter implements the faka program driver and statement
executors.

A program is a sequence of lines that must contain a block opened by
`faka start` and closed by `faka end`. The driver classifies every line, moves
the block state machine (see Transition) and executes statements found inside
the block against a variable store owned by the Interpreter. The first error
aborts the run, there is no recovery.
*/
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fakalang/faka/pkg/interpreter/arith"
	"github.com/fakalang/faka/pkg/interpreter/fault"
	"github.com/fakalang/faka/pkg/interpreter/statement"
	"github.com/fakalang/faka/pkg/interpreter/variable"
	"go.uber.org/zap"
)

// Various execution errors.
var (
	ErrResultNotInt  = errors.New("result must be int")
	ErrNotExecutable = errors.New("block markers can't be executed directly")
)

// ParseFunc turns a trimmed line into a statement.
type ParseFunc func(line string) (statement.Statement, error)

// Options are interpreter settings.
type Options struct {
	// StrictStart makes a repeated `faka start` inside the block an error.
	StrictStart bool
	// Parse is used to parse executable lines, statement.Parse if nil.
	Parse ParseFunc
}

// Interpreter runs faka programs. It's not safe for concurrent use.
type Interpreter struct {
	out   io.Writer
	log   *zap.Logger
	opts  Options
	store *variable.Store
	state State
	line  int
	err   error
}

// New returns an interpreter writing program output to out.
func New(out io.Writer, log *zap.Logger, opts Options) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Parse == nil {
		opts.Parse = statement.Parse
	}
	return &Interpreter{
		out:   out,
		log:   log,
		opts:  opts,
		store: variable.NewStore(),
	}
}

// State returns the current block state.
func (i *Interpreter) State() State { return i.state }

// Line returns the number of lines processed so far.
func (i *Interpreter) Line() int { return i.line }

// Store returns the variable store of the interpreter.
func (i *Interpreter) Store() *variable.Store { return i.store }

// Err returns the error the interpreter has failed with, if any.
func (i *Interpreter) Err() error { return i.err }

// Reset brings the interpreter to its initial state with an empty store.
func (i *Interpreter) Reset() {
	i.store = variable.NewStore()
	i.state = NotStarted
	i.line = 0
	i.err = nil
}

// Run executes the program given as a sequence of comment-free lines. It
// returns an error if any line fails or if the program block is not complete.
func (i *Interpreter) Run(lines []string) error {
	for _, l := range lines {
		halt, err := i.Step(l)
		if err != nil {
			updateRunMetric(err)
			return err
		}
		if halt {
			break
		}
	}
	err := i.Finish()
	updateRunMetric(err)
	return err
}

// Step processes the next program line. It returns true when no more lines
// are to be processed, either because the block has ended or because the
// line has failed. A failed interpreter keeps returning the same error until
// Reset.
func (i *Interpreter) Step(line string) (bool, error) {
	if i.err != nil {
		return true, i.err
	}
	i.line++
	trimmed := statement.Trim(line)
	next, effect, err := Transition(i.state, statement.Classify(trimmed), i.opts.StrictStart)
	if err != nil {
		return true, i.fail(err)
	}
	i.state = next
	switch effect {
	case Halt:
		i.log.Debug("program block ended", zap.Int("line", i.line))
		return true, nil
	case Skip:
		return false, nil
	}
	stmt, err := i.opts.Parse(trimmed)
	if err != nil {
		return true, i.fail(err)
	}
	if err = i.Exec(stmt); err != nil {
		return true, i.fail(err)
	}
	return false, nil
}

// Finish checks that the program block was both opened and closed.
func (i *Interpreter) Finish() error {
	if i.err != nil {
		return i.err
	}
	if i.state != Ended {
		i.err = fault.New(fault.Structural, ErrMissingMarkers)
		updateFaultMetric(i.err)
		return i.err
	}
	return nil
}

func (i *Interpreter) fail(err error) error {
	i.err = fault.AtLine(err, i.line)
	updateFaultMetric(i.err)
	i.log.Debug("program failed", zap.Int("line", i.line), zap.Error(i.err))
	return i.err
}

// Exec executes a single statement against the store ignoring the block
// state.
func (i *Interpreter) Exec(stmt statement.Statement) error {
	var err error
	switch s := stmt.(type) {
	case statement.BlankStmt:
		return nil
	case statement.DeclareStmt:
		err = i.declare(s)
	case statement.PrintStmt:
		err = i.print(s)
	case statement.CalculateStmt:
		err = i.calculate(s)
	case statement.StartStmt, statement.EndStmt:
		return fault.New(fault.Structural, ErrNotExecutable)
	default:
		panic(fmt.Sprintf("unknown statement %T", stmt))
	}
	if err != nil {
		return err
	}
	updateStatementMetric(stmt.Kind().String())
	i.log.Debug("statement executed",
		zap.Int("line", i.line),
		zap.Stringer("kind", stmt.Kind()),
		zap.Stringer("statement", stmt))
	return nil
}

func (i *Interpreter) declare(s statement.DeclareStmt) error {
	kind, err := variable.KindFromTypeword(s.Type)
	if err != nil {
		return err
	}
	raw := s.Value
	if kind == variable.TextT {
		raw = unquote(raw)
	}
	v, err := variable.New(s.Name, kind, raw)
	if err != nil {
		return err
	}
	i.store.Bind(v)
	return nil
}

func (i *Interpreter) print(s statement.PrintStmt) error {
	v, err := i.store.MustGet(s.Name)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(i.out, v.Value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (i *Interpreter) calculate(s statement.CalculateStmt) error {
	if s.Type != variable.IntegerT.Typeword() {
		return fault.Newf(fault.Type, ErrResultNotInt, "%s", s.Type)
	}
	n, err := arith.Evaluate(s.Expr, i.store)
	if err != nil {
		return err
	}
	i.store.Bind(variable.NewInt(s.Result, n))
	return nil
}

// unquote strips one layer of matching double quotes.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
