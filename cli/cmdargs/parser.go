/*
Package cmdargs contains helpers checking positional command arguments.
*/
package cmdargs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli"
)

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
	ErrTooManyArguments = errors.New("too many arguments")
)

// EnsureNone returns an error if there are any positional arguments present.
// It can be used to check for them in commands that don't accept arguments.
func EnsureNone(ctx *cli.Context) *cli.ExitError {
	if ctx.Args().Present() {
		return cli.NewExitError("additional arguments given while this command expects none", 1)
	}
	return nil
}

// GetSingle returns the only positional argument, name is used in error
// messages.
func GetSingle(ctx *cli.Context, name string) (string, *cli.ExitError) {
	args := ctx.Args()
	switch {
	case len(args) == 0:
		return "", cli.NewExitError(fmt.Errorf("%w: <%s>", ErrMissingParameter, name), 1)
	case len(args) > 1:
		return "", cli.NewExitError(fmt.Errorf("%w: only <%s> is expected", ErrTooManyArguments, name), 1)
	}
	return args[0], nil
}

// GetCount returns an optional positive number given as the only positional
// argument, def is returned if there are no arguments.
func GetCount(ctx *cli.Context, def int) (int, *cli.ExitError) {
	args := ctx.Args()
	if len(args) == 0 {
		return def, nil
	}
	if len(args) > 1 {
		return 0, cli.NewExitError(fmt.Errorf("%w: only <n> is expected", ErrTooManyArguments), 1)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, cli.NewExitError(fmt.Errorf("%w: %s", ErrInvalidParameter, err), 1)
	}
	if n <= 0 {
		return 0, cli.NewExitError(fmt.Errorf("%w: <n> must be positive", ErrInvalidParameter), 1)
	}
	return n, nil
}
