/*
Package program contains commands executing and checking faka programs.
*/
package program

import (
	"fmt"

	"github.com/fakalang/faka/cli/cmdargs"
	"github.com/fakalang/faka/cli/options"
	"github.com/fakalang/faka/pkg/interpreter"
	"github.com/fakalang/faka/pkg/interpreter/statement"
	"github.com/fakalang/faka/pkg/source"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// SuccessMessage is printed after a successfully executed program.
const SuccessMessage = "Program executed successfully!"

// NewCommands returns 'run' and 'check' commands.
func NewCommands() []cli.Command {
	flags := []cli.Flag{
		options.ConfigFile,
		options.Debug,
		options.StrictStart,
	}
	return []cli.Command{
		{
			Name:      "run",
			Usage:     "Execute a faka program",
			UsageText: "faka run [--config-file file] [--debug] [--strict-start] <file.faka>",
			Description: `Executes the program from the given file. Output of 'print' statements is
   written to stdout as the program runs. Execution stops at the first error,
   the error is reported and the command exits with code 1.`,
			Action: runProgram,
			Flags:  flags,
		},
		{
			Name:      "check",
			Usage:     "Check faka program structure and syntax without executing it",
			UsageText: "faka check [--config-file file] [--debug] [--strict-start] <file.faka>",
			Description: `Checks start and end markers and parses every statement of the block.
   Values and variable references are not checked since they are only known
   at runtime.`,
			Action: checkProgram,
			Flags:  flags,
		},
	}
}

func loadProgram(ctx *cli.Context) (string, []string, *cli.ExitError) {
	path, exitErr := cmdargs.GetSingle(ctx, "file")
	if exitErr != nil {
		return "", nil, exitErr
	}
	lines, err := source.LoadFile(path)
	if err != nil {
		return "", nil, cli.NewExitError(err, 1)
	}
	return path, lines, nil
}

func runProgram(ctx *cli.Context) error {
	path, lines, exitErr := loadProgram(ctx)
	if exitErr != nil {
		return exitErr
	}
	cfg, log, err := options.GetLoggerFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	cache, err := statement.NewCache(cfg.Interpreter.StatementCacheSize)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log = log.With(zap.String("file", path))
	log.Debug("running program", zap.Int("lines", len(lines)))
	in := interpreter.New(ctx.App.Writer, log, interpreter.Options{
		StrictStart: cfg.Interpreter.StrictStart,
		Parse:       cache.Parse,
	})
	if err := in.Run(lines); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, SuccessMessage)
	return nil
}

func checkProgram(ctx *cli.Context) error {
	path, lines, exitErr := loadProgram(ctx)
	if exitErr != nil {
		return exitErr
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := interpreter.Check(lines, cfg.Interpreter.StrictStart); err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", path, err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s: OK\n", path)
	return nil
}
