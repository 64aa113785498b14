/*
Package shell contains the interactive faka shell.
*/
package shell

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/fakalang/faka/cli/cmdargs"
	"github.com/fakalang/faka/cli/options"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

// NewCommands returns 'shell' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:      "shell",
		Usage:     "Start the interactive faka shell",
		UsageText: "faka shell [--config-file file] [--debug] [--strict-start]",
		Description: `Starts an interactive shell to load, step through and inspect faka
   programs. Type 'help' in the shell for the list of commands.`,
		Action: startShell,
		Flags: []cli.Flag{
			options.ConfigFile,
			options.Debug,
			options.StrictStart,
		},
	}}
}

func startShell(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	cfg, log, err := options.GetLoggerFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	isTerm := term.IsTerminal(int(os.Stdout.Fd()))
	p, err := NewWithConfig(Options{PrintLogo: isTerm, Color: isTerm}, os.Exit, &readline.Config{}, cfg, log)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create faka shell: %w", err), 1)
	}
	return p.Run()
}
