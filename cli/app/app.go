package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fakalang/faka/cli/program"
	"github.com/fakalang/faka/cli/shell"
	"github.com/fakalang/faka/pkg/config"
	"github.com/urfave/cli"
)

// DevVersion is reported when no version was set at build time.
const DevVersion = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "faka\nVersion: %s\nGoVersion: %s\n",
		c.App.Version,
		runtime.Version(),
	)
}

// New creates a faka instance of [cli.App] with all commands included.
// Errors are not printed and don't stop the process, it's up to the caller
// to report the error returned from Run and exit with its code.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "faka"
	ctl.Version = config.Version
	if ctl.Version == "" {
		ctl.Version = DevVersion
	}
	ctl.Usage = "Interpreter for the faka programming language"
	ctl.ErrWriter = os.Stderr
	ctl.ExitErrHandler = func(*cli.Context, error) {}

	ctl.Commands = append(ctl.Commands, program.NewCommands()...)
	ctl.Commands = append(ctl.Commands, shell.NewCommands()...)
	return ctl
}

// ExitCode returns the process exit code for the error returned from the
// application.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(cli.ExitCoder); ok && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}
