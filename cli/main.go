package main

import (
	"fmt"
	"os"

	"github.com/fakalang/faka/cli/app"
)

func main() {
	ctl := app.New()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(ctl.ErrWriter, "Error: %s\n", err)
		os.Exit(app.ExitCode(err))
	}
}
