package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fakalang/faka/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestCLIVersion(t *testing.T) {
	old := config.Version
	t.Cleanup(func() { config.Version = old })

	t.Run("build time", func(t *testing.T) {
		config.Version = "0.1.0-test"
		e := newExecutor(t)
		e.Run(t, "faka", "--version")
		e.checkNextLine(t, "^faka$")
		e.checkNextLine(t, "^Version: 0.1.0-test$")
		e.checkNextLine(t, "^GoVersion: ")
		e.checkEOF(t)
	})
	t.Run("unset", func(t *testing.T) {
		config.Version = ""
		e := newExecutor(t)
		e.Run(t, "faka", "--version")
		e.checkNextLine(t, "^faka$")
		e.checkNextLine(t, "^Version: dev$")
		e.checkNextLine(t, "^GoVersion: ")
		e.checkEOF(t)
	})
}

func TestRun(t *testing.T) {
	e := newExecutor(t)

	t.Run("good", func(t *testing.T) {
		e.Run(t, "faka", "run", "testdata/hello.faka")
		e.checkNextLine(t, "^hello, faka$")
		e.checkNextLine(t, "^42$")
		e.checkNextLine(t, "^Program executed successfully!$")
		e.checkEOF(t)
	})
	t.Run("runtime error", func(t *testing.T) {
		err := e.RunWithError(t, "faka", "run", "testdata/fail.faka")
		require.Equal(t, "line 4: variable not found: missing", err.Error())
		// Output of the lines before the failure stays.
		e.checkNextLine(t, "^1$")
		e.checkEOF(t)
	})
	t.Run("structural error", func(t *testing.T) {
		err := e.RunWithError(t, "faka", "run", "testdata/nostart.faka")
		require.Equal(t, "line 1: statement outside block", err.Error())
		e.checkEOF(t)
	})
	t.Run("strict start", func(t *testing.T) {
		e.Run(t, "faka", "run", "testdata/twostarts.faka")
		e.checkNextLine(t, "^Program executed successfully!$")

		err := e.RunWithError(t, "faka", "run", "--strict-start", "testdata/twostarts.faka")
		require.Equal(t, "line 2: duplicate faka start", err.Error())
	})
	t.Run("no file", func(t *testing.T) {
		err := e.RunWithError(t, "faka", "run")
		require.Equal(t, "missing argument: <file>", err.Error())
	})
	t.Run("too many files", func(t *testing.T) {
		e.RunWithError(t, "faka", "run", "testdata/hello.faka", "testdata/fail.faka")
	})
	t.Run("bad extension", func(t *testing.T) {
		err := e.RunWithError(t, "faka", "run", "main.go")
		require.Equal(t, "file must have .faka extension", err.Error())
	})
	t.Run("missing file", func(t *testing.T) {
		e.RunWithError(t, "faka", "run", "testdata/nope.faka")
	})
}

func TestRun_Config(t *testing.T) {
	e := newExecutor(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "faka.log")
	cfgPath := filepath.Join(dir, "faka.yml")

	t.Run("debug log", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("ApplicationConfiguration:\n  LogPath: "+logPath+"\n"), 0644))
		e.Run(t, "faka", "run", "--config-file", cfgPath, "--debug", "testdata/hello.faka")
		e.checkNextLine(t, "^hello, faka$")

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "statement executed")
		require.Contains(t, string(data), "DEBUG")
	})
	t.Run("strict from config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("Interpreter:\n  StrictStart: true\n"), 0644))
		e.RunWithError(t, "faka", "run", "--config-file", cfgPath, "testdata/twostarts.faka")
	})
	t.Run("bad config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("Unknown: field\n"), 0644))
		err := e.RunWithError(t, "faka", "run", "--config-file", cfgPath, "testdata/hello.faka")
		require.Contains(t, err.Error(), "failed to unmarshal config YAML")
		e.checkEOF(t)
	})
	t.Run("bad log level", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("ApplicationConfiguration:\n  LogLevel: loud\n"), 0644))
		err := e.RunWithError(t, "faka", "run", "--config-file", cfgPath, "testdata/hello.faka")
		require.Contains(t, err.Error(), "log setting")
	})
}

func TestCheck(t *testing.T) {
	e := newExecutor(t)

	t.Run("good", func(t *testing.T) {
		// References are not checked.
		e.Run(t, "faka", "check", "testdata/fail.faka")
		e.checkNextLine(t, "^testdata/fail.faka: OK$")
		e.checkEOF(t)
	})
	t.Run("syntax", func(t *testing.T) {
		err := e.RunWithError(t, "faka", "check", "testdata/badsyntax.faka")
		require.Equal(t, "testdata/badsyntax.faka: line 2: invalid print statement: print x", err.Error())
		e.checkEOF(t)
	})
	t.Run("structure", func(t *testing.T) {
		e.RunWithError(t, "faka", "check", "testdata/nostart.faka")
		e.Run(t, "faka", "check", "testdata/twostarts.faka")
		e.RunWithError(t, "faka", "check", "--strict-start", "testdata/twostarts.faka")
	})
}

func TestShell_ExtraArgs(t *testing.T) {
	e := newExecutor(t)
	err := e.RunWithError(t, "faka", "shell", "extra")
	require.Contains(t, err.Error(), "expects none")
}
