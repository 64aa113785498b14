package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/fakalang/faka/pkg/config"
	"github.com/fakalang/faka/pkg/storage/dbconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type readCloser struct {
	sync.Mutex
	bytes.Buffer
}

func (r *readCloser) Close() error {
	return nil
}

func (r *readCloser) Read(p []byte) (int, error) {
	r.Lock()
	defer r.Unlock()
	return r.Buffer.Read(p)
}

func (r *readCloser) WriteString(s string) {
	r.Lock()
	defer r.Unlock()
	r.Buffer.WriteString(s)
}

type executor struct {
	in       *readCloser
	out      *bytes.Buffer
	cli      *FakaCLI
	ch       chan struct{}
	exitCode int
}

func newTestShell(t *testing.T) *executor {
	return newTestShellWithConfig(t, Options{}, config.Default())
}

func newTestShellWithConfig(t *testing.T, opts Options, cfg config.Config) *executor {
	e := &executor{
		in:       &readCloser{Buffer: *bytes.NewBuffer(nil)},
		out:      bytes.NewBuffer(nil),
		ch:       make(chan struct{}, 2),
		exitCode: -1,
	}
	var err error
	e.cli, err = NewWithConfig(opts,
		func(code int) {
			// Readline is closed, so Run won't return.
			e.exitCode = code
			e.ch <- struct{}{}
		},
		&readline.Config{
			Prompt:         "",
			Stdin:          e.in,
			Stderr:         e.out,
			Stdout:         e.out,
			FuncIsTerminal: func() bool { return false },
		}, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return e
}

func (e *executor) runProg(t *testing.T, commands ...string) {
	cmd := strings.Join(commands, "\n") + "\n"
	e.in.WriteString(cmd + "\n")
	go func() {
		require.NoError(t, e.cli.Run())
		e.ch <- struct{}{}
	}()
	select {
	case <-e.ch:
	case <-time.After(4 * time.Second):
		require.Fail(t, "command took too long time")
	}
}

// checkOutput checks that the output contains all expected strings in the
// given order.
func (e *executor) checkOutput(t *testing.T, expected ...string) {
	rest := e.out.String()
	for _, s := range expected {
		i := strings.Index(rest, s)
		require.True(t, i >= 0, "%q not found in the rest of output:\n%s", s, rest)
		rest = rest[i+len(s):]
	}
}

func (e *executor) checkNoOutput(t *testing.T, unexpected string) {
	require.NotContains(t, e.out.String(), unexpected)
}

func writeProgram(t *testing.T, lines ...string) string {
	p := filepath.Join(t.TempDir(), "prog.faka")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")), 0644))
	return p
}

var sumProgram = []string{
	"faka start",
	"a variable will be int = 3.",
	"b variable will be int = 4. // operands \\\\",
	"calculate c will be int = a + b.",
	"print c.",
	"faka end",
}

func TestLoad(t *testing.T) {
	p := writeProgram(t, sumProgram...)
	e := newTestShell(t)
	e.runProg(t,
		"load",
		"load "+p,
		"load "+filepath.Join(t.TempDir(), "prog.txt"),
		"ip",
	)
	e.checkOutput(t,
		"Error: missing argument: <file>",
		"READY: loaded 6 lines from "+p,
		"Error: file must have .faka extension",
		"next line 1: faka start",
	)
}

func TestRun(t *testing.T) {
	p := writeProgram(t, sumProgram...)
	e := newTestShell(t)
	e.runProg(t,
		"run",
		"load "+p,
		"run",
		"ip",
		"cont",
		"run",
		"vars",
	)
	e.checkOutput(t,
		"Error: no program loaded",
		"READY",
		"7\n",
		"Program executed successfully!",
		"execution has finished",
		"Error: program has finished, use 'run' or 'reset'",
		"7\n",
		"Program executed successfully!",
		"a  int  3",
		"b  int  4",
		"c  int  7",
	)
}

func TestStep(t *testing.T) {
	p := writeProgram(t, sumProgram...)
	e := newTestShell(t)
	e.runProg(t,
		"load "+p,
		"step",
		"step 3",
		"state",
		"step x",
		"step 0",
		"step 10",
		"state",
	)
	e.checkOutput(t,
		"next line 2: a variable will be int = 3.",
		"next line 5: print c.",
		"IN BLOCK, 4 lines processed, 3 variables",
		"program: "+p,
		"Error: can't parse argument",
		"Error: can't parse argument: <n> must be positive",
		"7\n",
		"Program executed successfully!",
		"ENDED, 6 lines processed, 3 variables",
	)
}

func TestRun_Failure(t *testing.T) {
	p := writeProgram(t,
		"faka start",
		"print a.",
		"faka end",
	)
	e := newTestShell(t)
	e.runProg(t,
		"load "+p,
		"cont",
		"state",
		"ip",
		"step",
		"reset",
		"state",
		"exec a variable will be int = 1.",
		"cont",
	)
	e.checkOutput(t,
		"Error: line 2: variable not found: a",
		"IN BLOCK, 2 lines processed, 0 variables",
		"failed: line 2: variable not found: a",
		"execution has finished",
		"Error: program has finished",
		"NOT STARTED, 0 lines processed, 0 variables",
		"1\n",
		"Program executed successfully!",
	)
}

func TestRun_MissingEnd(t *testing.T) {
	p := writeProgram(t, "faka start", "a variable will be int = 1.")
	e := newTestShell(t)
	e.runProg(t, "load "+p, "run")
	e.checkOutput(t, "Error: missing faka start or faka end")
	e.checkNoOutput(t, "Program executed successfully!")
}

func TestStrictStart(t *testing.T) {
	p := writeProgram(t, "faka start", "faka start", "faka end")
	cfg := config.Default()
	cfg.Interpreter.StrictStart = true
	e := newTestShellWithConfig(t, Options{}, cfg)
	e.runProg(t, "load "+p, "run")
	e.checkOutput(t, "Error: line 2: duplicate faka start")
}

func TestExec(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"exec x variable will be int = 5.",
		`exec "y variable will be string = \"two words\"."`,
		"exec calculate z will be int = x - x.",
		"exec print x.",
		"exec print y.",
		"exec print z.",
		"exec",
		"exec hello world",
		"exec faka start",
		"exec print nope.",
		"exec calculate r will be int = x * x.",
	)
	e.checkOutput(t,
		"5\n",
		"two words\n",
		"0\n",
		"Error: missing argument: <statement>",
		"Error: unknown statement: hello world",
		"Error: block markers can't be executed directly",
		"Error: variable not found: nope",
		"Error: no arithmetic operator found",
	)
}

func TestParse(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"parse x variable will be boolean = true.",
		"parse print x.",
		"parse calculate r will be int = a + b.",
		"parse faka end",
		"parse print x",
	)
	e.checkOutput(t,
		"Kind:  declaration", "Name:  x", "Type:  boolean", "Value: true",
		"Kind: print", "Name: x",
		"Kind:       arithmetic", "Result:     r", "Type:       int", "Expression: a + b",
		"Kind: end",
		"Error: invalid print statement: print x",
	)
}

func TestVars(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"vars",
		"exec b variable will be boolean = false.",
		"exec a variable will be int = 007.",
		"vars --json",
		"vars extra",
	)
	e.checkOutput(t,
		"no variables",
		`"name": "a"`, `"kind": "int"`, `"value": "007"`,
		`"name": "b"`, `"kind": "boolean"`, `"value": "false"`,
		"Error: additional arguments given while this command expects none",
	)
}

func TestSnapshots(t *testing.T) {
	for _, dbType := range []string{dbconfig.InMemoryDB, dbconfig.BoltDB} {
		t.Run(dbType, func(t *testing.T) {
			cfg := config.Default()
			cfg.ApplicationConfiguration.DBConfiguration = dbconfig.DBConfiguration{
				Type:          dbType,
				BoltDBOptions: dbconfig.BoltDBOptions{FilePath: filepath.Join(t.TempDir(), "snap.bolt")},
			}
			e := newTestShellWithConfig(t, Options{}, cfg)
			e.runProg(t,
				"snapshots",
				"exec a variable will be int = 1.",
				"save first",
				"exec a variable will be int = 2.",
				"exec b variable will be string = x.",
				"save second",
				"snapshots",
				"restore first",
				"vars",
				"restore nope",
				"save",
				"drop first",
				"drop first",
				"snapshots",
			)
			e.checkOutput(t,
				"no snapshots",
				"saved 1 variables to first",
				"saved 2 variables to second",
				"first", "1 variables",
				"second", "2 variables",
				"restored 1 variables from first",
				"a  int  1\n",
				"Error: snapshot not found: nope",
				"Error: missing argument: <name>",
				"dropped first",
				"Error: snapshot not found: first",
				"second",
			)
			e.checkNoOutput(t, "b  string")
		})
	}
}

func TestSnapshots_Persistent(t *testing.T) {
	cfg := config.Default()
	cfg.ApplicationConfiguration.DBConfiguration = dbconfig.DBConfiguration{
		Type:           dbconfig.LevelDB,
		LevelDBOptions: dbconfig.LevelDBOptions{DataDirectoryPath: t.TempDir()},
	}
	e := newTestShellWithConfig(t, Options{}, cfg)
	e.runProg(t, "exec a variable will be int = 42.", "save keep")
	e.checkOutput(t, "saved 1 variables to keep")

	// The first shell has closed the DB on EOF.
	e = newTestShellWithConfig(t, Options{}, cfg)
	e.runProg(t, "restore keep", "exec print a.")
	e.checkOutput(t, "restored 1 variables from keep", "42\n")
}

func TestBadDB(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0644))
	cfg := config.Default()
	cfg.ApplicationConfiguration.DBConfiguration = dbconfig.DBConfiguration{
		Type:           dbconfig.LevelDB,
		LevelDBOptions: dbconfig.LevelDBOptions{DataDirectoryPath: file},
	}
	e := newTestShellWithConfig(t, Options{}, cfg)
	e.runProg(t, "exec a variable will be int = 1.", "save x", "snapshots")
	e.checkOutput(t,
		"Error: failed to open DB, clean in-memory storage will be used",
		"saved 1 variables to x",
		"x",
	)
}

func TestExit(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t, "exit")
	e.checkOutput(t, "Bye!")
	require.Equal(t, 0, e.exitCode)
}

func TestUnknownCommand(t *testing.T) {
	e := newTestShell(t)
	e.runProg(t,
		"unknown",
		`exec "unterminated`,
		"",
	)
	e.checkOutput(t,
		"Error: ",
		"Error: failed to parse arguments: Unterminated double-quoted string",
	)
}

func TestLogo(t *testing.T) {
	e := newTestShellWithConfig(t, Options{PrintLogo: true}, config.Default())
	e.runProg(t)
	e.checkOutput(t, `/_/    \__,_/_/|_|\__,_/`)
}

func TestMetricsService(t *testing.T) {
	cfg := config.Default()
	cfg.ApplicationConfiguration.Prometheus = config.BasicService{
		Enabled:   true,
		Addresses: []string{"localhost:0"},
	}
	e := newTestShellWithConfig(t, Options{}, cfg)
	e.runProg(t, "exec a variable will be int = 1.")
	e.checkNoOutput(t, "Error")
}
