package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/fakalang/faka/cli/cmdargs"
	"github.com/fakalang/faka/pkg/config"
	"github.com/fakalang/faka/pkg/interpreter"
	"github.com/fakalang/faka/pkg/interpreter/statement"
	"github.com/fakalang/faka/pkg/services/metrics"
	"github.com/fakalang/faka/pkg/snapshot"
	"github.com/fakalang/faka/pkg/source"
	"github.com/fakalang/faka/pkg/storage"
	"github.com/fakalang/faka/pkg/storage/dbconfig"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	interpreterKey      = "interpreter"
	programKey          = "program"
	cacheKey            = "cache"
	storeKey            = "store"
	exitFuncKey         = "exitFunc"
	readlineInstanceKey = "readlineKey"
	printLogoKey        = "printLogoKey"
	colorKey            = "colorKey"
)

var commands = []cli.Command{
	{
		Name:        "exit",
		Usage:       "Exit the faka shell",
		Description: "Exit the faka shell",
		Action:      handleExit,
	},
	{
		Name:      "load",
		Usage:     "Load a program from the .faka file",
		UsageText: `load <file>`,
		Description: `load <file>
<file> is mandatory parameter, example:
> load /path/to/program.faka

Loading resets the interpreter, variables are lost.`,
		Action: handleLoad,
	},
	{
		Name:  "run",
		Usage: "Run the loaded program from the first line",
		Description: `Resets the interpreter and executes the whole loaded program. Variables
restored from snapshots before are lost.`,
		Action: handleRun,
	},
	{
		Name:        "cont",
		Usage:       "Continue execution of the loaded program",
		Description: "Executes the rest of the loaded program from the current line",
		Action:      handleCont,
	},
	{
		Name:      "step",
		Usage:     "Execute (n) lines of the program",
		UsageText: `step [<n>]`,
		Description: `step [<n>]
<n> is optional parameter to specify number of lines to process, example:
> step 10`,
		Action: handleStep,
	},
	{
		Name:        "ip",
		Usage:       "Show the next program line",
		Description: "Show the number and the text of the line to be processed next",
		Action:      handleIP,
	},
	{
		Name:      "exec",
		Usage:     "Execute a single statement",
		UsageText: `exec <statement>`,
		Description: `exec <statement>
<statement> is executed against current variables regardless of the program
block state, quote it or pass it as several words, example:
> exec x variable will be int = 5.
> exec "print x."`,
		Action: handleExec,
	},
	{
		Name:      "parse",
		Usage:     "Parse a statement and show its kind and fields",
		UsageText: `parse <statement>`,
		Description: `parse <statement>
<statement> is not executed, example:
> parse calculate r will be int = a + b.`,
		Action: handleParse,
	},
	{
		Name:      "vars",
		Usage:     "Show variables",
		UsageText: `vars [--json]`,
		Action:    handleVars,
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "json",
				Usage: "print variables as JSON",
			},
		},
	},
	{
		Name:        "state",
		Usage:       "Show interpreter state",
		Description: "Show block state, processed line count and the error if any",
		Action:      handleState,
	},
	{
		Name:        "reset",
		Usage:       "Reset interpreter state and variables",
		Description: "Reset interpreter state and variables, the loaded program is kept",
		Action:      handleReset,
	},
	{
		Name:      "save",
		Usage:     "Save variables into a snapshot",
		UsageText: `save <name>`,
		Description: `save <name>
<name> is mandatory parameter, an existing snapshot with the same name is
replaced, example:
> save before-loop`,
		Action: handleSave,
	},
	{
		Name:      "restore",
		Usage:     "Replace variables with the snapshot contents",
		UsageText: `restore <name>`,
		Description: `restore <name>
<name> is mandatory parameter, example:
> restore before-loop`,
		Action: handleRestore,
	},
	{
		Name:      "drop",
		Usage:     "Delete a snapshot",
		UsageText: `drop <name>`,
		Action:    handleDrop,
	},
	{
		Name:        "snapshots",
		Usage:       "List saved snapshots",
		Description: "List saved snapshots with their creation time and variable count",
		Action:      handleSnapshots,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range commands {
		if !c.Hidden {
			var flagsItems []readline.PrefixCompleterInterface
			for _, f := range c.Flags {
				names := strings.SplitN(f.GetName(), ", ", 2) // only long name will be offered
				flagsItems = append(flagsItems, readline.PcItem("--"+names[0]))
			}
			pcItems = append(pcItems, readline.PcItem(c.Name, flagsItems...))
		}
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

// Various errors.
var (
	ErrNoProgram = errors.New("no program loaded")
	ErrFinished  = errors.New("program has finished, use 'run' or 'reset'")
)

// program is a loaded faka program with the position of the next line.
type program struct {
	path  string
	lines []string
	pos   int
}

// FakaCLI object for interacting with the interpreter.
type FakaCLI struct {
	shell *cli.App
	log   *zap.Logger
	close func()
}

// Options are shell settings.
type Options struct {
	// PrintLogo makes the shell print the logo on start.
	PrintLogo bool
	// Color enables colored prompt.
	Color bool
}

// NewWithConfig returns new FakaCLI instance using provided config. Snapshot
// storage and metrics services are set up from the config, onExit is called
// after they're closed.
func NewWithConfig(opts Options, onExit func(int), c *readline.Config, cfg config.Config, log *zap.Logger) (*FakaCLI, error) {
	if c.AutoComplete == nil {
		// Autocomplete commands/flags on TAB.
		c.AutoComplete = completer
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", uuid.NewString()))

	l, err := readline.NewEx(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "faka shell"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used which is `faka`.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "Interactive faka interpreter"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}

	ctl.Commands = commands

	cache, err := statement.NewCache(cfg.Interpreter.StatementCacheSize)
	if err != nil {
		_ = l.Close()
		return nil, err
	}

	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		writeErr(ctl.ErrWriter, fmt.Errorf("failed to open DB, clean in-memory storage will be used: %w", err))
		cfg.ApplicationConfiguration.DBConfiguration.Type = dbconfig.InMemoryDB
		store = storage.NewMemoryStore()
	}

	services := []*metrics.Service{
		metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log),
		metrics.NewPprofService(cfg.ApplicationConfiguration.Pprof, log),
	}
	for _, s := range services {
		if err := s.Start(); err != nil {
			writeErr(ctl.ErrWriter, err)
		}
	}

	var once sync.Once
	closeF := func() {
		once.Do(func() {
			for _, s := range services {
				s.ShutDown()
			}
			_ = store.Close()
		})
	}
	exitF := func(i int) {
		closeF()
		onExit(i)
	}

	in := interpreter.New(ctl.Writer, log, interpreter.Options{
		StrictStart: cfg.Interpreter.StrictStart,
		Parse:       cache.Parse,
	})

	fakacli := FakaCLI{
		shell: ctl,
		log:   log,
		close: closeF,
	}

	fakacli.shell.Metadata = map[string]interface{}{
		interpreterKey:      in,
		programKey:          (*program)(nil),
		cacheKey:            cache,
		storeKey:            store,
		exitFuncKey:         exitF,
		readlineInstanceKey: l,
		printLogoKey:        opts.PrintLogo,
		colorKey:            opts.Color,
	}
	changePrompt(fakacli.shell)
	log.Debug("shell started", zap.String("db", cfg.ApplicationConfiguration.DBConfiguration.Type))
	return &fakacli, nil
}

func getExitFuncFromContext(app *cli.App) func(int) {
	return app.Metadata[exitFuncKey].(func(int))
}

func getReadlineInstanceFromContext(app *cli.App) *readline.Instance {
	return app.Metadata[readlineInstanceKey].(*readline.Instance)
}

func getInterpreterFromContext(app *cli.App) *interpreter.Interpreter {
	return app.Metadata[interpreterKey].(*interpreter.Interpreter)
}

func getProgramFromContext(app *cli.App) *program {
	return app.Metadata[programKey].(*program)
}

func getCacheFromContext(app *cli.App) *statement.Cache {
	return app.Metadata[cacheKey].(*statement.Cache)
}

func getStoreFromContext(app *cli.App) storage.Store {
	return app.Metadata[storeKey].(storage.Store)
}

func getPrintLogoFromContext(app *cli.App) bool {
	return app.Metadata[printLogoKey].(bool)
}

func getColorFromContext(app *cli.App) bool {
	return app.Metadata[colorKey].(bool)
}

func setProgramInContext(app *cli.App, p *program) {
	app.Metadata[programKey] = p
}

func checkProgramIsLoaded(app *cli.App) (*program, error) {
	p := getProgramFromContext(app)
	if p == nil {
		return nil, ErrNoProgram
	}
	return p, nil
}

func handleExit(c *cli.Context) error {
	l := getReadlineInstanceFromContext(c.App)
	_ = l.Close()
	exit := getExitFuncFromContext(c.App)
	fmt.Fprintln(c.App.Writer, "Bye!")
	exit(0)
	return nil
}

func handleLoad(c *cli.Context) error {
	path, exitErr := cmdargs.GetSingle(c, "file")
	if exitErr != nil {
		return exitErr
	}
	lines, err := source.LoadFile(path)
	if err != nil {
		return err
	}
	getInterpreterFromContext(c.App).Reset()
	setProgramInContext(c.App, &program{path: path, lines: lines})
	fmt.Fprintf(c.App.Writer, "READY: loaded %d lines from %s\n", len(lines), path)
	changePrompt(c.App)
	return nil
}

func handleRun(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	p, err := checkProgramIsLoaded(c.App)
	if err != nil {
		return err
	}
	getInterpreterFromContext(c.App).Reset()
	p.pos = 0
	return runWithHandling(c, p, len(p.lines))
}

func handleCont(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	p, err := checkProgramIsLoaded(c.App)
	if err != nil {
		return err
	}
	return runWithHandling(c, p, len(p.lines))
}

func handleStep(c *cli.Context) error {
	n, exitErr := cmdargs.GetCount(c, 1)
	if exitErr != nil {
		return exitErr
	}
	p, err := checkProgramIsLoaded(c.App)
	if err != nil {
		return err
	}
	return runWithHandling(c, p, n)
}

// runWithHandling processes at most n lines of the program. When the program
// is over (either because the block has ended, there are no more lines or
// some line has failed) the result is reported.
func runWithHandling(c *cli.Context, p *program, n int) error {
	defer changePrompt(c.App)

	in := getInterpreterFromContext(c.App)
	if in.Err() != nil || isFinished(in, p) {
		return ErrFinished
	}
	var halt bool
	for ; n > 0 && p.pos < len(p.lines) && !halt; n-- {
		var err error
		halt, err = in.Step(p.lines[p.pos])
		p.pos++
		if err != nil {
			return err
		}
	}
	if !halt && p.pos < len(p.lines) {
		return handleIP(c)
	}
	if err := in.Finish(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Program executed successfully!")
	return nil
}

func isFinished(in *interpreter.Interpreter, p *program) bool {
	return in.State() == interpreter.Ended || p.pos >= len(p.lines)
}

func handleIP(c *cli.Context) error {
	p, err := checkProgramIsLoaded(c.App)
	if err != nil {
		return err
	}
	in := getInterpreterFromContext(c.App)
	if in.Err() != nil || isFinished(in, p) {
		fmt.Fprintln(c.App.Writer, "execution has finished")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "next line %d: %s\n", p.pos+1, p.lines[p.pos])
	return nil
}

// getStatementFromContext joins all positional arguments into a single
// statement line.
func getStatementFromContext(c *cli.Context) (statement.Statement, error) {
	if !c.Args().Present() {
		return nil, fmt.Errorf("%w: <statement>", cmdargs.ErrMissingParameter)
	}
	line := statement.Trim(strings.Join(c.Args(), " "))
	return getCacheFromContext(c.App).Parse(line)
}

func handleExec(c *cli.Context) error {
	stmt, err := getStatementFromContext(c)
	if err != nil {
		return err
	}
	return getInterpreterFromContext(c.App).Exec(stmt)
}

func handleParse(c *cli.Context) error {
	stmt, err := getStatementFromContext(c)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 1, ' ', 0)
	fmt.Fprintf(w, "Kind:\t%s\n", stmt.Kind())
	switch s := stmt.(type) {
	case statement.DeclareStmt:
		fmt.Fprintf(w, "Name:\t%s\n", s.Name)
		fmt.Fprintf(w, "Type:\t%s\n", s.Type)
		fmt.Fprintf(w, "Value:\t%s\n", s.Value)
	case statement.PrintStmt:
		fmt.Fprintf(w, "Name:\t%s\n", s.Name)
	case statement.CalculateStmt:
		fmt.Fprintf(w, "Result:\t%s\n", s.Result)
		fmt.Fprintf(w, "Type:\t%s\n", s.Type)
		fmt.Fprintf(w, "Expression:\t%s\n", s.Expr)
	}
	return w.Flush()
}

func handleVars(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	vars := getInterpreterFromContext(c.App).Store().Snapshot()
	if c.Bool("json") {
		b, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(b))
		return nil
	}
	if len(vars) == 0 {
		fmt.Fprintln(c.App.Writer, "no variables")
		return nil
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, v := range vars {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Kind.Typeword(), v.Value)
	}
	return w.Flush()
}

func handleState(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	in := getInterpreterFromContext(c.App)
	fmt.Fprintf(c.App.Writer, "%s, %d lines processed, %d variables\n", in.State(), in.Line(), in.Store().Len())
	if p := getProgramFromContext(c.App); p != nil {
		fmt.Fprintf(c.App.Writer, "program: %s\n", p.path)
	}
	if err := in.Err(); err != nil {
		fmt.Fprintf(c.App.Writer, "failed: %s\n", err)
	}
	return nil
}

func handleReset(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	resetState(c.App)
	changePrompt(c.App)
	return nil
}

func resetState(app *cli.App) {
	getInterpreterFromContext(app).Reset()
	if p := getProgramFromContext(app); p != nil {
		p.pos = 0
	}
}

func handleSave(c *cli.Context) error {
	name, exitErr := cmdargs.GetSingle(c, "name")
	if exitErr != nil {
		return exitErr
	}
	snap, err := snapshot.Save(getStoreFromContext(c.App), name, getInterpreterFromContext(c.App).Store())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved %d variables to %s\n", len(snap.Variables), snap.Name)
	return nil
}

func handleRestore(c *cli.Context) error {
	name, exitErr := cmdargs.GetSingle(c, "name")
	if exitErr != nil {
		return exitErr
	}
	snap, err := snapshot.Restore(getStoreFromContext(c.App), name, getInterpreterFromContext(c.App).Store())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "restored %d variables from %s\n", len(snap.Variables), snap.Name)
	return nil
}

func handleDrop(c *cli.Context) error {
	name, exitErr := cmdargs.GetSingle(c, "name")
	if exitErr != nil {
		return exitErr
	}
	if err := snapshot.Delete(getStoreFromContext(c.App), name); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "dropped %s\n", name)
	return nil
}

func handleSnapshots(c *cli.Context) error {
	if err := cmdargs.EnsureNone(c); err != nil {
		return err
	}
	list, err := snapshot.List(getStoreFromContext(c.App))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.App.Writer, "no snapshots")
		return nil
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%d variables\n", s.Name, s.CreatedAt.Format("2006-01-02 15:04:05"), len(s.Variables))
	}
	return w.Flush()
}

func changePrompt(app *cli.App) {
	var (
		l      = getReadlineInstanceFromContext(app)
		in     = getInterpreterFromContext(app)
		p      = getProgramFromContext(app)
		prompt = "faka >"
	)
	if p != nil && in.Err() == nil && !isFinished(in, p) {
		prompt = fmt.Sprintf("faka %d >", p.pos+1)
	}
	if getColorFromContext(app) {
		prompt = "\033[32m" + prompt + "\033[0m"
	}
	l.SetPrompt(prompt + " ")
}

// Run waits for user input from Stdin and executes the passed command.
// Snapshot storage and services are closed when the input is over.
func (c *FakaCLI) Run() error {
	defer c.close()
	if getPrintLogoFromContext(c.shell) {
		printLogo(c.shell.Writer)
	}
	l := getReadlineInstanceFromContext(c.shell)
	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil // OK, stop execution.
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(c.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}
		if len(args) == 0 {
			continue
		}

		c.log.Debug("shell command", zap.Strings("args", args))
		err = c.shell.Run(append([]string{"faka"}, args...))
		if err != nil {
			writeErr(c.shell.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
	}
}

func printLogo(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}

const logo = `
    ______      __
   / ____/___ _/ /______ _
  / /_  / __ '/ //_/ __ '/
 / __/ / /_/ / ,< / /_/ /
/_/    \__,_/_/|_|\__,_/
`
