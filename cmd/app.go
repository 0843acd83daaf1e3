package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chzyer/readline"

	"github.com/loxlang/golox/internal/interpreter"
	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/scanner"
)

// Exit codes follow sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
)

const logLevelEnv = "GOLOX_LOG_LEVEL"

type config struct {
	script       string
	verbose      bool
	printAst     bool
	maxCallDepth int
}

type LoxApp struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	reporter loxerrors.ErrReporter
	cfg      config
}

func NewLoxApp(stdin io.Reader, stdout, stderr io.Writer) *LoxApp {
	return &LoxApp{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		logger:   newLogger(stderr, false),
		reporter: loxerrors.NewErrReporter(stderr),
	}
}

// Main runs the command line and returns the process exit code.
func (app *LoxApp) Main(args []string) int {
	cfg, err := app.parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		_, _ = fmt.Fprintln(app.stderr, err)
		return ExitUsage
	}

	app.cfg = cfg
	app.logger = newLogger(app.stderr, cfg.verbose)

	ctx := context.Background()
	if cfg.script != "" {
		return app.runFile(ctx, cfg.script)
	}
	return app.runPrompt(ctx)
}

func (app *LoxApp) parseFlags(args []string) (config, error) {
	cfg := config{}

	fs := flag.NewFlagSet("golox", flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	fs.StringVar(&cfg.script, "file", "", "path to a Lox script")
	fs.StringVar(&cfg.script, "f", "", "shorthand for --file")
	fs.BoolVar(&cfg.verbose, "v", false, "log debug details to stderr")
	fs.BoolVar(&cfg.printAst, "ast", false, "print the syntax tree instead of running the script")
	fs.IntVar(&cfg.maxCallDepth, "max-call-depth", interpreter.DefaultMaxCallDepth, "nested calls allowed before a stack overflow")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: golox [flags] [script]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if cfg.script != "" {
			return cfg, fmt.Errorf("Usage: golox [flags] [script]: script given twice")
		}
		cfg.script = fs.Arg(0)
	default:
		return cfg, fmt.Errorf("Usage: golox [flags] [script]")
	}

	return cfg, nil
}

func (app *LoxApp) runFile(ctx context.Context, scriptPath string) int {
	app.logger.Info("Reading input from file", "path", scriptPath)

	bytes, err := os.ReadFile(scriptPath)
	if err != nil {
		_, _ = fmt.Fprintln(app.stderr, err)
		return ExitIOErr
	}
	app.logger.Debug("Read input", "path", scriptPath, "bytes", len(bytes))

	app.run(ctx, app.newInterpreter(nil), string(bytes))

	switch {
	case app.reporter.HadError():
		return ExitDataErr
	case app.reporter.HadRuntimeError():
		return ExitSoftware
	}
	return ExitOK
}

func (app *LoxApp) runPrompt(ctx context.Context) int {
	app.logger.Info("Running in interactive mode")

	rl, err := readline.NewEx(app.readlineConfig())
	if err != nil {
		_, _ = fmt.Fprintln(app.stderr, err)
		return ExitIOErr
	}
	defer rl.Close()

	globals := interpreter.NewEnvironment()
	interp := app.newInterpreter(globals)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return ExitOK
		}
		if err != nil {
			_, _ = fmt.Fprintln(app.stderr, err)
			return ExitIOErr
		}

		if echo := app.run(ctx, interp, line); echo != "" {
			_, _ = fmt.Fprintln(app.stdout, echo)
		}
		app.logger.Debug("Globals", "env", globals)
		app.reporter.Reset()
	}
}

// readlineConfig only touches the tty when stdin is one. Piped input gets
// no prompts and no raw mode.
func (app *LoxApp) readlineConfig() *readline.Config {
	cfg := &readline.Config{
		Prompt:          "> ",
		Stdin:           io.NopCloser(app.stdin),
		Stdout:          app.stdout,
		Stderr:          app.stderr,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}

	if f, ok := app.stdin.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return cfg
	}

	noop := func() error { return nil }
	cfg.FuncIsTerminal = func() bool { return false }
	cfg.FuncMakeRaw = noop
	cfg.FuncExitRaw = noop
	return cfg
}

func (app *LoxApp) newInterpreter(globals *interpreter.Environment) interpreter.Interpreter {
	return interpreter.NewInterpreter(
		interpreter.WithGlobals(globals),
		interpreter.WithStdout(app.stdout),
		interpreter.WithMaxCallDepth(app.cfg.maxCallDepth),
	)
}

// run pushes source through every phase. Static diagnostics from scanning
// and parsing are reported together and stop the run before resolution.
func (app *LoxApp) run(ctx context.Context, interp interpreter.Interpreter, source string) string {
	start := time.Now()

	tokens, err := scanner.NewScanner(source).Scan()
	if err != nil {
		app.reporter.ReportError(err)
	}
	app.logger.Debug("Scanned", "tokens", len(tokens), "elapsed", time.Since(start))

	statements, err := parser.NewParser(tokens).Parse()
	if err != nil {
		app.reporter.ReportError(err)
	}
	app.logger.Debug("Parsed", "statements", len(statements), "elapsed", time.Since(start))
	if app.reporter.HadError() {
		return ""
	}

	if app.cfg.printAst {
		_, _ = fmt.Fprint(app.stdout, parser.NewAstPrinter().PrintStmts(statements))
		return ""
	}

	if err := interpreter.NewResolver().Resolve(ctx, statements); err != nil {
		app.reporter.ReportError(err)
		return ""
	}
	app.logger.Debug("Resolved", "elapsed", time.Since(start))

	echo, err := interp.Interpret(ctx, statements)
	app.logger.Debug("Interpreted", "elapsed", time.Since(start))
	if err != nil {
		app.reporter.ReportError(err)
		return ""
	}

	return echo
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if env, ok := os.LookupEnv(logLevelEnv); ok {
		if err := level.UnmarshalText([]byte(env)); err != nil {
			level = slog.LevelWarn
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
