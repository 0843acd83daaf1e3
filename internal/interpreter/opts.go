package interpreter

import (
	"io"
	"os"
	"time"
)

// DefaultMaxCallDepth bounds nested calls before "Stack overflow." is raised.
const DefaultMaxCallDepth = 4096

type interpreterOpts struct {
	globals      *Environment
	stdout       io.Writer
	maxCallDepth int
	clock        func() time.Time
}

var defaultInterpreterOpts = interpreterOpts{
	stdout:       os.Stdout,
	maxCallDepth: DefaultMaxCallDepth,
	clock:        time.Now,
}

type InterpreterOption func(*interpreterOpts)

// WithGlobals shares a global environment, e.g. across REPL lines or
// between interpreters.
func WithGlobals(globals *Environment) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.globals = globals
	}
}

// WithStdout redirects print.
func WithStdout(stdout io.Writer) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.stdout = stdout
	}
}

func WithMaxCallDepth(depth int) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.maxCallDepth = depth
	}
}

// WithClock replaces the time source behind clock().
func WithClock(clock func() time.Time) InterpreterOption {
	return func(opts *interpreterOpts) {
		opts.clock = clock
	}
}

func newInterpreterOpts(options ...InterpreterOption) *interpreterOpts {
	opts := defaultInterpreterOpts
	for _, opt := range options {
		opt(&opts)
	}

	if opts.globals == nil {
		opts.globals = NewEnvironment()
	}
	if opts.maxCallDepth <= 0 {
		opts.maxCallDepth = DefaultMaxCallDepth
	}

	return &opts
}
