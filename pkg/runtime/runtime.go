// Package runtime provides the top-level lualike entry points. It wires the
// tokenizer, the evaluator, the builtin registry and the configuration
// together for one program run.
package runtime

import (
	"io"
	"os"

	"fortio.org/log"

	"github.com/shvrma/lualike/pkg/config"
	"github.com/shvrma/lualike/pkg/diagnostics"
	"github.com/shvrma/lualike/pkg/evaluator"
	"github.com/shvrma/lualike/pkg/lexer"
	"github.com/shvrma/lualike/pkg/stdlib"
	"github.com/shvrma/lualike/pkg/value"
)

// DefaultChunkName is the file name used in spans when none is given.
const DefaultChunkName = "<chunk>"

// Result holds the outcome of a program run. Value is nil when the program
// did not return a value.
type Result struct {
	Value value.Value
}

// Runtime runs programs with a fixed set of builtins and settings. Every
// call gets its own tokenizer and global environment.
type Runtime struct {
	stdlib    *stdlib.Registry
	stdout    io.Writer
	cfg       *config.Config
	globals   map[string]value.Value
	chunkName string
	trace     func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdlib sets the builtin registry, replacing the defaults.
func WithStdlib(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.stdlib = r
	}
}

// WithStdout sets where the default print builtin writes.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithConfig applies loaded settings.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		rt.cfg = cfg
	}
}

// WithGlobal pre-binds a global for every run.
func WithGlobal(name string, v value.Value) Option {
	return func(rt *Runtime) {
		rt.globals[name] = v
	}
}

// WithChunkName sets the file name reported in spans.
func WithChunkName(name string) Option {
	return func(rt *Runtime) {
		rt.chunkName = name
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options. By default the stdlib
// builtins are registered and print writes to os.Stdout.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		stdout:    os.Stdout,
		cfg:       config.Default(),
		globals:   make(map[string]value.Value),
		chunkName: DefaultChunkName,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.stdlib == nil {
		rt.stdlib = stdlib.NewRegistry()
		stdlib.RegisterDefaults(rt.stdlib, rt.stdout)
	}
	return rt
}

// Configure applies the process-wide settings of cfg: the log level and
// diagnostic coloring. Runtimes never change them on their own.
func Configure(cfg *config.Config) error {
	if cfg.LogLevel != "" {
		lvl, err := log.ValidateLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLogLevel(lvl)
	}
	if cfg.Color != nil {
		diagnostics.SetColor(*cfg.Color)
	}
	return nil
}

// newGlobals builds the global environment of one run: builtins, then
// configured globals, then WithGlobal bindings.
func (rt *Runtime) newGlobals() (*evaluator.Globals, error) {
	globals := evaluator.NewGlobals()
	rt.stdlib.Install(globals)

	configured, err := rt.cfg.GlobalValues()
	if err != nil {
		return nil, err
	}
	for name, v := range configured {
		globals.Set(name, v)
	}
	for name, v := range rt.globals {
		globals.Set(name, v)
	}
	return globals, nil
}

func (rt *Runtime) newEvaluator(source string) (*evaluator.Evaluator, error) {
	globals, err := rt.newGlobals()
	if err != nil {
		return nil, err
	}
	tokens := lexer.New(source, rt.chunkName, lexer.WithMaxNameLength(rt.cfg.MaxNameLength))
	return evaluator.New(tokens, globals, evaluator.Options{Trace: rt.trace}), nil
}

// Interpret runs source as a program and returns the value of its first
// executed return statement, if any.
func (rt *Runtime) Interpret(source string) (*Result, error) {
	log.Debugf("interpreting %s (%d bytes)", rt.chunkName, len(source))
	ev, err := rt.newEvaluator(source)
	if err != nil {
		return nil, err
	}
	res, err := ev.Run()
	if err != nil {
		log.Debugf("%s failed: %v", rt.chunkName, err)
		return nil, err
	}
	log.Debugf("%s finished: %s", rt.chunkName, res.State)
	return &Result{Value: res.Value}, nil
}

// EvaluateExpression evaluates source as a single expression. Statement
// forms are not accepted.
func (rt *Runtime) EvaluateExpression(source string) (value.Value, error) {
	ev, err := rt.newEvaluator(source)
	if err != nil {
		return nil, err
	}
	return ev.EvaluateExpression()
}

// Interpret runs source with a default Runtime.
func Interpret(source string) (*Result, error) {
	return New().Interpret(source)
}

// EvaluateExpression evaluates source with a default Runtime.
func EvaluateExpression(source string) (value.Value, error) {
	return New().EvaluateExpression(source)
}
