// Package interpreter walks tally ASTs: it drives the scope chain, dispatches
// built-in and user calls, and emits the value of every bare expression
// statement on the output channel.
package interpreter

import (
	"io"
	"log/slog"

	"tally/interpreter-go/pkg/ast"
	"tally/interpreter-go/pkg/builtins"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of tally AST nodes. It is single-threaded;
// one Interpreter owns one scope chain rooted at its global frame.
type Interpreter struct {
	global   *runtime.Environment
	builtins *builtins.Registry
	output   Output
	logger   *slog.Logger

	calls        []string
	maxCallDepth int
	emitted      []runtime.Value
}

// Options configures a new interpreter. Zero values select the standard
// built-in catalogue, no external output and a discard logger.
type Options struct {
	Builtins *builtins.Registry
	Output   Output
	Logger   *slog.Logger

	// MaxCallDepth caps nested user calls; zero means DefaultMaxCallDepth.
	MaxCallDepth int
}

// DefaultMaxCallDepth bounds recursion well below the goroutine stack limit.
const DefaultMaxCallDepth = 10000

// New returns an interpreter with an empty global environment and the
// standard built-ins.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

func NewWithOptions(opts Options) *Interpreter {
	registry := opts.Builtins
	if registry == nil {
		registry = builtins.Standard()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxDepth := opts.MaxCallDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &Interpreter{
		global:       runtime.NewEnvironment(nil),
		builtins:     registry,
		output:       opts.Output,
		logger:       logger,
		maxCallDepth: maxDepth,
	}
}

// GlobalEnvironment returns the interpreter’s global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Builtins returns the registry calls fall back to.
func (i *Interpreter) Builtins() *builtins.Registry {
	return i.builtins
}

// EvaluateProgram executes the root block in the global frame and returns
// the values it printed, in order. On error the values printed before the
// failure are returned alongside it.
func (i *Interpreter) EvaluateProgram(program *ast.Block) ([]runtime.Value, error) {
	if program == nil {
		return nil, nil
	}
	return i.run(program.Body)
}

// ExecuteStatement runs one top-level statement against the persistent
// global frame. The REPL feeds statements through here one at a time.
func (i *Interpreter) ExecuteStatement(stmt ast.Statement) ([]runtime.Value, error) {
	return i.run([]ast.Statement{stmt})
}

func (i *Interpreter) run(body []ast.Statement) ([]runtime.Value, error) {
	i.emitted = nil
	i.calls = i.calls[:0]
	result, err := i.evaluateStatements(body, i.global)
	emitted := i.emitted
	i.emitted = nil
	if err != nil {
		return emitted, err
	}
	if result.kind == flowReturning {
		return emitted, errors.ReturnOutsideFunction()
	}
	return emitted, nil
}
