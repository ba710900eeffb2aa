package interpreter

import (
	"log/slog"

	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

// pushFrame opens a child frame of env. The frame is dropped simply by no
// longer referencing it; closures created inside keep it alive.
func (i *Interpreter) pushFrame(env *runtime.Environment, reason string) *runtime.Environment {
	scope := env.Extend()
	i.logger.Debug("push frame",
		slog.Int("depth", scope.Depth()),
		slog.String("reason", reason))
	return scope
}

func (i *Interpreter) popFrame(scope *runtime.Environment, reason string, err error) {
	i.logger.Debug("pop frame",
		slog.Int("depth", scope.Depth()),
		slog.String("reason", reason),
		slog.Bool("error", err != nil))
}

func (i *Interpreter) enterCall(name string, argc int) error {
	if len(i.calls) >= i.maxCallDepth {
		return errors.CallDepthExceeded(name, i.maxCallDepth)
	}
	i.calls = append(i.calls, name)
	i.logger.Debug("function call",
		slog.String("function", name),
		slog.Int("argument-count", argc),
		slog.Int("call-depth", len(i.calls)))
	return nil
}

func (i *Interpreter) exitCall() {
	i.calls = i.calls[:len(i.calls)-1]
}

// traced attaches the active user call stack to a runtime error the first
// time it unwinds through a call boundary.
func (i *Interpreter) traced(err error) error {
	rt, ok := errors.As(err)
	if !ok || len(rt.Trace) > 0 || len(i.calls) == 0 {
		return err
	}
	trace := i.calls
	if len(trace) > maxTraceFrames {
		trace = trace[len(trace)-maxTraceFrames:]
	}
	return rt.WithTrace(trace)
}

// maxTraceFrames keeps the innermost calls of a deep stack.
const maxTraceFrames = 64
