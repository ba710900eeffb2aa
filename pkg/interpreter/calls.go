package interpreter

import (
	"log/slog"

	"tally/interpreter-go/pkg/ast"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateCall(call *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	calleeVal, err := i.lookup(call.Callee, env)
	if err != nil {
		return nil, err
	}
	if !calleeVal.Kind().IsCallable() {
		return nil, errors.NotCallable(call.Callee, calleeVal.Kind().String())
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateValue(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	switch fn := calleeVal.(type) {
	case runtime.NativeFunctionValue:
		i.logger.Debug("builtin call",
			slog.String("function", fn.Name),
			slog.Int("argument-count", len(args)))
		return fn.Impl(args)
	case *runtime.FunctionValue:
		return i.invokeFunction(call.Callee, fn, args)
	default:
		return nil, errors.NotCallable(call.Callee, calleeVal.Kind().String())
	}
}

// invokeFunction runs a user function. Parameters live in a fresh frame whose
// parent is the closure, not the caller's scope.
func (i *Interpreter) invokeFunction(name string, fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	decl := fn.Declaration
	if len(args) != len(decl.Params) {
		return nil, errors.ArityMismatch(name, len(decl.Params), len(args))
	}
	if err := i.enterCall(name, len(args)); err != nil {
		return nil, i.traced(err)
	}
	defer i.exitCall()

	frame := i.pushFrame(fn.Closure, "call "+name)
	result, err := i.runFunctionBody(decl, frame, args)
	i.popFrame(frame, "call "+name, err)
	if err != nil {
		return nil, i.traced(err)
	}
	if result.kind != flowReturning {
		return runtime.VoidValue{Callee: name}, nil
	}
	if decl.ReturnType == "" {
		return result.value, nil
	}
	kind, ok := runtime.KindForType(decl.ReturnType)
	if !ok {
		return nil, i.traced(errors.UnknownType(string(decl.ReturnType)))
	}
	val, err := runtime.CoerceTo(result.value, kind)
	if err != nil {
		return nil, i.traced(err)
	}
	return val, nil
}

func (i *Interpreter) runFunctionBody(decl *ast.FunctionLiteral, frame *runtime.Environment, args []runtime.Value) (flow, error) {
	for idx, param := range decl.Params {
		kind, ok := runtime.KindForType(param.ParamType)
		if !ok {
			return completed, errors.UnknownType(string(param.ParamType))
		}
		if err := frame.Define(param.Name, kind, args[idx]); err != nil {
			return completed, err
		}
	}
	if decl.Body == nil {
		return completed, nil
	}
	return i.evaluateBlock(decl.Body, frame)
}
