package interpreter

import (
	"fmt"

	"tally/interpreter-go/pkg/ast"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.WholeLiteral:
		return runtime.WholeValue{Val: n.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BooleanValue{Val: n.Value}, nil
	case *ast.TextLiteral:
		return runtime.TextValue{Val: n.Value}, nil
	case *ast.Identifier:
		return i.lookup(n.Name, env)
	case *ast.FunctionLiteral:
		return &runtime.FunctionValue{Declaration: n, Closure: env}, nil
	case *ast.Call:
		return i.evaluateCall(n, env)
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

// evaluateValue evaluates an expression whose result is required. Using the
// result of a call that never returned is an error.
func (i *Interpreter) evaluateValue(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(node, env)
	if err != nil {
		return nil, err
	}
	if void, ok := val.(runtime.VoidValue); ok {
		return nil, errors.MissingReturn(void.Callee)
	}
	return val, nil
}

// lookup resolves a name through the scope chain, falling back to the
// built-in registry when no live frame declares it. A user binding of the
// same name shadows the built-in.
func (i *Interpreter) lookup(name string, env *runtime.Environment) (runtime.Value, error) {
	if _, ok := env.Lookup(name); ok {
		return env.Get(name)
	}
	if fn, ok := i.builtins.Value(name); ok {
		return fn, nil
	}
	candidates := append(env.VisibleNames(), i.builtins.Names()...)
	return nil, errors.UnboundName(name, candidates)
}
