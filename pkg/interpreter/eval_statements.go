package interpreter

import (
	"fmt"

	"tally/interpreter-go/pkg/ast"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (flow, error) {
	switch n := node.(type) {
	case *ast.Declare:
		return i.evaluateDeclare(n, env)
	case *ast.Assign:
		return i.evaluateAssign(n, env)
	case *ast.ExpressionStatement:
		return i.evaluateExpressionStatement(n, env)
	case *ast.Block:
		return i.evaluateBlock(n, env)
	case *ast.While:
		return i.evaluateWhileLoop(n, env)
	case *ast.Return:
		return i.evaluateReturn(n, env)
	case nil:
		return completed, fmt.Errorf("nil statement")
	default:
		return completed, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

// evaluateStatements runs statements in order in env, stopping at the first
// Returning flow or error.
func (i *Interpreter) evaluateStatements(body []ast.Statement, env *runtime.Environment) (flow, error) {
	for _, stmt := range body {
		result, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return completed, err
		}
		if result.kind == flowReturning {
			return result, nil
		}
	}
	return completed, nil
}

func (i *Interpreter) evaluateDeclare(decl *ast.Declare, env *runtime.Environment) (flow, error) {
	kind, ok := runtime.KindForType(decl.DeclaredType)
	if !ok {
		return completed, errors.UnknownType(string(decl.DeclaredType))
	}
	return completed, env.Declare(decl.Name, kind)
}

func (i *Interpreter) evaluateAssign(assign *ast.Assign, env *runtime.Environment) (flow, error) {
	val, err := i.evaluateValue(assign.Value, env)
	if err != nil {
		return completed, err
	}
	return completed, env.Assign(assign.Name, val)
}

// evaluateExpressionStatement prints the expression's value. A call that
// finished without returning has nothing to print.
func (i *Interpreter) evaluateExpressionStatement(stmt *ast.ExpressionStatement, env *runtime.Environment) (flow, error) {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return completed, err
	}
	if _, ok := val.(runtime.VoidValue); ok {
		return completed, nil
	}
	return completed, i.emit(val)
}

func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (result flow, err error) {
	scope := i.pushFrame(env, "block")
	defer func() { i.popFrame(scope, "block", err) }()
	return i.evaluateStatements(block.Body, scope)
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.While, env *runtime.Environment) (flow, error) {
	for {
		cond, err := i.evaluateValue(loop.Condition, env)
		if err != nil {
			return completed, err
		}
		b, ok := cond.(runtime.BooleanValue)
		if !ok {
			return completed, errors.ConditionNotBoolean(cond.Kind().String())
		}
		if !b.Val {
			return completed, nil
		}
		result, err := i.evaluateBlock(loop.Body, env)
		if err != nil {
			return completed, err
		}
		if result.kind == flowReturning {
			return result, nil
		}
	}
}

func (i *Interpreter) evaluateReturn(ret *ast.Return, env *runtime.Environment) (flow, error) {
	val, err := i.evaluateValue(ret.Argument, env)
	if err != nil {
		return completed, err
	}
	return returning(val), nil
}
