package interpreter

import (
	"strings"
	"testing"

	"tally/interpreter-go/pkg/ast"
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func expectRuntimeError(t *testing.T, kind errors.Kind, stmts ...ast.Statement) *errors.RuntimeError {
	t.Helper()
	_, err := New().EvaluateProgram(ast.Program(stmts...))
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	}
	rt, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected runtime error, got %T: %v", err, err)
	}
	if rt.Kind != kind {
		t.Fatalf("expected %s, got %s: %v", kind, rt.Kind, err)
	}
	return rt
}

func TestBindingOutOfScopeAfterLoop(t *testing.T) {
	rt := expectRuntimeError(t, errors.KindUnboundName,
		ast.Decl("x", ast.TypeWhole),
		ast.Set("x", ast.Whole(0)),
		ast.Loop(ast.CallExpr("lt", ast.ID("x"), ast.Whole(4)),
			ast.Decl("y", ast.TypeWhole),
			ast.Set("x", ast.CallExpr("add", ast.ID("x"), ast.Whole(1))),
			ast.Set("y", ast.CallExpr("multiply", ast.ID("x"), ast.Whole(2))),
		),
		ast.Print(ast.ID("y")),
	)
	if rt.Name != "y" || !strings.HasPrefix(rt.Message, "no value bound to 'y'") {
		t.Fatalf("unexpected diagnostic %q", rt.Message)
	}
}

func TestReadBeforeAssign(t *testing.T) {
	rt := expectRuntimeError(t, errors.KindUninitializedBinding,
		ast.Decl("x", ast.TypeWhole),
		ast.Print(ast.ID("x")),
	)
	if !strings.HasPrefix(rt.Message, "no value bound to 'x'") {
		t.Fatalf("unexpected diagnostic %q", rt.Message)
	}
}

func TestDuplicateDeclarationSameFrame(t *testing.T) {
	expectRuntimeError(t, errors.KindDuplicateDeclaration,
		ast.Decl("x", ast.TypeWhole),
		ast.Decl("x", ast.TypeWhole),
	)
}

func TestDuplicateParameterNames(t *testing.T) {
	expectRuntimeError(t, errors.KindDuplicateDeclaration,
		ast.Decl("f", ast.TypeFunction),
		ast.Set("f", ast.Fn(
			[]*ast.FunctionParameter{ast.Param("a", ast.TypeWhole), ast.Param("a", ast.TypeWhole)},
			ast.TypeWhole,
			ast.Ret(ast.ID("a")),
		)),
		ast.Print(ast.CallExpr("f", ast.Whole(1), ast.Whole(2))),
	)
}

func TestReturnOutsideFunction(t *testing.T) {
	expectRuntimeError(t, errors.KindReturnOutsideFunction, ast.Ret(ast.Whole(1)))
	expectRuntimeError(t, errors.KindReturnOutsideFunction,
		ast.Loop(ast.Bool(true), ast.Ret(ast.Whole(1))),
	)
	expectRuntimeError(t, errors.KindReturnOutsideFunction,
		ast.Blk(ast.Ret(ast.Whole(1))),
	)
}

func TestMissingReturnWhenResultUsed(t *testing.T) {
	rt := expectRuntimeError(t, errors.KindMissingReturn,
		ast.Decl("noop", ast.TypeFunction),
		ast.Set("noop", ast.Fn(nil, ast.TypeWhole)),
		ast.Decl("r", ast.TypeWhole),
		ast.Set("r", ast.CallExpr("noop")),
	)
	if rt.Name != "noop" {
		t.Fatalf("expected callee name in diagnostic, got %q", rt.Name)
	}
	expectRuntimeError(t, errors.KindMissingReturn,
		ast.Decl("noop", ast.TypeFunction),
		ast.Set("noop", ast.Fn(nil, "")),
		ast.Print(ast.CallExpr("add", ast.CallExpr("noop"), ast.Whole(1))),
	)
}

func TestConditionMustBeBoolean(t *testing.T) {
	expectRuntimeError(t, errors.KindTypeMismatch,
		ast.Loop(ast.Whole(1), ast.Print(ast.Txt("never"))),
	)
}

func TestCallingNonFunction(t *testing.T) {
	rt := expectRuntimeError(t, errors.KindTypeMismatch,
		ast.Decl("n", ast.TypeWhole),
		ast.Set("n", ast.Whole(1)),
		ast.Print(ast.CallExpr("n")),
	)
	if rt.Code != "TYPE-0003" {
		t.Fatalf("expected not-callable code, got %s", rt.Code)
	}
}

func TestUserFunctionArity(t *testing.T) {
	expectRuntimeError(t, errors.KindArityMismatch,
		ast.Decl("id", ast.TypeFunction),
		ast.Set("id", ast.Fn([]*ast.FunctionParameter{ast.Param("v", ast.TypeWhole)}, ast.TypeWhole, ast.Ret(ast.ID("v")))),
		ast.Print(ast.CallExpr("id", ast.Whole(1), ast.Whole(2))),
	)
}

func TestBuiltinErrorsSurface(t *testing.T) {
	expectRuntimeError(t, errors.KindArityMismatch, ast.Print(ast.CallExpr("power", ast.Whole(2))))
	expectRuntimeError(t, errors.KindTypeMismatch, ast.Print(ast.CallExpr("nand", ast.Bool(true), ast.Whole(1))))
}

func TestNarrowingReturnRejected(t *testing.T) {
	expectRuntimeError(t, errors.KindTypeMismatch,
		ast.Decl("neg", ast.TypeFunction),
		ast.Set("neg", ast.Fn(nil, ast.TypeWhole, ast.Ret(ast.Int(-1)))),
		ast.Print(ast.CallExpr("neg")),
	)
}

func TestErrorCarriesCallTrace(t *testing.T) {
	rt := expectRuntimeError(t, errors.KindTypeMismatch,
		ast.Decl("inner", ast.TypeFunction),
		ast.Set("inner", ast.Fn(nil, ast.TypeBoolean, ast.Ret(ast.CallExpr("nand", ast.Whole(1), ast.Whole(1))))),
		ast.Decl("outer", ast.TypeFunction),
		ast.Set("outer", ast.Fn(nil, ast.TypeBoolean, ast.Ret(ast.CallExpr("inner")))),
		ast.Print(ast.CallExpr("outer")),
	)
	if strings.Join(rt.Trace, ",") != "outer,inner" {
		t.Fatalf("unexpected trace %v", rt.Trace)
	}
}

func TestOutputBeforeErrorIsKept(t *testing.T) {
	out, err := New().EvaluateProgram(ast.Program(
		ast.Print(ast.Txt("first")),
		ast.Print(ast.ID("missing")),
		ast.Print(ast.Txt("never")),
	))
	if !errors.IsKind(err, errors.KindUnboundName) {
		t.Fatalf("expected UnboundName, got %v", err)
	}
	expectOutput(t, out, runtime.TextValue{Val: "first"})
}

func TestFailedCallLeavesGlobalFrameUsable(t *testing.T) {
	interp := New()
	if _, err := interp.ExecuteStatement(ast.Blk(
		ast.Decl("tmp", ast.TypeWhole),
		ast.Print(ast.ID("tmp")),
	)); err == nil {
		t.Fatalf("expected uninitialized read to fail")
	}
	if _, ok := interp.GlobalEnvironment().Lookup("tmp"); ok {
		t.Fatalf("block binding leaked into the global frame")
	}
	out, err := interp.ExecuteStatement(ast.Print(ast.Whole(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectOutput(t, out, runtime.WholeValue{Val: 1})
}

func spinProgram() *ast.Block {
	return ast.Program(
		ast.Decl("spin", ast.TypeFunction),
		ast.Set("spin", ast.Fn(nil, ast.TypeWhole, ast.Ret(ast.CallExpr("spin")))),
		ast.Print(ast.CallExpr("spin")),
	)
}

func TestRunawayRecursionHitsCallDepth(t *testing.T) {
	interp := NewWithOptions(Options{MaxCallDepth: 50})
	_, err := interp.EvaluateProgram(spinProgram())
	rt, ok := errors.As(err)
	if !ok || rt.Kind != errors.KindCallDepthExceeded {
		t.Fatalf("expected CallDepthExceeded, got %v", err)
	}
	if rt.Name != "spin" || !strings.Contains(rt.Message, "maximum call depth of 50") {
		t.Fatalf("unexpected diagnostic %q", rt.Message)
	}
	if len(rt.Trace) != 50 {
		t.Fatalf("expected 50 trace frames, got %d", len(rt.Trace))
	}
	out, err := interp.ExecuteStatement(ast.Print(ast.Whole(1)))
	if err != nil {
		t.Fatalf("interpreter unusable after depth error: %v", err)
	}
	expectOutput(t, out, runtime.WholeValue{Val: 1})
}

func TestDefaultCallDepthStopsRunawayRecursion(t *testing.T) {
	_, err := New().EvaluateProgram(spinProgram())
	rt, ok := errors.As(err)
	if !ok || rt.Kind != errors.KindCallDepthExceeded {
		t.Fatalf("expected CallDepthExceeded, got %v", err)
	}
	if len(rt.Trace) != maxTraceFrames {
		t.Fatalf("expected trace capped at %d frames, got %d", maxTraceFrames, len(rt.Trace))
	}
}

func TestRecursionWithinCallDepth(t *testing.T) {
	interp := NewWithOptions(Options{MaxCallDepth: 50})
	out, err := interp.EvaluateProgram(ast.Program(
		ast.Decl("down", ast.TypeFunction),
		ast.Set("down", ast.Fn([]*ast.FunctionParameter{ast.Param("n", ast.TypeWhole)}, ast.TypeWhole,
			ast.Loop(ast.CallExpr("equal", ast.ID("n"), ast.Whole(0)), ast.Ret(ast.Whole(0))),
			ast.Ret(ast.CallExpr("down", ast.CallExpr("subtract", ast.ID("n"), ast.Whole(1)))),
		)),
		ast.Print(ast.CallExpr("down", ast.Whole(49))),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectOutput(t, out, runtime.WholeValue{Val: 0})
}
