package runtime

import (
	"fmt"

	"tally/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindWhole Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindText
	KindFunction
	KindNativeFunction
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindWhole:
		return "whole"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin function"
	case KindVoid:
		return "nothing"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// IsNumeric reports whether k sits on the whole ⊆ integer ⊆ float lattice.
func (k Kind) IsNumeric() bool {
	return k == KindWhole || k == KindInteger || k == KindFloat
}

// IsCallable reports whether values of kind k can be called.
func (k Kind) IsCallable() bool {
	return k == KindFunction || k == KindNativeFunction
}

// KindForType maps a declared type name onto the kind a binding of that type
// holds. Built-in and user functions both satisfy "function".
func KindForType(t ast.TypeName) (Kind, bool) {
	switch t {
	case ast.TypeWhole:
		return KindWhole, true
	case ast.TypeInteger:
		return KindInteger, true
	case ast.TypeFloat:
		return KindFloat, true
	case ast.TypeBoolean:
		return KindBoolean, true
	case ast.TypeText:
		return KindText, true
	case ast.TypeFunction:
		return KindFunction, true
	default:
		return 0, false
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type WholeValue struct {
	Val uint64
}

func (v WholeValue) Kind() Kind { return KindWhole }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type BooleanValue struct {
	Val bool
}

func (v BooleanValue) Kind() Kind { return KindBoolean }

type TextValue struct {
	Val string
}

func (v TextValue) Kind() Kind { return KindText }

// VoidValue is the result of a call whose body finished without returning.
// It is never stored or printed.
type VoidValue struct {
	Callee string
}

func (VoidValue) Kind() Kind { return KindVoid }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue pairs a function literal with the environment it was
// evaluated in. The closure is shared, so later rebinding of the function's
// own name in that environment is visible to calls.
type FunctionValue struct {
	Declaration *ast.FunctionLiteral
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Arity reports the number of declared parameters.
func (v *FunctionValue) Arity() int {
	if v == nil || v.Declaration == nil {
		return 0
	}
	return len(v.Declaration.Params)
}

type NativeFunc func(args []Value) (Value, error)

// NativeFunctionValue exposes a built-in as a first-class value. Arity is
// negative for variadic built-ins.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Utility helpers
//-----------------------------------------------------------------------------

// ValuesEqual compares two values of the same kind structurally. Functions
// compare by identity.
func ValuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case WholeValue:
		r, ok := right.(WholeValue)
		return ok && l.Val == r.Val
	case IntegerValue:
		r, ok := right.(IntegerValue)
		return ok && l.Val == r.Val
	case FloatValue:
		r, ok := right.(FloatValue)
		return ok && l.Val == r.Val
	case BooleanValue:
		r, ok := right.(BooleanValue)
		return ok && l.Val == r.Val
	case TextValue:
		r, ok := right.(TextValue)
		return ok && l.Val == r.Val
	case *FunctionValue:
		r, ok := right.(*FunctionValue)
		return ok && l == r
	case NativeFunctionValue:
		r, ok := right.(NativeFunctionValue)
		return ok && l.Name == r.Name
	default:
		return false
	}
}
