package builtins

import (
	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func registerComparison(r *Registry) {
	r.Register(Builtin{Name: "equal", Arity: Fixed(2), Operand: OperandAny, Impl: equal})
	r.Register(Builtin{Name: "lt", Arity: Fixed(2), Operand: OperandAny, Impl: ordering("lt", func(cmp int) bool { return cmp < 0 })})
	r.Register(Builtin{Name: "gt", Arity: Fixed(2), Operand: OperandAny, Impl: ordering("gt", func(cmp int) bool { return cmp > 0 })})
}

// equal compares numbers after coercion and booleans or text by kind.
// Function values have no equality.
func equal(args []runtime.Value) (runtime.Value, error) {
	left, right := args[0], args[1]
	if left.Kind().IsNumeric() && right.Kind().IsNumeric() {
		cmp, err := compareNumeric(left, right)
		if err != nil {
			return nil, err
		}
		return runtime.BooleanValue{Val: cmp == 0}, nil
	}
	for _, arg := range args {
		if arg.Kind().IsCallable() {
			return nil, errors.TypeMismatch("equal", "numeric, boolean or text operands", arg.Kind().String())
		}
	}
	if left.Kind() != right.Kind() {
		return nil, errors.MixedOperands("equal", left.Kind().String(), right.Kind().String())
	}
	return runtime.BooleanValue{Val: runtime.ValuesEqual(left, right)}, nil
}

func ordering(name string, accept func(cmp int) bool) Func {
	return func(args []runtime.Value) (runtime.Value, error) {
		left, right := args[0], args[1]
		switch {
		case left.Kind().IsNumeric() && right.Kind().IsNumeric():
			cmp, err := compareNumeric(left, right)
			if err != nil {
				return nil, err
			}
			return runtime.BooleanValue{Val: accept(cmp)}, nil
		case left.Kind() == runtime.KindBoolean && right.Kind() == runtime.KindBoolean:
			return runtime.BooleanValue{Val: accept(compareBool(left.(runtime.BooleanValue).Val, right.(runtime.BooleanValue).Val))}, nil
		case left.Kind() != right.Kind() && isOrderable(left.Kind()) && isOrderable(right.Kind()):
			return nil, errors.MixedOperands(name, left.Kind().String(), right.Kind().String())
		}
		bad := left
		if isOrderable(left.Kind()) {
			bad = right
		}
		return nil, errors.TypeMismatch(name, "numeric or boolean operands", bad.Kind().String())
	}
}

func isOrderable(kind runtime.Kind) bool {
	return kind.IsNumeric() || kind == runtime.KindBoolean
}

func compareNumeric(left, right runtime.Value) (int, error) {
	l, r, _, err := runtime.CoerceNumeric(left, right)
	if err != nil {
		return 0, err
	}
	switch lv := l.(type) {
	case runtime.WholeValue:
		return compareOrdered(lv.Val, r.(runtime.WholeValue).Val), nil
	case runtime.IntegerValue:
		return compareOrdered(lv.Val, r.(runtime.IntegerValue).Val), nil
	case runtime.FloatValue:
		return compareOrdered(lv.Val, r.(runtime.FloatValue).Val), nil
	}
	return 0, errors.TypeMismatch("comparison", OperandNumeric.String(), l.Kind().String())
}

func compareOrdered[T uint64 | int64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func compareBool(l, r bool) int {
	switch {
	case l == r:
		return 0
	case !l:
		return -1
	default:
		return 1
	}
}
