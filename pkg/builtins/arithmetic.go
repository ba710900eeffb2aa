package builtins

import (
	"math"
	"math/bits"

	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func registerArithmetic(r *Registry) {
	r.Register(Builtin{Name: "add", Arity: Variadic, Operand: OperandNumeric, Impl: foldNumeric("add")})
	r.Register(Builtin{Name: "multiply", Arity: Variadic, Operand: OperandAny, Impl: multiply})
	r.Register(Builtin{Name: "subtract", Arity: Fixed(2), Operand: OperandNumeric, Impl: binaryNumeric("subtract")})
	r.Register(Builtin{Name: "divide", Arity: Fixed(2), Operand: OperandNumeric, Impl: binaryNumeric("divide")})
	r.Register(Builtin{Name: "remainder", Arity: Fixed(2), Operand: OperandNumeric, Impl: binaryNumeric("remainder")})
	r.Register(Builtin{Name: "power", Arity: Fixed(2), Operand: OperandNumeric, Impl: binaryNumeric("power")})
}

// promoteAll lifts every operand to the join of all operand kinds, so the
// result kind of a fold never depends on argument order.
func promoteAll(name string, args []runtime.Value) ([]runtime.Value, error) {
	target := args[0].Kind()
	for _, arg := range args[1:] {
		joined, ok := runtime.Join(target, arg.Kind())
		if !ok {
			return nil, errors.TypeMismatch(name, OperandNumeric.String(), arg.Kind().String())
		}
		target = joined
	}
	out := make([]runtime.Value, len(args))
	for idx, arg := range args {
		promoted, err := runtime.CoerceTo(arg, target)
		if err != nil {
			return nil, err
		}
		out[idx] = promoted
	}
	return out, nil
}

func foldNumeric(name string) Func {
	return func(args []runtime.Value) (runtime.Value, error) {
		operands, err := promoteAll(name, args)
		if err != nil {
			return nil, err
		}
		acc := operands[0]
		for _, next := range operands[1:] {
			acc, err = evaluateArithmetic(name, acc, next)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
}

func binaryNumeric(name string) Func {
	return func(args []runtime.Value) (runtime.Value, error) {
		left, right, _, err := runtime.CoerceNumeric(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return evaluateArithmetic(name, left, right)
	}
}

// multiply is a numeric product, or text repetition when the first operand
// is text.
func multiply(args []runtime.Value) (runtime.Value, error) {
	if args[0].Kind() == runtime.KindText {
		if len(args) != 2 {
			return nil, errors.ArityMismatch("multiply", 2, len(args))
		}
		return repeatText("multiply", args[0], args[1])
	}
	for _, arg := range args {
		if !arg.Kind().IsNumeric() {
			return nil, errors.TypeMismatch("multiply", OperandNumeric.String(), arg.Kind().String())
		}
	}
	return foldNumeric("multiply")(args)
}

// evaluateArithmetic applies op to two operands of the same numeric kind.
func evaluateArithmetic(op string, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	switch lv := left.(type) {
	case runtime.WholeValue:
		rv := right.(runtime.WholeValue)
		return wholeArithmetic(op, lv.Val, rv.Val)
	case runtime.IntegerValue:
		rv := right.(runtime.IntegerValue)
		return integerArithmetic(op, lv.Val, rv.Val)
	case runtime.FloatValue:
		rv := right.(runtime.FloatValue)
		var val float64
		switch op {
		case "add":
			val = lv.Val + rv.Val
		case "subtract":
			val = lv.Val - rv.Val
		case "multiply":
			val = lv.Val * rv.Val
		case "divide":
			val = lv.Val / rv.Val
		case "remainder":
			val = math.Mod(lv.Val, rv.Val)
		case "power":
			val = math.Pow(lv.Val, rv.Val)
		}
		return runtime.FloatValue{Val: val}, nil
	default:
		return nil, errors.TypeMismatch(op, OperandNumeric.String(), left.Kind().String())
	}
}

func wholeArithmetic(op string, l, r uint64) (runtime.Value, error) {
	switch op {
	case "add":
		sum, carry := bits.Add64(l, r, 0)
		if carry != 0 {
			return nil, errors.Overflow(op, "whole")
		}
		return runtime.WholeValue{Val: sum}, nil
	case "subtract":
		diff, borrow := bits.Sub64(l, r, 0)
		if borrow != 0 {
			return nil, errors.Overflow(op, "whole")
		}
		return runtime.WholeValue{Val: diff}, nil
	case "multiply":
		hi, lo := bits.Mul64(l, r)
		if hi != 0 {
			return nil, errors.Overflow(op, "whole")
		}
		return runtime.WholeValue{Val: lo}, nil
	case "divide":
		if r == 0 {
			return nil, errors.DivisionByZero(op)
		}
		return runtime.WholeValue{Val: l / r}, nil
	case "remainder":
		if r == 0 {
			return nil, errors.DivisionByZero(op)
		}
		return runtime.WholeValue{Val: l % r}, nil
	case "power":
		result := uint64(1)
		base := l
		for exp := r; exp > 0; exp >>= 1 {
			if exp&1 == 1 {
				hi, lo := bits.Mul64(result, base)
				if hi != 0 {
					return nil, errors.Overflow(op, "whole")
				}
				result = lo
			}
			if exp > 1 {
				hi, lo := bits.Mul64(base, base)
				if hi != 0 {
					return nil, errors.Overflow(op, "whole")
				}
				base = lo
			}
		}
		return runtime.WholeValue{Val: result}, nil
	}
	return nil, errors.TypeMismatch(op, OperandNumeric.String(), "whole")
}

func integerArithmetic(op string, l, r int64) (runtime.Value, error) {
	switch op {
	case "add":
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return nil, errors.Overflow(op, "integer")
		}
		return runtime.IntegerValue{Val: sum}, nil
	case "subtract":
		diff := l - r
		if (r > 0 && diff > l) || (r < 0 && diff < l) {
			return nil, errors.Overflow(op, "integer")
		}
		return runtime.IntegerValue{Val: diff}, nil
	case "multiply":
		product, ok := mulInt64(l, r)
		if !ok {
			return nil, errors.Overflow(op, "integer")
		}
		return runtime.IntegerValue{Val: product}, nil
	case "divide":
		if r == 0 {
			return nil, errors.DivisionByZero(op)
		}
		if l == math.MinInt64 && r == -1 {
			return nil, errors.Overflow(op, "integer")
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case "remainder":
		if r == 0 {
			return nil, errors.DivisionByZero(op)
		}
		return runtime.IntegerValue{Val: l % r}, nil
	case "power":
		if r < 0 {
			return nil, errors.TypeMismatch(op, "a non-negative exponent", "negative integer")
		}
		switch {
		case r == 0:
			return runtime.IntegerValue{Val: 1}, nil
		case l == 0 || l == 1:
			return runtime.IntegerValue{Val: l}, nil
		case l == -1:
			if r%2 == 0 {
				return runtime.IntegerValue{Val: 1}, nil
			}
			return runtime.IntegerValue{Val: -1}, nil
		}
		// |l| >= 2 overflows within 64 steps.
		result := int64(1)
		for i := int64(0); i < r; i++ {
			var ok bool
			result, ok = mulInt64(result, l)
			if !ok {
				return nil, errors.Overflow(op, "integer")
			}
		}
		return runtime.IntegerValue{Val: result}, nil
	}
	return nil, errors.TypeMismatch(op, OperandNumeric.String(), "integer")
}

func mulInt64(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	product := l * r
	if product/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return 0, false
	}
	return product, true
}
