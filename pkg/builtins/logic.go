package builtins

import "tally/interpreter-go/pkg/runtime"

func registerLogic(r *Registry) {
	r.Register(Builtin{Name: "nand", Arity: Fixed(2), Operand: OperandBoolean, Impl: func(args []runtime.Value) (runtime.Value, error) {
		return runtime.BooleanValue{Val: !(boolOf(args[0]) && boolOf(args[1]))}, nil
	}})
	r.Register(Builtin{Name: "not", Arity: Fixed(1), Operand: OperandBoolean, Impl: func(args []runtime.Value) (runtime.Value, error) {
		return runtime.BooleanValue{Val: !boolOf(args[0])}, nil
	}})
	r.Register(Builtin{Name: "all", Arity: Variadic, Operand: OperandBoolean, Impl: func(args []runtime.Value) (runtime.Value, error) {
		for _, arg := range args {
			if !boolOf(arg) {
				return runtime.BooleanValue{Val: false}, nil
			}
		}
		return runtime.BooleanValue{Val: true}, nil
	}})
	r.Register(Builtin{Name: "any", Arity: Variadic, Operand: OperandBoolean, Impl: func(args []runtime.Value) (runtime.Value, error) {
		for _, arg := range args {
			if boolOf(arg) {
				return runtime.BooleanValue{Val: true}, nil
			}
		}
		return runtime.BooleanValue{Val: false}, nil
	}})
}

func boolOf(v runtime.Value) bool {
	return v.(runtime.BooleanValue).Val
}
