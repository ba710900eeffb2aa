package builtins

import (
	"math"
	"strings"
	"unicode/utf8"

	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func registerText(r *Registry) {
	r.Register(Builtin{Name: "join", Arity: Fixed(2), Operand: OperandText, Impl: func(args []runtime.Value) (runtime.Value, error) {
		return runtime.TextValue{Val: textOf(args[0]) + textOf(args[1])}, nil
	}})
	r.Register(Builtin{Name: "repeat", Arity: Fixed(2), Operand: OperandAny, Impl: func(args []runtime.Value) (runtime.Value, error) {
		return repeatText("repeat", args[0], args[1])
	}})
	r.Register(Builtin{Name: "length", Arity: Fixed(1), Operand: OperandText, Impl: func(args []runtime.Value) (runtime.Value, error) {
		return runtime.WholeValue{Val: uint64(utf8.RuneCountInString(textOf(args[0])))}, nil
	}})
}

// repeatText takes (text, whole). The count must already be whole; integer
// and float counts are rejected rather than narrowed.
func repeatText(name string, text, count runtime.Value) (runtime.Value, error) {
	t, ok := text.(runtime.TextValue)
	if !ok {
		return nil, errors.TypeMismatch(name, "text as the first operand", text.Kind().String())
	}
	n, ok := count.(runtime.WholeValue)
	if !ok {
		return nil, errors.TypeMismatch(name, "a whole repeat count", count.Kind().String())
	}
	if n.Val > math.MaxInt || (n.Val > 0 && uint64(len(t.Val)) > uint64(maxTextBytes)/n.Val) {
		return nil, errors.Overflow(name, "text")
	}
	return runtime.TextValue{Val: strings.Repeat(t.Val, int(n.Val))}, nil
}

const maxTextBytes = 1 << 30

func textOf(v runtime.Value) string {
	return v.(runtime.TextValue).Val
}
