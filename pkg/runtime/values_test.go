package runtime

import (
	"testing"

	"tally/interpreter-go/pkg/ast"
)

func TestKindForType(t *testing.T) {
	cases := map[ast.TypeName]Kind{
		ast.TypeWhole:    KindWhole,
		ast.TypeInteger:  KindInteger,
		ast.TypeFloat:    KindFloat,
		ast.TypeBoolean:  KindBoolean,
		ast.TypeText:     KindText,
		ast.TypeFunction: KindFunction,
	}
	for name, want := range cases {
		got, ok := KindForType(name)
		if !ok || got != want {
			t.Fatalf("KindForType(%q) = %s, %v", name, got, ok)
		}
	}
	if _, ok := KindForType("i32"); ok {
		t.Fatalf("expected unknown type name to be rejected")
	}
}

func TestValuesEqual(t *testing.T) {
	fn := &FunctionValue{Declaration: ast.Fn(nil, ast.TypeWhole)}
	other := &FunctionValue{Declaration: fn.Declaration}
	cases := []struct {
		left, right Value
		want        bool
	}{
		{WholeValue{Val: 1}, WholeValue{Val: 1}, true},
		{WholeValue{Val: 1}, IntegerValue{Val: 1}, false},
		{TextValue{Val: "a"}, TextValue{Val: "a"}, true},
		{BooleanValue{Val: true}, BooleanValue{Val: false}, false},
		{fn, fn, true},
		{fn, other, false},
	}
	for idx, tc := range cases {
		if got := ValuesEqual(tc.left, tc.right); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", idx, tc.want, got)
		}
	}
	if fn.Arity() != 0 {
		t.Fatalf("expected zero arity")
	}
}
