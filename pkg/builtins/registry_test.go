package builtins

import (
	"testing"

	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

func whole(v uint64) runtime.Value  { return runtime.WholeValue{Val: v} }
func integer(v int64) runtime.Value { return runtime.IntegerValue{Val: v} }
func float(v float64) runtime.Value { return runtime.FloatValue{Val: v} }
func boolean(v bool) runtime.Value  { return runtime.BooleanValue{Val: v} }
func text(v string) runtime.Value   { return runtime.TextValue{Val: v} }

func call(t *testing.T, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	got, err := Standard().Call(name, args)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return got
}

func expectKind(t *testing.T, kind errors.Kind, name string, args ...runtime.Value) {
	t.Helper()
	_, err := Standard().Call(name, args)
	if !errors.IsKind(err, kind) {
		t.Fatalf("%s: expected %s, got %v", name, kind, err)
	}
}

func TestFixedArityEnforced(t *testing.T) {
	for _, name := range []string{"subtract", "divide", "power", "equal", "lt", "nand", "join"} {
		expectKind(t, errors.KindArityMismatch, name, whole(1))
		expectKind(t, errors.KindArityMismatch, name, whole(1), whole(2), whole(3))
	}
	expectKind(t, errors.KindArityMismatch, "not")
}

func TestVariadicRequiresAnArgument(t *testing.T) {
	for _, name := range []string{"add", "multiply", "all", "any"} {
		_, err := Standard().Call(name, nil)
		rt, ok := errors.As(err)
		if !ok || rt.Kind != errors.KindArityMismatch || rt.Code != "ARITY-0002" {
			t.Fatalf("%s: expected variadic arity error, got %v", name, err)
		}
	}
	if got := call(t, "add", whole(5)); got != whole(5) {
		t.Fatalf("single-argument add should return its operand, got %#v", got)
	}
}

func TestBooleanBuiltinsRejectNumbers(t *testing.T) {
	expectKind(t, errors.KindTypeMismatch, "nand", boolean(true), whole(1))
	expectKind(t, errors.KindTypeMismatch, "not", integer(0))
	expectKind(t, errors.KindTypeMismatch, "all", boolean(true), text("x"))
}

func TestNand(t *testing.T) {
	cases := []struct {
		a, b bool
		want bool
	}{
		{false, false, true},
		{false, true, true},
		{true, false, true},
		{true, true, false},
	}
	for _, tc := range cases {
		if got := call(t, "nand", boolean(tc.a), boolean(tc.b)); got != boolean(tc.want) {
			t.Fatalf("nand(%v, %v) = %#v", tc.a, tc.b, got)
		}
	}
}

func TestRegistryWithout(t *testing.T) {
	base := Standard()
	reduced := base.Without("power", "missing")
	if _, ok := reduced.Lookup("power"); ok {
		t.Fatalf("expected power to be removed")
	}
	if _, ok := base.Lookup("power"); !ok {
		t.Fatalf("Without must not modify the receiver")
	}
	if len(reduced.Names()) != len(base.Names())-1 {
		t.Fatalf("unexpected names %v", reduced.Names())
	}
	if _, err := reduced.Call("power", []runtime.Value{whole(2), whole(2)}); !errors.IsKind(err, errors.KindUnboundName) {
		t.Fatalf("expected UnboundName, got %v", err)
	}
}

func TestValueExposesBuiltin(t *testing.T) {
	fn, ok := Standard().Value("add")
	if !ok {
		t.Fatalf("expected add to be registered")
	}
	if fn.Arity != -1 || fn.Name != "add" {
		t.Fatalf("unexpected native value %#v", fn)
	}
	got, err := fn.Impl([]runtime.Value{whole(2), whole(3)})
	if err != nil || got != whole(5) {
		t.Fatalf("expected 5, got %#v (%v)", got, err)
	}
	if _, err := fn.Impl(nil); !errors.IsKind(err, errors.KindArityMismatch) {
		t.Fatalf("native value must run arity checks, got %v", err)
	}
}
