package runtime

import (
	"math"
	"testing"

	"tally/interpreter-go/pkg/errors"
)

func TestJoinFollowsLattice(t *testing.T) {
	cases := []struct {
		a, b Kind
		want Kind
	}{
		{KindWhole, KindWhole, KindWhole},
		{KindWhole, KindInteger, KindInteger},
		{KindInteger, KindWhole, KindInteger},
		{KindWhole, KindFloat, KindFloat},
		{KindFloat, KindInteger, KindFloat},
	}
	for _, tc := range cases {
		got, ok := Join(tc.a, tc.b)
		if !ok || got != tc.want {
			t.Fatalf("Join(%s, %s) = %s, %v; want %s", tc.a, tc.b, got, ok, tc.want)
		}
	}
	if _, ok := Join(KindText, KindWhole); ok {
		t.Fatalf("expected text to have no join")
	}
}

func TestCoerceNumericPromotesBothOperands(t *testing.T) {
	left, right, kind, err := CoerceNumeric(WholeValue{Val: 3}, IntegerValue{Val: -2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindInteger {
		t.Fatalf("expected integer join, got %s", kind)
	}
	if left != (IntegerValue{Val: 3}) || right != (IntegerValue{Val: -2}) {
		t.Fatalf("unexpected pair %#v, %#v", left, right)
	}

	left, right, kind, err = CoerceNumeric(IntegerValue{Val: 7}, FloatValue{Val: 0.5})
	if err != nil || kind != KindFloat {
		t.Fatalf("expected float join, got %s (%v)", kind, err)
	}
	if left.(FloatValue).Val != 7 || right.(FloatValue).Val != 0.5 {
		t.Fatalf("unexpected pair %#v, %#v", left, right)
	}
}

func TestCoerceNumericRejectsNonNumeric(t *testing.T) {
	cases := [][2]Value{
		{WholeValue{Val: 1}, TextValue{Val: "a"}},
		{BooleanValue{Val: true}, IntegerValue{Val: 1}},
		{TextValue{Val: "a"}, TextValue{Val: "b"}},
	}
	for idx, pair := range cases {
		_, _, _, err := CoerceNumeric(pair[0], pair[1])
		if !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Fatalf("case %d: expected TypeMismatch, got %v", idx, err)
		}
	}
}

func TestCoerceToPreservesValueUpward(t *testing.T) {
	got, err := CoerceTo(WholeValue{Val: math.MaxInt64}, KindInteger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (IntegerValue{Val: math.MaxInt64}) {
		t.Fatalf("expected exact promotion, got %#v", got)
	}
	got, err = CoerceTo(IntegerValue{Val: -1 << 52}, KindFloat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(FloatValue).Val != float64(-1<<52) {
		t.Fatalf("expected exact promotion, got %#v", got)
	}
	got, err = CoerceTo(WholeValue{Val: 42}, KindFloat)
	if err != nil || got.(FloatValue).Val != 42 {
		t.Fatalf("expected 42.0, got %#v (%v)", got, err)
	}
}

func TestCoerceToNeverNarrows(t *testing.T) {
	cases := []struct {
		value  Value
		target Kind
	}{
		{FloatValue{Val: 1}, KindInteger},
		{FloatValue{Val: 1}, KindWhole},
		{IntegerValue{Val: 1}, KindWhole},
		{IntegerValue{Val: -1}, KindWhole},
	}
	for _, tc := range cases {
		_, err := CoerceTo(tc.value, tc.target)
		if !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Fatalf("%s -> %s: expected TypeMismatch, got %v", tc.value.Kind(), tc.target, err)
		}
	}
}

func TestCoerceToRejectsCrossKind(t *testing.T) {
	cases := []struct {
		value  Value
		target Kind
	}{
		{TextValue{Val: "1"}, KindWhole},
		{WholeValue{Val: 1}, KindText},
		{BooleanValue{Val: true}, KindText},
		{WholeValue{Val: 1}, KindFunction},
	}
	for _, tc := range cases {
		_, err := CoerceTo(tc.value, tc.target)
		if !errors.IsKind(err, errors.KindTypeMismatch) {
			t.Fatalf("%s -> %s: expected TypeMismatch, got %v", tc.value.Kind(), tc.target, err)
		}
	}
}

func TestCoerceToAcceptsBuiltinAsFunction(t *testing.T) {
	native := NativeFunctionValue{Name: "add", Arity: -1}
	got, err := CoerceTo(native, KindFunction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != KindNativeFunction {
		t.Fatalf("expected builtin value to pass through, got %s", got.Kind())
	}
}

func TestWholeAboveSignedRangeOverflows(t *testing.T) {
	_, err := CoerceTo(WholeValue{Val: math.MaxUint64}, KindInteger)
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Fatalf("expected Overflow, got %v", err)
	}
}
