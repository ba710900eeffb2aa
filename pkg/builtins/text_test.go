package builtins

import (
	"math"
	"testing"

	"tally/interpreter-go/pkg/errors"
)

func TestJoinAndLength(t *testing.T) {
	if got := call(t, "join", text("tal"), text("ly")); got != text("tally") {
		t.Fatalf("unexpected join %#v", got)
	}
	if got := call(t, "length", text("héllo")); got != whole(5) {
		t.Fatalf("expected rune count, got %#v", got)
	}
	expectKind(t, errors.KindTypeMismatch, "join", text("a"), whole(1))
}

func TestTextRepeat(t *testing.T) {
	if got := call(t, "multiply", text("ab"), whole(3)); got != text("ababab") {
		t.Fatalf("unexpected repeat %#v", got)
	}
	if got := call(t, "repeat", text("x"), whole(0)); got != text("") {
		t.Fatalf("expected empty text, got %#v", got)
	}
	expectKind(t, errors.KindTypeMismatch, "multiply", text("ab"), integer(-1))
	expectKind(t, errors.KindTypeMismatch, "repeat", text("ab"), float(2))
	expectKind(t, errors.KindTypeMismatch, "repeat", whole(2), text("ab"))
	expectKind(t, errors.KindArityMismatch, "multiply", text("ab"), whole(2), whole(2))
}

func TestRepeatCountBeyondIntRange(t *testing.T) {
	for _, n := range []uint64{math.MaxUint64, 1 << 63} {
		expectKind(t, errors.KindOverflow, "repeat", text(""), whole(n))
		expectKind(t, errors.KindOverflow, "multiply", text(""), whole(n))
		expectKind(t, errors.KindOverflow, "repeat", text("ab"), whole(n))
	}
	if got := call(t, "repeat", text(""), whole(1<<40)); got != text("") {
		t.Fatalf("expected empty text, got %#v", got)
	}
}
