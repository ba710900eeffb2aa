package runtime

import (
	"math"

	"tally/interpreter-go/pkg/errors"
)

func numericRank(k Kind) int {
	switch k {
	case KindWhole:
		return 0
	case KindInteger:
		return 1
	case KindFloat:
		return 2
	default:
		return -1
	}
}

// Join returns the least upper bound of two numeric kinds.
func Join(a, b Kind) (Kind, bool) {
	ra, rb := numericRank(a), numericRank(b)
	if ra < 0 || rb < 0 {
		return 0, false
	}
	if ra >= rb {
		return a, true
	}
	return b, true
}

// CoerceNumeric promotes two numeric values to their join and returns the
// same-kind pair.
func CoerceNumeric(a, b Value) (Value, Value, Kind, error) {
	target, ok := Join(a.Kind(), b.Kind())
	if !ok {
		return nil, nil, 0, errors.MixedOperands("numeric coercion", a.Kind().String(), b.Kind().String())
	}
	left, err := promote(a, target)
	if err != nil {
		return nil, nil, 0, err
	}
	right, err := promote(b, target)
	if err != nil {
		return nil, nil, 0, err
	}
	return left, right, target, nil
}

// CoerceTo converts v to the target kind when that is a lattice-upward move
// or no move at all. Narrowing and cross-kind conversions fail.
func CoerceTo(v Value, target Kind) (Value, error) {
	got := v.Kind()
	if got == target {
		return v, nil
	}
	if target == KindFunction && got.IsCallable() {
		return v, nil
	}
	if got.IsNumeric() && target.IsNumeric() {
		if numericRank(got) > numericRank(target) {
			return nil, errors.NarrowingCoercion(got.String(), target.String())
		}
		return promote(v, target)
	}
	return nil, errors.IncompatibleKind(got.String(), target.String())
}

func promote(v Value, target Kind) (Value, error) {
	switch val := v.(type) {
	case WholeValue:
		switch target {
		case KindWhole:
			return val, nil
		case KindInteger:
			if val.Val > math.MaxInt64 {
				return nil, errors.Overflow("whole to integer promotion", "integer")
			}
			return IntegerValue{Val: int64(val.Val)}, nil
		case KindFloat:
			return FloatValue{Val: float64(val.Val)}, nil
		}
	case IntegerValue:
		switch target {
		case KindInteger:
			return val, nil
		case KindFloat:
			return FloatValue{Val: float64(val.Val)}, nil
		}
	case FloatValue:
		if target == KindFloat {
			return val, nil
		}
	}
	return nil, errors.NarrowingCoercion(v.Kind().String(), target.String())
}
