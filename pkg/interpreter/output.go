package interpreter

import (
	"fmt"

	"tally/interpreter-go/pkg/runtime"
)

// Output receives every value printed by a bare expression statement.
type Output interface {
	Emit(value runtime.Value) error
}

// OutputFunc adapts a function to Output.
type OutputFunc func(value runtime.Value) error

func (f OutputFunc) Emit(value runtime.Value) error {
	return f(value)
}

// Transcript records emitted values in order.
type Transcript struct {
	Values []runtime.Value
}

func (t *Transcript) Emit(value runtime.Value) error {
	t.Values = append(t.Values, value)
	return nil
}

func (i *Interpreter) emit(value runtime.Value) error {
	i.emitted = append(i.emitted, value)
	if i.output == nil {
		return nil
	}
	if err := i.output.Emit(value); err != nil {
		return fmt.Errorf("emit output: %w", err)
	}
	return nil
}
