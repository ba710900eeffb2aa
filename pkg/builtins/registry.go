// Package builtins holds the catalogue of functions implemented by the
// runtime itself and the dispatch rules (arity policy, operand kinds) that
// every built-in call passes through.
package builtins

import (
	"sort"

	"tally/interpreter-go/pkg/errors"
	"tally/interpreter-go/pkg/runtime"
)

// ArityPolicy is either Fixed(n) or Variadic.
type ArityPolicy struct {
	count    int
	variadic bool
}

// Fixed requires exactly n arguments.
func Fixed(n int) ArityPolicy {
	return ArityPolicy{count: n}
}

// Variadic accepts one or more arguments. Only commutative and associative
// operations use it.
var Variadic = ArityPolicy{variadic: true}

func (p ArityPolicy) IsVariadic() bool { return p.variadic }

// Arity returns the fixed argument count, or -1 for variadic built-ins.
func (p ArityPolicy) Arity() int {
	if p.variadic {
		return -1
	}
	return p.count
}

// Check validates an argument count against the policy.
func (p ArityPolicy) Check(name string, got int) error {
	if p.variadic {
		if got < 1 {
			return errors.VariadicArity(name)
		}
		return nil
	}
	if got != p.count {
		return errors.ArityMismatch(name, p.count, got)
	}
	return nil
}

// OperandKind restricts the kinds a built-in accepts before its computation
// runs. OperandAny leaves validation to the implementation.
type OperandKind int

const (
	OperandNumeric OperandKind = iota
	OperandBoolean
	OperandText
	OperandAny
)

func (k OperandKind) String() string {
	switch k {
	case OperandNumeric:
		return "numeric operands"
	case OperandBoolean:
		return "boolean operands"
	case OperandText:
		return "text operands"
	default:
		return "any operands"
	}
}

func (k OperandKind) accepts(kind runtime.Kind) bool {
	switch k {
	case OperandNumeric:
		return kind.IsNumeric()
	case OperandBoolean:
		return kind == runtime.KindBoolean
	case OperandText:
		return kind == runtime.KindText
	default:
		return true
	}
}

// Func computes a built-in result over arguments that already passed the
// arity and operand checks.
type Func func(args []runtime.Value) (runtime.Value, error)

// Builtin is one catalogue entry.
type Builtin struct {
	Name    string
	Arity   ArityPolicy
	Operand OperandKind
	Impl    Func
}

// Invoke runs the full dispatch: arity, operand kinds, then the computation.
func (b *Builtin) Invoke(args []runtime.Value) (runtime.Value, error) {
	if err := b.Arity.Check(b.Name, len(args)); err != nil {
		return nil, err
	}
	for _, arg := range args {
		if !b.Operand.accepts(arg.Kind()) {
			return nil, errors.TypeMismatch(b.Name, b.Operand.String(), arg.Kind().String())
		}
	}
	return b.Impl(args)
}

// Registry maps names to built-ins. It is read-only once handed to an
// interpreter.
type Registry struct {
	entries map[string]*Builtin
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Builtin)}
}

// Register adds a built-in; a second registration under the same name
// replaces the first.
func (r *Registry) Register(b Builtin) {
	entry := b
	r.entries[b.Name] = &entry
}

// Lookup returns the built-in registered under name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	if r == nil {
		return nil, false
	}
	b, ok := r.entries[name]
	return b, ok
}

// Call dispatches a built-in by name.
func (r *Registry) Call(name string, args []runtime.Value) (runtime.Value, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, errors.UnboundName(name, r.Names())
	}
	return b.Invoke(args)
}

// Value exposes a built-in as a first-class function value.
func (r *Registry) Value(name string) (runtime.NativeFunctionValue, bool) {
	b, ok := r.Lookup(name)
	if !ok {
		return runtime.NativeFunctionValue{}, false
	}
	return runtime.NativeFunctionValue{
		Name:  b.Name,
		Arity: b.Arity.Arity(),
		Impl:  b.Invoke,
	}, true
}

// Names lists registered built-ins in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Without returns a copy of the registry minus the named built-ins. Unknown
// names are ignored.
func (r *Registry) Without(names ...string) *Registry {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	out := NewRegistry()
	for name, b := range r.entries {
		if _, skip := drop[name]; skip {
			continue
		}
		out.entries[name] = b
	}
	return out
}

// Standard returns a registry holding the full catalogue.
func Standard() *Registry {
	r := NewRegistry()
	registerArithmetic(r)
	registerComparison(r)
	registerLogic(r)
	registerText(r)
	return r
}
