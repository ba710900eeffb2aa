package runtime

import (
	"sort"

	"tally/interpreter-go/pkg/errors"
)

// Binding is a declared name inside one frame. A nil slot means the binding
// has been declared but not yet set.
type Binding struct {
	Name     string
	Declared Kind
	slot     Value
}

// Value returns the bound value and whether one has been set.
func (b *Binding) Value() (Value, bool) {
	return b.slot, b.slot != nil
}

// Environment is one frame of the lexical scope chain. Frames are pushed on
// block and call entry and dropped on exit; closures keep a shared pointer to
// the frame they were created in.
type Environment struct {
	bindings map[string]*Binding
	order    []string
	parent   *Environment
	depth    int
}

// NewEnvironment creates a new frame, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	return &Environment{
		bindings: make(map[string]*Binding),
		parent:   parent,
		depth:    depth,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Depth is the number of frames between e and the global frame.
func (e *Environment) Depth() int {
	return e.depth
}

// Extend creates a child frame.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Declare inserts an unset binding into this frame. Shadowing an outer
// frame's binding is allowed; redeclaring within the frame is not.
func (e *Environment) Declare(name string, kind Kind) error {
	if _, ok := e.bindings[name]; ok {
		return errors.DuplicateDeclaration(name)
	}
	e.bindings[name] = &Binding{Name: name, Declared: kind}
	e.order = append(e.order, name)
	return nil
}

// Define declares name and sets it in one step.
func (e *Environment) Define(name string, kind Kind, value Value) error {
	if err := e.Declare(name, kind); err != nil {
		return err
	}
	return e.Assign(name, value)
}

// Assign coerces value to the declared type of the nearest binding of name
// and stores it there.
func (e *Environment) Assign(name string, value Value) error {
	binding, ok := e.Lookup(name)
	if !ok {
		return errors.UnboundName(name, e.VisibleNames())
	}
	coerced, err := CoerceTo(value, binding.Declared)
	if err != nil {
		return err
	}
	binding.slot = coerced
	return nil
}

// Lookup finds the nearest binding of name, searching outward.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Get retrieves the value bound to name, searching outward through the chain.
func (e *Environment) Get(name string) (Value, error) {
	binding, ok := e.Lookup(name)
	if !ok {
		return nil, errors.UnboundName(name, e.VisibleNames())
	}
	val, set := binding.Value()
	if !set {
		return nil, errors.UninitializedBinding(name)
	}
	return val, nil
}

// Keys returns the names declared in this frame in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.bindings))
	for k := range e.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bindings returns this frame's bindings in declaration order.
func (e *Environment) Bindings() []*Binding {
	out := make([]*Binding, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.bindings[name])
	}
	return out
}

// Snapshot returns a copy of the set bindings of this frame.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.bindings))
	for k, b := range e.bindings {
		if v, ok := b.Value(); ok {
			out[k] = v
		}
	}
	return out
}

// VisibleNames lists every name reachable from e, innermost first, without
// duplicates.
func (e *Environment) VisibleNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for env := e; env != nil; env = env.parent {
		for _, name := range env.order {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
