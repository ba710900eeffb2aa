// Package errors defines the runtime error catalogue of the tally evaluator.
//
// Every failure raised by the core is a *RuntimeError tagged with a Kind, a
// stable code and a message rendered from the catalogue template for that
// code. Errors are terminal: the evaluator never recovers from them.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"text/template"
)

// Kind is the error category surfaced to the caller.
type Kind string

const (
	KindUnboundName           Kind = "UnboundName"
	KindUninitializedBinding  Kind = "UninitializedBinding"
	KindDuplicateDeclaration  Kind = "DuplicateDeclaration"
	KindTypeMismatch          Kind = "TypeMismatch"
	KindArityMismatch         Kind = "ArityMismatch"
	KindReturnOutsideFunction Kind = "ReturnOutsideFunction"
	KindMissingReturn         Kind = "MissingReturn"
	KindCallDepthExceeded     Kind = "CallDepthExceeded"
	KindOverflow              Kind = "Overflow"
	KindDivisionByZero        Kind = "DivisionByZero"
)

// Class groups kinds for display.
type Class string

const (
	ClassName    Class = "name"    // binding lookup and declaration
	ClassType    Class = "type"    // kind and coercion failures
	ClassArity   Class = "arity"   // argument counts
	ClassControl Class = "control" // return placement and absent results
	ClassMath    Class = "math"    // arithmetic domain failures
)

// RuntimeError is the single error type produced by the evaluator.
type RuntimeError struct {
	Kind    Kind           `json:"kind"`
	Class   Class          `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Name    string         `json:"name,omitempty"`
	Hints   []string       `json:"hints,omitempty"`
	Trace   []string       `json:"trace,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// PrettyString renders the multi-line diagnostic used by the CLI.
func (e *RuntimeError) PrettyString() string {
	var sb strings.Builder
	sb.WriteString("Runtime error [")
	sb.WriteString(e.Code)
	sb.WriteString("] ")
	sb.WriteString(string(e.Kind))
	sb.WriteString(":\n  ")
	sb.WriteString(e.Message)
	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("hint: ")
		} else {
			sb.WriteString("      ")
		}
		sb.WriteString(hint)
	}
	if len(e.Trace) > 0 {
		sb.WriteString("\n  call stack:")
		for idx := len(e.Trace) - 1; idx >= 0; idx-- {
			sb.WriteString("\n    in ")
			sb.WriteString(e.Trace[idx])
		}
	}
	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *RuntimeError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithTrace returns a copy of the error carrying the given call stack
// (outermost first).
func (e *RuntimeError) WithTrace(trace []string) *RuntimeError {
	copy := *e
	copy.Trace = append([]string(nil), trace...)
	return &copy
}

// ErrorDef defines an error in the catalogue.
type ErrorDef struct {
	Kind     Kind
	Class    Class
	Template string
	Hints    []string
}

// Catalog maps error codes to their definitions.
var Catalog = map[string]ErrorDef{
	// Names
	"NAME-0001": {
		Kind:     KindUnboundName,
		Class:    ClassName,
		Template: "no value bound to '{{.Name}}': it is not declared in any live scope",
	},
	"NAME-0002": {
		Kind:     KindUninitializedBinding,
		Class:    ClassName,
		Template: "no value bound to '{{.Name}}': it is declared but has not been set",
	},
	"NAME-0003": {
		Kind:     KindDuplicateDeclaration,
		Class:    ClassName,
		Template: "'{{.Name}}' is already declared in this scope",
	},

	// Types
	"TYPE-0001": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "{{.Operation}} expects {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0002": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "cannot use a {{.Got}} value as {{.Expected}}",
		Hints:    []string{"implicit coercion only widens: whole -> integer -> float"},
	},
	"TYPE-0003": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "'{{.Name}}' holds a {{.Got}} value and cannot be called",
	},
	"TYPE-0004": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "while condition must be boolean, got {{.Got}}",
	},
	"TYPE-0005": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "{{.Operation}} cannot mix {{.Left}} and {{.Right}}",
	},
	"TYPE-0006": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "cannot use a {{.Got}} value as {{.Expected}}",
	},
	"TYPE-0007": {
		Kind:     KindTypeMismatch,
		Class:    ClassType,
		Template: "unknown type name '{{.Name}}'",
	},

	// Arity
	"ARITY-0001": {
		Kind:     KindArityMismatch,
		Class:    ClassArity,
		Template: "{{.Name}} expects {{.Expected}} argument(s), got {{.Got}}",
	},
	"ARITY-0002": {
		Kind:     KindArityMismatch,
		Class:    ClassArity,
		Template: "{{.Name}} expects at least one argument",
	},

	// Control flow
	"CTRL-0001": {
		Kind:     KindReturnOutsideFunction,
		Class:    ClassControl,
		Template: "return outside function",
	},
	"CTRL-0002": {
		Kind:     KindMissingReturn,
		Class:    ClassControl,
		Template: "'{{.Name}}' finished without returning a value",
		Hints:    []string{"add a return statement on every path whose result is used"},
	},
	"CTRL-0003": {
		Kind:     KindCallDepthExceeded,
		Class:    ClassControl,
		Template: "calling '{{.Name}}' exceeds the maximum call depth of {{.Limit}}",
		Hints:    []string{"check that every recursive function reaches a return without calling itself"},
	},

	// Arithmetic
	"MATH-0001": {
		Kind:     KindOverflow,
		Class:    ClassMath,
		Template: "{{.Operation}} overflows {{.Kind}}",
	},
	"MATH-0002": {
		Kind:     KindDivisionByZero,
		Class:    ClassMath,
		Template: "{{.Operation}}: division by zero",
	},
}

// New creates an error from a catalogue code and template data. A "Name"
// entry in data is copied onto the error.
func New(code string, data map[string]any) *RuntimeError {
	def, ok := Catalog[code]
	if !ok {
		msg := code
		if m, ok := data["message"].(string); ok {
			msg = m
		}
		return &RuntimeError{Kind: KindTypeMismatch, Class: ClassType, Code: code, Message: msg, Data: data}
	}
	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}
	name, _ := data["Name"].(string)
	return &RuntimeError{
		Kind:    def.Kind,
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Name:    name,
		Hints:   hints,
		Data:    data,
	}
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}
	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}
	return buf.String()
}

// As extracts a *RuntimeError from an error chain.
func As(err error) (*RuntimeError, bool) {
	var rt *RuntimeError
	if stderrors.As(err, &rt) {
		return rt, true
	}
	return nil, false
}

// KindOf reports the runtime error kind carried by err.
func KindOf(err error) (Kind, bool) {
	rt, ok := As(err)
	if !ok {
		return "", false
	}
	return rt.Kind, true
}

// IsKind reports whether err carries a runtime error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Convenience constructors for the common cases.

func UnboundName(name string, candidates []string) *RuntimeError {
	err := New("NAME-0001", map[string]any{"Name": name})
	if match := FindClosestMatch(name, candidates); match != "" {
		err.Hints = append(err.Hints, fmt.Sprintf("did you mean '%s'?", match))
	}
	return err
}

func UninitializedBinding(name string) *RuntimeError {
	return New("NAME-0002", map[string]any{"Name": name})
}

func DuplicateDeclaration(name string) *RuntimeError {
	return New("NAME-0003", map[string]any{"Name": name})
}

func TypeMismatch(operation, expected, got string) *RuntimeError {
	return New("TYPE-0001", map[string]any{"Operation": operation, "Expected": expected, "Got": got})
}

func NarrowingCoercion(got, expected string) *RuntimeError {
	return New("TYPE-0002", map[string]any{"Got": got, "Expected": expected})
}

func IncompatibleKind(got, expected string) *RuntimeError {
	return New("TYPE-0006", map[string]any{"Got": got, "Expected": expected})
}

func UnknownType(name string) *RuntimeError {
	return New("TYPE-0007", map[string]any{"Name": name})
}

func NotCallable(name, got string) *RuntimeError {
	return New("TYPE-0003", map[string]any{"Name": name, "Got": got})
}

func ConditionNotBoolean(got string) *RuntimeError {
	return New("TYPE-0004", map[string]any{"Got": got})
}

func MixedOperands(operation, left, right string) *RuntimeError {
	return New("TYPE-0005", map[string]any{"Operation": operation, "Left": left, "Right": right})
}

func ArityMismatch(name string, expected, got int) *RuntimeError {
	return New("ARITY-0001", map[string]any{"Name": name, "Expected": expected, "Got": got})
}

func VariadicArity(name string) *RuntimeError {
	return New("ARITY-0002", map[string]any{"Name": name})
}

func ReturnOutsideFunction() *RuntimeError {
	return New("CTRL-0001", map[string]any{})
}

func MissingReturn(name string) *RuntimeError {
	return New("CTRL-0002", map[string]any{"Name": name})
}

func CallDepthExceeded(name string, limit int) *RuntimeError {
	return New("CTRL-0003", map[string]any{"Name": name, "Limit": limit})
}

func Overflow(operation, kind string) *RuntimeError {
	return New("MATH-0001", map[string]any{"Operation": operation, "Kind": kind})
}

func DivisionByZero(operation string) *RuntimeError {
	return New("MATH-0002", map[string]any{"Operation": operation})
}
