package interpreter

import "tally/interpreter-go/pkg/runtime"

type flowKind int

const (
	flowCompleted flowKind = iota
	flowReturning
)

// flow is the outcome of executing a statement. A Returning flow travels up
// through enclosing blocks and loops until a call boundary absorbs it.
type flow struct {
	kind  flowKind
	value runtime.Value
}

var completed = flow{kind: flowCompleted}

func returning(value runtime.Value) flow {
	return flow{kind: flowReturning, value: value}
}
