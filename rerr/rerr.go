// Package rerr defines the single error type shared by the loader, compiler,
// and VM. Every failure the system can produce is an ExecutionError: a kind,
// a source location, and a message. None of it is recoverable inside the
// VM — failures propagate straight out to the CLI.
package rerr

import "fmt"

// Kind classifies why execution stopped.
type Kind string

const (
	UnknownVariable Kind = "UnknownVariable"
	TypeError       Kind = "TypeError"
	ArityError      Kind = "ArityError"
	DivByZero       Kind = "DivByZero"
	MalformedAST    Kind = "MalformedAST"
	InternalError   Kind = "InternalError"
)

// Location is a minimal, package-independent stand-in for ast.Location so
// that rerr doesn't need to import package ast. Callers convert with their
// own package's toRerrLoc helper or construct one directly.
type Location struct {
	Filename string
	Start    int
	End      int
}

func (l Location) String() string {
	if l.Filename == "" && l.Start == 0 && l.End == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s[%d:%d]", l.Filename, l.Start, l.End)
}

// ExecutionError is the sole error type the engine raises.
type ExecutionError struct {
	Kind     Kind
	Location Location
	Message  string
}

func New(kind Kind, loc Location, format string, args ...any) *ExecutionError {
	return &ExecutionError{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Location, e.Message)
}
