package aerrors

import (
	"fmt"

	"arstatic/internal/ar"
)

// TypeError is raised when a statement's operands are incompatible
// with its declared types (spec.md §7). It is never fatal: the
// symbolic executor logs it as an analyzer warning at that statement
// and degrades the statement's outputs to ⊤.
type TypeError struct {
	Location ar.SourceLocation
	Message  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %d:%d: %s", e.Location.Line, e.Location.Column, e.Message)
}

// DbError wraps a persistence-layer failure (spec.md §7). It always
// propagates out of the orchestrator as fatal; internal/report's Sink
// implementations wrap the underlying failure with
// github.com/pkg/errors so a DbError crossing a package boundary keeps
// its stack.
type DbError struct {
	Op  string
	Err error
}

func (e *DbError) Error() string { return fmt.Sprintf("db error during %s: %v", e.Op, e.Err) }
func (e *DbError) Unwrap() error { return e.Err }

// LogicError indicates a violated internal invariant — a bug in the
// analyzer, not in the analyzed program (spec.md §7's "Unreachable
// assertion"). Always fatal; aborts the current entry point's analysis
// but never a sibling one.
type LogicError struct {
	Where   string
	Message string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.Where, e.Message)
}
