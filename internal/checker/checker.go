// Package checker defines the contract a checker implements against a
// fixpoint invariant (spec.md §6.3): name/description plus a
// check(stmt, inv, call_context) entry point that classifies a
// statement as ok, warning, error, or unreachable. The orchestrator
// drives checkers; this package also ships the minimal reference
// checkers spec.md §8's scenarios S3/S4 are validated against.
package checker

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
)

// Result is the verdict a checker reaches about one statement under
// one invariant (spec.md §6.3).
type Result int

const (
	OK Result = iota
	Warning
	Error
	Unreachable
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Finding is the structured record a checker produces for one
// statement, shaped to feed internal/report's CheckResultRow directly
// (spec.md §6.4).
type Finding struct {
	Checker     string
	Result      Result
	CallContext *callctx.Context
	Function    string
	Location    ar.SourceLocation
	StatementID ar.StatementID
	Info        map[string]any
}

// Checker is spec.md §6.3's contract: given the pre-invariant at stmt
// and the call context it was reached under, decide a verdict. The
// core guarantees inv is never a dangling ⊥/⊤ ambiguity — callers only
// invoke Check on statements where inv.NormalBottom is false, or
// explicitly on unreachable ones to record Unreachable once.
type Checker interface {
	Name() string
	Description() string
	Check(stmt ar.Statement, inv exec.Environment, callCtx *callctx.Context) Finding
}

// ok builds a passing Finding; most statements most checkers see
// produce one.
func ok(name string, stmt ar.Statement, callCtx *callctx.Context) Finding {
	return Finding{
		Checker:     name,
		Result:      OK,
		CallContext: callCtx,
		Location:    stmt.Loc(),
		StatementID: stmt.ID(),
	}
}

func unreachableFinding(name string, stmt ar.Statement, callCtx *callctx.Context) Finding {
	f := ok(name, stmt, callCtx)
	f.Result = Unreachable
	return f
}
