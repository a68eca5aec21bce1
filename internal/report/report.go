// Package report implements spec.md §6.4's persisted-output schema: a
// fixed row shape per checker result plus side tables for memory
// locations, call contexts, and operands, and a Sink contract the real
// sqlite-backed writer (out of scope, §1) would implement. This
// package ships the contract plus a batching, transactional in-memory
// reference Sink used by the CLI and tests.
package report

import (
	"arstatic/internal/callctx"
	"arstatic/internal/checker"
)

// CheckResultRow is one persisted checker verdict, indexed by
// (CheckerName, StatementID) per spec.md §6.4.
type CheckResultRow struct {
	ID          string // ksuid, sortable unique row id
	CheckerName string
	Result      string
	CallContext string // ksuid of the CallContextRow this result was reached under
	Function    string
	File        string
	Line        int
	Column      int
	StatementID uint64
	InfoJSON    string
}

// MemoryLocationRow names a memory location referenced by an
// operand/checker-info row, so readers can join back to a human name.
type MemoryLocationRow struct {
	ID   string
	Name string
	Kind string
}

// CallContextRow persists one call-context chain (outermost to
// innermost call-site ids), giving checkers a stable string handle
// instead of carrying a raw *callctx.Context.
type CallContextRow struct {
	ID    string
	Sites []uint64
	Depth int
}

// OperandRow records one operand a CheckResultRow's info references,
// for checkers that want to point at more than the statement itself.
type OperandRow struct {
	ID          string
	CheckResult string
	Description string
}

// Sink is the persistence contract: batched, transactional writes, at
// most MaxBatchRows rows per commit (spec.md §6.4), journal mode WAL
// when the backing store supports it. The real sqlite implementation
// is an external collaborator; this package only defines the contract
// plus the in-memory/JSONL reference Sink below.
type Sink interface {
	WriteCheckResults(rows []CheckResultRow) error
	WriteMemoryLocations(rows []MemoryLocationRow) error
	WriteCallContexts(rows []CallContextRow) error
	WriteOperands(rows []OperandRow) error
	Close() error
}

// MaxBatchRows is spec.md §6.4's batch-commit ceiling.
const MaxBatchRows = 8192

// CallContextRowOf builds the persisted row for a call context,
// stamping it with a fresh ksuid — the "opaque handle" spec.md §6.4
// expects checkers and other rows to reference instead of a raw
// *callctx.Context pointer.
func CallContextRowOf(newID func() string, ctx *callctx.Context) CallContextRow {
	return CallContextRow{
		ID:    newID(),
		Sites: callctx.Sites(ctx),
		Depth: callctx.Depth(ctx),
	}
}

// FindingRow converts a checker.Finding into the row shape this
// package persists, given the ksuid already stamped for its call
// context.
func FindingRow(newID func() string, f checker.Finding, callContextID, infoJSON string) CheckResultRow {
	return CheckResultRow{
		ID:          newID(),
		CheckerName: f.Checker,
		Result:      f.Result.String(),
		CallContext: callContextID,
		Function:    f.Function,
		File:        f.Location.File,
		Line:        f.Location.Line,
		Column:      f.Location.Column,
		StatementID: uint64(f.StatementID),
		InfoJSON:    infoJSON,
	}
}
