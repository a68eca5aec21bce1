package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arstatic/internal/ar"
)

var i64 = &ar.IntType{Bits: 64, Signed: true}
var ptrByte = &ar.PointerType{Elem: &ar.IntType{Bits: 8}}

func newVar(uid uint64, name string, t ar.Type) *ar.Variable {
	return &ar.Variable{UID: uid, Name: name, Kind: ar.VarLocal, Type: t}
}

func block(fn *ar.Function, label string, stmts ...ar.Statement) *ar.BasicBlock {
	b := &ar.BasicBlock{Label: label, Function: fn}
	b.Statements = stmts
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// buildDoubleFreeMain builds:
//
//	func main() {
//	entry: p = malloc(8); free(p); free(p); return
//	}
func buildDoubleFreeMain() *ar.Function {
	malloc := &ar.Function{Name: "malloc"}
	free := &ar.Function{Name: "free"}

	fn := &ar.Function{Name: "main"}
	fn.Type = &ar.FunctionType{Return: &ar.VoidType{}}

	p := newVar(1, "p", ptrByte)
	size := &ar.IntConstant{Type: i64, Value: 8}
	mallocCall := ar.NewCall(1, nil, ar.SourceLocation{}, p, &ar.FunctionAddrConstant{Fn: malloc}, []ar.Operand{size})
	free1 := ar.NewCall(2, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Fn: free}, []ar.Operand{p})
	free2 := ar.NewCall(3, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Fn: free}, []ar.Operand{p})
	ret := ar.NewReturn(4, nil, ar.SourceLocation{}, nil)
	entry := block(fn, "entry", mallocCall, free1, free2, ret)
	fn.Entry = entry
	return fn
}

func TestOrchestratorFlagsDoubleFree(t *testing.T) {
	fn := buildDoubleFreeMain()
	bundle := &ar.Bundle{Functions: []*ar.Function{fn}, Verifier: ar.DefaultTypeVerifier}

	cfg := DefaultConfig()
	cfg.EntryPoints = []string{"main"}
	o := New(bundle, cfg, nil)
	summary := o.Run(context.Background())

	require.Len(t, summary.Entries, 1)
	assert.NoError(t, summary.Entries[0].Err)
	assert.Equal(t, 1, summary.Totals["double-free"]["error"])
}

// buildFactorial builds the spec's self-recursive `fact(n)` example:
// unconditionally calls itself once, so the call-graph pass should
// flag it as a recursive component even though the inliner itself
// unrolls one level before short-circuiting.
func buildFactorial() *ar.Function {
	fn := &ar.Function{Name: "fact"}
	n := newVar(1, "n", i64)
	fn.Params = []*ar.Variable{n}
	fn.Type = &ar.FunctionType{Params: []ar.Type{i64}, Return: i64}

	out := newVar(2, "out", i64)
	call := ar.NewCall(1, nil, ar.SourceLocation{}, out, &ar.FunctionAddrConstant{Type: fn.Type, Fn: fn}, []ar.Operand{n})
	ret := ar.NewReturn(2, nil, ar.SourceLocation{}, out)
	entry := block(fn, "entry", call, ret)
	fn.Entry = entry
	return fn
}

func TestOrchestratorWarnsOnRecursiveCallGraphComponent(t *testing.T) {
	fn := buildFactorial()
	bundle := &ar.Bundle{Functions: []*ar.Function{fn}, Verifier: ar.DefaultTypeVerifier}

	cfg := DefaultConfig()
	cfg.EntryPoints = []string{"fact"}
	cfg.RunChecks = false
	o := New(bundle, cfg, nil)
	summary := o.Run(context.Background())

	require.Len(t, summary.Entries, 1)
	found := false
	for _, w := range summary.Warnings {
		if w != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a recursive call-graph warning, got %v", summary.Warnings)
}

func TestOrchestratorReportsUnknownEntryPoint(t *testing.T) {
	bundle := &ar.Bundle{Verifier: ar.DefaultTypeVerifier}
	cfg := DefaultConfig()
	cfg.EntryPoints = []string{"nonexistent"}
	o := New(bundle, cfg, nil)
	summary := o.Run(context.Background())

	require.Len(t, summary.Entries, 1)
	assert.Error(t, summary.Entries[0].Err)
}
