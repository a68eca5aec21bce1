package inline

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
	"arstatic/internal/literal"
	"arstatic/internal/memstore"
	"arstatic/internal/number"
)

var i64 = &ar.IntType{Bits: 64, Signed: true}
var ptrI64 = &ar.PointerType{Elem: i64}

func mi(v int64) number.MachineInt { return number.MachineIntFromInt64(v, 64, true) }

func newVar(uid uint64, name string, t ar.Type) *ar.Variable {
	return &ar.Variable{UID: uid, Name: name, Kind: ar.VarLocal, Type: t}
}

type harness struct {
	x   *exec.Executor
	eng *Engine
}

func newHarness() *harness {
	vars := memstore.NewVariableFactory()
	mems := memstore.NewMemoryFactory(vars)
	funcs := memstore.NewFunctionFactory()
	x := &exec.Executor{
		Vars:     vars,
		Mems:     mems,
		Funcs:    funcs,
		Literals: literal.NewTranslator(),
		Libc:     exec.NewLibcTable(),
	}
	bundle := &ar.Bundle{Verifier: ar.DefaultTypeVerifier}
	eng := NewEngine(x, bundle, funcs, callctx.NewFactory())
	return &harness{x: x, eng: eng}
}

// block builds a single basic block belonging to fn with the given
// statements already appended; callers wire successors afterward via
// AddSuccessor.
func block(fn *ar.Function, label string, stmts ...ar.Statement) *ar.BasicBlock {
	b := &ar.BasicBlock{Label: label, Function: fn}
	b.Statements = stmts
	fn.Blocks = append(fn.Blocks, b)
	return b
}
