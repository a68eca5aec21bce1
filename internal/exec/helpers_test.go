package exec

import (
	"arstatic/internal/ar"
	"arstatic/internal/literal"
	"arstatic/internal/memstore"
	"arstatic/internal/number"
)

func mi(v int64) number.MachineInt { return number.MachineIntFromInt64(v, 64, true) }

func boundOf(v int64) number.Bound { return number.FiniteBound(mi(v)) }

var u64 = &ar.IntType{Bits: 64, Signed: true}

func newVar(uid uint64, name string) *ar.Variable {
	return &ar.Variable{UID: uid, Name: name, Kind: ar.VarLocal, Type: u64}
}

func ptrVar(uid uint64, name string) *ar.Variable {
	return &ar.Variable{UID: uid, Name: name, Kind: ar.VarLocal, Type: &ar.PointerType{Elem: u64}}
}

func newExecutor() *Executor {
	vars := memstore.NewVariableFactory()
	mems := memstore.NewMemoryFactory(vars)
	return &Executor{
		Vars:     vars,
		Mems:     mems,
		Literals: literal.NewTranslator(),
		Libc:     NewLibcTable(),
	}
}
