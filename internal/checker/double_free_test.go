package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/domain"
	"arstatic/internal/exec"
	"arstatic/internal/memstore"
	"arstatic/internal/pointer"
)

func resolvedPointer(locID uint64) pointer.PointerAbsValue {
	return pointer.NewPointerAbsValue(
		domain.InitializedValue(),
		domain.NonNullNullity(),
		domain.SingletonDiscreteSet(locID),
		domain.TopInterval(64, true),
	)
}

func newFreeVar(uid uint64, name string) *ar.Variable {
	return &ar.Variable{UID: uid, Name: name, Kind: ar.VarLocal, Type: &ar.PointerType{Elem: &ar.IntType{Bits: 8}}}
}

func TestDoubleFreeCheckerFlagsSecondFreeOfSameLocation(t *testing.T) {
	vars := memstore.NewVariableFactory()
	mems := memstore.NewMemoryFactory(vars)
	p := newFreeVar(1, "p")
	id, _ := vars.Materialize(p.UID, p.Name, p.Kind, p.Type)
	locID, _ := mems.Materialize(1, "heap@malloc", ar.MemDynAlloc, &ar.IntType{Bits: 8})

	env := exec.NewEnvironment(64, true)
	env.Pointers = env.Pointers.Set(id, resolvedPointer(locID))
	env.Lifetimes = env.Lifetimes.Set(locID, domain.DeallocatedLifetime())

	freeFn := &ar.Function{Name: "free"}
	call := ar.NewCall(1, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Fn: freeFn}, []ar.Operand{p})

	c := &DoubleFreeChecker{Vars: vars}
	f := c.Check(call, env, nil)
	assert.Equal(t, Error, f.Result)
	assert.Equal(t, locID, f.Info["location"])
}

func TestDoubleFreeCheckerOKOnFreshlyAllocatedPointer(t *testing.T) {
	vars := memstore.NewVariableFactory()
	mems := memstore.NewMemoryFactory(vars)
	p := newFreeVar(1, "p")
	id, _ := vars.Materialize(p.UID, p.Name, p.Kind, p.Type)
	locID, _ := mems.Materialize(1, "heap@malloc", ar.MemDynAlloc, &ar.IntType{Bits: 8})

	env := exec.NewEnvironment(64, true)
	env.Pointers = env.Pointers.Set(id, resolvedPointer(locID))
	env.Lifetimes = env.Lifetimes.Set(locID, domain.AllocatedLifetime())

	freeFn := &ar.Function{Name: "free"}
	call := ar.NewCall(1, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Fn: freeFn}, []ar.Operand{p})

	c := &DoubleFreeChecker{Vars: vars}
	f := c.Check(call, env, nil)
	assert.Equal(t, OK, f.Result)
}

func TestDoubleFreeCheckerIgnoresNonFreeCalls(t *testing.T) {
	vars := memstore.NewVariableFactory()
	env := exec.NewEnvironment(64, true)
	otherFn := &ar.Function{Name: "memcpy"}
	call := ar.NewCall(1, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Fn: otherFn}, nil)

	c := &DoubleFreeChecker{Vars: vars}
	f := c.Check(call, env, nil)
	assert.Equal(t, OK, f.Result)
}
