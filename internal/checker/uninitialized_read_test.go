package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/domain"
	"arstatic/internal/exec"
	"arstatic/internal/memstore"
)

func TestUninitializedReadCheckerFlagsReadOfUnsetVariable(t *testing.T) {
	vars := memstore.NewVariableFactory()
	garbage := &ar.Variable{UID: 1, Name: "garbage", Kind: ar.VarLocal, Type: &ar.IntType{Bits: 64, Signed: true}}
	id, _ := vars.Materialize(garbage.UID, garbage.Name, garbage.Kind, garbage.Type)

	env := exec.NewEnvironment(64, true)
	env.Uninits = env.Uninits.Set(id, domain.UninitializedValue())

	one := &ar.IntConstant{Type: &ar.IntType{Bits: 64, Signed: true}, Value: 1}
	res := &ar.Variable{UID: 2, Name: "r", Kind: ar.VarLocal, Type: &ar.IntType{Bits: 64, Signed: true}}
	stmt := ar.NewArithmetic(1, nil, ar.SourceLocation{}, res, ar.OpAdd, garbage, one)

	c := &UninitializedReadChecker{Vars: vars}
	f := c.Check(stmt, env, nil)
	assert.Equal(t, Error, f.Result)
	assert.Equal(t, "garbage", f.Info["variable"])
}

func TestUninitializedReadCheckerOKWhenOperandInitialized(t *testing.T) {
	vars := memstore.NewVariableFactory()
	n := &ar.Variable{UID: 1, Name: "n", Kind: ar.VarLocal, Type: &ar.IntType{Bits: 64, Signed: true}}
	id, _ := vars.Materialize(n.UID, n.Name, n.Kind, n.Type)

	env := exec.NewEnvironment(64, true)
	env.Uninits = env.Uninits.Set(id, domain.InitializedValue())

	one := &ar.IntConstant{Type: &ar.IntType{Bits: 64, Signed: true}, Value: 1}
	res := &ar.Variable{UID: 2, Name: "r", Kind: ar.VarLocal, Type: &ar.IntType{Bits: 64, Signed: true}}
	stmt := ar.NewArithmetic(1, nil, ar.SourceLocation{}, res, ar.OpAdd, n, one)

	c := &UninitializedReadChecker{Vars: vars}
	f := c.Check(stmt, env, nil)
	assert.Equal(t, OK, f.Result)
}

func TestUninitializedReadCheckerUnreachableOnBottomInvariant(t *testing.T) {
	vars := memstore.NewVariableFactory()
	env := exec.BottomEnvironment(64, true)
	stmt := ar.NewReturn(1, nil, ar.SourceLocation{}, nil)

	c := &UninitializedReadChecker{Vars: vars}
	f := c.Check(stmt, env, nil)
	assert.Equal(t, Unreachable, f.Result)
}
