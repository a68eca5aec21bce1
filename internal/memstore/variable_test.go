package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
)

func TestVariableFactoryIdentityStable(t *testing.T) {
	f := NewVariableFactory()
	id1, v1 := f.Materialize(100, "x", ar.VarLocal, &ar.IntType{Bits: 32, Signed: true})
	id2, v2 := f.Materialize(100, "x", ar.VarLocal, &ar.IntType{Bits: 32, Signed: true})
	assert.Equal(t, id1, id2)
	assert.Same(t, v1, v2)
}

func TestVariableFactorySynthesizesOffsetSibling(t *testing.T) {
	f := NewVariableFactory()
	id, _ := f.Materialize(1, "p", ar.VarLocal, &ar.PointerType{Elem: &ar.IntType{Bits: 32, Signed: true}})
	offID, ok := f.Offset(id)
	assert.True(t, ok)
	offVar, ok := f.Lookup(offID)
	assert.True(t, ok)
	assert.Equal(t, ar.VarOffset, offVar.Kind)
}

func TestVariableFactoryNoOffsetSiblingForScalar(t *testing.T) {
	f := NewVariableFactory()
	id, _ := f.Materialize(2, "n", ar.VarLocal, &ar.IntType{Bits: 32, Signed: true})
	_, ok := f.Offset(id)
	assert.False(t, ok)
}
