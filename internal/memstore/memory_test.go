package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
)

func TestMemoryFactorySingletonsEagerlyCreated(t *testing.T) {
	f := NewMemoryFactory(NewVariableFactory())
	loc, ok := f.Lookup(f.Argv)
	assert.True(t, ok)
	assert.Equal(t, ar.MemArgv, loc.Kind)

	_, ok = f.Lookup(f.LibcErrno)
	assert.True(t, ok)
	_, ok = f.Lookup(f.AbsZero)
	assert.True(t, ok)
}

func TestMemoryFactoryIdentityAndAllocSizeSibling(t *testing.T) {
	f := NewMemoryFactory(NewVariableFactory())
	id1, loc1 := f.Materialize(5, "buf", ar.MemLocal, &ar.ArrayType{Elem: &ar.IntType{Bits: 8, Signed: false}, Len: 16})
	id2, loc2 := f.Materialize(5, "buf", ar.MemLocal, &ar.ArrayType{Elem: &ar.IntType{Bits: 8, Signed: false}, Len: 16})
	assert.Equal(t, id1, id2)
	assert.Same(t, loc1, loc2)

	sizeID, ok := f.AllocSize(id1)
	assert.True(t, ok)
	assert.NotZero(t, sizeID)
}
