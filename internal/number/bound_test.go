package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundAddInfinities(t *testing.T) {
	_, err := PlusInfinity().Add(MinusInfinity())
	require.Error(t, err)

	r, err := PlusInfinity().Add(FiniteBound(MachineIntFromInt64(5, 32, true)))
	require.NoError(t, err)
	assert.True(t, r.IsPlusInfinity())
}

func TestBoundOrdering(t *testing.T) {
	five := FiniteBound(MachineIntFromInt64(5, 32, true))
	assert.True(t, MinusInfinity().Leq(five))
	assert.True(t, five.Leq(PlusInfinity()))
	assert.True(t, five.Leq(five))
}

func TestBoundMinMax(t *testing.T) {
	a := FiniteBound(MachineIntFromInt64(3, 32, true))
	b := FiniteBound(MachineIntFromInt64(7, 32, true))
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
}
