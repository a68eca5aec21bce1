package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineIntWrapsOnOverflow(t *testing.T) {
	a := MachineIntFromInt64(250, 8, false)
	b := MachineIntFromInt64(10, 8, false)
	r, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, MachineIntFromInt64(4, 8, false), r)
}

func TestMachineIntSignedComparison(t *testing.T) {
	negOne := MachineIntFromInt64(-1, 8, true)
	one := MachineIntFromInt64(1, 8, true)
	c, err := negOne.Cmp(one)
	require.NoError(t, err)
	assert.Negative(t, c)

	// Same bit pattern, unsigned: 255 > 1.
	negOneUnsigned := MachineIntFromInt64(-1, 8, false)
	oneUnsigned := MachineIntFromInt64(1, 8, false)
	c2, err := negOneUnsigned.Cmp(oneUnsigned)
	require.NoError(t, err)
	assert.Positive(t, c2)
}

func TestMachineIntDivByZero(t *testing.T) {
	a := MachineIntFromInt64(10, 32, true)
	zero := MachineIntFromInt64(0, 32, true)
	_, err := a.DivSigned(zero)
	require.Error(t, err)
	var ae *ArithError
	require.ErrorAs(t, err, &ae)
}

func TestMachineIntMismatchedWidth(t *testing.T) {
	a := MachineIntFromInt64(1, 8, true)
	b := MachineIntFromInt64(1, 16, true)
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestMachineIntSExtPreservesSign(t *testing.T) {
	a := MachineIntFromInt64(-1, 8, true)
	b := a.SExt(32)
	c, err := b.Cmp(MachineIntFromInt64(-1, 32, true))
	require.NoError(t, err)
	assert.Zero(t, c)
}
