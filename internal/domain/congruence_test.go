package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/number"
)

func TestCongruenceJoin(t *testing.T) {
	// {x: x = 2k}  join  {x: x = 2k+1}  ==  Z (modulus 1).
	even := NewCongruence(2, 0)
	odd := NewCongruence(2, 1)
	j := even.Join(odd)
	assert.True(t, j.IsTop())
}

func TestCongruenceMeetInconsistent(t *testing.T) {
	a := NewCongruence(2, 0) // even
	b := NewCongruence(2, 1) // odd
	m := a.Meet(b)
	assert.True(t, m.IsBottom())
}

func TestCongruenceMeetConsistent(t *testing.T) {
	a := NewCongruence(4, 0) // 0 mod 4
	b := NewCongruence(6, 0) // 0 mod 6
	m := a.Meet(b)
	assert.False(t, m.IsBottom())
	// Result should be a multiple of lcm(4,6)=12 congruence class.
	assert.True(t, m.Leq(a))
	assert.True(t, m.Leq(b))
}

func TestIntervalCongruenceReductionIsBottomWhenInconsistent(t *testing.T) {
	iv := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(1)), 32, true)
	odd := NewCongruence(2, 1) // interval [0,1] contains the odd value 1.
	ic := NewIntervalCongruence(iv, odd)
	assert.False(t, ic.IsBottom())

	evenOnly := NewCongruence(4, 0)
	ivNoEven := NewInterval(number.FiniteBound(mi(1)), number.FiniteBound(mi(1)), 32, true) // singleton {1}, never ≡0 mod 4
	ic2 := NewIntervalCongruence(ivNoEven, evenOnly)
	assert.True(t, ic2.IsBottom())
}
