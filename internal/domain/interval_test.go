package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/number"
)

func mi(v int64) number.MachineInt { return number.MachineIntFromInt64(v, 32, true) }

func TestIntervalLatticeLaws(t *testing.T) {
	a := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(10)), 32, true)
	b := NewInterval(number.FiniteBound(mi(5)), number.FiniteBound(mi(20)), 32, true)
	bot := BottomInterval(32, true)
	top := TopInterval(32, true)

	assert.True(t, bot.Leq(a))
	assert.True(t, a.Leq(top))
	assert.True(t, a.Join(b).Leq(a.Join(b).Join(b))) // idempotence via leq both ways
	assert.True(t, a.Join(b).Leq(b.Join(a)))
	assert.True(t, b.Join(a).Leq(a.Join(b)))
	assert.True(t, a.Leq(a.Join(b)))
	assert.True(t, a.Meet(b).Leq(a))
}

func TestIntervalWidenStabilizes(t *testing.T) {
	// Chain x0=[0,0], x1=[0,1], x2=[0,2], ... widened should reach [0,+inf)
	// within one widening step, per spec.md §4.2.
	cur := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(0)), 32, true)
	next := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(1)), 32, true)
	widened := cur.Widen(next)
	assert.True(t, widened.Hi.IsPlusInfinity())
	assert.True(t, widened.Lo.Equal(number.FiniteBound(mi(0))))
}

func TestIntervalTrimIdempotent(t *testing.T) {
	iv := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(10)), 32, true)
	once := iv.TrimBound(mi(10))
	twice := once.TrimBound(mi(10))
	assert.True(t, once.Leq(twice) && twice.Leq(once))
}

func TestIntervalMulCrossingSignBoundaryTopsOut(t *testing.T) {
	iv := NewInterval(number.FiniteBound(mi(-5)), number.FiniteBound(mi(5)), 8, true)
	wide := NewInterval(number.MinusInfinity(), number.PlusInfinity(), 8, true)
	result := iv.Mul(wide)
	assert.True(t, result.IsTop())
}

func TestRefinePredicateLessThan(t *testing.T) {
	l := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(100)), 32, true)
	r := NewInterval(number.FiniteBound(mi(0)), number.FiniteBound(mi(10)), 32, true)
	nl, nr := RefinePredicate("lt", l, r)
	assert.True(t, nl.Hi.Cmp(number.FiniteBound(mi(9))) <= 0)
	assert.True(t, nr.Lo.Cmp(number.FiniteBound(mi(1))) >= 0)
}
