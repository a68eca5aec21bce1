package wto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testGraph map[uint64][]uint64

func (g testGraph) Successors(v uint64) []uint64 { return g[v] }

func TestBuildLinearChainHasNoCycles(t *testing.T) {
	g := testGraph{1: {2}, 2: {3}, 3: nil}
	part := Build(g, 1)
	for _, c := range part {
		assert.False(t, c.IsCycle)
	}
	assert.Len(t, part, 3)
}

func TestBuildSelfLoopIsACycle(t *testing.T) {
	g := testGraph{1: {2}, 2: {2, 3}, 3: nil}
	part := Build(g, 1)
	var found bool
	for _, c := range part {
		if c.IsCycle && c.Head == 2 {
			found = true
		}
	}
	assert.True(t, found)
}

// rng is a trivial interval-like lattice over [0, bound] used only to
// exercise the fixpoint engine's widening/narrowing plumbing without
// depending on internal/domain.
type rng struct {
	bottom   bool
	lo, hi   int
	infinite bool
}

func (r rng) Leq(o rng) bool {
	if r.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	if o.infinite {
		return r.lo >= 0
	}
	return r.lo >= o.lo && (r.infinite && false || r.hi <= o.hi)
}

func (r rng) Join(o rng) rng {
	if r.bottom {
		return o
	}
	if o.bottom {
		return r
	}
	lo := r.lo
	if o.lo < lo {
		lo = o.lo
	}
	if r.infinite || o.infinite {
		return rng{lo: lo, infinite: true}
	}
	hi := r.hi
	if o.hi > hi {
		hi = o.hi
	}
	return rng{lo: lo, hi: hi}
}

func (r rng) Widen(o rng) rng {
	if r.bottom {
		return o
	}
	if o.hi > r.hi || o.infinite {
		return rng{lo: r.lo, infinite: true}
	}
	return r
}

func (r rng) Narrow(o rng) rng {
	if r.infinite && !o.infinite {
		return o
	}
	return r
}

func TestEngineIteratesLoopToFixpoint(t *testing.T) {
	// 1 -> 2 (head) -> 3 (body, increments) -> 2 ; 2 -> 4 (exit)
	g := testGraph{1: {2}, 2: {3, 4}, 3: {2}, 4: nil}
	part := Build(g, 1)

	preds := map[uint64][]uint64{2: {1, 3}, 3: {2}, 4: {2}}
	e := NewEngine[rng]()
	e.Predecessors = func(v uint64) []uint64 { return preds[v] }
	e.Bottom = func() rng { return rng{bottom: true} }
	e.AnalyzeNode = func(v uint64, pre rng) rng {
		if v == 3 {
			return rng{lo: pre.lo, hi: pre.hi + 1}
		}
		return pre
	}
	e.Widening = WideningStrategy{Delay: 1, Period: 1}

	e.Run(part, 1, rng{lo: 0, hi: 0})
	exitPre := e.Pre(4)
	assert.True(t, exitPre.infinite || exitPre.hi >= 1)
}
