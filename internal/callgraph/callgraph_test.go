package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLinearChainIsAllTrivialSCCs(t *testing.T) {
	g := NewGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	c := Compute(g, []uint64{1})
	assert.Len(t, c.SCCs, 3)
	for _, s := range c.SCCs {
		assert.False(t, s.Recursive)
	}
}

func TestComputeDetectsDirectRecursion(t *testing.T) {
	g := NewGraph()
	g.AddEdge(1, 1)
	c := Compute(g, []uint64{1})
	assert.Len(t, c.SCCs, 1)
	assert.True(t, c.SCCs[0].Recursive)
}

func TestComputeDetectsMutualRecursionCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	c := Compute(g, []uint64{1})
	assert.Len(t, c.SCCs, 1)
	assert.True(t, c.SCCs[0].Recursive)
	assert.ElementsMatch(t, []uint64{1, 2}, c.SCCs[0].Members)
}

func TestTopoOrderPutsCalleesBeforeCallers(t *testing.T) {
	g := NewGraph()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	c := Compute(g, []uint64{1})
	idOf := func(fn uint64) int { id, _ := c.SCCOf(fn); return id }
	posOf := map[int]int{}
	for i, id := range c.TopoOrder {
		posOf[id] = i
	}
	assert.Less(t, posOf[idOf(3)], posOf[idOf(2)])
	assert.Less(t, posOf[idOf(2)], posOf[idOf(1)])
}
