package inline

import "arstatic/internal/ar"

// funcGraph numbers a function's basic blocks so internal/wto (which
// only knows uint64 vertices) can run over the same CFG the executor
// walks directly, and answers the edge lookups the branch/exception
// refinement hooks need (spec.md §4.13 adapted to §4.11/§4.12's typed
// edges).
type funcGraph struct {
	ids    map[*ar.BasicBlock]uint64
	blocks map[uint64]*ar.BasicBlock
	edgeOf map[[2]uint64]*ar.Edge
	entry  uint64
}

func buildFuncGraph(fn *ar.Function) *funcGraph {
	g := &funcGraph{
		ids:    map[*ar.BasicBlock]uint64{},
		blocks: map[uint64]*ar.BasicBlock{},
		edgeOf: map[[2]uint64]*ar.Edge{},
	}
	for i, b := range fn.Blocks {
		id := uint64(i + 1)
		g.ids[b] = id
		g.blocks[id] = b
	}
	for _, b := range fn.Blocks {
		src := g.ids[b]
		for _, e := range b.Successors {
			dst, ok := g.ids[e.To]
			if !ok {
				continue
			}
			g.edgeOf[[2]uint64{src, dst}] = e
		}
	}
	if fn.Entry != nil {
		g.entry = g.ids[fn.Entry]
	}
	return g
}

// Successors implements wto.Graph.
func (g *funcGraph) Successors(v uint64) []uint64 {
	b := g.blocks[v]
	out := make([]uint64, 0, len(b.Successors))
	for _, e := range b.Successors {
		if dst, ok := g.ids[e.To]; ok {
			out = append(out, dst)
		}
	}
	return out
}

// Predecessors feeds wto.Engine's pre(v) computation.
func (g *funcGraph) Predecessors(v uint64) []uint64 {
	b := g.blocks[v]
	out := make([]uint64, 0, len(b.Predecessors))
	for _, e := range b.Predecessors {
		if src, ok := g.ids[e.From]; ok {
			out = append(out, src)
		}
	}
	return out
}

// findComparison locates the Comparison statement in block b whose
// result is the given guard operand, if any — the predicate a
// conditional edge out of b was computed from (spec.md §4.11's branch
// refinement).
func findComparison(b *ar.BasicBlock, guard ar.Operand) (*ar.Comparison, bool) {
	gv, ok := guard.(*ar.Variable)
	if !ok {
		return nil, false
	}
	for _, st := range b.Statements {
		if cmp, ok := st.(*ar.Comparison); ok && cmp.Result == gv {
			return cmp, true
		}
	}
	return nil, false
}

func endsWithInvoke(b *ar.BasicBlock) bool {
	if len(b.Statements) == 0 {
		return false
	}
	_, ok := b.Statements[len(b.Statements)-1].(*ar.Invoke)
	return ok
}
