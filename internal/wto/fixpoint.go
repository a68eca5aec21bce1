package wto

// Lattice is the subset of domain.AbstractDomain[T] the fixpoint
// iterator needs (mirrors internal/combinator.Lattice; redeclared here
// so this package stays independent of internal/domain's concrete
// types).
type Lattice[T any] interface {
	Leq(T) bool
	Join(T) T
	Widen(T) T
	Narrow(T) T
}

// WideningStrategy controls when plain join gives way to widening
// during the increasing sequence (spec.md §4.13 step 2).
type WideningStrategy struct {
	Delay  int // iterations 1..Delay use plain join
	Period int // thereafter, widen every Period-th iteration, join otherwise
}

// NarrowingStrategy controls the decreasing sequence's stop condition.
type NarrowingStrategy struct {
	MaxIterations int // 0 means iterate until narrow reaches a fixpoint
}

// Hooks lets a caller (the orchestrator's checker pass) observe the
// pre/post invariant computed at each vertex without being woven into
// the iteration logic itself (spec.md §4.13's process_pre/process_post).
type Hooks[T any] struct {
	ProcessPre  func(vertex uint64, pre T)
	ProcessPost func(vertex uint64, post T)
}

// Engine runs the WTO fixpoint iteration of spec.md §4.13 over a
// control-flow graph, given the transfer functions analyzeNode and
// analyzeEdge.
type Engine[T Lattice[T]] struct {
	Predecessors func(v uint64) []uint64
	AnalyzeNode  func(v uint64, pre T) T
	AnalyzeEdge  func(src, dst uint64, pre T) T
	Bottom       func() T
	Widening     WideningStrategy
	Narrowing    NarrowingStrategy
	Hooks        Hooks[T]

	pre  map[uint64]T
	post map[uint64]T
}

func NewEngine[T Lattice[T]]() *Engine[T] {
	return &Engine[T]{
		Widening: WideningStrategy{Delay: 1, Period: 1},
		pre:      map[uint64]T{},
		post:     map[uint64]T{},
	}
}

func (e *Engine[T]) Pre(v uint64) T  { return e.pre[v] }
func (e *Engine[T]) Post(v uint64) T { return e.post[v] }

// Run iterates a top-level partition starting from the given entry
// invariant.
func (e *Engine[T]) Run(partition []Component, entry uint64, entryInvariant T) {
	e.pre[entry] = entryInvariant
	e.runPartition(partition, nil)
}

// runPartition iterates every component in order; enclosingHeads lists
// the heads of cycles this partition is nested inside, needed to tell
// "predecessor inside the current scope" apart from "predecessor
// outside it" per spec.md §4.13's pre(v) definition.
func (e *Engine[T]) runPartition(partition []Component, enclosingHeads []uint64) {
	members := componentMembers(partition)
	for _, c := range partition {
		if !c.IsCycle {
			e.visitVertex(c.Vertex, members, enclosingHeads)
			continue
		}
		e.visitCycle(c, members, enclosingHeads)
	}
}

func componentMembers(partition []Component) map[uint64]bool {
	members := map[uint64]bool{}
	var walk func([]Component)
	walk = func(cs []Component) {
		for _, c := range cs {
			members[c.Vertex] = true
			if c.IsCycle {
				walk(c.Body)
			}
		}
	}
	walk(partition)
	return members
}

func (e *Engine[T]) predecessorJoin(v uint64, scope map[uint64]bool) (T, bool) {
	var acc T
	has := false
	for _, p := range e.Predecessors(v) {
		if !scope[p] {
			continue
		}
		post, ok := e.post[p]
		if !ok {
			continue
		}
		refined := post
		if e.AnalyzeEdge != nil {
			refined = e.AnalyzeEdge(p, v, post)
		}
		if !has {
			acc = refined
			has = true
		} else {
			acc = acc.Join(refined)
		}
	}
	return acc, has
}

func (e *Engine[T]) visitVertex(v uint64, scope map[uint64]bool, _ []uint64) {
	joined, has := e.predecessorJoin(v, scope)
	if existing, ok := e.pre[v]; ok {
		if has {
			joined = existing.Join(joined)
		} else {
			joined = existing
		}
		has = true
	}
	if !has {
		joined = e.Bottom()
	}
	e.pre[v] = joined
	if e.Hooks.ProcessPre != nil {
		e.Hooks.ProcessPre(v, joined)
	}
	post := e.AnalyzeNode(v, joined)
	e.post[v] = post
	if e.Hooks.ProcessPost != nil {
		e.Hooks.ProcessPost(v, post)
	}
}

func (e *Engine[T]) visitCycle(c Component, outerScope map[uint64]bool, enclosingHeads []uint64) {
	h := c.Head
	innerScope := componentMembers(c.Body)
	innerScope[h] = true

	// Step 1: pre(h) from predecessors outside the cycle only.
	extScope := map[uint64]bool{}
	for k := range outerScope {
		if !innerScope[k] {
			extScope[k] = true
		}
	}
	extPre, has := e.predecessorJoin(h, extScope)
	if !has {
		extPre = e.Bottom()
	}
	if existing, ok := e.pre[h]; ok {
		extPre = existing.Join(extPre)
	}

	// Step 2: increasing sequence.
	cur := extPre
	iter := 0
	for {
		iter++
		e.pre[h] = cur
		if e.Hooks.ProcessPre != nil {
			e.Hooks.ProcessPre(h, cur)
		}
		headPost := e.AnalyzeNode(h, cur)
		e.post[h] = headPost
		if e.Hooks.ProcessPost != nil {
			e.Hooks.ProcessPost(h, headPost)
		}
		e.runPartition(c.Body, append(enclosingHeads, h))

		internalPre, hasInternal := e.predecessorJoin(h, innerScope)
		next := extPre
		if hasInternal {
			next = next.Join(internalPre)
		}

		if next.Leq(cur) {
			break
		}
		if iter <= e.Widening.Delay || e.Widening.Period <= 0 || iter%e.Widening.Period != 0 {
			cur = cur.Join(next)
		} else {
			cur = cur.Widen(next)
		}
	}

	// Step 3: decreasing sequence.
	before := cur
	dIter := 0
	for {
		dIter++
		e.pre[h] = before
		headPost := e.AnalyzeNode(h, before)
		e.post[h] = headPost
		e.runPartition(c.Body, append(enclosingHeads, h))
		internalPre, hasInternal := e.predecessorJoin(h, innerScope)
		after := extPre
		if hasInternal {
			after = after.Join(internalPre)
		}
		narrowed := before.Narrow(after)
		if e.Narrowing.MaxIterations > 0 && dIter >= e.Narrowing.MaxIterations {
			break
		}
		if narrowed.Leq(before) && before.Leq(narrowed) {
			break
		}
		before = narrowed
	}
}
