// Package callgraph computes strongly connected components of the call
// graph, their condensation, and a topological order over it (spec.md
// §4.14, L11), so the orchestrator can analyze unrelated components
// independently and flag recursive SCCs for the inliner's conservative
// over-approximation.
package callgraph

// Graph is a call graph: Edges[f] lists the functions f may call.
type Graph struct {
	Edges map[uint64][]uint64
}

func NewGraph() *Graph { return &Graph{Edges: map[uint64][]uint64{}} }

func (g *Graph) AddEdge(caller, callee uint64) {
	g.Edges[caller] = append(g.Edges[caller], callee)
	if _, ok := g.Edges[callee]; !ok {
		g.Edges[callee] = nil
	}
}

// SCC is one strongly connected component; Recursive is true when it
// has more than one member or a self-loop (a function directly or
// indirectly calling itself).
type SCC struct {
	ID        int
	Members   []uint64
	Recursive bool
}

// Condensation is the call graph with each SCC collapsed to a vertex,
// plus a topological order over those vertices.
type Condensation struct {
	SCCs     []SCC
	sccOf    map[uint64]int
	Edges    map[int][]int // SCC id -> SCC ids it calls
	TopoOrder []int         // callees before callers; see topoSortCalleesFirst
}

// SCCOf returns which SCC a function belongs to.
func (c *Condensation) SCCOf(fn uint64) (int, bool) {
	id, ok := c.sccOf[fn]
	return id, ok
}

// tarjan holds Tarjan's algorithm working state.
type tarjan struct {
	g        *Graph
	index    map[uint64]int
	lowlink  map[uint64]int
	onStack  map[uint64]bool
	stack    []uint64
	counter  int
	sccs     []SCC
}

// Compute runs Tarjan's SCC algorithm over every vertex reachable from
// roots (the analysis entry points), builds the condensation, and
// computes a topological order such that a component never appears
// before a component it calls (callees before callers — the order
// internal/orchestrator consumes so a callee's summary exists before
// its caller needs it, spec.md §4.14).
func Compute(g *Graph, roots []uint64) *Condensation {
	tj := &tarjan{
		g:       g,
		index:   map[uint64]int{},
		lowlink: map[uint64]int{},
		onStack: map[uint64]bool{},
	}
	for _, r := range roots {
		if _, seen := tj.index[r]; !seen {
			tj.strongconnect(r)
		}
	}
	// Also cover any vertex not reachable from the declared roots
	// (e.g. functions only reachable via function pointers the
	// pointer solver hasn't resolved yet); every vertex still gets a
	// well-defined SCC.
	for v := range g.Edges {
		if _, seen := tj.index[v]; !seen {
			tj.strongconnect(v)
		}
	}

	sccOf := map[uint64]int{}
	for i, s := range tj.sccs {
		for _, m := range s.Members {
			sccOf[m] = i
		}
	}
	for i := range tj.sccs {
		members := tj.sccs[i].Members
		if len(members) > 1 {
			tj.sccs[i].Recursive = true
			continue
		}
		only := members[0]
		for _, callee := range g.Edges[only] {
			if callee == only {
				tj.sccs[i].Recursive = true
			}
		}
	}

	edges := map[int][]int{}
	seenEdge := map[[2]int]bool{}
	for caller, callees := range g.Edges {
		ci := sccOf[caller]
		for _, callee := range callees {
			cj := sccOf[callee]
			if ci == cj {
				continue
			}
			key := [2]int{ci, cj}
			if !seenEdge[key] {
				seenEdge[key] = true
				edges[ci] = append(edges[ci], cj)
			}
		}
	}

	cond := &Condensation{SCCs: tj.sccs, sccOf: sccOf, Edges: edges}
	cond.TopoOrder = topoSortCalleesFirst(len(tj.sccs), edges)
	return cond
}

func (tj *tarjan) strongconnect(v uint64) {
	tj.index[v] = tj.counter
	tj.lowlink[v] = tj.counter
	tj.counter++
	tj.stack = append(tj.stack, v)
	tj.onStack[v] = true

	for _, w := range tj.g.Edges[v] {
		if _, seen := tj.index[w]; !seen {
			tj.strongconnect(w)
			if tj.lowlink[w] < tj.lowlink[v] {
				tj.lowlink[v] = tj.lowlink[w]
			}
		} else if tj.onStack[w] {
			if tj.index[w] < tj.lowlink[v] {
				tj.lowlink[v] = tj.index[w]
			}
		}
	}

	if tj.lowlink[v] == tj.index[v] {
		var members []uint64
		for {
			n := len(tj.stack) - 1
			w := tj.stack[n]
			tj.stack = tj.stack[:n]
			tj.onStack[w] = false
			members = append(members, w)
			if w == v {
				break
			}
		}
		tj.sccs = append(tj.sccs, SCC{ID: len(tj.sccs), Members: members})
	}
}

// topoSortCalleesFirst orders SCC ids so that for every edge ci -> cj
// (ci calls cj), cj appears before ci: callees are analyzed (and their
// summaries available) before their callers.
func topoSortCalleesFirst(n int, edges map[int][]int) []int {
	visited := make([]bool, n)
	var order []int
	var visit func(int)
	visit = func(v int) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, w := range edges[v] {
			visit(w)
		}
		order = append(order, v)
	}
	for v := 0; v < n; v++ {
		visit(v)
	}
	return order
}
