// Package relational implements the difference-bound-matrix domain of
// spec.md §4.6 (L4): an edge-weighted graph over variables plus an
// implicit zero vertex, closed under shortest paths, expressing
// constraints of the form x - y <= c.
package relational

import (
	"arstatic/internal/number"
)

// zeroVertex is a sentinel id for the constant-zero vertex; real
// variable ids are allocated from internal/memstore starting at 1, so
// the all-ones id never collides with one in practice.
const zeroVertex = ^uint64(0)

const dbmWidth = 64

func dbmBound(v int64) number.Bound {
	return number.FiniteBound(number.MachineIntFromInt64(v, dbmWidth, true))
}

type edgeKey struct{ from, to uint64 }

// DBM is n x n matrix of Bound<MachineInt> with an implicit zero
// vertex; M[i][j] is the best known upper bound on x_j - x_i. Absent
// entries default to +inf (no known bound); the diagonal defaults to 0.
// Representation is sparse: only finite (and explicit -inf) entries are
// stored.
type DBM struct {
	bottom bool
	vars   map[uint64]struct{}
	edges  map[edgeKey]number.Bound
}

// Top returns the DBM with no variables and no constraints.
func Top() DBM {
	return DBM{vars: map[uint64]struct{}{}, edges: map[edgeKey]number.Bound{}}
}

// Bottom returns the infeasible (⊥) DBM.
func Bottom() DBM {
	return DBM{bottom: true}
}

func (d DBM) clone() DBM {
	vars := make(map[uint64]struct{}, len(d.vars))
	for k := range d.vars {
		vars[k] = struct{}{}
	}
	edges := make(map[edgeKey]number.Bound, len(d.edges))
	for k, v := range d.edges {
		edges[k] = v
	}
	return DBM{bottom: d.bottom, vars: vars, edges: edges}
}

func (d DBM) get(i, j uint64) number.Bound {
	if i == j {
		return dbmBound(0)
	}
	if b, ok := d.edges[edgeKey{i, j}]; ok {
		return b
	}
	return number.PlusInfinity()
}

func (d *DBM) set(i, j uint64, b number.Bound) {
	if i == j {
		return
	}
	if b.IsPlusInfinity() {
		delete(d.edges, edgeKey{i, j})
		return
	}
	d.edges[edgeKey{i, j}] = b
}

// Vars returns the tracked variable ids (excluding the zero vertex).
func (d DBM) Vars() []uint64 {
	out := make([]uint64, 0, len(d.vars))
	for v := range d.vars {
		out = append(out, v)
	}
	return out
}

func (d DBM) vertices() []uint64 {
	vs := make([]uint64, 0, len(d.vars)+1)
	vs = append(vs, zeroVertex)
	for v := range d.vars {
		vs = append(vs, v)
	}
	return vs
}

// AddVar adds a new unconstrained variable; a no-op if already present.
func (d DBM) AddVar(id uint64) DBM {
	if d.bottom {
		return d
	}
	if _, ok := d.vars[id]; ok {
		return d
	}
	n := d.clone()
	n.vars[id] = struct{}{}
	return n
}

// DropVar removes a variable and every constraint mentioning it.
func (d DBM) DropVar(id uint64) DBM {
	if d.bottom {
		return d
	}
	if _, ok := d.vars[id]; !ok {
		return d
	}
	n := d.clone()
	delete(n.vars, id)
	for k := range n.edges {
		if k.from == id || k.to == id {
			delete(n.edges, k)
		}
	}
	return n
}

// Rename replaces variable `from` with `to` (caller ensures `to` isn't
// already tracked, e.g. on a variable-packing merge).
func (d DBM) Rename(from, to uint64) DBM {
	if d.bottom {
		return d
	}
	if _, ok := d.vars[from]; !ok {
		return d
	}
	n := d.clone()
	delete(n.vars, from)
	n.vars[to] = struct{}{}
	for k, v := range n.edges {
		if k.from != from && k.to != from {
			continue
		}
		nk := k
		if nk.from == from {
			nk.from = to
		}
		if nk.to == from {
			nk.to = to
		}
		delete(n.edges, k)
		n.edges[nk] = v
	}
	return n
}

// ConstraintKind enumerates the limited constraint forms of spec.md
// §4.6; anything outside this set is forwarded to Refine using
// intervals projected out of the DBM instead.
type ConstraintKind int

const (
	LeConst   ConstraintKind = iota // x <= c
	GeConst                         // x >= c
	DiffLe                          // x - y <= c
	DiffGe                          // x - y >= c
	EqPlusC                         // x = y + c
	EqConst                         // x = c
)

// AddConstraint narrows the DBM with one of the limited octagonal
// constraint forms (spec.md §4.6), then recomputes closure.
func (d DBM) AddConstraint(kind ConstraintKind, x, y uint64, c int64) DBM {
	if d.bottom {
		return d
	}
	n := d.AddVar(x)
	if kind == DiffLe || kind == DiffGe || kind == EqPlusC {
		n = n.AddVar(y)
	}
	switch kind {
	case LeConst:
		n.set(zeroVertex, x, number.Min(n.get(zeroVertex, x), dbmBound(c)))
	case GeConst:
		n.set(x, zeroVertex, number.Min(n.get(x, zeroVertex), dbmBound(-c)))
	case DiffLe:
		n.set(y, x, number.Min(n.get(y, x), dbmBound(c)))
	case DiffGe:
		n.set(x, y, number.Min(n.get(x, y), dbmBound(-c)))
	case EqPlusC:
		n.set(y, x, number.Min(n.get(y, x), dbmBound(c)))
		n.set(x, y, number.Min(n.get(x, y), dbmBound(-c)))
	case EqConst:
		n.set(zeroVertex, x, number.Min(n.get(zeroVertex, x), dbmBound(c)))
		n.set(x, zeroVertex, number.Min(n.get(x, zeroVertex), dbmBound(-c)))
	}
	return n.Close()
}

// Close computes the all-pairs shortest-paths closure (Floyd-Warshall)
// and detects a negative cycle, which makes the state ⊥ (spec.md
// Testable Property 6: ∀ i,j,k: M[i][j] <= M[i][k] + M[k][j] or ⊥).
func (d DBM) Close() DBM {
	if d.bottom {
		return d
	}
	n := d.clone()
	vs := n.vertices()
	for _, k := range vs {
		for _, i := range vs {
			ik := n.get(i, k)
			if ik.IsPlusInfinity() {
				continue
			}
			for _, j := range vs {
				kj := n.get(k, j)
				if kj.IsPlusInfinity() {
					continue
				}
				sum, err := ik.Add(kj)
				if err != nil {
					continue
				}
				if sum.Cmp(n.get(i, j)) < 0 {
					if i == j {
						// The diagonal is never stored, so a negative
						// cycle is detected here.
						return Bottom()
					}
					n.set(i, j, sum)
				}
			}
		}
	}
	for _, i := range vs {
		if n.get(i, i).Cmp(dbmBound(0)) < 0 {
			return Bottom()
		}
	}
	return n
}

func (d DBM) IsBottom() bool { return d.bottom }

func (d DBM) IsTop() bool {
	if d.bottom {
		return false
	}
	return len(d.edges) == 0
}

// Leq holds when every edge in o is implied by d (d's bound is at
// least as tight, i.e. numerically <=, for every pair).
func (d DBM) Leq(o DBM) bool {
	if d.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	for k, ov := range o.edges {
		if d.get(k.from, k.to).Cmp(ov) > 0 {
			return false
		}
	}
	return true
}

func unionVars(a, b DBM) map[uint64]struct{} {
	out := map[uint64]struct{}{}
	for v := range a.vars {
		out[v] = struct{}{}
	}
	for v := range b.vars {
		out[v] = struct{}{}
	}
	return out
}

// Join takes the entrywise max (the weaker, more permissive bound) of
// the two DBMs restricted to their shared structure; variables unique
// to one side carry over unconstrained against the other.
func (d DBM) Join(o DBM) DBM {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	n := Top()
	n.vars = unionVars(d, o)
	vs := n.vertices()
	for _, i := range vs {
		for _, j := range vs {
			if i == j {
				continue
			}
			m := number.Max(d.get(i, j), o.get(i, j))
			n.set(i, j, m)
		}
	}
	return n.Close()
}

// Meet takes the entrywise min, then closes to detect infeasibility.
func (d DBM) Meet(o DBM) DBM {
	if d.bottom || o.bottom {
		return Bottom()
	}
	n := Top()
	n.vars = unionVars(d, o)
	vs := n.vertices()
	for _, i := range vs {
		for _, j := range vs {
			if i == j {
				continue
			}
			n.set(i, j, number.Min(d.get(i, j), o.get(i, j)))
		}
	}
	return n.Close()
}

// Widen: entries that increased become +inf, entries that decreased
// become -inf, stable entries are kept (spec.md §4.6).
func (d DBM) Widen(o DBM) DBM {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	n := Top()
	n.vars = unionVars(d, o)
	vs := n.vertices()
	for _, i := range vs {
		for _, j := range vs {
			if i == j {
				continue
			}
			oldV, newV := d.get(i, j), o.get(i, j)
			switch {
			case newV.Cmp(oldV) > 0:
				n.set(i, j, number.PlusInfinity())
			case newV.Cmp(oldV) < 0:
				n.set(i, j, number.MinusInfinity())
			default:
				n.set(i, j, newV)
			}
		}
	}
	return n
}

// WidenThreshold keeps entries at or below any supplied threshold
// exactly, widening the rest (spec.md §4.6).
func (d DBM) WidenThreshold(o DBM, thresholds []int64) DBM {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	n := Top()
	n.vars = unionVars(d, o)
	vs := n.vertices()
	for _, i := range vs {
		for _, j := range vs {
			if i == j {
				continue
			}
			oldV, newV := d.get(i, j), o.get(i, j)
			if newV.Cmp(oldV) <= 0 {
				n.set(i, j, newV)
				continue
			}
			best := number.PlusInfinity()
			for _, t := range thresholds {
				tb := dbmBound(t)
				if tb.Cmp(newV) >= 0 && tb.Cmp(best) < 0 {
					best = tb
				}
			}
			n.set(i, j, best)
		}
	}
	return n
}

// Narrow replaces +inf entries with o's finite value where available,
// leaving already-stable entries untouched.
func (d DBM) Narrow(o DBM) DBM {
	if d.bottom || o.bottom {
		return Bottom()
	}
	n := d.clone()
	for _, i := range n.vertices() {
		for _, j := range n.vertices() {
			if i == j {
				continue
			}
			cur := n.get(i, j)
			if cur.IsPlusInfinity() {
				if ov := o.get(i, j); !ov.IsPlusInfinity() {
					n.set(i, j, ov)
				}
			}
		}
	}
	return n.Close()
}

// ProjectInterval reads off the interval [lo, hi] implied for x from
// the closed DBM: hi = M[0][x], lo = -M[x][0] (spec.md §4.6, used when
// an arithmetic statement isn't octagonal and degrades to interval
// projection).
func (d DBM) ProjectInterval(x uint64) (lo, hi number.Bound) {
	if d.bottom {
		return number.PlusInfinity(), number.MinusInfinity()
	}
	hi = d.get(zeroVertex, x)
	negLo := d.get(x, zeroVertex)
	lo = negLo.Neg()
	return lo, hi
}
