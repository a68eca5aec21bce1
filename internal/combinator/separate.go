package combinator

// Lattice is the subset of domain.AbstractDomain[T] the combinators
// need; redeclared locally (rather than importing internal/domain) so
// combinator stays usable over any value domain, including ones built
// purely out of internal/relational or internal/pointer.
type Lattice[T any] interface {
	IsBottom() bool
	IsTop() bool
	Leq(T) bool
	Join(T) T
	Meet(T) T
	Widen(T) T
	Narrow(T) T
}

// SeparateDomain maps variable id -> value (spec.md §4.5). A missing
// key denotes ⊤ (top); the patricia tree gives join/meet structural
// sharing with whatever pre-invariant they were copied from.
type SeparateDomain[V Lattice[V]] struct {
	tree *patriciaNode[V]
	top  V
}

// NewSeparateDomain requires an explicit top value: value domains
// don't all have zero-argument top constructors (e.g. Interval needs a
// bit-width), so the caller supplies one top instance used whenever a
// key is absent.
func NewSeparateDomain[V Lattice[V]](top V) SeparateDomain[V] {
	return SeparateDomain[V]{top: top}
}

func (d SeparateDomain[V]) Get(id uint64) V {
	if v, ok := d.tree.get(id); ok {
		return v
	}
	return d.top
}

// Set assigns a value, storing it even if it equals top so that an
// explicit "forgotten to top" is distinguishable from "never set" by
// callers that care (most don't).
func (d SeparateDomain[V]) Set(id uint64, v V) SeparateDomain[V] {
	return SeparateDomain[V]{tree: d.tree.insert(id, v), top: d.top}
}

// Forget removes a key, reverting it to ⊤.
func (d SeparateDomain[V]) Forget(id uint64) SeparateDomain[V] {
	return SeparateDomain[V]{tree: d.tree.remove(id), top: d.top}
}

// Refine meets the current value at id with v.
func (d SeparateDomain[V]) Refine(id uint64, v V) SeparateDomain[V] {
	return d.Set(id, d.Get(id).Meet(v))
}

func (d SeparateDomain[V]) Each(f func(id uint64, v V)) {
	d.tree.each(f)
}

// Join intersects keys (dropping positions that are already ⊤ on
// either side — a missing key already denotes ⊤, so we only need to
// merge the keys present in both) and joins the values present in
// both (spec.md §4.5).
func (d SeparateDomain[V]) Join(o SeparateDomain[V]) SeparateDomain[V] {
	var out *patriciaNode[V]
	d.tree.each(func(id uint64, v V) {
		if ov, ok := o.tree.get(id); ok {
			j := v.Join(ov)
			if !j.IsTop() {
				out = out.insert(id, j)
			}
		}
		// absent on the other side => top on that side => joined value is top => drop key.
	})
	return SeparateDomain[V]{tree: out, top: d.top}
}

// Meet unions keys, meeting values (⊥ propagates) (spec.md §4.5).
func (d SeparateDomain[V]) Meet(o SeparateDomain[V]) SeparateDomain[V] {
	out := d.tree
	o.tree.each(func(id uint64, v V) {
		cur := out.get2(id, d.top)
		out = out.insert(id, cur.Meet(v))
	})
	// Also ensure keys only in d keep their own (already meet with top = identity).
	return SeparateDomain[V]{tree: out, top: d.top}
}

func (n *patriciaNode[V]) get2(key uint64, top V) V {
	if v, ok := n.get(key); ok {
		return v
	}
	return top
}

func (d SeparateDomain[V]) Leq(o SeparateDomain[V]) bool {
	ok := true
	d.tree.each(func(id uint64, v V) {
		if !v.Leq(o.Get(id)) {
			ok = false
		}
	})
	o.tree.each(func(id uint64, v V) {
		if !d.Get(id).Leq(v) {
			ok = false
		}
	})
	return ok
}

func (d SeparateDomain[V]) IsBottom() bool {
	bot := false
	d.tree.each(func(id uint64, v V) {
		if v.IsBottom() {
			bot = true
		}
	})
	return bot
}

func (d SeparateDomain[V]) IsTop() bool {
	top := true
	d.tree.each(func(id uint64, v V) {
		if !v.IsTop() {
			top = false
		}
	})
	return top
}

func (d SeparateDomain[V]) Widen(o SeparateDomain[V]) SeparateDomain[V] {
	return d.zipWith(o, func(a, b V) V { return a.Widen(b) })
}

func (d SeparateDomain[V]) Narrow(o SeparateDomain[V]) SeparateDomain[V] {
	return d.zipWith(o, func(a, b V) V { return a.Narrow(b) })
}

func (d SeparateDomain[V]) zipWith(o SeparateDomain[V], f func(a, b V) V) SeparateDomain[V] {
	seen := map[uint64]struct{}{}
	var out *patriciaNode[V]
	d.tree.each(func(id uint64, v V) {
		seen[id] = struct{}{}
		r := f(v, o.Get(id))
		if !r.IsTop() {
			out = out.insert(id, r)
		}
	})
	o.tree.each(func(id uint64, v V) {
		if _, done := seen[id]; done {
			return
		}
		r := f(d.Get(id), v)
		if !r.IsTop() {
			out = out.insert(id, r)
		}
	})
	return SeparateDomain[V]{tree: out, top: d.top}
}
