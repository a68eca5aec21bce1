package combinator

// RelationalDomain is the slice of internal/relational.DBM that the
// variable-packing wrapper needs: a lattice indexed by a finite set of
// variable ids, able to grow/shrink that set and rename within it.
type RelationalDomain[T any] interface {
	Lattice[T]
	Vars() []uint64
	AddVar(id uint64) T
	DropVar(id uint64) T
	Rename(from, to uint64) T
}

// VarPackingWrapper partitions variables into disjoint "packs" via
// union-find and keeps one relational-domain instance per pack (spec.md
// §4.4 design note: DBMs are cubic in variable count, so packing
// variables that are never related keeps each DBM small). Variables
// outside any pack are implicitly unconstrained (top).
type VarPackingWrapper[T RelationalDomain[T]] struct {
	parent map[uint64]uint64
	packs  map[uint64]T // keyed by pack root
	fresh  func() T
}

// NewVarPackingWrapper takes a constructor for an empty (top, no
// variables) relational-domain instance, used whenever a new pack is
// created.
func NewVarPackingWrapper[T RelationalDomain[T]](fresh func() T) *VarPackingWrapper[T] {
	return &VarPackingWrapper[T]{
		parent: make(map[uint64]uint64),
		packs:  make(map[uint64]T),
		fresh:  fresh,
	}
}

func (w *VarPackingWrapper[T]) find(v uint64) (uint64, bool) {
	root, ok := w.parent[v]
	if !ok {
		return v, false
	}
	if root == v {
		return v, true
	}
	actualRoot, _ := w.find(root)
	w.parent[v] = actualRoot
	return actualRoot, true
}

// Pack returns the relational-domain instance tracking v, creating a
// singleton pack for it if it has none yet.
func (w *VarPackingWrapper[T]) Pack(v uint64) T {
	root, ok := w.find(v)
	if !ok {
		w.parent[v] = v
		d := w.fresh().AddVar(v)
		w.packs[v] = d
		return d
	}
	d, ok := w.packs[root]
	if !ok {
		d = w.fresh().AddVar(v)
		w.packs[root] = d
	}
	return d
}

// Relate merges the packs containing x and y (e.g. on seeing a
// constraint x - y <= c) and returns the merged domain so the caller
// can add the constraint to it.
func (w *VarPackingWrapper[T]) Relate(x, y uint64) T {
	dx := w.Pack(x)
	dy := w.Pack(y)
	rx, _ := w.find(x)
	ry, _ := w.find(y)
	if rx == ry {
		return dx
	}
	// Widen each pack's variable set to the union, then meet: AddVar
	// introduces an unconstrained (top) dimension, so the meet combines
	// both packs' constraints without asserting any false relation
	// between variables that were never actually related.
	dxExpanded := dx
	for _, id := range dy.Vars() {
		dxExpanded = dxExpanded.AddVar(id)
	}
	dyExpanded := dy
	for _, id := range dx.Vars() {
		dyExpanded = dyExpanded.AddVar(id)
	}
	merged := dxExpanded.Meet(dyExpanded)
	w.parent[ry] = rx
	delete(w.packs, ry)
	w.packs[rx] = merged
	return merged
}

// Update replaces the domain tracking v's pack with d (after the
// caller has applied a transfer function to the value returned by Pack
// or Relate).
func (w *VarPackingWrapper[T]) Update(v uint64, d T) {
	root, ok := w.find(v)
	if !ok {
		w.parent[v] = v
		root = v
	}
	w.packs[root] = d
}

// Forget drops v from whatever pack contains it.
func (w *VarPackingWrapper[T]) Forget(v uint64) {
	root, ok := w.find(v)
	if !ok {
		return
	}
	if d, ok := w.packs[root]; ok {
		w.packs[root] = d.DropVar(v)
	}
}
