package pointer

import "arstatic/internal/number"

// ConstraintKind enumerates the four constraint forms of spec.md §4.8.
type ConstraintKind int

const (
	// AssignAddr is `p := &M + I`.
	AssignAddr ConstraintKind = iota
	// AssignVar is `p := q + I`.
	AssignVar
	// Store is `*p := r`.
	Store
	// Load is `p := *q`.
	Load
)

// Constraint is one edge of the points-to constraint graph. Var/Other
// hold variable ids; Loc holds a memory-location id for AssignAddr;
// Offset is the literal or symbolic offset interval added.
type Constraint struct {
	Kind   ConstraintKind
	Var    uint64
	Other  uint64
	Loc    uint64
	Offset PointerAbsValue // only Offset field is consulted; reuses the tuple so callers can pass a variable's own abstract value when the added offset isn't a literal
}

// Solver runs the iterative points-to fixpoint of spec.md §4.8: tables
// pointer(v) -> PointerAbsValue and memory(M) -> PointerAbsValue, with
// every constraint application monotonic (add points-to targets, widen
// offsets, never retract).
type Solver struct {
	width       uint
	signed      bool
	pointer     map[uint64]PointerAbsValue
	memory      map[uint64]PointerAbsValue
	constraints []Constraint
}

func NewSolver(width uint, signed bool) *Solver {
	return &Solver{
		width:   width,
		signed:  signed,
		pointer: map[uint64]PointerAbsValue{},
		memory:  map[uint64]PointerAbsValue{},
	}
}

func (s *Solver) bottomVal() PointerAbsValue { return BottomPointerAbsValue(s.width, s.signed) }

func (s *Solver) Pointer(v uint64) PointerAbsValue {
	if val, ok := s.pointer[v]; ok {
		return val
	}
	return s.bottomVal()
}

func (s *Solver) Memory(m uint64) PointerAbsValue {
	if val, ok := s.memory[m]; ok {
		return val
	}
	return s.bottomVal()
}

// AddConstraint registers a constraint; Solve must be re-run (or
// called once after all constraints for a program point are queued)
// to propagate it.
func (s *Solver) AddConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// Solve iterates to a fixpoint: every pass applies every constraint,
// joining results into the tables, until no table entry changes
// (spec.md §4.8). Termination follows from points-to growth and
// offset widening both being finite-height after widen (Testable
// Property 7).
func (s *Solver) Solve() {
	for {
		changed := false
		for _, c := range s.constraints {
			if s.apply(c) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (s *Solver) apply(c Constraint) bool {
	switch c.Kind {
	case AssignAddr:
		return s.joinPointer(c.Var, AddressOf(c.Loc, number.MachineIntFromInt64(0, s.width, s.signed)).Join(c.Offset))
	case AssignVar:
		src := s.Pointer(c.Other)
		shifted := PointerAbsValue{
			Uninit:   src.Uninit,
			Null:     src.Null,
			PointsTo: src.PointsTo,
			Offset:   src.Offset.Add(c.Offset.Offset),
		}
		return s.joinPointer(c.Var, reduce(shifted))
	case Load:
		ptr := s.Pointer(c.Other)
		changed := false
		if ptr.PointsTo.IsTop() {
			if s.joinPointer(c.Var, TopPointerAbsValue(s.width, s.signed)) {
				changed = true
			}
			return changed
		}
		acc := s.bottomVal()
		for _, loc := range ptr.PointsTo.Elements() {
			acc = acc.Join(s.Memory(loc))
		}
		if s.joinPointer(c.Var, acc) {
			changed = true
		}
		return changed
	case Store:
		ptr := s.Pointer(c.Var)
		val := s.Pointer(c.Other)
		changed := false
		if ptr.PointsTo.IsTop() {
			// Store through an unconstrained pointer taints every
			// location it might touch; conservatively taint all
			// currently-known memory locations.
			for loc := range s.memory {
				if s.joinMemory(loc, TopPointerAbsValue(s.width, s.signed)) {
					changed = true
				}
			}
			return changed
		}
		for _, loc := range ptr.PointsTo.Elements() {
			if s.joinMemory(loc, val) {
				changed = true
			}
		}
		return changed
	}
	return false
}

func (s *Solver) joinPointer(v uint64, val PointerAbsValue) bool {
	cur, ok := s.pointer[v]
	if !ok {
		s.pointer[v] = val
		return !val.IsBottom()
	}
	next := cur.Join(val)
	if next.Leq(cur) && cur.Leq(next) {
		return false
	}
	s.pointer[v] = next
	return true
}

func (s *Solver) joinMemory(m uint64, val PointerAbsValue) bool {
	cur, ok := s.memory[m]
	if !ok {
		s.memory[m] = val
		return !val.IsBottom()
	}
	next := cur.Join(val)
	if next.Leq(cur) && cur.Leq(next) {
		return false
	}
	s.memory[m] = next
	return true
}
