// Package memstore implements the variable and memory factories of
// spec.md §4.9 (L6): identity-stable, concurrency-safe lookup tables
// that eagerly synthesize the auxiliary sibling variables/locations the
// rest of the analyzer (pointer solver, symbolic executor) expects to
// already exist.
package memstore

import "arstatic/internal/ar"

// idAllocator hands out monotonically increasing descriptor ids,
// distinct from a Variable/MemoryLocation's source UID: several UIDs
// can in principle share structure, but every factory-assigned id is
// unique and stable for the process lifetime (Testable Property 8).
type idAllocator struct {
	next uint64
}

func (a *idAllocator) alloc() uint64 {
	a.next++
	return a.next
}

// VariableFactory guarantees that repeated lookups of the same source
// variable (same UID) return the same id and *ar.Variable pointer, and
// eagerly creates a sibling `offset` variable for every pointer or
// aggregate-typed variable on first materialization (spec.md §4.9).
type VariableFactory struct {
	mu       rwMutex
	ids      idAllocator
	byUID    map[uint64]uint64
	vars     map[uint64]*ar.Variable // id -> descriptor
	offsetOf map[uint64]uint64       // owner var id -> its sibling offset var id
}

func NewVariableFactory() *VariableFactory {
	return &VariableFactory{
		byUID:    map[uint64]uint64{},
		vars:     map[uint64]*ar.Variable{},
		offsetOf: map[uint64]uint64{},
	}
}

// Materialize returns the stable (id, descriptor) pair for a source
// variable, creating it (and its sibling offset variable, if its type
// warrants one) on first sight.
func (f *VariableFactory) Materialize(uid uint64, name string, kind ar.VarKind, typ ar.Type) (uint64, *ar.Variable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byUID[uid]; ok {
		return id, f.vars[id]
	}
	id := f.ids.alloc()
	v := &ar.Variable{UID: uid, Name: name, Kind: kind, Type: typ}
	f.byUID[uid] = id
	f.vars[id] = v
	if needsOffsetSibling(typ) {
		offID := f.ids.alloc()
		f.vars[offID] = &ar.Variable{
			UID:  0,
			Name: name + ".offset",
			Kind: ar.VarOffset,
			Type: &ar.IntType{Bits: 64, Signed: true},
		}
		f.offsetOf[id] = offID
	}
	return id, v
}

// Offset returns the sibling offset variable id for a pointer/aggregate
// variable, if one was synthesized.
func (f *VariableFactory) Offset(varID uint64) (uint64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.offsetOf[varID]
	return id, ok
}

func (f *VariableFactory) Lookup(id uint64) (*ar.Variable, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.vars[id]
	return v, ok
}

func needsOffsetSibling(t ar.Type) bool {
	switch t.(type) {
	case *ar.PointerType, *ar.ArrayType, *ar.StructType:
		return true
	default:
		return false
	}
}
