package memstore

import (
	"sync/atomic"

	"arstatic/internal/ar"
)

// MemoryFactory guarantees identity-stable lookup of memory locations
// by source UID and eagerly creates a sibling `alloc_size` variable for
// every location (spec.md §4.9). It also eagerly materializes the
// `argv`, `libc-errno`, and `abs-zero` singleton locations at
// construction time, matching IKOS's special-cased memory locations in
// `original_source/analyzer/include/ikos/analyzer/analysis/memory_location.hpp`.
type MemoryFactory struct {
	mu         rwMutex
	ids        idAllocator
	byUID      map[uint64]uint64
	locs       map[uint64]*ar.MemoryLocation
	allocSize  map[uint64]uint64 // location id -> its sibling alloc_size variable id
	variables  *VariableFactory
	Argv       uint64
	LibcErrno  uint64
	AbsZero    uint64
}

func NewMemoryFactory(vars *VariableFactory) *MemoryFactory {
	f := &MemoryFactory{
		byUID:     map[uint64]uint64{},
		locs:      map[uint64]*ar.MemoryLocation{},
		allocSize: map[uint64]uint64{},
		variables: vars,
	}
	f.Argv = f.materializeSingleton("argv", ar.MemArgv)
	f.LibcErrno = f.materializeSingleton("libc-errno", ar.MemLibcErrno)
	f.AbsZero = f.materializeSingleton("abs-zero", ar.MemAbsZero)
	return f
}

func (f *MemoryFactory) materializeSingleton(name string, kind ar.MemKind) uint64 {
	id := f.ids.alloc()
	f.locs[id] = &ar.MemoryLocation{Name: name, Kind: kind, Type: &ar.IntType{Bits: 8, Signed: false}}
	f.synthesizeAllocSize(id, name)
	return id
}

// allocSizeUIDCounter allocates a fresh, never-reused high-range UID
// for each alloc_size sibling so distinct locations never collide on
// the variable factory's UID->id cache (zero is reserved for "no real
// source UID" elsewhere, so this counts up from a high base instead).
// Atomic because multiple MemoryFactory instances across goroutines
// may synthesize siblings concurrently (spec.md §5).
var allocSizeUIDCounter atomic.Uint64

func init() { allocSizeUIDCounter.Store(1 << 62) }

func (f *MemoryFactory) synthesizeAllocSize(locID uint64, name string) {
	uid := allocSizeUIDCounter.Add(1)
	id, _ := f.variables.Materialize(uid, name+".alloc_size", ar.VarAllocSize, &ar.IntType{Bits: 64, Signed: false})
	f.allocSize[locID] = id
}

// Materialize returns the stable (id, descriptor) pair for a source
// memory location, creating its sibling alloc_size variable on first
// sight.
func (f *MemoryFactory) Materialize(uid uint64, name string, kind ar.MemKind, typ ar.Type) (uint64, *ar.MemoryLocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byUID[uid]; ok {
		return id, f.locs[id]
	}
	id := f.ids.alloc()
	loc := &ar.MemoryLocation{UID: uid, Name: name, Kind: kind, Type: typ}
	f.byUID[uid] = id
	f.locs[id] = loc
	f.synthesizeAllocSize(id, name)
	return id, loc
}

func (f *MemoryFactory) AllocSize(locID uint64) (uint64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.allocSize[locID]
	return id, ok
}

func (f *MemoryFactory) Lookup(id uint64) (*ar.MemoryLocation, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	loc, ok := f.locs[id]
	return loc, ok
}
