package memstore

import "arstatic/internal/ar"

// FunctionFactory gives every *ar.Function a stable memory-location id
// so a function's address can live inside a PointerAbsValue's points-to
// set the same way a stack or heap location does, and so the call
// engine can map a resolved points-to element back to the *ar.Function
// it names (spec.md §4.12's "function-pointer-variable-via-points-to"
// candidate-callee rule). It mirrors MemoryFactory's identity-stability
// contract (spec.md §4.9) but keys on function identity instead of a
// source UID, since two distinct functions never share an *ar.Function
// pointer within one bundle.
type FunctionFactory struct {
	mu    rwMutex
	ids   idAllocator
	byFn  map[*ar.Function]uint64
	fnOf  map[uint64]*ar.Function
}

func NewFunctionFactory() *FunctionFactory {
	return &FunctionFactory{
		byFn: map[*ar.Function]uint64{},
		fnOf: map[uint64]*ar.Function{},
	}
}

// Materialize returns fn's stable location id, assigning one on first
// sight.
func (f *FunctionFactory) Materialize(fn *ar.Function) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byFn[fn]; ok {
		return id
	}
	id := f.ids.alloc()
	f.byFn[fn] = id
	f.fnOf[id] = fn
	return id
}

// FunctionOf resolves a points-to element back to the function it
// names, if it was ever materialized as one.
func (f *FunctionFactory) FunctionOf(locID uint64) (*ar.Function, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.fnOf[locID]
	return fn, ok
}
