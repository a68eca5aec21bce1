//go:build !debug

package memstore

import "sync"

// rwMutex is sync.RWMutex in release builds; the debug build tag swaps
// in github.com/sasha-s/go-deadlock's drop-in replacement, which adds
// lock-order cycle detection at the cost of bookkeeping overhead
// (spec.md §5: factories must be safe for concurrent use from the
// orchestrator's parallel per-entry-point workers).
type rwMutex = sync.RWMutex
