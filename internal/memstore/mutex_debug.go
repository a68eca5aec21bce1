//go:build debug

package memstore

import "github.com/sasha-s/go-deadlock"

// rwMutex is github.com/sasha-s/go-deadlock.RWMutex under `-tags debug`,
// a drop-in sync.RWMutex replacement that detects lock-order cycles.
type rwMutex = deadlock.RWMutex
