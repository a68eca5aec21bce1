package inline

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"arstatic/internal/exec"
	"arstatic/internal/pointer"
)

// cacheEntry is one remembered run of a callee from a given call site:
// the entry invariant it was analyzed under, and the outcome.
type cacheEntry struct {
	entry     exec.Environment
	post      exec.Environment
	retVal    pointer.PointerAbsValue
	hasReturn bool
}

// FixpointCache remembers FunctionFixpoint runs keyed by (call site,
// callee), reusing a cached run when the current call's entry
// invariant is ≤ the cached entry invariant (spec.md §4.12's caching
// design note) — by monotonicity of the transfer functions, the
// cached run's outcome is then a sound over-approximation of what
// re-running would produce, so the descent can be skipped.
//
// blake2b only selects the bucket a (call site, callee) pair hashes
// into; it never decides reuse by itself — bucket collisions just
// mean scanning a few extra entries, and reuse is always gated by the
// Leq comparison below, never by hash equality (spec.md §4.12's caching
// note is silent on exact bucket keying; a hash cannot express the
// partial order the spec requires).
type FixpointCache struct {
	mu      rwMutex
	buckets map[[32]byte][]*cacheEntry
}

func NewFixpointCache() *FixpointCache {
	return &FixpointCache{buckets: map[[32]byte][]*cacheEntry{}}
}

func bucketKey(siteID, calleeLocID uint64) [32]byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], siteID)
	binary.BigEndian.PutUint64(buf[8:16], calleeLocID)
	return blake2b.Sum256(buf[:])
}

func (c *FixpointCache) lookup(key [32]byte, entry exec.Environment) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.buckets[key] {
		if entry.Leq(e.entry) {
			return e, true
		}
	}
	return nil, false
}

func (c *FixpointCache) store(key [32]byte, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets[key] = append(c.buckets[key], entry)
}
