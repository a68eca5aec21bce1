// Package callctx implements the call-context factory: an immutable,
// hash-consed linked list of call sites used to distinguish recursive
// invocations during interprocedural inlining (spec.md §4.12's
// recursion short-circuit consults context membership).
package callctx

// Context is an immutable call-site stack, hash-consed so that two
// contexts built from the same sequence of call-site ids are the same
// *Context pointer (pointer equality is membership-testable identity).
type Context struct {
	parent *Context
	site   uint64
	depth  int
}

// Factory hash-conses Context nodes so repeated Push calls with
// identical (parent, site) pairs return the same node, matching
// VariableFactory/MemoryFactory's identity-stability guarantee
// (spec.md §4.9's "factories guarantee identity").
type Factory struct {
	mu    rwMutex
	nodes map[key]*Context
}

type key struct {
	parent *Context
	site   uint64
}

func NewFactory() *Factory {
	return &Factory{nodes: map[key]*Context{}}
}

// Root is the empty call context (top-level entry point).
func Root() *Context { return nil }

// Push returns the context formed by calling `site` from `c`.
func (f *Factory) Push(c *Context, site uint64) *Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key{parent: c, site: site}
	if n, ok := f.nodes[k]; ok {
		return n
	}
	depth := 0
	if c != nil {
		depth = c.depth + 1
	}
	n := &Context{parent: c, site: site, depth: depth}
	f.nodes[k] = n
	return n
}

// Contains reports whether `site` already appears anywhere on c's call
// stack — the recursion short-circuit test of spec.md §4.12.
func Contains(c *Context, site uint64) bool {
	for n := c; n != nil; n = n.parent {
		if n.site == site {
			return true
		}
	}
	return false
}

func Depth(c *Context) int {
	if c == nil {
		return 0
	}
	return c.depth + 1
}

// Sites returns the call-site chain from outermost to innermost, for
// diagnostics (spec.md §6.4's persisted CallContextRow).
func Sites(c *Context) []uint64 {
	var rev []uint64
	for n := c; n != nil; n = n.parent {
		rev = append(rev, n.site)
	}
	out := make([]uint64, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}
