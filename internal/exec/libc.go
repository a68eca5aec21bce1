package exec

import (
	"arstatic/internal/ar"
	"arstatic/internal/domain"
	"arstatic/internal/number"
	"arstatic/internal/pointer"
)

// Model is one libc intrinsic's transfer function: given the call's
// argument operands and bound result variable (nil if void), it
// updates env the way the real function would affect abstract state
// (spec.md §4.11's "modelled libc intrinsic" row).
type Model struct {
	Name  string
	Apply func(x *Executor, env Environment, args []ar.Operand, result *ar.Variable) Environment
}

// LibcTable is a name-keyed registry of libc intrinsic models, the
// dispatch table internal/inline consults before falling back to the
// conservative unknown-extern transfer function.
type LibcTable struct {
	models map[string]Model
}

func NewLibcTable() *LibcTable {
	t := &LibcTable{models: map[string]Model{}}
	for _, m := range standardLibcModels() {
		t.models[m.Name] = m
	}
	return t
}

func (t *LibcTable) IsModelled(name string) bool {
	_, ok := t.models[name]
	return ok
}

func (t *LibcTable) Lookup(name string) (Model, bool) {
	m, ok := t.models[name]
	return m, ok
}

func standardLibcModels() []Model {
	return []Model{
		{Name: "malloc", Apply: applyMalloc},
		{Name: "calloc", Apply: applyCalloc},
		{Name: "realloc", Apply: applyRealloc},
		{Name: "free", Apply: applyFree},
		{Name: "memcpy", Apply: applyMemcpy},
		{Name: "memmove", Apply: applyMemmove},
		{Name: "memset", Apply: applyMemset},
		{Name: "strlen", Apply: applyStrlen},
		{Name: "strcpy", Apply: applyStrcpy},
	}
}

// applyMalloc: x = malloc(n). A fresh heap memory location, sized by
// whatever internal/domain.Interval the argument carries, non-null
// unless the allocator can fail (spec.md §4.9's heap locations).
func applyMalloc(x *Executor, env Environment, args []ar.Operand, result *ar.Variable) Environment {
	if result == nil || len(args) < 1 {
		return env
	}
	return allocateHeap(x, env, args[0], result)
}

// applyCalloc: x = calloc(n, size). Same shape as malloc, with the
// backing memory additionally known to be zero-filled; the zero-fill
// itself isn't tracked field-by-field at this layer, only the fresh,
// non-null location.
func applyCalloc(x *Executor, env Environment, args []ar.Operand, result *ar.Variable) Environment {
	if result == nil || len(args) < 2 {
		return env
	}
	n := x.evalScalar(env, args[0])
	sz := x.evalScalar(env, args[1])
	total := n.Mul(sz)
	return allocateHeapWithSize(x, env, total, result)
}

func allocateHeap(x *Executor, env Environment, sizeOp ar.Operand, result *ar.Variable) Environment {
	return allocateHeapWithSize(x, env, x.evalScalar(env, sizeOp), result)
}

// heapLocationUIDBase keeps each call site's synthesized heap location
// UID disjoint from whatever UID namespace the frontend assigns
// ordinary variables/memory locations, since the result variable's own
// UID (the only per-call-site identity this layer has) is reused here
// as a memory-location UID in a different factory's namespace.
const heapLocationUIDBase = 1 << 50

func allocateHeapWithSize(x *Executor, env Environment, size domain.Interval, result *ar.Variable) Environment {
	locID, _ := x.Mems.Materialize(result.UID+heapLocationUIDBase, result.Name+".heap", ar.MemDynAlloc, result.Type)
	env.Pointers = env.Pointers.Set(x.varID(result), pointer.AddressOf(locID, number.MachineIntFromInt64(0, 64, true)))
	env.Uninits = env.Uninits.Set(x.varID(result), domain.InitializedValue())
	env.Lifetimes = env.Lifetimes.Set(locID, domain.AllocatedLifetime())
	if sizeVarID, ok := x.Mems.AllocSize(locID); ok {
		env.Scalars = env.Scalars.Set(sizeVarID, size)
	}
	return env
}

// applyRealloc: x = realloc(p, n). Conservative: the old pointer's
// pointee is invalidated (it may have moved or been freed), and the
// result is a fresh heap location of the new size, unless the
// allocator's failure path returns null — not distinguished here, so
// the nullity is left ⊤.
func applyRealloc(x *Executor, env Environment, args []ar.Operand, result *ar.Variable) Environment {
	if len(args) < 2 {
		return env
	}
	env = x.taintPointee(env, args[0])
	if result == nil {
		return env
	}
	env = allocateHeap(x, env, args[1], result)
	top := env.Pointers.Get(x.varID(result))
	env.Pointers = env.Pointers.Set(x.varID(result), pointer.NewPointerAbsValue(
		top.Uninit, domain.TopNullity(), top.PointsTo, top.Offset))
	return env
}

// applyFree: free(p). Marks the pointee's memory as ⊤ and its lifetime
// as deallocated; internal/checker's DoubleFreeChecker reads that
// lifetime state back at a later free to flag reuse.
func applyFree(x *Executor, env Environment, args []ar.Operand, _ *ar.Variable) Environment {
	if len(args) < 1 {
		return env
	}
	env = x.taintPointee(env, args[0])
	return x.markDeallocated(env, args[0])
}

// markDeallocated sets the lifetime of every location ptrOp might
// point to as deallocated (⊤-points-to is left untouched: collapsing
// every known location to deallocated on a ⊤ free would make every
// future free() a false double-free).
func (x *Executor) markDeallocated(env Environment, ptrOp ar.Operand) Environment {
	ptr := x.evalPointer(env, ptrOp)
	if ptr.PointsTo.IsTop() {
		return env
	}
	for _, loc := range ptr.PointsTo.Elements() {
		env.Lifetimes = env.Lifetimes.Set(loc, domain.DeallocatedLifetime())
	}
	return env
}

func applyMemcpy(x *Executor, env Environment, args []ar.Operand, _ *ar.Variable) Environment {
	if len(args) < 3 {
		return env
	}
	return x.execMemIntrinsic(env, ar.NewMemIntrinsic(0, nil, ar.SourceLocation{}, ar.MemCopy, args[0], args[1], nil, args[2]))
}

func applyMemmove(x *Executor, env Environment, args []ar.Operand, _ *ar.Variable) Environment {
	if len(args) < 3 {
		return env
	}
	return x.execMemIntrinsic(env, ar.NewMemIntrinsic(0, nil, ar.SourceLocation{}, ar.MemMove, args[0], args[1], nil, args[2]))
}

func applyMemset(x *Executor, env Environment, args []ar.Operand, _ *ar.Variable) Environment {
	if len(args) < 3 {
		return env
	}
	return x.execMemIntrinsic(env, ar.NewMemIntrinsic(0, nil, ar.SourceLocation{}, ar.MemSet, args[0], nil, args[1], args[2]))
}

// applyStrlen: x = strlen(s). The length is never known precisely at
// this layer (no byte-level string content tracking), so the result is
// an unconstrained non-negative interval.
func applyStrlen(x *Executor, env Environment, args []ar.Operand, result *ar.Variable) Environment {
	if result == nil {
		return env
	}
	zero := number.MachineIntFromInt64(0, env.Width, env.Signed)
	nonNegative := domain.NewInterval(number.FiniteBound(zero), number.PlusInfinity(), env.Width, env.Signed)
	env.Scalars = env.Scalars.Set(x.varID(result), nonNegative)
	env.Uninits = env.Uninits.Set(x.varID(result), domain.InitializedValue())
	return env
}

// applyStrcpy: strcpy(dst, src). Conservative content copy without a
// known length; collapses the destination's pointee to ⊤.
func applyStrcpy(x *Executor, env Environment, args []ar.Operand, _ *ar.Variable) Environment {
	if len(args) < 1 {
		return env
	}
	return x.taintPointee(env, args[0])
}
