package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/domain"
)

func TestMallocProducesFreshNonTopPointerWithTrackedSize(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)

	n := newVar(1, "n")
	env.Scalars = env.Scalars.Set(x.varID(n), domain.SingletonInterval(mi(16)))

	res := ptrVar(2, "p")
	model, ok := x.Libc.Lookup("malloc")
	assert.True(t, ok)
	out := model.Apply(x, env, []ar.Operand{n}, res)

	pv := out.Pointers.Get(x.varID(res))
	assert.False(t, pv.PointsTo.IsTop())
	assert.Equal(t, 1, pv.PointsTo.Len())

	for _, loc := range pv.PointsTo.Elements() {
		sizeVarID, ok := x.Mems.AllocSize(loc)
		assert.True(t, ok)
		gotSize := out.Scalars.Get(sizeVarID)
		want := domain.SingletonInterval(mi(16))
		assert.True(t, gotSize.Leq(want) && want.Leq(gotSize))
	}
}

func TestFreeTaintsPointeeMemory(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	n := newVar(1, "n")
	env.Scalars = env.Scalars.Set(x.varID(n), domain.SingletonInterval(mi(8)))
	p := ptrVar(2, "p")
	model, _ := x.Libc.Lookup("malloc")
	env = model.Apply(x, env, []ar.Operand{n}, p)

	freeModel, ok := x.Libc.Lookup("free")
	assert.True(t, ok)
	out := freeModel.Apply(x, env, []ar.Operand{p}, nil)

	pv := out.Pointers.Get(x.varID(p))
	for _, loc := range pv.PointsTo.Elements() {
		assert.True(t, out.Memory.Get(loc).IsTop())
	}
}

func TestMemcpyPropagatesValueBetweenDisjointSingletonLocations(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)

	srcAlloc := ar.NewAllocate(1, nil, ar.SourceLocation{}, ptrVar(1, "src"), 8, 8)
	dstAlloc := ar.NewAllocate(2, nil, ar.SourceLocation{}, ptrVar(2, "dst"), 8, 8)
	env = x.Execute(env, srcAlloc)
	env = x.Execute(env, dstAlloc)

	v := newVar(3, "v")
	env.Scalars = env.Scalars.Set(x.varID(v), domain.SingletonInterval(mi(99)))
	env.Uninits = env.Uninits.Set(x.varID(v), domain.InitializedValue())
	env = x.Execute(env, ar.NewStore(3, nil, ar.SourceLocation{}, srcAlloc.Result, v, 8))

	size := newVar(4, "n")
	env.Scalars = env.Scalars.Set(x.varID(size), domain.SingletonInterval(mi(8)))

	model, ok := x.Libc.Lookup("memcpy")
	assert.True(t, ok)
	out := model.Apply(x, env, []ar.Operand{dstAlloc.Result, srcAlloc.Result, size}, nil)

	res := newVar(5, "loaded")
	out = x.Execute(out, ar.NewLoad(4, nil, ar.SourceLocation{}, res, dstAlloc.Result, 8))

	got := out.Scalars.Get(x.varID(res))
	want := domain.SingletonInterval(mi(99))
	assert.True(t, got.Leq(want) && want.Leq(got))
}

func TestStrlenResultIsNonNegative(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	s := ptrVar(1, "s")
	res := newVar(2, "len")

	model, ok := x.Libc.Lookup("strlen")
	assert.True(t, ok)
	out := model.Apply(x, env, []ar.Operand{s}, res)

	got := out.Scalars.Get(x.varID(res))
	zero := domain.SingletonInterval(mi(0))
	assert.True(t, zero.Leq(got))
}

func TestIsModelledDistinguishesKnownLibcNames(t *testing.T) {
	x := newExecutor()
	assert.True(t, x.Libc.IsModelled("malloc"))
	assert.False(t, x.Libc.IsModelled("not_a_real_libc_function"))
}
