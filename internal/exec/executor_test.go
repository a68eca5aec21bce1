package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/domain"
)

func TestArithmeticAddsOperandIntervals(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	left, right, res := newVar(1, "a"), newVar(2, "b"), newVar(3, "c")
	env.Scalars = env.Scalars.Set(x.varID(left), domain.SingletonInterval(mi(3)))
	env.Scalars = env.Scalars.Set(x.varID(right), domain.SingletonInterval(mi(4)))
	env.Uninits = env.Uninits.Set(x.varID(left), domain.InitializedValue())
	env.Uninits = env.Uninits.Set(x.varID(right), domain.InitializedValue())

	s := ar.NewArithmetic(1, nil, ar.SourceLocation{}, res, ar.OpAdd, left, right)
	out := x.Execute(env, s)

	got := out.Scalars.Get(x.varID(res))
	want := domain.SingletonInterval(mi(7))
	assert.True(t, got.Leq(want) && want.Leq(got))
}

func TestArithmeticOnUninitializedOperandWarnsAndTaintsResult(t *testing.T) {
	x := newExecutor()
	var warned []string
	x.Warn = func(_ ar.Statement, msg string) { warned = append(warned, msg) }

	env := NewEnvironment(64, true)
	left, right, res := newVar(1, "a"), newVar(2, "b"), newVar(3, "c")
	env.Uninits = env.Uninits.Set(x.varID(left), domain.UninitializedValue())

	s := ar.NewArithmetic(1, nil, ar.SourceLocation{}, res, ar.OpAdd, left, right)
	out := x.Execute(env, s)

	assert.True(t, out.Uninits.Get(x.varID(res)).IsUninitialized())
	assert.Len(t, warned, 1)
}

func TestRefineBranchNarrowsBothOperandsOnTakenEdge(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	l, r := newVar(1, "i"), newVar(2, "n")
	env.Scalars = env.Scalars.Set(x.varID(l), domain.TopInterval(64, true))
	env.Scalars = env.Scalars.Set(x.varID(r), domain.SingletonInterval(mi(10)))

	cmp := ar.NewComparison(1, nil, ar.SourceLocation{}, newVar(3, "cond"), ar.PredLT, l, r)
	taken := x.RefineBranch(env, cmp, true)
	notTaken := x.RefineBranch(env, cmp, false)

	li := taken.Scalars.Get(x.varID(l))
	assert.True(t, li.Hi.Cmp(boundOf(9)) <= 0)

	lni := notTaken.Scalars.Get(x.varID(l))
	assert.True(t, lni.Lo.Cmp(boundOf(10)) >= 0)
}

func TestAllocateStoreLoadRoundTrip(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)

	p := ptrVar(1, "p")
	alloc := ar.NewAllocate(1, nil, ar.SourceLocation{}, p, 8, 8)
	env = x.Execute(env, alloc)

	v := newVar(2, "v")
	env.Scalars = env.Scalars.Set(x.varID(v), domain.SingletonInterval(mi(42)))
	env.Uninits = env.Uninits.Set(x.varID(v), domain.InitializedValue())

	store := ar.NewStore(2, nil, ar.SourceLocation{}, p, v, 8)
	env = x.Execute(env, store)

	res := newVar(3, "res")
	load := ar.NewLoad(3, nil, ar.SourceLocation{}, res, p, 8)
	env = x.Execute(env, load)

	got := env.Scalars.Get(x.varID(res))
	want := domain.SingletonInterval(mi(42))
	assert.True(t, got.Leq(want) && want.Leq(got))
}

func TestStoreThroughUnconstrainedPointerWarns(t *testing.T) {
	x := newExecutor()
	var warned bool
	x.Warn = func(_ ar.Statement, _ string) { warned = true }

	env := NewEnvironment(64, true)
	p := ptrVar(1, "p")
	v := newVar(2, "v")
	env.Scalars = env.Scalars.Set(x.varID(v), domain.SingletonInterval(mi(1)))

	store := ar.NewStore(1, nil, ar.SourceLocation{}, p, v, 8)
	x.Execute(env, store)

	assert.True(t, warned)
}

func TestUnreachableSetsNormalBottom(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	out := x.Execute(env, ar.NewUnreachable(1, nil, ar.SourceLocation{}))
	assert.True(t, out.NormalBottom)
}

func TestLandingPadClearsCaughtAndRestoresNormalFlow(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	env.NormalBottom = true
	env.Caught = true

	out := x.Execute(env, ar.NewLandingPad(1, nil, ar.SourceLocation{}, nil))
	assert.False(t, out.NormalBottom)
	assert.False(t, out.Caught)
}

func TestExecuteIsNoOpOnBottomNormalFlow(t *testing.T) {
	x := newExecutor()
	env := BottomEnvironment(64, true)
	s := ar.NewArithmetic(1, nil, ar.SourceLocation{}, newVar(3, "c"), ar.OpAdd, newVar(1, "a"), newVar(2, "b"))
	out := x.Execute(env, s)
	assert.Equal(t, env, out)
}

func TestExternalCallTaintsPointerArgumentAndResult(t *testing.T) {
	x := newExecutor()
	env := NewEnvironment(64, true)
	p := ptrVar(1, "p")
	alloc := ar.NewAllocate(1, nil, ar.SourceLocation{}, p, 8, 8)
	env = x.Execute(env, alloc)

	res := newVar(2, "r")
	call := ar.NewCall(2, nil, ar.SourceLocation{}, res, &ar.FunctionAddrConstant{}, []ar.Operand{p})
	out := x.Execute(env, call)

	assert.True(t, out.Scalars.Get(x.varID(res)).IsTop())

	pPtr := out.Pointers.Get(x.varID(p))
	assert.False(t, pPtr.PointsTo.IsTop(), "the pointer argument's own value is untouched, only its pointee")
	for _, loc := range pPtr.PointsTo.Elements() {
		assert.True(t, out.Memory.Get(loc).IsTop(), "callee may write through the pointer argument")
	}
}
