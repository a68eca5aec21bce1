package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/domain"
	"arstatic/internal/exec"
	"arstatic/internal/pointer"
)

// buildIncrement builds `func inc(n) { r = n + 1; return r; }` as a
// single-block function.
func buildIncrement() (*ar.Function, *ar.Variable) {
	fn := &ar.Function{Name: "inc"}
	n := newVar(1, "n", i64)
	fn.Params = []*ar.Variable{n}
	fn.Type = &ar.FunctionType{Params: []ar.Type{i64}, Return: i64}

	r := newVar(2, "r", i64)
	one := &ar.IntConstant{Type: i64, Value: 1}
	add := ar.NewArithmetic(1, nil, ar.SourceLocation{}, r, ar.OpAdd, n, one)
	ret := ar.NewReturn(2, nil, ar.SourceLocation{}, r)
	b := block(fn, "entry", add, ret)
	fn.Entry = b
	return fn, n
}

func TestDirectCallBindsResultFromReturnValue(t *testing.T) {
	h := newHarness()
	inc, _ := buildIncrement()

	env := exec.NewEnvironment(64, true)
	five := newVar(10, "five", i64)
	env.Scalars = env.Scalars.Set(h.x.varID(five), domain.SingletonInterval(mi(5)))
	env.Uninits = env.Uninits.Set(h.x.varID(five), domain.InitializedValue())

	out := newVar(11, "out", i64)
	call := ar.NewCall(1, nil, ar.SourceLocation{}, out, &ar.FunctionAddrConstant{Type: inc.Type, Fn: inc}, []ar.Operand{five})

	result := h.eng.execCall(env, call, callctx.Root())

	got := result.Scalars.Get(h.x.varID(out))
	want := domain.SingletonInterval(mi(6))
	assert.True(t, got.Leq(want) && want.Leq(got))
}

func TestCallThroughDeclarationTaintsPointerArgument(t *testing.T) {
	h := newHarness()
	decl := &ar.Function{Name: "opaque_sink", Type: &ar.FunctionType{Params: []ar.Type{ptrI64}}}

	env := exec.NewEnvironment(64, true)
	p := newVar(1, "p", ptrI64)
	alloc := ar.NewAllocate(1, nil, ar.SourceLocation{}, p, 8, 8)
	env = h.x.Execute(env, alloc)

	call := ar.NewCall(2, nil, ar.SourceLocation{}, nil, &ar.FunctionAddrConstant{Type: decl.Type, Fn: decl}, []ar.Operand{p})
	out := h.eng.execCall(env, call, callctx.Root())

	pv := out.Pointers.Get(h.x.varID(p))
	for _, loc := range pv.PointsTo.Elements() {
		assert.True(t, out.Memory.Get(loc).IsTop())
	}
}

func TestCallThroughNullFunctionPointerIsUndefinedBehavior(t *testing.T) {
	h := newHarness()
	env := exec.NewEnvironment(64, true)
	fp := newVar(1, "fp", &ar.PointerType{Elem: &ar.FunctionType{}})
	env.Pointers = env.Pointers.Set(h.x.varID(fp), pointer.NewPointerAbsValue(
		domain.InitializedValue(), domain.NullNullity(), domain.EmptyDiscreteSet[uint64](),
		domain.BottomInterval(64, true)))

	call := ar.NewCall(1, nil, ar.SourceLocation{}, nil, fp, nil)
	out := h.eng.execCall(env, call, callctx.Root())
	assert.True(t, out.NormalBottom)
}

func TestIndirectCallResolvesThroughFunctionPointsToSet(t *testing.T) {
	h := newHarness()
	inc, _ := buildIncrement()
	locID := h.x.Funcs.Materialize(inc)

	env := exec.NewEnvironment(64, true)
	fp := newVar(1, "fp", &ar.PointerType{Elem: inc.Type})
	env.Pointers = env.Pointers.Set(h.x.varID(fp), pointer.AddressOf(locID, mi(0)))

	seven := newVar(2, "seven", i64)
	env.Scalars = env.Scalars.Set(h.x.varID(seven), domain.SingletonInterval(mi(7)))
	env.Uninits = env.Uninits.Set(h.x.varID(seven), domain.InitializedValue())

	out := newVar(3, "out", i64)
	call := ar.NewCall(1, nil, ar.SourceLocation{}, out, fp, []ar.Operand{seven})
	result := h.eng.execCall(env, call, callctx.Root())

	got := result.Scalars.Get(h.x.varID(out))
	want := domain.SingletonInterval(mi(8))
	assert.True(t, got.Leq(want) && want.Leq(got))
}

func TestRepeatedCallFromSameSiteReusesCachedFixpoint(t *testing.T) {
	h := newHarness()
	inc, _ := buildIncrement()

	env := exec.NewEnvironment(64, true)
	five := newVar(10, "five", i64)
	env.Scalars = env.Scalars.Set(h.x.varID(five), domain.SingletonInterval(mi(5)))
	env.Uninits = env.Uninits.Set(h.x.varID(five), domain.InitializedValue())
	out := newVar(11, "out", i64)
	call := ar.NewCall(1, nil, ar.SourceLocation{}, out, &ar.FunctionAddrConstant{Type: inc.Type, Fn: inc}, []ar.Operand{five})

	h.eng.execCall(env, call, callctx.Root())
	h.eng.execCall(env, call, callctx.Root())

	total := 0
	for _, bucket := range h.eng.Cache.buckets {
		total += len(bucket)
	}
	assert.Equal(t, 1, total)
}
