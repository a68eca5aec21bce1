package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
	"arstatic/internal/domain"
	"arstatic/internal/exec"
)

// buildAbs builds a two-block function:
//
//	func abs(n) {
//	entry: cond = cmp lt n, 0; branch cond -> neg, pos
//	neg:   r = 0 - n; return r
//	pos:   return n
//	}
func buildAbs() *ar.Function {
	fn := &ar.Function{Name: "abs"}
	n := newVar(1, "n", i64)
	fn.Params = []*ar.Variable{n}
	fn.Type = &ar.FunctionType{Params: []ar.Type{i64}, Return: i64}

	cond := newVar(2, "cond", i64)
	zero := &ar.IntConstant{Type: i64, Value: 0}
	cmp := ar.NewComparison(1, nil, ar.SourceLocation{}, cond, ar.PredLT, n, zero)
	entry := block(fn, "entry", cmp)

	r := newVar(3, "r", i64)
	negStmt := ar.NewArithmetic(2, nil, ar.SourceLocation{}, r, ar.OpSub, zero, n)
	negRet := ar.NewReturn(3, nil, ar.SourceLocation{}, r)
	neg := block(fn, "neg", negStmt, negRet)

	posRet := ar.NewReturn(4, nil, ar.SourceLocation{}, n)
	pos := block(fn, "pos", posRet)

	entry.AddSuccessor(ar.EdgeTrue, cond, neg)
	entry.AddSuccessor(ar.EdgeFalse, cond, pos)
	fn.Entry = entry
	return fn
}

func TestAnalyzeFunctionJoinsReturnsAcrossBranches(t *testing.T) {
	h := newHarness()
	fn := buildAbs()

	entry := exec.NewEnvironment(64, true)
	n := fn.Params[0]
	entry.Scalars = entry.Scalars.Set(h.x.varID(n), domain.TopInterval(64, true))
	entry.Uninits = entry.Uninits.Set(h.x.varID(n), domain.InitializedValue())

	post, retVal, hasReturn := h.eng.AnalyzeFunction(fn, entry)
	assert.True(t, hasReturn)
	assert.False(t, post.NormalBottom)
	// abs(n) is always non-negative along both paths once both branches
	// are joined; the returned interval should at least include 0.
	assert.True(t, domain.SingletonInterval(mi(0)).Leq(retVal.Offset))
}

// buildSelfRecursive builds a function that unconditionally calls
// itself with no base case, to exercise the recursion short-circuit
// (spec.md §4.12's fact(n) example, simplified to force the
// interesting path unconditionally instead of behind a comparison).
func buildSelfRecursive() *ar.Function {
	fn := &ar.Function{Name: "spin"}
	n := newVar(1, "n", i64)
	fn.Params = []*ar.Variable{n}
	fn.Type = &ar.FunctionType{Params: []ar.Type{i64}, Return: i64}

	out := newVar(2, "out", i64)
	call := ar.NewCall(1, nil, ar.SourceLocation{}, out, &ar.FunctionAddrConstant{Type: fn.Type, Fn: fn}, []ar.Operand{n})
	ret := ar.NewReturn(2, nil, ar.SourceLocation{}, out)
	b := block(fn, "entry", call, ret)
	fn.Entry = b
	return fn
}

func TestSelfRecursiveCallTerminatesViaContextShortCircuit(t *testing.T) {
	h := newHarness()
	fn := buildSelfRecursive()

	entry := exec.NewEnvironment(64, true)
	n := fn.Params[0]
	entry.Scalars = entry.Scalars.Set(h.x.varID(n), domain.SingletonInterval(mi(3)))
	entry.Uninits = entry.Uninits.Set(h.x.varID(n), domain.InitializedValue())

	post, _, hasReturn := h.eng.AnalyzeFunction(fn, entry)
	assert.True(t, hasReturn)
	assert.False(t, post.NormalBottom)
}
