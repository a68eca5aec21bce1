package checker

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
	"arstatic/internal/memstore"
)

// DoubleFreeChecker flags a `free(p)` call where some location p can
// point to is already known-deallocated at the pre-invariant (spec.md
// §8 scenario S3) — internal/domain.Lifetime's flat lattice, threaded
// through internal/exec/libc.go's applyFree, is what makes this
// observable without re-deriving lifetime state here.
type DoubleFreeChecker struct {
	Vars *memstore.VariableFactory
}

func (c *DoubleFreeChecker) Name() string { return "double-free" }

func (c *DoubleFreeChecker) Description() string {
	return "flags free() of a pointer whose pointee is already deallocated"
}

func (c *DoubleFreeChecker) Check(stmt ar.Statement, inv exec.Environment, callCtx *callctx.Context) Finding {
	call, isFree := freeCall(stmt)
	if !isFree {
		return ok(c.Name(), stmt, callCtx)
	}
	if inv.NormalBottom {
		return unreachableFinding(c.Name(), stmt, callCtx)
	}

	v, isVar := call.Args[0].(*ar.Variable)
	if !isVar {
		return ok(c.Name(), stmt, callCtx)
	}
	id, _ := c.Vars.Materialize(v.UID, v.Name, v.Kind, v.Type)
	pv := inv.Pointers.Get(id)
	if pv.PointsTo.IsTop() {
		return ok(c.Name(), stmt, callCtx)
	}

	for _, loc := range pv.PointsTo.Elements() {
		if inv.Lifetimes.Get(loc).IsDeallocated() {
			f := ok(c.Name(), stmt, callCtx)
			f.Result = Error
			f.Info = map[string]any{"location": loc}
			return f
		}
	}
	return ok(c.Name(), stmt, callCtx)
}

func freeCall(stmt ar.Statement) (*ar.Call, bool) {
	call, isCall := stmt.(*ar.Call)
	if !isCall {
		if inv, isInvoke := stmt.(*ar.Invoke); isInvoke {
			call = &inv.Call
		} else {
			return nil, false
		}
	}
	if len(call.Args) < 1 {
		return nil, false
	}
	fn, ok := call.Callee.(*ar.FunctionAddrConstant)
	if !ok || fn.Fn == nil || fn.Fn.Name != "free" {
		return nil, false
	}
	return call, true
}
