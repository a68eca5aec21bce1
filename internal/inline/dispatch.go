package inline

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
	"arstatic/internal/pointer"
)

// execCall resolves a call statement's candidate callees and dispatches
// to each, joining the results — spec.md §4.12's "the call is executed
// against every resolved candidate, and the results are joined".
func (e *Engine) execCall(env exec.Environment, call *ar.Call, ctx *callctx.Context) exec.Environment {
	if env.NormalBottom {
		return env
	}
	candidates, ub := e.resolveCandidates(env, call)
	if ub {
		e.warn(call, "call through an undefined or null function pointer")
		env.NormalBottom = true
		return env
	}
	if len(candidates) == 0 {
		// Inline asm, a fully-⊤ points-to set, or a points-to set that
		// names no known function: unknown-extern semantics.
		return e.X.Execute(env, call)
	}

	var merged exec.Environment
	first := true
	for _, fn := range candidates {
		out := e.dispatch(env, call, fn, ctx)
		if first {
			merged, first = out, false
			continue
		}
		merged = merged.Join(out)
	}
	return merged
}

// resolveCandidates implements spec.md §4.12's candidate-callee rules:
// a direct function constant names exactly one candidate; a
// function-pointer variable resolves through the points-to set built
// by internal/pointer, naming zero or more candidates (⊤ or a
// non-function points-to set falls back to unknown-extern by
// returning no candidates); inline asm is always unknown-extern; an
// undefined or null callee operand is undefined behaviour.
func (e *Engine) resolveCandidates(env exec.Environment, call *ar.Call) (candidates []*ar.Function, ub bool) {
	switch callee := call.Callee.(type) {
	case *ar.FunctionAddrConstant:
		if callee.Fn == nil {
			return nil, false
		}
		return []*ar.Function{callee.Fn}, false
	case *ar.InlineAsmConstant:
		return nil, false
	case *ar.NullConstant:
		return nil, true
	case *ar.UndefinedConstant:
		return nil, true
	case *ar.Variable:
		pv := e.X.ReadPointer(env, callee)
		if pv.Uninit.IsUninitialized() || pv.Null.IsNull() {
			return nil, true
		}
		if pv.PointsTo.IsTop() {
			return nil, false
		}
		for _, loc := range pv.PointsTo.Elements() {
			if fn, ok := e.Funcs.FunctionOf(loc); ok {
				candidates = append(candidates, fn)
			}
		}
		return candidates, false
	default:
		return nil, false
	}
}

// dispatch executes the call against one resolved candidate (spec.md
// §4.12's per-candidate dispatch table).
func (e *Engine) dispatch(callerEnv exec.Environment, call *ar.Call, fn *ar.Function, ctx *callctx.Context) exec.Environment {
	if fn.IsDeclaration() {
		if e.X.Libc != nil {
			if model, ok := e.X.Libc.Lookup(fn.Name); ok {
				return model.Apply(e.X, callerEnv, call.Args, call.Result)
			}
		}
		return e.X.Execute(callerEnv, call)
	}

	fnLocID := e.Funcs.Materialize(fn)
	if callctx.Contains(ctx, fnLocID) {
		// Recursion: fall back to unknown-intern semantics without
		// descending, per spec.md §4.12's recursion-safety rule (see
		// the quoted `fact(n)` example).
		return e.X.Execute(callerEnv, call)
	}

	if e.Bundle != nil && e.Bundle.Verifier != nil && !e.Bundle.Verifier.IsValidCall(call, fn.Type) {
		e.warn(call, "call arguments do not match callee signature")
		out := callerEnv
		out.NormalBottom = true
		return out
	}

	calleeEntry := callerEnv
	for i, p := range fn.Params {
		if i >= len(call.Args) {
			break
		}
		calleeEntry = e.X.BindUnified(calleeEntry, p, e.X.ReadUnified(callerEnv, call.Args[i]))
	}

	childCtx := e.Ctx.Push(ctx, fnLocID)
	key := bucketKey(uint64(call.ID()), fnLocID)

	if cached, ok := e.Cache.lookup(key, calleeEntry); ok {
		return e.mergeResult(callerEnv, call, cached.post, cached.retVal, cached.hasReturn)
	}

	post, retVal, hasReturn := e.runFunction(fn, calleeEntry, childCtx)
	e.Cache.store(key, &cacheEntry{entry: calleeEntry, post: post, retVal: retVal, hasReturn: hasReturn})
	return e.mergeResult(callerEnv, call, post, retVal, hasReturn)
}

// mergeResult is match_up: bind the call's result from the callee's
// return value (or ⊤, if the callee is void or never actually
// returns on the paths that produced post), carrying the callee's
// exit environment — including whatever it wrote through by-reference
// pointer parameters and heap state, since those live in the same
// globally-keyed tables the caller already shares — forward as the
// call's result environment.
func (e *Engine) mergeResult(callerEnv exec.Environment, call *ar.Call, post exec.Environment, retVal pointer.PointerAbsValue, hasReturn bool) exec.Environment {
	out := post
	if call.Result == nil {
		return out
	}
	if hasReturn {
		return e.X.BindUnified(out, call.Result, retVal)
	}
	return e.X.BindUnified(out, call.Result, pointer.TopPointerAbsValue(out.Width, out.Signed))
}

func (e *Engine) warn(stmt ar.Statement, msg string) {
	if e.X != nil && e.X.Warn != nil {
		e.X.Warn(stmt, msg)
	}
}
