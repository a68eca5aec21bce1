// Package inline implements the call-execution engine of spec.md
// §4.12 (L9): candidate-callee determination and per-candidate
// dispatch (direct call, declaration, recursion short-circuit, or a
// forked FunctionFixpoint run with match_down/match_up binding),
// layered over internal/wto's fixpoint driver and internal/exec's
// statement transfer functions.
package inline

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
	"arstatic/internal/memstore"
	"arstatic/internal/pointer"
	"arstatic/internal/wto"
)

// Engine runs whole-function analyses, descending into call statements
// via resolveCandidates/dispatch instead of the bare
// exec.Executor.Execute fallback.
type Engine struct {
	X      *exec.Executor
	Bundle *ar.Bundle
	Funcs  *memstore.FunctionFactory
	Ctx    *callctx.Factory
	Cache  *FixpointCache

	// OnStatement, if set, is invoked with each statement's
	// pre-invariant just before it is executed — the hook
	// internal/orchestrator's checker pass consumes instead of being
	// woven into the transfer function itself (spec.md §4.13's
	// process_pre/process_post, generalized to statement granularity
	// for §6.3's per-statement checker contract).
	OnStatement func(fn *ar.Function, stmt ar.Statement, pre exec.Environment, callCtx *callctx.Context)

	// Widening/Narrowing configure every FunctionFixpoint's wto.Engine
	// (spec.md §6.2's widening_delay/widening_period/
	// narrowing_iterations). NewEngine sets Widening to wto.NewEngine's
	// own default (Delay 1, Period 1: join on the first iteration, widen
	// from the second); a zero WideningStrategy never widens. A zero
	// Narrowing iterates to a narrowing fixpoint.
	Widening  wto.WideningStrategy
	Narrowing wto.NarrowingStrategy

	mu     rwMutex
	graphs map[*ar.Function]*funcGraph
}

func NewEngine(x *exec.Executor, bundle *ar.Bundle, funcs *memstore.FunctionFactory, ctx *callctx.Factory) *Engine {
	return &Engine{
		X:        x,
		Bundle:   bundle,
		Funcs:    funcs,
		Ctx:      ctx,
		Cache:    NewFixpointCache(),
		Widening: wto.WideningStrategy{Delay: 1, Period: 1},
		graphs:   map[*ar.Function]*funcGraph{},
	}
}

func (e *Engine) graphFor(fn *ar.Function) *funcGraph {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g, ok := e.graphs[fn]; ok {
		return g
	}
	g := buildFuncGraph(fn)
	e.graphs[fn] = g
	return g
}

// returnRec captures the state and (if any) value at one Return
// statement, recorded while a function's fixpoint converges.
type returnRec struct {
	env      exec.Environment
	value    pointer.PointerAbsValue
	hasValue bool
}

// AnalyzeFunction runs fn's whole-function fixpoint from a fresh
// top-level call context — the entry point an orchestrator invokes per
// spec.md §5's "one thread per FunctionFixpoint" concurrency model.
func (e *Engine) AnalyzeFunction(fn *ar.Function, entry exec.Environment) (exec.Environment, pointer.PointerAbsValue, bool) {
	return e.runFunction(fn, entry, callctx.Root())
}

// runFunction iterates fn's CFG to a fixpoint under the given call
// context, returning the joined exit environment, the joined return
// value (if the function ever returns one), and whether any path
// returned a value at all.
func (e *Engine) runFunction(fn *ar.Function, entry exec.Environment, ctx *callctx.Context) (exec.Environment, pointer.PointerAbsValue, bool) {
	g := e.graphFor(fn)
	if fn.Entry == nil || len(fn.Blocks) == 0 {
		return entry, pointer.BottomPointerAbsValue(entry.Width, entry.Signed), false
	}

	returns := map[uint64]returnRec{}
	eng := wto.NewEngine[exec.Environment]()
	eng.Widening = e.Widening
	eng.Narrowing = e.Narrowing
	eng.Predecessors = g.Predecessors
	eng.Bottom = func() exec.Environment { return exec.BottomEnvironment(entry.Width, entry.Signed) }
	eng.AnalyzeEdge = e.analyzeEdge(g)
	eng.AnalyzeNode = func(v uint64, pre exec.Environment) exec.Environment {
		b := g.blocks[v]
		env := pre
		for _, st := range b.Statements {
			if e.OnStatement != nil {
				e.OnStatement(fn, st, env, ctx)
			}
			env = e.execStatement(env, st, ctx)
			if ret, ok := st.(*ar.Return); ok {
				rec := returnRec{env: env}
				if ret.Value != nil {
					rec.value = e.X.ReadUnified(env, ret.Value)
					rec.hasValue = true
				}
				returns[v] = rec
			}
		}
		return env
	}

	part := wto.Build(g, g.entry)
	eng.Run(part, g.entry, entry)

	result := exec.BottomEnvironment(entry.Width, entry.Signed)
	retVal := pointer.BottomPointerAbsValue(entry.Width, entry.Signed)
	hasReturn := false
	for _, rec := range returns {
		result = result.Join(rec.env)
		if rec.hasValue {
			retVal = retVal.Join(rec.value)
			hasReturn = true
		}
	}
	// Blocks with no successors that never hit a Return (e.g. a void
	// function falling off its last block, or Unreachable) still
	// contribute their exit state to the joined result.
	for v, b := range g.blocks {
		if len(b.Successors) != 0 {
			continue
		}
		if _, counted := returns[v]; counted {
			continue
		}
		result = result.Join(eng.Post(v))
	}
	return result, retVal, hasReturn
}

// execStatement intercepts Call/Invoke so they go through candidate
// resolution instead of exec.Executor's bare unknown-extern fallback;
// every other statement delegates straight through.
func (e *Engine) execStatement(env exec.Environment, st ar.Statement, ctx *callctx.Context) exec.Environment {
	switch s := st.(type) {
	case *ar.Invoke:
		return e.execCall(env, &s.Call, ctx)
	case *ar.Call:
		return e.execCall(env, s, ctx)
	default:
		return e.X.Execute(env, st)
	}
}

// analyzeEdge applies branch-predicate refinement to conditional edges
// and gates exception edges on Environment.Caught, so the joined pre()
// at a landing pad only ever sees states that actually threw, and a
// normal-flow successor never sees one that did (spec.md §4.11's
// landing-pad/resume rules, routed as wto.Engine's AnalyzeEdge hook).
func (e *Engine) analyzeEdge(g *funcGraph) func(src, dst uint64, post exec.Environment) exec.Environment {
	return func(src, dst uint64, post exec.Environment) exec.Environment {
		edge, ok := g.edgeOf[[2]uint64{src, dst}]
		if !ok {
			return post
		}
		switch edge.Kind {
		case ar.EdgeTrue, ar.EdgeFalse:
			if cmp, ok := findComparison(edge.From, edge.Guard); ok {
				return e.X.RefineBranch(post, cmp, edge.Kind == ar.EdgeTrue)
			}
			return post
		case ar.EdgeException:
			if !post.Caught {
				return exec.BottomEnvironment(post.Width, post.Signed)
			}
			return post
		default:
			if endsWithInvoke(edge.From) && post.Caught {
				return exec.BottomEnvironment(post.Width, post.Signed)
			}
			return post
		}
	}
}
