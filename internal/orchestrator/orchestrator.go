// Package orchestrator implements the analysis driver of spec.md
// §4.14/§6.2/§6.5 (L12): it builds per-function fixpoint parameters,
// runs the numeric pass through internal/inline's call-execution
// engine, optionally drives a checker pass, analyzes unrelated entry
// points in parallel per §5's scheduling model, propagates cancellation
// and timeouts, and emits the in-memory summary of §6.5.
package orchestrator

import (
	"context"
	"runtime"
	"sync"

	"arstatic/internal/aerrors"
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/callgraph"
	"arstatic/internal/checker"
	"arstatic/internal/exec"
	"arstatic/internal/inline"
	"arstatic/internal/literal"
	"arstatic/internal/memstore"
	"arstatic/internal/pointer"
	"arstatic/internal/progress"
	"arstatic/internal/wto"
)

// Orchestrator wires the shared factories spec.md §5 requires (the
// variable, memory, function, call-context, and literal factories) and
// the inline.Engine, then drives one FunctionFixpoint per entry point.
type Orchestrator struct {
	Bundle   *ar.Bundle
	Config   Config
	Progress progress.Reporter
	Checkers []checker.Checker

	Vars  *memstore.VariableFactory
	Mems  *memstore.MemoryFactory
	Funcs *memstore.FunctionFactory
	Ctx   *callctx.Factory

	executor *exec.Executor
	engine   *inline.Engine

	mu       sync.Mutex
	findings map[findingKey]checker.Finding
	warnings []string
}

type findingKey struct {
	checker string
	stmt    ar.StatementID
}

// New builds an Orchestrator ready to Run, wiring a fresh Executor and
// inline.Engine over the bundle's shared factories.
func New(bundle *ar.Bundle, cfg Config, reporter progress.Reporter) *Orchestrator {
	if reporter == nil {
		reporter = progress.NoopReporter{}
	}
	vars := memstore.NewVariableFactory()
	mems := memstore.NewMemoryFactory(vars)
	funcs := memstore.NewFunctionFactory()
	ctxFactory := callctx.NewFactory()

	o := &Orchestrator{
		Bundle:   bundle,
		Config:   cfg,
		Progress: reporter,
		Vars:     vars,
		Mems:     mems,
		Funcs:    funcs,
		Ctx:      ctxFactory,
		findings: map[findingKey]checker.Finding{},
	}

	o.executor = &exec.Executor{
		Vars:      vars,
		Mems:      mems,
		Funcs:     funcs,
		Literals:  literal.NewTranslator(),
		Libc:      exec.NewLibcTable(),
		Precision: execPrecision(cfg.Precision),
		Warn:      o.recordWarning,
	}
	o.engine = inline.NewEngine(o.executor, bundle, funcs, ctxFactory)
	o.engine.OnStatement = o.onStatement
	o.engine.Widening = wto.WideningStrategy{Delay: cfg.WideningDelay, Period: cfg.WideningPeriod}
	if cfg.WideningStrategy == "join" {
		o.engine.Widening.Period = 0 // Period<=0 disables widening: plain join every iteration.
	}
	o.engine.Narrowing = wto.NarrowingStrategy{MaxIterations: cfg.NarrowingIterations}
	if cfg.RunChecks {
		o.Checkers = defaultCheckers(vars)
	}
	return o
}

func defaultCheckers(vars *memstore.VariableFactory) []checker.Checker {
	return []checker.Checker{
		&checker.DoubleFreeChecker{Vars: vars},
		&checker.UninitializedReadChecker{Vars: vars},
	}
}

// Findings returns every checker verdict recorded across the whole
// run, keyed by nothing in particular — callers that need the detail
// behind Summary.Totals (persisting to an internal/report.Sink,
// printing a per-statement listing) range over this instead of
// reaching into orchestrator internals.
func (o *Orchestrator) Findings() []checker.Finding {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]checker.Finding, 0, len(o.findings))
	for _, f := range o.findings {
		out = append(out, f)
	}
	return out
}

func (o *Orchestrator) recordWarning(stmt ar.Statement, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warnings = append(o.warnings, msg)
}

// onStatement runs every registered checker against a statement's
// pre-invariant and keeps only the last verdict recorded for each
// (checker, statement) pair — the pass that ultimately reaches the
// orchestrator's fixpoint-converged invariant overwrites any seen
// during an earlier widening/narrowing iteration, so the kept finding
// always reflects the final, stabilized invariant (spec.md §6.3's "the
// checker sees a normalized invariant").
func (o *Orchestrator) onStatement(fn *ar.Function, stmt ar.Statement, pre exec.Environment, callCtx *callctx.Context) {
	if len(o.Checkers) == 0 {
		return
	}
	for _, c := range o.Checkers {
		f := c.Check(stmt, pre, callCtx)
		f.Function = fn.Name
		o.mu.Lock()
		o.findings[findingKey{checker: c.Name(), stmt: stmt.ID()}] = f
		o.mu.Unlock()
	}
}

// EntryResult is one entry point's analysis outcome.
type EntryResult struct {
	Function  string
	Post      exec.Environment
	HasReturn bool
	Err       error
}

// Summary is spec.md §6.5's structured in-memory summary: totals per
// (checker, result).
type Summary struct {
	Totals   map[string]map[string]int // checker -> result -> count
	Warnings []string
	Entries  []EntryResult
}

// Run analyzes every configured entry point, one goroutine per
// function fixpoint bounded by a worker pool (spec.md §5). ctx
// cancellation/deadline is checked once per entry point, before its
// fixpoint starts (see cancellableEntry); a fixpoint already running is
// not interrupted. It returns once every entry point has completed
// (successfully, with a fatal *aerrors.LogicError, or cancelled).
func (o *Orchestrator) Run(ctx context.Context) Summary {
	if o.Config.GlobalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Config.GlobalTimeout)
		defer cancel()
	}

	o.reportCallGraphWarnings()

	entries := o.Config.EntryPoints
	if len(entries) == 0 {
		entries = []string{"main"}
	}

	workers := o.Config.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)

	results := make([]EntryResult, len(entries))
	var wg sync.WaitGroup
	for i, name := range entries {
		fn := o.Bundle.FunctionByName(name)
		if fn == nil || fn.IsDeclaration() {
			results[i] = EntryResult{Function: name, Err: &aerrors.LogicError{Where: "orchestrator.Run", Message: "entry point not found or is a declaration: " + name}}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, fn *ar.Function) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = o.runEntry(ctx, fn)
		}(i, fn)
	}
	wg.Wait()

	return o.summarize(results)
}

func (o *Orchestrator) runEntry(ctx context.Context, fn *ar.Function) EntryResult {
	entryCtx := o.Config.PerFunctionTimeout
	runCtx := ctx
	if entryCtx > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, entryCtx)
		defer cancel()
	}

	layout := o.Bundle.Layout
	width := layout.PointerBits
	if width == 0 {
		width = 64
	}
	entry := exec.NewEnvironment(width, true)
	entry = bindUnknownParams(o.executor, entry, fn)

	o.Progress.Push(progress.Frame{Kind: progress.CallFrame, Function: fn.Name})
	defer o.Progress.Push(progress.Frame{Kind: progress.PopFrame, Function: fn.Name})

	post, _, hasReturn := o.engine.AnalyzeFunction(fn, cancellableEntry(runCtx, entry))
	return EntryResult{Function: fn.Name, Post: post, HasReturn: hasReturn, Err: runCtx.Err()}
}

// bindUnknownParams seeds every parameter of an entry-point function as
// ⊤-but-initialized, since an entry point's actual arguments (argc/argv,
// or whatever main's callers pass) are unknown to the core.
func bindUnknownParams(x *exec.Executor, entry exec.Environment, fn *ar.Function) exec.Environment {
	top := pointer.TopPointerAbsValue(entry.Width, entry.Signed)
	for _, p := range fn.Params {
		entry = x.BindUnified(entry, p, top)
	}
	return entry
}

// cancellableEntry yields an already-⊥ entry if ctx is already done
// before the fixpoint even starts (e.g. an expired timeout). This is the
// only cancellation check: internal/exec and internal/inline do not
// consult ctx, so a context cancelled mid-run lets the fixpoint run to
// completion, and runEntry then reports ctx's error in EntryResult.Err.
func cancellableEntry(ctx context.Context, entry exec.Environment) exec.Environment {
	select {
	case <-ctx.Done():
		return exec.BottomEnvironment(entry.Width, entry.Signed)
	default:
		return entry
	}
}

func (o *Orchestrator) summarize(results []EntryResult) Summary {
	totals := map[string]map[string]int{}
	o.mu.Lock()
	for _, f := range o.findings {
		if totals[f.Checker] == nil {
			totals[f.Checker] = map[string]int{}
		}
		totals[f.Checker][f.Result.String()]++
	}
	warnings := append([]string(nil), o.warnings...)
	o.mu.Unlock()

	return Summary{Totals: totals, Warnings: warnings, Entries: results}
}

// reportCallGraphWarnings builds the call graph spec.md §4.14
// describes (direct-call edges the candidate resolver can see without
// running the fixpoint) and records a warning for every recursive SCC,
// since the inliner conservatively over-approximates those rather than
// attempting an unbounded precise descent (spec.md §4.12).
func (o *Orchestrator) reportCallGraphWarnings() {
	g := callgraph.NewGraph()
	for _, fn := range o.Bundle.Functions {
		callerID := o.Funcs.Materialize(fn)
		for _, b := range fn.Blocks {
			for _, st := range b.Statements {
				callee := directCallee(st)
				if callee == nil {
					continue
				}
				g.AddEdge(callerID, o.Funcs.Materialize(callee))
			}
		}
	}
	roots := make([]uint64, 0, len(o.Config.EntryPoints))
	for _, name := range o.Config.EntryPoints {
		if fn := o.Bundle.FunctionByName(name); fn != nil {
			roots = append(roots, o.Funcs.Materialize(fn))
		}
	}
	cond := callgraph.Compute(g, roots)
	for _, scc := range cond.SCCs {
		if !scc.Recursive {
			continue
		}
		for _, m := range scc.Members {
			if fn, ok := o.Funcs.FunctionOf(m); ok {
				o.recordWarning(nil, "recursive call graph component includes "+fn.Name+"; the inliner conservatively over-approximates its fixpoint")
			}
		}
	}
}

func directCallee(st ar.Statement) *ar.Function {
	var call *ar.Call
	switch s := st.(type) {
	case *ar.Call:
		call = s
	case *ar.Invoke:
		call = &s.Call
	default:
		return nil
	}
	fn, ok := call.Callee.(*ar.FunctionAddrConstant)
	if !ok {
		return nil
	}
	return fn.Fn
}

