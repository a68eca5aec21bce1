package exec

import (
	"arstatic/internal/ar"
	"arstatic/internal/domain"
	"arstatic/internal/literal"
	"arstatic/internal/memstore"
	"arstatic/internal/number"
	"arstatic/internal/pointer"
	"arstatic/internal/relational"
)

// Precision selects which abstract dimensions beyond the numeric trio
// (scalars/congruence/relational, always on) a statement's transfer
// function actually tracks (spec.md §6.2's three named levels). The
// zero value is PrecisionMemory, so an Executor literal that never
// sets the field keeps the one precision this package originally
// supported.
type Precision int

const (
	// PrecisionMemory tracks points-to sets and memory contents: the
	// full transfer function (Store/Load round-trip through env.Memory).
	PrecisionMemory Precision = iota
	// PrecisionPointer tracks points-to sets (so an invalid/null
	// dereference is still caught) but never writes memory contents;
	// every Load reads ⊤ regardless of what was last stored.
	PrecisionPointer
	// PrecisionRegister tracks only the numeric dimensions: every
	// pointer-producing statement (Allocate/PointerShift/Load's
	// pointer half) is unconditionally ⊤, and Store/MemIntrinsic are
	// no-ops.
	PrecisionRegister
)

// Executor runs the transfer function of spec.md §4.11 over an
// Environment, given the variable/memory factories that assign stable
// ids to the *ar.Variable/*ar.MemoryLocation descriptors the AR
// statements reference directly.
type Executor struct {
	Vars      *memstore.VariableFactory
	Mems      *memstore.MemoryFactory
	Funcs     *memstore.FunctionFactory
	Literals  *literal.Translator
	Libc      *LibcTable
	Precision Precision
	Warn      func(stmt ar.Statement, msg string)
}

func (x *Executor) varID(v *ar.Variable) uint64 {
	id, _ := x.Vars.Materialize(v.UID, v.Name, v.Kind, v.Type)
	return id
}

func (x *Executor) warn(stmt ar.Statement, msg string) {
	if x.Warn != nil {
		x.Warn(stmt, msg)
	}
}

func widthSignedOf(t ar.Type) (uint, bool) {
	if it, ok := t.(*ar.IntType); ok {
		return it.Bits, it.Signed
	}
	return 64, true
}

// evalScalar reads an operand's numeric abstraction; variables read
// whatever is currently tracked (⊤ if never written).
func (x *Executor) evalScalar(env Environment, op ar.Operand) domain.Interval {
	switch v := op.(type) {
	case *ar.Variable:
		return env.Scalars.Get(x.varID(v))
	case *ar.IntConstant:
		return domain.SingletonInterval(number.MachineIntFromInt64(v.Value, v.Type.Bits, v.Type.Signed))
	case *ar.RangeConstant:
		return domain.NewInterval(
			number.FiniteBound(number.MachineIntFromInt64(v.Lo, v.Type.Bits, v.Type.Signed)),
			number.FiniteBound(number.MachineIntFromInt64(v.Hi, v.Type.Bits, v.Type.Signed)),
			v.Type.Bits, v.Type.Signed)
	case *ar.UndefinedConstant:
		w, s := widthSignedOf(v.Type)
		return domain.TopInterval(w, s)
	default:
		return domain.TopInterval(env.Width, env.Signed)
	}
}

// evalCongruence reads an operand's modulus/residue abstraction, the
// other half of the reduced product execArithmetic maintains alongside
// evalScalar's interval (spec.md §4.4).
func (x *Executor) evalCongruence(env Environment, op ar.Operand) domain.Congruence {
	switch v := op.(type) {
	case *ar.Variable:
		return env.Congruences.Get(x.varID(v))
	case *ar.IntConstant:
		return domain.SingletonCongruence(v.Value)
	default:
		return domain.TopCongruence()
	}
}

func (x *Executor) isUninitialized(env Environment, op ar.Operand) bool {
	v, ok := op.(*ar.Variable)
	if !ok {
		return false
	}
	return env.Uninits.Get(x.varID(v)).IsUninitialized()
}

func (x *Executor) evalPointer(env Environment, op ar.Operand) pointer.PointerAbsValue {
	switch v := op.(type) {
	case *ar.Variable:
		return env.Pointers.Get(x.varID(v))
	case *ar.NullConstant:
		return pointer.NewPointerAbsValue(domain.InitializedValue(), domain.NullNullity(),
			domain.EmptyDiscreteSet[uint64](), domain.SingletonInterval(number.MachineIntFromInt64(0, 64, true)))
	case *ar.VarAddrConstant:
		locID := x.varID(v.Var)
		return pointer.AddressOf(locID, number.MachineIntFromInt64(0, 64, true))
	case *ar.FunctionAddrConstant:
		if x.Funcs == nil || v.Fn == nil {
			return pointer.TopPointerAbsValue(env.Width, env.Signed)
		}
		locID := x.Funcs.Materialize(v.Fn)
		return pointer.AddressOf(locID, number.MachineIntFromInt64(0, 64, true))
	default:
		return pointer.TopPointerAbsValue(env.Width, env.Signed)
	}
}

// ReadPointer exposes evalPointer to internal/inline, which must
// resolve a call's callee operand to a points-to set before the
// executor ever sees the call statement itself (spec.md §4.12's
// candidate-callee determination runs before dispatch).
func (x *Executor) ReadPointer(env Environment, op ar.Operand) pointer.PointerAbsValue {
	return x.evalPointer(env, op)
}

// ReadUnified exposes scalarOrPointerValue to internal/inline for
// reading a call's actual-argument / return-value operands in the
// uniform memory-cell shape match_down/match_up bind through (spec.md
// §4.12).
func (x *Executor) ReadUnified(env Environment, op ar.Operand) pointer.PointerAbsValue {
	return x.scalarOrPointerValue(env, op)
}

// BindUnified writes a uniform memory-cell value into a variable,
// choosing the Pointers or Scalars table by the variable's static
// type. internal/inline uses this both to bind a callee's formal
// parameters from the actual arguments (match_down) and to bind a
// call's result from the callee's return value (match_up).
func (x *Executor) BindUnified(env Environment, v *ar.Variable, val pointer.PointerAbsValue) Environment {
	if _, isPtr := v.Type.(*ar.PointerType); isPtr {
		env.Pointers = env.Pointers.Set(x.varID(v), val)
	} else {
		env.Scalars = env.Scalars.Set(x.varID(v), val.Offset)
	}
	env.Uninits = env.Uninits.Set(x.varID(v), val.Uninit)
	return env
}

// Execute dispatches a single statement (spec.md §4.11); callers drive
// this from internal/wto's AnalyzeNode hook, one call per statement in
// block order. A ⊥ normal flow is a no-op per spec.md §4.11.
func (x *Executor) Execute(env Environment, stmt ar.Statement) Environment {
	if env.NormalBottom {
		return env
	}
	switch s := stmt.(type) {
	case *ar.Arithmetic:
		return x.execArithmetic(env, s)
	case *ar.Comparison:
		return x.execComparison(env, s)
	case *ar.Conversion:
		return x.execConversion(env, s)
	case *ar.Allocate:
		return x.execAllocate(env, s)
	case *ar.Store:
		return x.execStore(env, s)
	case *ar.Load:
		return x.execLoad(env, s)
	case *ar.PointerShift:
		return x.execPointerShift(env, s)
	case *ar.MemIntrinsic:
		return x.execMemIntrinsic(env, s)
	case *ar.LandingPad:
		return x.execLandingPad(env, s)
	case *ar.Resume:
		env.Caught = true
		env.NormalBottom = true
		return env
	case *ar.Unreachable:
		env.NormalBottom = true
		return env
	case *ar.AbstractVariable:
		env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		return env
	case *ar.AbstractMemory:
		return x.taintPointee(env, s.Pointer)
	case *ar.VaStatement:
		if s.Result != nil {
			env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
		}
		return env
	case *ar.ElementStatement:
		if s.Result != nil {
			env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
		}
		return env
	case *ar.Invoke:
		return x.execExternalCall(env, &s.Call)
	case *ar.Call:
		return x.execExternalCall(env, s)
	case *ar.Return:
		return env
	default:
		return env
	}
}

// execExternalCall is the conservative fallback for a call statement
// internal/inline did not resolve to a known callee or modelled libc
// intrinsic: every output and every pointer argument's reachable
// memory goes to ⊤ (spec.md §4.11's "external call" row, §4.12). The
// exceptional exit is not modelled: Caught is left unchanged, so an
// exception edge out of the call receives ⊥.
func (x *Executor) execExternalCall(env Environment, call *ar.Call) Environment {
	for _, arg := range call.Args {
		if _, isPtr := operandType(arg).(*ar.PointerType); isPtr {
			env = x.taintPointee(env, arg)
		}
	}
	if call.Result != nil {
		env.Scalars = env.Scalars.Set(x.varID(call.Result), domain.TopInterval(env.Width, env.Signed))
		env.Pointers = env.Pointers.Set(x.varID(call.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		env.Uninits = env.Uninits.Set(x.varID(call.Result), domain.TopUninit())
	}
	return env
}

// operandType recovers an operand's static type for the few transfer
// functions (external-call argument tainting) that must distinguish
// pointer-typed operands from scalars without a full type checker.
func operandType(op ar.Operand) ar.Type {
	switch v := op.(type) {
	case *ar.Variable:
		return v.Type
	case *ar.IntConstant:
		return v.Type
	case *ar.FloatConstant:
		return v.Type
	case *ar.RangeConstant:
		return v.Type
	case *ar.UndefinedConstant:
		return v.Type
	case *ar.NullConstant:
		return v.Type
	case *ar.VarAddrConstant:
		return v.Type
	case *ar.FunctionAddrConstant:
		return v.Type
	case *ar.InlineAsmConstant:
		return v.Type
	case *ar.AggregateConstant:
		return v.Type
	case *ar.ZeroAggregateConstant:
		return v.Type
	case *ar.UndefinedAggregateConstant:
		return v.Type
	default:
		return &ar.VoidType{}
	}
}

func (x *Executor) execArithmetic(env Environment, s *ar.Arithmetic) Environment {
	if x.isUninitialized(env, s.Left) || x.isUninitialized(env, s.Right) {
		env.Uninits = env.Uninits.Set(x.varID(s.Result), domain.UninitializedValue())
		x.warn(s, "use of uninitialized value in arithmetic")
		return env
	}
	l, r := x.evalScalar(env, s.Left), x.evalScalar(env, s.Right)
	cl, cr := x.evalCongruence(env, s.Left), x.evalCongruence(env, s.Right)
	var result domain.Interval
	var cResult domain.Congruence
	switch s.Op {
	case ar.OpAdd:
		result, cResult = l.Add(r), cl.Add(cr)
	case ar.OpSub:
		result, cResult = l.Sub(r), cl.Sub(cr)
	case ar.OpMul:
		result, cResult = l.Mul(r), cl.Mul(cr)
	default:
		result, cResult = domain.TopInterval(l.Width, l.Signed), domain.TopCongruence()
	}
	// domain.IntervalCongruence.reduce snaps the interval endpoints to
	// the congruence's lattice points (spec.md §4.4); either half
	// going empty after the snap means the statement is unreachable.
	ic := domain.NewIntervalCongruence(result, cResult)
	resID := x.varID(s.Result)
	if ic.IsBottom() {
		env.NormalBottom = true
		return env
	}
	env.Scalars = env.Scalars.Set(resID, ic.I)
	env.Congruences = env.Congruences.Set(resID, ic.C)
	env.Uninits = env.Uninits.Set(resID, domain.InitializedValue())
	env.Relational = x.relateArithmetic(env.Relational, s, resID)
	if env.Relational.IsBottom() {
		env.NormalBottom = true
		return env
	}
	env = x.reduceRelational(env, resID)
	return env
}

// relateArithmetic records the var-plus-constant forms spec.md §4.6's
// ConstraintKind set can express (`result = var + c`); any other shape
// (two variables, a non-affine op) is left untracked in the DBM rather
// than approximated, since EqPlusC only relates two variables.
func (x *Executor) relateArithmetic(dbm relational.DBM, s *ar.Arithmetic, resID uint64) relational.DBM {
	lv, lIsVar := s.Left.(*ar.Variable)
	rv, rIsVar := s.Right.(*ar.Variable)
	lc, lIsConst := s.Left.(*ar.IntConstant)
	rc, rIsConst := s.Right.(*ar.IntConstant)
	switch {
	case s.Op == ar.OpAdd && lIsVar && rIsConst:
		return dbm.AddConstraint(relational.EqPlusC, resID, x.varID(lv), rc.Value)
	case s.Op == ar.OpAdd && rIsVar && lIsConst:
		return dbm.AddConstraint(relational.EqPlusC, resID, x.varID(rv), lc.Value)
	case s.Op == ar.OpSub && lIsVar && rIsConst:
		return dbm.AddConstraint(relational.EqPlusC, resID, x.varID(lv), -rc.Value)
	default:
		return dbm
	}
}

// reduceRelational projects the DBM's tightest known bound for id back
// into Scalars, the direction of spec.md §4.6's "degrades to interval
// projection" reduction.
func (x *Executor) reduceRelational(env Environment, id uint64) Environment {
	lo, hi := env.Relational.ProjectInterval(id)
	cur := env.Scalars.Get(id)
	projected := domain.NewInterval(castBound(lo, cur.Width, cur.Signed), castBound(hi, cur.Width, cur.Signed), cur.Width, cur.Signed)
	refined := cur.Meet(projected)
	env.Scalars = env.Scalars.Set(id, refined)
	if refined.IsBottom() {
		env.NormalBottom = true
	}
	return env
}

// execComparison binds the comparison's boolean result to an
// unconstrained scalar; the operand-narrowing RefinePredicate performs
// is applied separately per branch edge by RefineBranch, since the
// comparison statement itself runs before the branch is known.
func (x *Executor) execComparison(env Environment, s *ar.Comparison) Environment {
	env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
	env.Uninits = env.Uninits.Set(x.varID(s.Result), domain.InitializedValue())
	return env
}

// RefineBranch applies a comparison's truth (taken=true) or falseness
// (taken=false) to both operands' intervals, for use as an
// internal/wto AnalyzeEdge callback on a conditional branch edge
// (spec.md §4.11: "two variants (true/false) are computed along the
// respective edges").
func (x *Executor) RefineBranch(env Environment, cmp *ar.Comparison, taken bool) Environment {
	if env.NormalBottom {
		return env
	}
	pred := string(cmp.Pred)
	if !taken {
		pred = negatePredicate(pred)
	}
	l, r := x.evalScalar(env, cmp.Left), x.evalScalar(env, cmp.Right)
	nl, nr := domain.RefinePredicate(pred, l, r)
	if lv, ok := cmp.Left.(*ar.Variable); ok {
		env.Scalars = env.Scalars.Set(x.varID(lv), nl)
	}
	if rv, ok := cmp.Right.(*ar.Variable); ok {
		env.Scalars = env.Scalars.Set(x.varID(rv), nr)
	}
	if nl.IsBottom() || nr.IsBottom() {
		env.NormalBottom = true
		return env
	}

	env.Relational = x.relateBranch(env.Relational, cmp, pred)
	if env.Relational.IsBottom() {
		env.NormalBottom = true
		return env
	}
	if lv, ok := cmp.Left.(*ar.Variable); ok {
		env = x.reduceRelational(env, x.varID(lv))
	}
	if rv, ok := cmp.Right.(*ar.Variable); ok {
		env = x.reduceRelational(env, x.varID(rv))
	}
	return env
}

// relateBranch narrows the DBM with the difference/bound constraint a
// taken (or, negated, not-taken) comparison edge implies (spec.md
// §4.6); only the var-var and var-const shapes map onto a single
// ConstraintKind; a const-const comparison carries no variable to
// constrain and is left to the interval refinement above.
func (x *Executor) relateBranch(dbm relational.DBM, cmp *ar.Comparison, pred string) relational.DBM {
	lv, lIsVar := cmp.Left.(*ar.Variable)
	rv, rIsVar := cmp.Right.(*ar.Variable)
	lc, lIsConst := cmp.Left.(*ar.IntConstant)
	rc, rIsConst := cmp.Right.(*ar.IntConstant)

	switch {
	case lIsVar && rIsVar:
		xi, yi := x.varID(lv), x.varID(rv)
		switch pred {
		case "le":
			return dbm.AddConstraint(relational.DiffLe, xi, yi, 0)
		case "lt":
			return dbm.AddConstraint(relational.DiffLe, xi, yi, -1)
		case "ge":
			return dbm.AddConstraint(relational.DiffGe, xi, yi, 0)
		case "gt":
			return dbm.AddConstraint(relational.DiffGe, xi, yi, 1)
		case "eq":
			return dbm.AddConstraint(relational.EqPlusC, xi, yi, 0)
		}
	case lIsVar && rIsConst:
		xi := x.varID(lv)
		switch pred {
		case "le":
			return dbm.AddConstraint(relational.LeConst, xi, 0, rc.Value)
		case "lt":
			return dbm.AddConstraint(relational.LeConst, xi, 0, rc.Value-1)
		case "ge":
			return dbm.AddConstraint(relational.GeConst, xi, 0, rc.Value)
		case "gt":
			return dbm.AddConstraint(relational.GeConst, xi, 0, rc.Value+1)
		case "eq":
			return dbm.AddConstraint(relational.EqConst, xi, 0, rc.Value)
		}
	case rIsVar && lIsConst:
		yi := x.varID(rv)
		switch pred {
		case "le": // c <= y
			return dbm.AddConstraint(relational.GeConst, yi, 0, lc.Value)
		case "lt":
			return dbm.AddConstraint(relational.GeConst, yi, 0, lc.Value+1)
		case "ge": // c >= y
			return dbm.AddConstraint(relational.LeConst, yi, 0, lc.Value)
		case "gt":
			return dbm.AddConstraint(relational.LeConst, yi, 0, lc.Value-1)
		case "eq":
			return dbm.AddConstraint(relational.EqConst, yi, 0, lc.Value)
		}
	}
	return dbm
}

func negatePredicate(p string) string {
	switch p {
	case "lt":
		return "ge"
	case "le":
		return "gt"
	case "gt":
		return "le"
	case "ge":
		return "lt"
	case "eq":
		return "ne"
	case "ne":
		return "eq"
	default:
		return p
	}
}

func (x *Executor) execConversion(env Environment, s *ar.Conversion) Environment {
	switch s.Kind {
	case ar.ConvPtrToInt:
		pv := x.evalPointer(env, s.Operand)
		env.Scalars = env.Scalars.Set(x.varID(s.Result), pv.Offset)
	case ar.ConvIntToPtr:
		iv := x.evalScalar(env, s.Operand)
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.NewPointerAbsValue(
			domain.InitializedValue(), domain.TopNullity(), domain.TopDiscreteSet[uint64](), iv))
	default:
		iv := x.evalScalar(env, s.Operand)
		w, signed := widthSignedOf(s.ToType)
		lo, hi := castBound(iv.Lo, w, signed), castBound(iv.Hi, w, signed)
		env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.NewInterval(lo, hi, w, signed))
	}
	return env
}

func castBound(b number.Bound, width uint, signed bool) number.Bound {
	if !b.IsFinite() {
		return b
	}
	return number.FiniteBound(b.Value().Cast(width, signed))
}

func (x *Executor) execAllocate(env Environment, s *ar.Allocate) Environment {
	env.Uninits = env.Uninits.Set(x.varID(s.Result), domain.InitializedValue())
	if x.Precision == PrecisionRegister {
		// Points-to isn't tracked at this precision; the allocation still
		// produces *some* pointer, just an unconstrained one.
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		return env
	}
	locID, _ := x.Mems.Materialize(uint64(s.ID()), s.Result.Name+".alloca", ar.MemLocal, s.Result.Type)
	env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.AddressOf(locID, number.MachineIntFromInt64(0, 64, true)))
	if sizeVarID, ok := x.Mems.AllocSize(locID); ok {
		env.Scalars = env.Scalars.Set(sizeVarID, domain.SingletonInterval(number.MachineIntFromInt64(int64(s.Size), 64, false)))
		env.Congruences = env.Congruences.Set(sizeVarID, domain.SingletonCongruence(int64(s.Size)))
	}
	return env
}

func (x *Executor) execStore(env Environment, s *ar.Store) Environment {
	if x.Precision == PrecisionRegister {
		// Pointer dimension untracked: a store is an untracked side
		// effect on whatever the pointer reaches.
		return env
	}
	ptr := x.evalPointer(env, s.Pointer)
	if ptr.PointsTo.IsTop() || ptr.PointsTo.Contains(x.Mems.AbsZero) {
		x.warn(s, "invalid dereference: store through unconstrained or null-adjacent pointer")
		return x.taintPointee(env, s.Pointer)
	}
	// Field-sensitive aggregates aren't modelled at this layer; storing
	// one through a pointer collapses the pointee to ⊤ rather than
	// silently folding it into the unified scalar/pointer cell.
	if x.Literals.Classify(s.Value) == literal.Aggregate {
		return x.taintPointee(env, s.Pointer)
	}
	if x.Precision == PrecisionPointer {
		// Points-to is tracked (so the dereference check above still
		// applies) but memory contents aren't.
		return env
	}
	val := x.scalarOrPointerValue(env, s.Value)
	locs := ptr.PointsTo.Elements()
	for _, loc := range locs {
		if len(locs) == 1 {
			// A single target is overwritten (strong update).
			env.Memory = env.Memory.Set(loc, val)
		} else {
			env.Memory = env.Memory.Set(loc, env.Memory.Get(loc).Join(val))
		}
	}
	return env
}

func (x *Executor) execLoad(env Environment, s *ar.Load) Environment {
	if x.Precision == PrecisionRegister {
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
		return env
	}
	ptr := x.evalPointer(env, s.Pointer)
	if ptr.PointsTo.IsTop() || x.Precision == PrecisionPointer {
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
		return env
	}
	acc := pointer.BottomPointerAbsValue(env.Width, env.Signed)
	for _, loc := range ptr.PointsTo.Elements() {
		acc = acc.Join(env.Memory.Get(loc))
	}
	env.Pointers = env.Pointers.Set(x.varID(s.Result), acc)
	env.Scalars = env.Scalars.Set(x.varID(s.Result), acc.Offset)
	return env
}

// scalarOrPointerValue reads a stored/loaded operand's value in the
// uniform PointerAbsValue shape memory cells use: pointer-typed
// operands keep their points-to set, scalar operands carry an empty
// points-to set with their interval folded into Offset (spec.md
// §4.11's unified cell representation).
func (x *Executor) scalarOrPointerValue(env Environment, op ar.Operand) pointer.PointerAbsValue {
	if _, isPtr := operandType(op).(*ar.PointerType); isPtr {
		return x.evalPointer(env, op)
	}
	return pointer.NewPointerAbsValue(domain.InitializedValue(), domain.TopNullity(),
		domain.EmptyDiscreteSet[uint64](), x.evalScalar(env, op))
}

func (x *Executor) execPointerShift(env Environment, s *ar.PointerShift) Environment {
	if x.Precision == PrecisionRegister {
		env.Pointers = env.Pointers.Set(x.varID(s.Result), pointer.TopPointerAbsValue(env.Width, env.Signed))
		return env
	}
	base := x.evalPointer(env, s.Base)
	shift := domain.SingletonInterval(number.MachineIntFromInt64(s.Offset, 64, true))
	shifted := pointer.NewPointerAbsValue(base.Uninit, base.Null, base.PointsTo, base.Offset.Add(shift))
	env.Pointers = env.Pointers.Set(x.varID(s.Result), shifted)
	return env
}

// taintPointee collapses every location a pointer might reach to ⊤
// (spec.md §4.11's memcpy/store-through-top fallback).
func (x *Executor) taintPointee(env Environment, ptrOp ar.Operand) Environment {
	ptr := x.evalPointer(env, ptrOp)
	top := pointer.TopPointerAbsValue(env.Width, env.Signed)
	if ptr.PointsTo.IsTop() {
		env.Memory.Each(func(loc uint64, _ pointer.PointerAbsValue) {
			env.Memory = env.Memory.Set(loc, top)
		})
		return env
	}
	for _, loc := range ptr.PointsTo.Elements() {
		env.Memory = env.Memory.Set(loc, top)
	}
	return env
}

func (x *Executor) execMemIntrinsic(env Environment, s *ar.MemIntrinsic) Environment {
	if x.Precision == PrecisionRegister {
		// Neither points-to nor memory contents are tracked; nothing to
		// update, and nothing to taint either (every cell already reads ⊤).
		return env
	}
	dst := x.evalPointer(env, s.Dst)
	sizeIv := x.evalScalar(env, s.Size)
	_, sizeKnown := sizeIv.Singleton()

	switch s.Kind {
	case ar.MemSet:
		if !sizeKnown || dst.PointsTo.IsTop() || x.Precision == PrecisionPointer {
			return x.taintPointee(env, s.Dst)
		}
		fillVal := x.scalarOrPointerValue(env, s.Value)
		for _, loc := range dst.PointsTo.Elements() {
			env.Memory = env.Memory.Set(loc, fillVal)
		}
		return env
	case ar.MemCopy, ar.MemMove:
		src := x.evalPointer(env, s.Src)
		disjoint := dst.PointsTo.Meet(src.PointsTo).IsBottom()
		if !sizeKnown || dst.PointsTo.IsTop() || src.PointsTo.IsTop() || (s.Kind == ar.MemCopy && !disjoint) || x.Precision == PrecisionPointer {
			return x.taintPointee(env, s.Dst)
		}
		acc := pointer.BottomPointerAbsValue(env.Width, env.Signed)
		for _, loc := range src.PointsTo.Elements() {
			acc = acc.Join(env.Memory.Get(loc))
		}
		for _, loc := range dst.PointsTo.Elements() {
			env.Memory = env.Memory.Set(loc, acc)
		}
		return env
	}
	return env
}

func (x *Executor) execLandingPad(env Environment, s *ar.LandingPad) Environment {
	env.NormalBottom = false
	env.Caught = false
	if s.Result != nil {
		env.Scalars = env.Scalars.Set(x.varID(s.Result), domain.TopInterval(env.Width, env.Signed))
	}
	return env
}
