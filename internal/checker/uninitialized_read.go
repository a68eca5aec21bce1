package checker

import (
	"arstatic/internal/ar"
	"arstatic/internal/callctx"
	"arstatic/internal/exec"
	"arstatic/internal/memstore"
)

// UninitializedReadChecker flags a statement that reads a scalar or
// pointer variable the pre-invariant still marks uninitialized
// (spec.md §8 scenario S4).
type UninitializedReadChecker struct {
	Vars *memstore.VariableFactory
}

func (c *UninitializedReadChecker) Name() string { return "uninitialized-read" }

func (c *UninitializedReadChecker) Description() string {
	return "flags a read of a variable the invariant still marks uninitialized"
}

func (c *UninitializedReadChecker) Check(stmt ar.Statement, inv exec.Environment, callCtx *callctx.Context) Finding {
	if inv.NormalBottom {
		return unreachableFinding(c.Name(), stmt, callCtx)
	}
	for _, op := range readOperands(stmt) {
		v, isVar := op.(*ar.Variable)
		if !isVar {
			continue
		}
		id, _ := c.Vars.Materialize(v.UID, v.Name, v.Kind, v.Type)
		if inv.Uninits.Get(id).IsUninitialized() {
			f := ok(c.Name(), stmt, callCtx)
			f.Result = Error
			f.Info = map[string]any{"variable": v.Name}
			return f
		}
	}
	return ok(c.Name(), stmt, callCtx)
}

// readOperands lists the operands a statement reads from (as opposed
// to its Result, which it only writes), the set a checker must inspect
// to catch a use of an uninitialized value.
func readOperands(stmt ar.Statement) []ar.Operand {
	switch s := stmt.(type) {
	case *ar.Arithmetic:
		return []ar.Operand{s.Left, s.Right}
	case *ar.Comparison:
		return []ar.Operand{s.Left, s.Right}
	case *ar.Conversion:
		return []ar.Operand{s.Operand}
	case *ar.Store:
		return []ar.Operand{s.Pointer, s.Value}
	case *ar.Load:
		return []ar.Operand{s.Pointer}
	case *ar.PointerShift:
		return []ar.Operand{s.Base}
	case *ar.AbstractMemory:
		return []ar.Operand{s.Pointer}
	case *ar.MemIntrinsic:
		ops := []ar.Operand{s.Dst, s.Size}
		if s.Src != nil {
			ops = append(ops, s.Src)
		}
		if s.Value != nil {
			ops = append(ops, s.Value)
		}
		return ops
	case *ar.Call:
		return s.Args
	case *ar.Invoke:
		return s.Args
	case *ar.Return:
		if s.Value != nil {
			return []ar.Operand{s.Value}
		}
		return nil
	case *ar.Resume:
		return []ar.Operand{s.Value}
	case *ar.VaStatement:
		return []ar.Operand{s.List}
	case *ar.ElementStatement:
		ops := []ar.Operand{s.Vector, s.Index}
		if s.Value != nil {
			ops = append(ops, s.Value)
		}
		return ops
	default:
		return nil
	}
}
