package arfmt

import (
	"fmt"
	"strconv"
	"strings"

	"arstatic/internal/ar"
)

// assembler turns a parsed Program into an *ar.Bundle, handing out
// globally unique statement ids and variable UIDs the way a real
// frontend's lowering pass would — forward references (a call to a
// function defined later in the file, a branch to a block appearing
// later in its own function) are resolved by building every function's
// signature and every block label up front, then filling statement
// bodies in a second pass.
type assembler struct {
	nextStmt uint64
	nextVar  uint64
	fns      map[string]*ar.Function
	errs     []string
}

// Assemble converts a parsed Program into a Bundle named for
// diagnostics.
func Assemble(name string, prog *Program) (*ar.Bundle, error) {
	a := &assembler{nextStmt: 1, nextVar: 1, fns: map[string]*ar.Function{}}
	bundle := &ar.Bundle{Name: name, Verifier: ar.DefaultTypeVerifier}

	// Pass 1: every Decl/FuncDef gets a *ar.Function stub so @name
	// operands resolve regardless of declaration order.
	for _, item := range prog.Items {
		switch {
		case item.Decl != nil:
			fn := &ar.Function{Name: item.Decl.Name, Type: a.funcType(item.Decl.Params, item.Decl.Ret)}
			a.fns[fn.Name] = fn
			bundle.Functions = append(bundle.Functions, fn)
		case item.Func != nil:
			fn := &ar.Function{Name: item.Func.Name, Type: a.funcTypeFromParams(item.Func.Params, item.Func.Ret)}
			a.fns[fn.Name] = fn
			bundle.Functions = append(bundle.Functions, fn)
		}
	}

	// Pass 2: fill in each definition's body.
	for _, item := range prog.Items {
		if item.Func == nil {
			continue
		}
		a.buildBody(a.fns[item.Func.Name], item.Func)
	}

	if len(a.errs) > 0 {
		return nil, fmt.Errorf("arfmt: %s", strings.Join(a.errs, "; "))
	}
	return bundle, nil
}

func (a *assembler) funcType(params []*Type, ret *Type) *ar.FunctionType {
	ft := &ar.FunctionType{Return: a.resolveType(ret)}
	for _, p := range params {
		ft.Params = append(ft.Params, a.resolveType(p))
	}
	return ft
}

func (a *assembler) funcTypeFromParams(params []*Param, ret *Type) *ar.FunctionType {
	ft := &ar.FunctionType{Return: a.resolveType(ret)}
	for _, p := range params {
		ft.Params = append(ft.Params, a.resolveType(p.Type))
	}
	return ft
}

func (a *assembler) resolveType(t *Type) ar.Type {
	if t == nil || t.Name == "void" {
		return &ar.VoidType{}
	}
	var base ar.Type
	if it, ok := parseIntTypeName(t.Name); ok {
		base = it
	} else {
		base = &ar.IntType{Bits: 64, Signed: true}
	}
	if t.Pointer {
		return &ar.PointerType{Elem: base}
	}
	return base
}

// parseIntTypeName parses "si64"/"ui8"-shaped names, the same
// signed/bits notation IntType.String() already renders, so printed
// fixtures round-trip through this parser.
func parseIntTypeName(name string) (*ar.IntType, bool) {
	if len(name) < 2 || (name[0] != 's' && name[0] != 'u') {
		return nil, false
	}
	if name[1] != 'i' {
		return nil, false
	}
	bits, err := strconv.Atoi(name[2:])
	if err != nil {
		return nil, false
	}
	return &ar.IntType{Bits: uint(bits), Signed: name[0] == 's'}, true
}

// funcScope tracks the per-function state assembly needs: the
// name-keyed variable map (AR is a flat three-address form, not SSA —
// a name may be reassigned across statements and keeps its identity)
// and the label-keyed block map for branch/jump target resolution.
type funcScope struct {
	vars   map[string]*ar.Variable
	blocks map[string]*ar.BasicBlock
}

func (a *assembler) buildBody(fn *ar.Function, def *FuncDef) {
	scope := &funcScope{vars: map[string]*ar.Variable{}, blocks: map[string]*ar.BasicBlock{}}

	for i, p := range def.Params {
		v := &ar.Variable{UID: a.nextVar, Name: p.Name, Kind: ar.VarLocal, Type: fn.Type.Params[i]}
		a.nextVar++
		scope.vars[p.Name] = v
		fn.Params = append(fn.Params, v)
	}

	// Stub every block first so a forward br/jmp target resolves.
	for _, b := range def.Blocks {
		blk := &ar.BasicBlock{Label: b.Label, Function: fn}
		fn.Blocks = append(fn.Blocks, blk)
		scope.blocks[b.Label] = blk
	}
	if len(fn.Blocks) > 0 {
		fn.Entry = fn.Blocks[0]
	}

	for i, b := range def.Blocks {
		blk := fn.Blocks[i]
		for _, st := range b.Stmts {
			a.buildStmt(fn, blk, scope, st)
		}
	}
}

func (a *assembler) id() ar.StatementID {
	id := ar.StatementID(a.nextStmt)
	a.nextStmt++
	return id
}

func (a *assembler) dest(scope *funcScope, name string, t *Type, fallback ar.Type) *ar.Variable {
	if v, ok := scope.vars[name]; ok {
		return v
	}
	typ := fallback
	if t != nil {
		typ = a.resolveType(t)
	}
	v := &ar.Variable{UID: a.nextVar, Name: name, Kind: ar.VarLocal, Type: typ}
	a.nextVar++
	scope.vars[name] = v
	return v
}

func (a *assembler) operand(scope *funcScope, op *Operand) ar.Operand {
	switch {
	case op.FuncRef != nil:
		fn, ok := a.fns[*op.FuncRef]
		if !ok {
			a.errs = append(a.errs, "undefined function @"+*op.FuncRef)
			return &ar.UndefinedConstant{Type: &ar.IntType{Bits: 64, Signed: true}}
		}
		return &ar.FunctionAddrConstant{Type: fn.Type, Fn: fn}
	case op.IntLit != nil:
		v, err := strconv.ParseInt(*op.IntLit, 0, 64)
		if err != nil {
			a.errs = append(a.errs, "bad integer literal "+*op.IntLit)
		}
		return &ar.IntConstant{Type: &ar.IntType{Bits: 64, Signed: true}, Value: v}
	case op.Name != nil:
		if v, ok := scope.vars[*op.Name]; ok {
			return v
		}
		v := &ar.Variable{UID: a.nextVar, Name: *op.Name, Kind: ar.VarLocal, Type: &ar.IntType{Bits: 64, Signed: true}}
		a.nextVar++
		scope.vars[*op.Name] = v
		return v
	default:
		a.errs = append(a.errs, "empty operand")
		return &ar.UndefinedConstant{Type: &ar.IntType{Bits: 64, Signed: true}}
	}
}

func (a *assembler) buildStmt(fn *ar.Function, blk *ar.BasicBlock, scope *funcScope, st *Stmt) {
	switch {
	case st.Assign != nil:
		a.buildAssign(blk, scope, st.Assign)
	case st.Store != nil:
		s := ar.NewStore(a.id(), blk, ar.SourceLocation{}, a.operand(scope, st.Store.Ptr), a.operand(scope, st.Store.Value), 0)
		blk.Statements = append(blk.Statements, s)
	case st.VCall != nil:
		args := make([]ar.Operand, len(st.VCall.Args))
		for i, arg := range st.VCall.Args {
			args[i] = a.operand(scope, arg)
		}
		s := ar.NewCall(a.id(), blk, ar.SourceLocation{}, nil, a.operand(scope, st.VCall.Callee), args)
		blk.Statements = append(blk.Statements, s)
	case st.Ret != nil:
		var val ar.Operand
		if st.Ret.Value != nil {
			val = a.operand(scope, st.Ret.Value)
		}
		s := ar.NewReturn(a.id(), blk, ar.SourceLocation{}, val)
		blk.Statements = append(blk.Statements, s)
	case st.Br != nil:
		cond := a.operand(scope, st.Br.Cond)
		trueBlk, ok := scope.blocks[st.Br.True]
		if !ok {
			a.errs = append(a.errs, "undefined block label "+st.Br.True)
			return
		}
		falseBlk, ok := scope.blocks[st.Br.False]
		if !ok {
			a.errs = append(a.errs, "undefined block label "+st.Br.False)
			return
		}
		blk.AddSuccessor(ar.EdgeTrue, cond, trueBlk)
		blk.AddSuccessor(ar.EdgeFalse, cond, falseBlk)
	case st.Jmp != nil:
		target, ok := scope.blocks[st.Jmp.Target]
		if !ok {
			a.errs = append(a.errs, "undefined block label "+st.Jmp.Target)
			return
		}
		blk.AddSuccessor(ar.EdgeUnconditional, nil, target)
	}
}

func (a *assembler) buildAssign(blk *ar.BasicBlock, scope *funcScope, s *AssignStmt) {
	rhs := s.Rhs
	switch {
	case rhs.Arith != nil:
		res := a.dest(scope, s.Dest, s.Type, &ar.IntType{Bits: 64, Signed: true})
		stmt := ar.NewArithmetic(a.id(), blk, ar.SourceLocation{}, res, ar.ArithOp(rhs.Arith.Op),
			a.operand(scope, rhs.Arith.Left), a.operand(scope, rhs.Arith.Right))
		blk.Statements = append(blk.Statements, stmt)
	case rhs.Cmp != nil:
		res := a.dest(scope, s.Dest, s.Type, &ar.IntType{Bits: 64, Signed: true})
		stmt := ar.NewComparison(a.id(), blk, ar.SourceLocation{}, res, ar.Predicate(rhs.Cmp.Pred),
			a.operand(scope, rhs.Cmp.Left), a.operand(scope, rhs.Cmp.Right))
		blk.Statements = append(blk.Statements, stmt)
	case rhs.Call != nil:
		res := a.dest(scope, s.Dest, s.Type, &ar.IntType{Bits: 64, Signed: true})
		args := make([]ar.Operand, len(rhs.Call.Args))
		for i, arg := range rhs.Call.Args {
			args[i] = a.operand(scope, arg)
		}
		stmt := ar.NewCall(a.id(), blk, ar.SourceLocation{}, res, a.operand(scope, rhs.Call.Callee), args)
		blk.Statements = append(blk.Statements, stmt)
	case rhs.Load != nil:
		res := a.dest(scope, s.Dest, s.Type, &ar.IntType{Bits: 64, Signed: true})
		stmt := ar.NewLoad(a.id(), blk, ar.SourceLocation{}, res, a.operand(scope, rhs.Load.Ptr), 0)
		blk.Statements = append(blk.Statements, stmt)
	case rhs.Shift != nil:
		res := a.dest(scope, s.Dest, s.Type, &ar.PointerType{Elem: &ar.IntType{Bits: 8}})
		off, err := strconv.ParseInt(rhs.Shift.Offset, 0, 64)
		if err != nil {
			a.errs = append(a.errs, "bad ptrshift offset "+rhs.Shift.Offset)
		}
		stmt := ar.NewPointerShift(a.id(), blk, ar.SourceLocation{}, res, a.operand(scope, rhs.Shift.Base), off)
		blk.Statements = append(blk.Statements, stmt)
	}
}
