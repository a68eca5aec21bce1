package arfmt

import (
	"fmt"
	"strconv"
	"strings"

	"arstatic/internal/ar"
)

// Printer renders a Bundle back into the textual format ParseString
// reads, the same writeLine/write split the teacher's ir.Printer uses
// for its own dump.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer { return &Printer{} }

// Print renders bundle as text. Only the statement subset the grammar
// accepts round-trips; anything else (Invoke, LandingPad, Resume,
// Unreachable, VaStatement, ElementStatement, AbstractVariable,
// AbstractMemory, MemIntrinsic) is emitted as a comment instead of
// failing outright, since this package is debug tooling, not a
// general-purpose serializer.
func Print(bundle *ar.Bundle) string {
	p := NewPrinter()
	for _, fn := range bundle.Functions {
		p.printFunction(fn)
		p.writeLine("")
	}
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printFunction(fn *ar.Function) {
	ret := typeString(fn.Type.Return)

	if fn.IsDeclaration() {
		// Decl lists bare types, no parameter names (there are none to
		// carry — a declaration binds no *ar.Variable params).
		types := make([]string, len(fn.Type.Params))
		for i, t := range fn.Type.Params {
			types[i] = typeString(t)
		}
		p.writeLine("decl %s(%s) -> %s;", fn.Name, strings.Join(types, ", "), ret)
		return
	}

	params := make([]string, len(fn.Params))
	for i, v := range fn.Params {
		params[i] = v.Name + ": " + typeString(v.Type)
	}
	p.writeLine("fn %s(%s) -> %s {", fn.Name, strings.Join(params, ", "), ret)
	p.indent++
	for _, blk := range fn.Blocks {
		p.printBlock(blk)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(blk *ar.BasicBlock) {
	p.writeLine("%s:", blk.Label)
	p.indent++
	for _, st := range blk.Statements {
		p.printStatement(st)
	}
	p.printTerminatorEdges(blk)
	p.indent--
}

// printTerminatorEdges emits br/jmp for blocks whose last statement
// wasn't itself a Return — AddSuccessor carries the grammar's br/jmp
// as CFG edges rather than a trailing Statement, so they're
// reconstructed from Successors here.
func (p *Printer) printTerminatorEdges(blk *ar.BasicBlock) {
	switch len(blk.Successors) {
	case 0:
		return
	case 1:
		p.writeLine("jmp %s", blk.Successors[0].To.Label)
	case 2:
		var t, f *ar.Edge
		for _, e := range blk.Successors {
			switch e.Kind {
			case ar.EdgeTrue:
				t = e
			case ar.EdgeFalse:
				f = e
			}
		}
		if t != nil && f != nil {
			p.writeLine("br %s, %s, %s", operandString(t.Guard), t.To.Label, f.To.Label)
			return
		}
		p.writeLine("; unrepresentable branch")
	default:
		p.writeLine("; unrepresentable multi-way branch")
	}
}

func (p *Printer) printStatement(st ar.Statement) {
	switch s := st.(type) {
	case *ar.Arithmetic:
		p.writeLine("%s = %s %s, %s", s.Result.Name, string(s.Op), operandString(s.Left), operandString(s.Right))
	case *ar.Comparison:
		p.writeLine("%s = cmp %s %s, %s", s.Result.Name, string(s.Pred), operandString(s.Left), operandString(s.Right))
	case *ar.Load:
		p.writeLine("%s = load %s", s.Result.Name, operandString(s.Pointer))
	case *ar.Store:
		p.writeLine("store %s, %s", operandString(s.Pointer), operandString(s.Value))
	case *ar.PointerShift:
		p.writeLine("%s = ptrshift %s, %d", s.Result.Name, operandString(s.Base), s.Offset)
	case *ar.Call:
		p.writeLine("%s", callString(s))
	case *ar.Return:
		if s.Value == nil {
			p.writeLine("ret")
		} else {
			p.writeLine("ret %s", operandString(s.Value))
		}
	default:
		p.writeLine("; unrepresentable statement: %s", st.String())
	}
}

func callString(s *ar.Call) string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = operandString(a)
	}
	call := fmt.Sprintf("call %s(%s)", operandString(s.Callee), strings.Join(args, ", "))
	if s.Result == nil {
		return call
	}
	return s.Result.Name + " = " + call
}

func operandString(op ar.Operand) string {
	switch v := op.(type) {
	case *ar.Variable:
		return v.Name
	case *ar.IntConstant:
		return strconv.FormatInt(v.Value, 10)
	case *ar.FunctionAddrConstant:
		return "@" + v.Fn.Name
	default:
		return "<?>"
	}
}

// typeString renders t the way Type.String() would for an IntType/
// PointerType, matching what the grammar's Type expects to re-parse.
func typeString(t ar.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
