// Package ar models the typed three-address intermediate representation
// ("AR") consumed by the analyzer core. Translation from source or
// bitcode into this representation is an external collaborator; this
// package only describes the shape the core reads.
package ar

import "fmt"

// Type is the AR type system. Every concrete type implements String for
// diagnostics, the same way internal/ir/types.go renders EVM IR types.
type Type interface {
	String() string
}

type IntType struct {
	Bits   uint
	Signed bool
}

func (t *IntType) String() string {
	if t.Signed {
		return fmt.Sprintf("si%d", t.Bits)
	}
	return fmt.Sprintf("ui%d", t.Bits)
}

type FloatType struct{ Bits uint }

func (t *FloatType) String() string { return fmt.Sprintf("f%d", t.Bits) }

type PointerType struct{ Elem Type }

func (t *PointerType) String() string { return t.Elem.String() + "*" }

type ArrayType struct {
	Elem Type
	Len  uint64
}

func (t *ArrayType) String() string { return fmt.Sprintf("[%d x %s]", t.Len, t.Elem) }

type StructType struct {
	Name   string
	Fields []Type
}

func (t *StructType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "struct"
}

type VoidType struct{}

func (t *VoidType) String() string { return "void" }

type FunctionType struct {
	Params   []Type
	Return   Type
	Variadic bool
}

func (t *FunctionType) String() string { return "fn(...)" }

// SourceLocation pins a statement to an originating source position.
// The frontend is an external collaborator; the core only carries this
// through to the persisted report (spec.md §6.4).
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// DataLayout answers size/alignment questions needed by the memory
// model (spec.md §6.1).
type DataLayout struct {
	PointerBits uint
}

func (dl DataLayout) SizeOf(t Type) uint64 {
	switch v := t.(type) {
	case *IntType:
		return uint64(v.Bits+7) / 8
	case *FloatType:
		return uint64(v.Bits+7) / 8
	case *PointerType:
		return uint64(dl.PointerBits) / 8
	case *ArrayType:
		return v.Len * dl.SizeOf(v.Elem)
	case *StructType:
		var total uint64
		for _, f := range v.Fields {
			total += dl.SizeOf(f)
		}
		return total
	default:
		return 0
	}
}

func (dl DataLayout) AlignOf(t Type) uint64 {
	switch v := t.(type) {
	case *ArrayType:
		return dl.AlignOf(v.Elem)
	case *StructType:
		var best uint64 = 1
		for _, f := range v.Fields {
			if a := dl.AlignOf(f); a > best {
				best = a
			}
		}
		return best
	default:
		sz := dl.SizeOf(t)
		if sz == 0 {
			return 1
		}
		return sz
	}
}

// TypeVerifier exposes the single predicate the call-execution engine
// needs from type checking (spec.md §6.1).
type TypeVerifier interface {
	IsValidCall(call *Call, calleeType *FunctionType) bool
}

type defaultVerifier struct{}

// DefaultTypeVerifier performs a lenient arity-only check; a real
// frontend-provided verifier is expected to be stricter.
var DefaultTypeVerifier TypeVerifier = defaultVerifier{}

func (defaultVerifier) IsValidCall(call *Call, calleeType *FunctionType) bool {
	if calleeType.Variadic {
		return len(call.Args) >= len(calleeType.Params)
	}
	return len(call.Args) == len(calleeType.Params)
}
