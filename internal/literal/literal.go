// Package literal classifies AR operands into the three literal shapes
// of spec.md §4.10 and caches the classification by operand identity.
package literal

import (
	"fmt"

	"github.com/pkg/errors"

	"arstatic/internal/ar"
)

// Kind is the literal shape an operand was classified into.
type Kind int

const (
	Scalar Kind = iota
	Aggregate
	VoidVar
)

// AggregateLiteralError is raised when a scalar was requested but the
// operand classifies as aggregate.
type AggregateLiteralError struct{ Operand ar.Operand }

func (e *AggregateLiteralError) Error() string {
	return fmt.Sprintf("literal %v is an aggregate, not a scalar", e.Operand)
}

// ScalarLiteralError is raised when an aggregate was requested but the
// operand classifies as scalar.
type ScalarLiteralError struct{ Operand ar.Operand }

func (e *ScalarLiteralError) Error() string {
	return fmt.Sprintf("literal %v is a scalar, not an aggregate", e.Operand)
}

// VoidVarLiteralError is raised when either shape was requested but the
// operand is a void-typed variable (a void function's result).
type VoidVarLiteralError struct{ Variable *ar.Variable }

func (e *VoidVarLiteralError) Error() string {
	return fmt.Sprintf("variable %q has void type and carries no value", e.Variable.Name)
}

// Translator classifies operands and caches the result by operand
// identity (spec.md §4.10), read/write-locked the same way
// internal/memstore's factories are (spec.md §4.9's "L6" grouping
// explicitly lists this cache alongside them).
type Translator struct {
	mu    rwMutex
	cache map[ar.Operand]Kind
}

func NewTranslator() *Translator {
	return &Translator{cache: map[ar.Operand]Kind{}}
}

func (t *Translator) classify(op ar.Operand) Kind {
	t.mu.RLock()
	if k, ok := t.cache[op]; ok {
		t.mu.RUnlock()
		return k
	}
	t.mu.RUnlock()

	k := classifyKind(op)

	t.mu.Lock()
	t.cache[op] = k
	t.mu.Unlock()
	return k
}

func classifyKind(op ar.Operand) Kind {
	switch v := op.(type) {
	case *ar.Variable:
		if _, ok := v.Type.(*ar.VoidType); ok {
			return VoidVar
		}
		return Scalar
	case *ar.IntConstant, *ar.FloatConstant, *ar.RangeConstant,
		*ar.UndefinedConstant, *ar.NullConstant, *ar.VarAddrConstant,
		*ar.FunctionAddrConstant, *ar.InlineAsmConstant:
		return Scalar
	case *ar.AggregateConstant, *ar.ZeroAggregateConstant, *ar.UndefinedAggregateConstant:
		return Aggregate
	default:
		_ = v
		return Scalar
	}
}

// AsScalar returns op unchanged if it classifies as scalar.
func (t *Translator) AsScalar(op ar.Operand) (ar.Operand, error) {
	switch t.classify(op) {
	case VoidVar:
		return nil, errors.WithStack(&VoidVarLiteralError{Variable: op.(*ar.Variable)})
	case Aggregate:
		return nil, errors.WithStack(&AggregateLiteralError{Operand: op})
	default:
		return op, nil
	}
}

// AsAggregate returns op unchanged if it classifies as aggregate.
func (t *Translator) AsAggregate(op ar.Operand) (ar.Operand, error) {
	switch t.classify(op) {
	case VoidVar:
		return nil, errors.WithStack(&VoidVarLiteralError{Variable: op.(*ar.Variable)})
	case Scalar:
		return nil, errors.WithStack(&ScalarLiteralError{Operand: op})
	default:
		return op, nil
	}
}

// Classify exposes the cached classification directly for callers that
// branch on shape without needing strict validation.
func (t *Translator) Classify(op ar.Operand) Kind {
	return t.classify(op)
}
