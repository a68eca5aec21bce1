// Package exec implements the symbolic executor of spec.md §4.11 (L8):
// a transfer function that updates an Environment for each AR statement.
package exec

import (
	"arstatic/internal/combinator"
	"arstatic/internal/domain"
	"arstatic/internal/pointer"
	"arstatic/internal/relational"
)

// Environment is the abstract state threaded through statement
// execution: a normal/caught exception-flow pair (spec.md §4.11's
// "normal-flow ⊥" and "caught-flow" rules) over the combined numeric +
// pointer environment (spec.md §3).
//
// Scalars and Congruences form the per-variable halves of the reduced
// product spec.md §4.4 describes (domain.IntervalCongruence); Relational
// is the whole-function DBM of spec.md §4.6, closed and reduced back
// into Scalars whenever a statement narrows it (executor.go's
// relateArithmetic/reduceRelational, RefineBranch's relateBranch).
type Environment struct {
	NormalBottom bool
	Caught       bool
	CaughtValue  uint64 // variable id of the caught exception value, if any

	Scalars     combinator.SeparateDomain[domain.Interval]
	Congruences combinator.SeparateDomain[domain.Congruence]
	Relational  relational.DBM
	Uninits     combinator.SeparateDomain[domain.Uninit]
	Nulls       combinator.SeparateDomain[domain.Nullity]
	Pointers    combinator.SeparateDomain[pointer.PointerAbsValue]
	Memory      combinator.SeparateDomain[pointer.PointerAbsValue]
	Lifetimes   combinator.SeparateDomain[domain.Lifetime]

	Width  uint
	Signed bool
}

// NewEnvironment builds the entry environment: every table starts at
// ⊤ (missing key ⇒ ⊤, spec.md §4.5), normal flow reachable, nothing
// caught.
func NewEnvironment(width uint, signed bool) Environment {
	return Environment{
		Scalars:     combinator.NewSeparateDomain[domain.Interval](domain.TopInterval(width, signed)),
		Congruences: combinator.NewSeparateDomain[domain.Congruence](domain.TopCongruence()),
		Relational:  relational.Top(),
		Uninits:     combinator.NewSeparateDomain[domain.Uninit](domain.TopUninit()),
		Nulls:       combinator.NewSeparateDomain[domain.Nullity](domain.TopNullity()),
		Pointers:    combinator.NewSeparateDomain[pointer.PointerAbsValue](pointer.TopPointerAbsValue(width, signed)),
		Memory:      combinator.NewSeparateDomain[pointer.PointerAbsValue](pointer.TopPointerAbsValue(width, signed)),
		Lifetimes:   combinator.NewSeparateDomain[domain.Lifetime](domain.TopLifetime()),
		Width:       width,
		Signed:      signed,
	}
}

func BottomEnvironment(width uint, signed bool) Environment {
	e := NewEnvironment(width, signed)
	e.NormalBottom = true
	return e
}

// Join combines two environments pointwise; a ⊥-normal-flow side
// contributes nothing (spec.md §4.11: "normal-flow ⊥ ⇒ the statement
// is no-op", so joining with it must be the identity).
func (e Environment) Join(o Environment) Environment {
	if e.NormalBottom {
		return o
	}
	if o.NormalBottom {
		return e
	}
	return Environment{
		Caught:      e.Caught || o.Caught,
		Scalars:     e.Scalars.Join(o.Scalars),
		Congruences: e.Congruences.Join(o.Congruences),
		Relational:  e.Relational.Join(o.Relational),
		Uninits:     e.Uninits.Join(o.Uninits),
		Nulls:       e.Nulls.Join(o.Nulls),
		Pointers:    e.Pointers.Join(o.Pointers),
		Memory:      e.Memory.Join(o.Memory),
		Lifetimes:   e.Lifetimes.Join(o.Lifetimes),
		Width:       e.Width,
		Signed:      e.Signed,
	}
}

func (e Environment) Leq(o Environment) bool {
	if e.NormalBottom {
		return true
	}
	if o.NormalBottom {
		return false
	}
	return e.Scalars.Leq(o.Scalars) && e.Congruences.Leq(o.Congruences) && e.Relational.Leq(o.Relational) &&
		e.Uninits.Leq(o.Uninits) &&
		e.Nulls.Leq(o.Nulls) && e.Pointers.Leq(o.Pointers) && e.Memory.Leq(o.Memory) &&
		e.Lifetimes.Leq(o.Lifetimes)
}

func (e Environment) Widen(o Environment) Environment {
	if e.NormalBottom {
		return o
	}
	if o.NormalBottom {
		return e
	}
	return Environment{
		Caught:      e.Caught || o.Caught,
		Scalars:     e.Scalars.Widen(o.Scalars),
		Congruences: e.Congruences.Widen(o.Congruences),
		Relational:  e.Relational.Widen(o.Relational),
		Uninits:     e.Uninits.Widen(o.Uninits),
		Nulls:       e.Nulls.Widen(o.Nulls),
		Pointers:    e.Pointers.Widen(o.Pointers),
		Memory:      e.Memory.Widen(o.Memory),
		Lifetimes:   e.Lifetimes.Widen(o.Lifetimes),
		Width:       e.Width,
		Signed:      e.Signed,
	}
}

func (e Environment) Narrow(o Environment) Environment {
	if e.NormalBottom || o.NormalBottom {
		return e
	}
	return Environment{
		Caught:      e.Caught && o.Caught,
		Scalars:     e.Scalars.Narrow(o.Scalars),
		Congruences: e.Congruences.Narrow(o.Congruences),
		Relational:  e.Relational.Narrow(o.Relational),
		Uninits:     e.Uninits.Narrow(o.Uninits),
		Nulls:       e.Nulls.Narrow(o.Nulls),
		Pointers:    e.Pointers.Narrow(o.Pointers),
		Memory:      e.Memory.Narrow(o.Memory),
		Lifetimes:   e.Lifetimes.Narrow(o.Lifetimes),
		Width:       e.Width,
		Signed:      e.Signed,
	}
}
