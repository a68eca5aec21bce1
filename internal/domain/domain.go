// Package domain implements the lattice-structured abstract domains of
// spec.md §3/§4.2–§4.4 (L2): every domain forms a lattice with bottom,
// top, join, meet, widening and narrowing (spec.md §8 Testable
// Property 1).
package domain

// AbstractDomain is the contract every lattice value type below
// implements. T is the concrete value type itself (F-bounded), so
// Join/Meet/Widen/Narrow compose without boxing.
type AbstractDomain[T any] interface {
	IsBottom() bool
	IsTop() bool
	Leq(other T) bool
	Join(other T) T
	Meet(other T) T
	Widen(other T) T
	Narrow(other T) T
}
