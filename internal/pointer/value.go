// Package pointer implements the points-to fixpoint of spec.md §4.8
// (L5): a constraint solver over {assign addr, assign var+offset, load,
// store} producing a PointerAbsValue per variable and memory location.
package pointer

import (
	"arstatic/internal/domain"
	"arstatic/internal/number"
)

// PointsTo is the points-to-set domain: a discrete set of memory
// location ids, or ⊤ meaning "any address" (spec.md §3).
type PointsTo = domain.DiscreteSet[uint64]

// PointerAbsValue is the tuple (uninit, nullity, points-to,
// offset-interval) of spec.md §3, with the reduction rules: uninit
// implies the rest are ⊥; null implies points-to is ⊥ (a null pointer
// points nowhere).
type PointerAbsValue struct {
	Uninit   domain.Uninit
	Null     domain.Nullity
	PointsTo PointsTo
	Offset   domain.Interval
}

// NewPointerAbsValue builds a value and applies the reduction.
func NewPointerAbsValue(u domain.Uninit, n domain.Nullity, pt PointsTo, off domain.Interval) PointerAbsValue {
	return reduce(PointerAbsValue{Uninit: u, Null: n, PointsTo: pt, Offset: off})
}

func reduce(v PointerAbsValue) PointerAbsValue {
	if v.Uninit.IsUninitialized() {
		return PointerAbsValue{
			Uninit:   v.Uninit,
			Null:     domain.BottomNullity(),
			PointsTo: domain.EmptyDiscreteSet[uint64](),
			Offset:   domain.BottomInterval(v.Offset.Width, v.Offset.Signed),
		}
	}
	if v.Null.IsNull() {
		v.PointsTo = domain.EmptyDiscreteSet[uint64]()
		v.Offset = domain.BottomInterval(v.Offset.Width, v.Offset.Signed)
	}
	return v
}

func TopPointerAbsValue(width uint, signed bool) PointerAbsValue {
	return PointerAbsValue{
		Uninit:   domain.TopUninit(),
		Null:     domain.TopNullity(),
		PointsTo: domain.TopDiscreteSet[uint64](),
		Offset:   domain.TopInterval(width, signed),
	}
}

func BottomPointerAbsValue(width uint, signed bool) PointerAbsValue {
	return PointerAbsValue{
		Uninit:   domain.BottomUninit(),
		Null:     domain.BottomNullity(),
		PointsTo: domain.EmptyDiscreteSet[uint64](),
		Offset:   domain.BottomInterval(width, signed),
	}
}

func AddressOf(loc uint64, offset number.MachineInt) PointerAbsValue {
	return NewPointerAbsValue(
		domain.InitializedValue(),
		domain.NonNullNullity(),
		domain.SingletonDiscreteSet(loc),
		domain.NewInterval(number.FiniteBound(offset), number.FiniteBound(offset), offset.Width, offset.Signed),
	)
}

func (v PointerAbsValue) IsBottom() bool {
	return v.Uninit.IsBottom() || v.Null.IsBottom() || v.PointsTo.IsBottom() || v.Offset.IsBottom()
}

func (v PointerAbsValue) IsTop() bool {
	return v.Uninit.IsTop() && v.Null.IsTop() && v.PointsTo.IsTop() && v.Offset.IsTop()
}

func (v PointerAbsValue) Leq(o PointerAbsValue) bool {
	return v.Uninit.Leq(o.Uninit) && v.Null.Leq(o.Null) && v.PointsTo.Leq(o.PointsTo) && v.Offset.Leq(o.Offset)
}

func (v PointerAbsValue) Join(o PointerAbsValue) PointerAbsValue {
	return reduce(PointerAbsValue{
		Uninit:   v.Uninit.Join(o.Uninit),
		Null:     v.Null.Join(o.Null),
		PointsTo: v.PointsTo.Join(o.PointsTo),
		Offset:   v.Offset.Join(o.Offset),
	})
}

func (v PointerAbsValue) Meet(o PointerAbsValue) PointerAbsValue {
	return reduce(PointerAbsValue{
		Uninit:   v.Uninit.Meet(o.Uninit),
		Null:     v.Null.Meet(o.Null),
		PointsTo: v.PointsTo.Meet(o.PointsTo),
		Offset:   v.Offset.Meet(o.Offset),
	})
}

// Widen only grows points-to and widens the offset interval, never
// shrinking either (Testable Property 7: the solver's fixpoint is
// monotonically increasing).
func (v PointerAbsValue) Widen(o PointerAbsValue) PointerAbsValue {
	return reduce(PointerAbsValue{
		Uninit:   v.Uninit.Widen(o.Uninit),
		Null:     v.Null.Widen(o.Null),
		PointsTo: v.PointsTo.Join(o.PointsTo),
		Offset:   v.Offset.Widen(o.Offset),
	})
}

func (v PointerAbsValue) Narrow(o PointerAbsValue) PointerAbsValue {
	return reduce(PointerAbsValue{
		Uninit:   v.Uninit.Narrow(o.Uninit),
		Null:     v.Null.Narrow(o.Null),
		PointsTo: v.PointsTo.Meet(o.PointsTo),
		Offset:   v.Offset.Narrow(o.Offset),
	})
}
