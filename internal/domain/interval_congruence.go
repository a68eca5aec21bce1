package domain

import (
	"math/big"

	"arstatic/internal/number"
)

// IntervalCongruence is the reduced product of Interval and Congruence
// (spec.md §3/§4.4): canonicalized so both endpoints lie on a
// congruence lattice point.
type IntervalCongruence struct {
	I Interval
	C Congruence
}

func NewIntervalCongruence(i Interval, c Congruence) IntervalCongruence {
	return IntervalCongruence{I: i, C: c}.reduce()
}

func (ic IntervalCongruence) IsBottom() bool { return ic.I.IsBottom() || ic.C.IsBottom() }
func (ic IntervalCongruence) IsTop() bool    { return ic.I.IsTop() && ic.C.IsTop() }

// reduce snaps the interval endpoints inward to the nearest congruence
// representative (spec.md §4.4); if lb' > ub' the value is ⊥
// (Testable Property 5).
func (ic IntervalCongruence) reduce() IntervalCongruence {
	if ic.I.IsBottom() || ic.C.IsBottom() {
		return IntervalCongruence{I: BottomInterval(ic.I.Width, ic.I.Signed), C: BottomCongruence()}
	}
	if ic.C.A.Sign() == 0 {
		v := number.MachineIntFromBig(&ic.C.B, ic.I.Width, ic.I.Signed)
		s := SingletonInterval(v)
		return IntervalCongruence{I: ic.I.Meet(s), C: ic.C}
	}
	lo := snapUp(ic.I.Lo, ic.C, ic.I.Width, ic.I.Signed)
	hi := snapDown(ic.I.Hi, ic.C, ic.I.Width, ic.I.Signed)
	newI := NewInterval(lo, hi, ic.I.Width, ic.I.Signed)
	return IntervalCongruence{I: newI, C: ic.C}
}

// modDiff computes ((x - b) mod a), normalized to [0, a).
func modDiff(x, b, a *big.Int) *big.Int {
	r := new(big.Int).Sub(x, b)
	r.Mod(r, a)
	return r
}

// snapUp finds the least x >= lb with x ≡ b (mod a).
func snapUp(bound number.Bound, c Congruence, width uint, signed bool) number.Bound {
	if !bound.IsFinite() {
		return bound
	}
	lb := bound.Value().Big()
	rem := modDiff(lb, &c.B, &c.A)
	if rem.Sign() == 0 {
		return bound
	}
	delta := new(big.Int).Sub(&c.A, rem)
	return number.FiniteBound(number.MachineIntFromBig(new(big.Int).Add(lb, delta), width, signed))
}

// snapDown finds the greatest x <= ub with x ≡ b (mod a).
func snapDown(bound number.Bound, c Congruence, width uint, signed bool) number.Bound {
	if !bound.IsFinite() {
		return bound
	}
	ub := bound.Value().Big()
	rem := modDiff(ub, &c.B, &c.A)
	if rem.Sign() == 0 {
		return bound
	}
	return number.FiniteBound(number.MachineIntFromBig(new(big.Int).Sub(ub, rem), width, signed))
}

func (ic IntervalCongruence) Leq(o IntervalCongruence) bool {
	if ic.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	return ic.I.Leq(o.I) && ic.C.Leq(o.C)
}

func (ic IntervalCongruence) Join(o IntervalCongruence) IntervalCongruence {
	if ic.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return ic
	}
	return NewIntervalCongruence(ic.I.Join(o.I), ic.C.Join(o.C))
}

func (ic IntervalCongruence) Meet(o IntervalCongruence) IntervalCongruence {
	return NewIntervalCongruence(ic.I.Meet(o.I), ic.C.Meet(o.C))
}

func (ic IntervalCongruence) Widen(o IntervalCongruence) IntervalCongruence {
	return NewIntervalCongruence(ic.I.Widen(o.I), ic.C.Widen(o.C))
}

func (ic IntervalCongruence) Narrow(o IntervalCongruence) IntervalCongruence {
	return NewIntervalCongruence(ic.I.Narrow(o.I), ic.C.Narrow(o.C))
}

func (ic IntervalCongruence) Interval_() Interval { return ic.I }
