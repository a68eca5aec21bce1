package domain

import (
	"fmt"

	"arstatic/internal/number"
)

// Interval is [Bound<N>, Bound<N>] or ⊥ (spec.md §3/§4.2). ⊤ is
// represented as [−∞, +∞]; width/signed pin the MachineInt shape for
// finite endpoints.
type Interval struct {
	bottom bool
	Lo, Hi number.Bound
	Width  uint
	Signed bool
}

func BottomInterval(width uint, signed bool) Interval {
	return Interval{bottom: true, Width: width, Signed: signed}
}

func TopInterval(width uint, signed bool) Interval {
	return Interval{Lo: number.MinusInfinity(), Hi: number.PlusInfinity(), Width: width, Signed: signed}
}

func SingletonInterval(v number.MachineInt) Interval {
	b := number.FiniteBound(v)
	return Interval{Lo: b, Hi: b, Width: v.Width, Signed: v.Signed}
}

func NewInterval(lo, hi number.Bound, width uint, signed bool) Interval {
	iv := Interval{Lo: lo, Hi: hi, Width: width, Signed: signed}
	if lo.Cmp(hi) > 0 {
		return BottomInterval(width, signed)
	}
	return iv
}

func (i Interval) IsBottom() bool { return i.bottom }

func (i Interval) IsTop() bool {
	return !i.bottom && i.Lo.IsMinusInfinity() && i.Hi.IsPlusInfinity()
}

func (i Interval) String() string {
	if i.bottom {
		return "_|_"
	}
	return fmt.Sprintf("[%s, %s]", i.Lo, i.Hi)
}

func (i Interval) Leq(o Interval) bool {
	if i.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	return o.Lo.Leq(i.Lo) && i.Hi.Leq(o.Hi)
}

func (i Interval) Join(o Interval) Interval {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	return Interval{Lo: number.Min(i.Lo, o.Lo), Hi: number.Max(i.Hi, o.Hi), Width: i.Width, Signed: i.Signed}
}

func (i Interval) Meet(o Interval) Interval {
	if i.bottom || o.bottom {
		return BottomInterval(i.Width, i.Signed)
	}
	lo := number.Max(i.Lo, o.Lo)
	hi := number.Min(i.Hi, o.Hi)
	return NewInterval(lo, hi, i.Width, i.Signed)
}

// Widen keeps finite endpoints that stay equal and pushes the others
// to ∓∞ (spec.md §4.2).
func (i Interval) Widen(o Interval) Interval {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	lo := i.Lo
	if !o.Lo.Leq(i.Lo) || !i.Lo.Leq(o.Lo) {
		lo = number.MinusInfinity()
	}
	hi := i.Hi
	if !i.Hi.Leq(o.Hi) || !o.Hi.Leq(i.Hi) {
		hi = number.PlusInfinity()
	}
	return Interval{Lo: lo, Hi: hi, Width: i.Width, Signed: i.Signed}
}

// WidenThreshold keeps endpoints within the threshold set finite,
// otherwise pushes to infinity (spec.md §4.2, §6.2 widening_hints).
func (i Interval) WidenThreshold(o Interval, thresholds []number.MachineInt) Interval {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	lo := i.Lo
	if i.Lo.Cmp(o.Lo) > 0 {
		lo = bestLowerThreshold(o.Lo, thresholds, i.Width, i.Signed)
	}
	hi := i.Hi
	if i.Hi.Cmp(o.Hi) < 0 {
		hi = bestUpperThreshold(o.Hi, thresholds, i.Width, i.Signed)
	}
	return Interval{Lo: lo, Hi: hi, Width: i.Width, Signed: i.Signed}
}

func bestLowerThreshold(need number.Bound, thresholds []number.MachineInt, width uint, signed bool) number.Bound {
	best := number.MinusInfinity()
	for _, t := range thresholds {
		tb := number.FiniteBound(t)
		if tb.Leq(need) && best.Cmp(tb) < 0 {
			best = tb
		}
	}
	return best
}

func bestUpperThreshold(need number.Bound, thresholds []number.MachineInt, width uint, signed bool) number.Bound {
	best := number.PlusInfinity()
	for _, t := range thresholds {
		tb := number.FiniteBound(t)
		if need.Leq(tb) && tb.Cmp(best) < 0 {
			best = tb
		}
	}
	return best
}

// Narrow replaces a ∓∞ endpoint with the other side's finite endpoint
// (spec.md §4.2).
func (i Interval) Narrow(o Interval) Interval {
	if i.bottom || o.bottom {
		return BottomInterval(i.Width, i.Signed)
	}
	lo := i.Lo
	if i.Lo.IsMinusInfinity() && o.Lo.IsFinite() {
		lo = o.Lo
	}
	hi := i.Hi
	if i.Hi.IsPlusInfinity() && o.Hi.IsFinite() {
		hi = o.Hi
	}
	return NewInterval(lo, hi, i.Width, i.Signed)
}

// TrimBound shrinks the interval by one ulp at whichever endpoint
// equals n (spec.md §4.2, Testable Property 4 idempotence).
func (i Interval) TrimBound(n number.MachineInt) Interval {
	if i.bottom {
		return i
	}
	nb := number.FiniteBound(n)
	lo, hi := i.Lo, i.Hi
	if i.Lo.IsFinite() && i.Lo.Equal(nb) {
		one := number.MachineIntFromInt64(1, i.Width, i.Signed)
		v, err := n.Add(one)
		if err == nil {
			lo = number.FiniteBound(v)
		}
	}
	if i.Hi.IsFinite() && i.Hi.Equal(nb) {
		one := number.MachineIntFromInt64(1, i.Width, i.Signed)
		v, err := n.Sub(one)
		if err == nil {
			hi = number.FiniteBound(v)
		}
	}
	return NewInterval(lo, hi, i.Width, i.Signed)
}

func (i Interval) Singleton() (number.MachineInt, bool) {
	if i.bottom || !i.Lo.IsFinite() || !i.Hi.IsFinite() || !i.Lo.Equal(i.Hi) {
		return number.MachineInt{}, false
	}
	return i.Lo.Value(), true
}

// straddlesZero reports whether [lo,hi] contains zero; a ⊥ or
// unbounded interval also reports true.
func (i Interval) straddlesZero() bool {
	if i.bottom || !i.Lo.IsFinite() || !i.Hi.IsFinite() {
		return true
	}
	zero := number.FiniteBound(number.MachineIntFromInt64(0, i.Width, i.Signed))
	return i.Lo.Cmp(zero) <= 0 && i.Hi.Cmp(zero) >= 0
}

// Add/Sub/Mul/... implement the elementwise arithmetic of spec.md
// §4.2, widening to ⊤ when machine-int wraparound makes a single
// interval unsound.
func (i Interval) Add(o Interval) Interval {
	if i.bottom || o.bottom {
		return BottomInterval(i.Width, i.Signed)
	}
	lo, err1 := i.Lo.Add(o.Lo)
	hi, err2 := i.Hi.Add(o.Hi)
	if err1 != nil || err2 != nil {
		return TopInterval(i.Width, i.Signed)
	}
	return NewInterval(lo, hi, i.Width, i.Signed)
}

func (i Interval) Sub(o Interval) Interval {
	if i.bottom || o.bottom {
		return BottomInterval(i.Width, i.Signed)
	}
	lo, err1 := i.Lo.Sub(o.Hi)
	hi, err2 := i.Hi.Sub(o.Lo)
	if err1 != nil || err2 != nil {
		return TopInterval(i.Width, i.Signed)
	}
	return NewInterval(lo, hi, i.Width, i.Signed)
}

// Mul conservatively degrades to ⊤ whenever either operand could wrap
// the sign boundary (spec.md §4.2).
func (i Interval) Mul(o Interval) Interval {
	if i.bottom || o.bottom {
		return BottomInterval(i.Width, i.Signed)
	}
	if i.Width > 16 && (!boundedSmall(i) || !boundedSmall(o)) {
		// Wide machine ints: only fold genuinely small/finite ranges;
		// anything else risks silent wraparound misrepresentation.
		return TopInterval(i.Width, i.Signed)
	}
	candidates := []number.Bound{}
	corners := [][2]number.Bound{{i.Lo, o.Lo}, {i.Lo, o.Hi}, {i.Hi, o.Lo}, {i.Hi, o.Hi}}
	for _, c := range corners {
		if !c[0].IsFinite() || !c[1].IsFinite() {
			return TopInterval(i.Width, i.Signed)
		}
		v, err := c[0].Value().Mul(c[1].Value())
		if err != nil {
			return TopInterval(i.Width, i.Signed)
		}
		candidates = append(candidates, number.FiniteBound(v))
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		lo = number.Min(lo, c)
		hi = number.Max(hi, c)
	}
	return NewInterval(lo, hi, i.Width, i.Signed)
}

func boundedSmall(i Interval) bool {
	return i.Lo.IsFinite() && i.Hi.IsFinite()
}

// RefinePredicate implements the §4.2 endpoint-arithmetic predicate
// refinement for `<, <=, =, !=, >, >=` between two interval-valued
// variables, returning the refined (left, right) pair.
func RefinePredicate(pred string, l, r Interval) (Interval, Interval) {
	if l.IsBottom() || r.IsBottom() {
		return BottomInterval(l.Width, l.Signed), BottomInterval(r.Width, r.Signed)
	}
	switch pred {
	case "lt":
		nl := NewInterval(l.Lo, minusOne(r.Hi, l), l.Width, l.Signed)
		nr := NewInterval(plusOne(l.Lo, r), r.Hi, r.Width, r.Signed)
		return l.Meet(nl), r.Meet(nr)
	case "le":
		nl := NewInterval(l.Lo, r.Hi, l.Width, l.Signed)
		nr := NewInterval(l.Lo, r.Hi, r.Width, r.Signed)
		return l.Meet(nl), r.Meet(nr)
	case "gt":
		nl, nr := RefinePredicate("lt", r, l)
		return nr, nl
	case "ge":
		nl, nr := RefinePredicate("le", r, l)
		return nr, nl
	case "eq":
		m := l.Meet(r)
		return m, m
	case "ne":
		nl, nr := l, r
		if lv, ok := r.Singleton(); ok {
			nl = l.TrimBound(lv)
		}
		if rv, ok := l.Singleton(); ok {
			nr = r.TrimBound(rv)
		}
		return nl, nr
	default:
		return l, r
	}
}

func plusOne(b number.Bound, ref Interval) number.Bound {
	if !b.IsFinite() {
		return b
	}
	one := number.MachineIntFromInt64(1, ref.Width, ref.Signed)
	v, err := b.Value().Add(one)
	if err != nil {
		return b
	}
	return number.FiniteBound(v)
}

func minusOne(b number.Bound, ref Interval) number.Bound {
	if !b.IsFinite() {
		return b
	}
	one := number.MachineIntFromInt64(1, ref.Width, ref.Signed)
	v, err := b.Value().Sub(one)
	if err != nil {
		return b
	}
	return number.FiniteBound(v)
}
