package number

import "github.com/pkg/errors"

// Sign classifies a Bound as finite or one of the two infinities
// (spec.md §3: Bound<N> = number ∪ {+∞, −∞}).
type sign int

const (
	finite sign = iota
	plusInf
	minusInf
)

// Bound wraps a MachineInt with ±∞. Arithmetic is total except
// (+∞)+(−∞), which is an ArithError (spec.md §4.1).
type Bound struct {
	s sign
	v MachineInt
}

func FiniteBound(v MachineInt) Bound { return Bound{s: finite, v: v} }

func PlusInfinity() Bound  { return Bound{s: plusInf} }
func MinusInfinity() Bound { return Bound{s: minusInf} }

func (b Bound) IsFinite() bool      { return b.s == finite }
func (b Bound) IsPlusInfinity() bool  { return b.s == plusInf }
func (b Bound) IsMinusInfinity() bool { return b.s == minusInf }
func (b Bound) Value() MachineInt   { return b.v }

func (b Bound) String() string {
	switch b.s {
	case plusInf:
		return "+oo"
	case minusInf:
		return "-oo"
	default:
		return b.v.String()
	}
}

// Add is total except (+∞)+(−∞).
func (a Bound) Add(b Bound) (Bound, error) {
	if (a.s == plusInf && b.s == minusInf) || (a.s == minusInf && b.s == plusInf) {
		return Bound{}, errors.WithStack(&ArithError{Op: "+inf + -inf"})
	}
	if a.s == plusInf || b.s == plusInf {
		return PlusInfinity(), nil
	}
	if a.s == minusInf || b.s == minusInf {
		return MinusInfinity(), nil
	}
	v, err := a.v.Add(b.v)
	if err != nil {
		return Bound{}, err
	}
	return FiniteBound(v), nil
}

// Neg flips sign; infinities flip too.
func (a Bound) Neg() Bound {
	switch a.s {
	case plusInf:
		return MinusInfinity()
	case minusInf:
		return PlusInfinity()
	default:
		return FiniteBound(a.v.negateWrapped())
	}
}

// negateWrapped negates a MachineInt modulo its width (helper kept
// unexported: only Bound.Neg needs "negate ignoring overflow checks").
func (a MachineInt) negateWrapped() MachineInt {
	zero := MachineIntFromInt64(0, a.Width, a.Signed)
	r, _ := zero.Sub(a)
	return r
}

// Sub is Add of the negation.
func (a Bound) Sub(b Bound) (Bound, error) { return a.Add(b.Neg()) }

// Cmp orders −∞ < finite < +∞; two infinities of the same kind are
// equal.
func (a Bound) Cmp(b Bound) int {
	rank := func(s sign) int {
		switch s {
		case minusInf:
			return -1
		case plusInf:
			return 1
		default:
			return 0
		}
	}
	ra, rb := rank(a.s), rank(b.s)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if ra != 0 {
		return 0
	}
	c, _ := a.v.Cmp(b.v)
	return c
}

func (a Bound) Leq(b Bound) bool { return a.Cmp(b) <= 0 }
func (a Bound) Equal(b Bound) bool { return a.Cmp(b) == 0 }

func Min(a, b Bound) Bound {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b Bound) Bound {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Shl/Shr require a non-negative right operand (spec.md §4.1); callers
// pass the shift amount as a plain uint, so this is only relevant to
// the MachineInt-typed operand a caller might derive it from.
func (a Bound) Shl(bits uint) Bound {
	switch a.s {
	case finite:
		return FiniteBound(a.v.Shl(bits))
	default:
		return a
	}
}

func (a Bound) Shr(bits uint) Bound {
	switch a.s {
	case finite:
		return FiniteBound(a.v.LShr(bits))
	default:
		return a
	}
}

func (a Bound) Abs() Bound {
	switch a.s {
	case minusInf:
		return PlusInfinity()
	case plusInf:
		return PlusInfinity()
	default:
		sv := a.v.signedValue()
		if sv.Sign() < 0 {
			return FiniteBound(a.v.negateWrapped())
		}
		return a
	}
}
