package domain

import (
	"fmt"
	"math/big"
)

// Congruence is (modulus a, residue b), canonical 0 <= b < a when
// a > 0; a == 0 denotes the singleton {b} (spec.md §4.3).
type Congruence struct {
	bottom bool
	A, B   big.Int
}

func BottomCongruence() Congruence { return Congruence{bottom: true} }

func TopCongruence() Congruence { return Congruence{A: *big.NewInt(1)} }

func SingletonCongruence(b int64) Congruence {
	return Congruence{A: *big.NewInt(0), B: *big.NewInt(b)}
}

func NewCongruence(a, b int64) Congruence {
	c := Congruence{A: *big.NewInt(a), B: *big.NewInt(b)}
	return c.canonicalize()
}

func (c Congruence) canonicalize() Congruence {
	if c.A.Sign() < 0 {
		c.A.Neg(&c.A)
	}
	if c.A.Sign() > 0 {
		c.B.Mod(&c.B, &c.A)
	}
	return c
}

func (c Congruence) IsBottom() bool { return c.bottom }
func (c Congruence) IsTop() bool    { return !c.bottom && c.A.Cmp(big.NewInt(1)) == 0 }

func (c Congruence) String() string {
	if c.bottom {
		return "_|_"
	}
	if c.A.Sign() == 0 {
		return fmt.Sprintf("{%s}", c.B.String())
	}
	return fmt.Sprintf("%sZ+%s", c.A.String(), c.B.String())
}

// Leq: a2 | a1 and b1 ≡ b2 (mod a2).
func (c Congruence) Leq(o Congruence) bool {
	if c.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	if o.A.Sign() == 0 {
		return c.A.Sign() == 0 && c.B.Cmp(&o.B) == 0
	}
	if c.A.Sign() == 0 {
		var m big.Int
		m.Mod(&c.B, &o.A)
		return m.Cmp(new(big.Int).Mod(&o.B, &o.A)) == 0
	}
	var mod big.Int
	mod.Mod(&c.A, &o.A)
	if mod.Sign() != 0 {
		return false
	}
	var diff big.Int
	diff.Mod(new(big.Int).Sub(&c.B, &o.B), &o.A)
	return diff.Sign() == 0
}

// Join = gcd(a1, a2, |b1-b2|) with residue min(b1, b2) (spec.md §4.3).
func (c Congruence) Join(o Congruence) Congruence {
	if c.bottom {
		return o
	}
	if o.bottom {
		return c
	}
	diff := new(big.Int).Sub(&c.B, &o.B)
	diff.Abs(diff)
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(&c.A), new(big.Int).Abs(&o.A))
	g.GCD(nil, nil, g, diff)
	residue := &c.B
	if o.B.Cmp(&c.B) < 0 {
		residue = &o.B
	}
	return Congruence{A: *g, B: *residue}.canonicalize()
}

// Meet solves simultaneous congruences via the extended Euclidean
// algorithm; ⊥ if inconsistent (spec.md §4.3).
func (c Congruence) Meet(o Congruence) Congruence {
	if c.bottom || o.bottom {
		return BottomCongruence()
	}
	if c.A.Sign() == 0 && o.A.Sign() == 0 {
		if c.B.Cmp(&o.B) == 0 {
			return c
		}
		return BottomCongruence()
	}
	if c.A.Sign() == 0 {
		if c.Leq(o) {
			return c
		}
		return BottomCongruence()
	}
	if o.A.Sign() == 0 {
		if o.Leq(c) {
			return o
		}
		return BottomCongruence()
	}
	// CRT: x ≡ b1 (mod a1), x ≡ b2 (mod a2).
	var g, p, q big.Int
	g.GCD(&p, &q, &c.A, &o.A)
	diff := new(big.Int).Sub(&o.B, &c.B)
	mod := new(big.Int).Mod(diff, &g)
	if mod.Sign() != 0 {
		return BottomCongruence()
	}
	lcm := new(big.Int).Div(new(big.Int).Mul(&c.A, &o.A), &g)
	t := new(big.Int).Div(diff, &g)
	t.Mul(t, &p)
	t.Mod(t, new(big.Int).Div(&o.A, &g))
	x := new(big.Int).Add(&c.B, new(big.Int).Mul(t, &c.A))
	return NewCongruence(lcm.Int64(), x.Mod(x, lcm).Int64())
}

// Congruences have no infinite ascending chains once a != 0 is fixed
// to a finite set of moduli dividing the initial ones, so join is used
// directly as widening (standard for this domain).
func (c Congruence) Widen(o Congruence) Congruence { return c.Join(o) }
func (c Congruence) Narrow(o Congruence) Congruence { return c.Meet(o) }

func (c Congruence) Add(o Congruence) Congruence {
	if c.bottom || o.bottom {
		return BottomCongruence()
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(&c.A), new(big.Int).Abs(&o.A))
	return NewCongruence(g.Int64(), new(big.Int).Add(&c.B, &o.B).Int64())
}

func (c Congruence) Neg() Congruence {
	if c.bottom {
		return c
	}
	return NewCongruence(c.A.Int64(), new(big.Int).Neg(&c.B).Int64())
}

func (c Congruence) Sub(o Congruence) Congruence { return c.Add(o.Neg()) }

func (c Congruence) Mul(o Congruence) Congruence {
	if c.bottom || o.bottom {
		return BottomCongruence()
	}
	if c.A.Sign() == 0 && o.A.Sign() == 0 {
		return SingletonCongruence(new(big.Int).Mul(&c.B, &o.B).Int64())
	}
	// a1*a2, a1*b2, a2*b1 generate the new modulus (standard
	// congruence multiplication).
	a1a2 := new(big.Int).Mul(&c.A, &o.A)
	a1b2 := new(big.Int).Mul(&c.A, &o.B)
	a2b1 := new(big.Int).Mul(&o.A, &c.B)
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a1a2), new(big.Int).Abs(a1b2))
	g.GCD(nil, nil, g, new(big.Int).Abs(a2b1))
	b := new(big.Int).Mul(&c.B, &o.B)
	if g.Sign() == 0 {
		return SingletonCongruence(b.Int64())
	}
	return NewCongruence(g.Int64(), b.Int64())
}
