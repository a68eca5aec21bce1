// Package number implements the unlimited-precision and
// machine-integer arithmetic kernel of spec.md §4.1 (L1).
package number

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// ArithError is raised for undefined arithmetic (division by zero,
// Bound +∞ + −∞). It is a programmer bug signal per spec.md §7 and is
// never meant to reach a checker result.
type ArithError struct {
	Op string
}

func (e *ArithError) Error() string { return fmt.Sprintf("arithmetic error: %s", e.Op) }

// Int is an unbounded integer (spec.md §3).
type Int struct{ v big.Int }

func NewInt(x int64) Int { var i Int; i.v.SetInt64(x); return i }

func (a Int) Add(b Int) Int { var r Int; r.v.Add(&a.v, &b.v); return r }
func (a Int) Sub(b Int) Int { var r Int; r.v.Sub(&a.v, &b.v); return r }
func (a Int) Mul(b Int) Int { var r Int; r.v.Mul(&a.v, &b.v); return r }

func (a Int) Div(b Int) (Int, error) {
	if b.v.Sign() == 0 {
		return Int{}, errors.WithStack(&ArithError{Op: "div-by-zero"})
	}
	var r Int
	r.v.Quo(&a.v, &b.v)
	return r, nil
}

func (a Int) Cmp(b Int) int { return a.v.Cmp(&b.v) }
func (a Int) Neg() Int      { var r Int; r.v.Neg(&a.v); return r }
func (a Int) Sign() int     { return a.v.Sign() }
func (a Int) String() string { return a.v.String() }
func (a Int) Int64() int64  { return a.v.Int64() }

func (a Int) Big() *big.Int { return new(big.Int).Set(&a.v) }

// Rat is an unbounded rational (spec.md §3).
type Rat struct{ v big.Rat }

func NewRat(num, den int64) Rat { var r Rat; r.v.SetFrac64(num, den); return r }

func (a Rat) Add(b Rat) Rat { var r Rat; r.v.Add(&a.v, &b.v); return r }
func (a Rat) Sub(b Rat) Rat { var r Rat; r.v.Sub(&a.v, &b.v); return r }
func (a Rat) Mul(b Rat) Rat { var r Rat; r.v.Mul(&a.v, &b.v); return r }

func (a Rat) Div(b Rat) (Rat, error) {
	if b.v.Sign() == 0 {
		return Rat{}, errors.WithStack(&ArithError{Op: "div-by-zero"})
	}
	var r Rat
	r.v.Quo(&a.v, &b.v)
	return r, nil
}

func (a Rat) Cmp(b Rat) int   { return a.v.Cmp(&b.v) }
func (a Rat) String() string  { return a.v.RatString() }
