package number

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// MachineInt is (value, bit-width, signedness) per spec.md §3. All
// binary operations require matching width and signedness; overflow
// wraps modulo 2^bit-width (spec.md §4.1).
type MachineInt struct {
	v      big.Int // canonical representative in [0, 2^Width)
	Width  uint
	Signed bool
}

func modulus(width uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), width)
}

func wrap(v *big.Int, width uint) big.Int {
	m := modulus(width)
	var r big.Int
	r.Mod(v, m)
	if r.Sign() < 0 {
		r.Add(&r, m)
	}
	return r
}

// MachineIntFromInt64 builds a MachineInt, wrapping the given value
// modulo 2^width.
func MachineIntFromInt64(x int64, width uint, signed bool) MachineInt {
	return MachineInt{v: wrap(big.NewInt(x), width), Width: width, Signed: signed}
}

func MachineIntFromBig(x *big.Int, width uint, signed bool) MachineInt {
	return MachineInt{v: wrap(x, width), Width: width, Signed: signed}
}

// checkCompat enforces spec.md §4.1's matching-width/signedness
// requirement on binary operators.
func checkCompat(a, b MachineInt) error {
	if a.Width != b.Width || a.Signed != b.Signed {
		return errors.Errorf("machine int mismatch: %dx%v vs %dx%v", a.Width, a.Signed, b.Width, b.Signed)
	}
	return nil
}

// signedValue returns the two's-complement signed interpretation.
func (m MachineInt) signedValue() *big.Int {
	if !m.Signed {
		return new(big.Int).Set(&m.v)
	}
	half := new(big.Int).Lsh(big.NewInt(1), m.Width-1)
	if m.v.Cmp(half) >= 0 {
		return new(big.Int).Sub(&m.v, modulus(m.Width))
	}
	return new(big.Int).Set(&m.v)
}

func (m MachineInt) String() string {
	sign := "u"
	if m.Signed {
		sign = "s"
	}
	return fmt.Sprintf("%s(%di%d)", m.signedValue().String(), m.Width, sign)
}

func (m MachineInt) Big() *big.Int { return new(big.Int).Set(&m.v) }

func binOp(a, b MachineInt, f func(z, x, y *big.Int) *big.Int) (MachineInt, error) {
	if err := checkCompat(a, b); err != nil {
		return MachineInt{}, err
	}
	var z big.Int
	f(&z, &a.v, &b.v)
	return MachineIntFromBig(&z, a.Width, a.Signed), nil
}

func (a MachineInt) Add(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.Add(x, y) })
}

func (a MachineInt) Sub(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.Sub(x, y) })
}

func (a MachineInt) Mul(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.Mul(x, y) })
}

// DivSigned / DivUnsigned / RemSigned / RemUnsigned fail with
// ArithError on division by zero (spec.md §4.1).
func (a MachineInt) DivUnsigned(b MachineInt) (MachineInt, error) {
	if err := checkCompat(a, b); err != nil {
		return MachineInt{}, err
	}
	if b.v.Sign() == 0 {
		return MachineInt{}, errors.WithStack(&ArithError{Op: "udiv-by-zero"})
	}
	var z big.Int
	z.Div(&a.v, &b.v)
	return MachineIntFromBig(&z, a.Width, a.Signed), nil
}

func (a MachineInt) RemUnsigned(b MachineInt) (MachineInt, error) {
	if err := checkCompat(a, b); err != nil {
		return MachineInt{}, err
	}
	if b.v.Sign() == 0 {
		return MachineInt{}, errors.WithStack(&ArithError{Op: "urem-by-zero"})
	}
	var z big.Int
	z.Mod(&a.v, &b.v)
	return MachineIntFromBig(&z, a.Width, a.Signed), nil
}

func (a MachineInt) DivSigned(b MachineInt) (MachineInt, error) {
	if err := checkCompat(a, b); err != nil {
		return MachineInt{}, err
	}
	bs := b.signedValue()
	if bs.Sign() == 0 {
		return MachineInt{}, errors.WithStack(&ArithError{Op: "sdiv-by-zero"})
	}
	as := a.signedValue()
	var z big.Int
	z.Quo(as, bs)
	return MachineIntFromBig(&z, a.Width, a.Signed), nil
}

func (a MachineInt) RemSigned(b MachineInt) (MachineInt, error) {
	if err := checkCompat(a, b); err != nil {
		return MachineInt{}, err
	}
	bs := b.signedValue()
	if bs.Sign() == 0 {
		return MachineInt{}, errors.WithStack(&ArithError{Op: "srem-by-zero"})
	}
	as := a.signedValue()
	var z big.Int
	z.Rem(as, bs)
	return MachineIntFromBig(&z, a.Width, a.Signed), nil
}

func (a MachineInt) Shl(shiftBits uint) MachineInt {
	var z big.Int
	z.Lsh(&a.v, shiftBits)
	return MachineIntFromBig(&z, a.Width, a.Signed)
}

func (a MachineInt) LShr(shiftBits uint) MachineInt {
	var z big.Int
	z.Rsh(&a.v, shiftBits)
	return MachineIntFromBig(&z, a.Width, a.Signed)
}

func (a MachineInt) AShr(shiftBits uint) MachineInt {
	s := a.signedValue()
	var z big.Int
	z.Rsh(s, shiftBits)
	return MachineIntFromBig(&z, a.Width, a.Signed)
}

func (a MachineInt) And(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.And(x, y) })
}
func (a MachineInt) Or(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.Or(x, y) })
}
func (a MachineInt) Xor(b MachineInt) (MachineInt, error) {
	return binOp(a, b, func(z, x, y *big.Int) *big.Int { return z.Xor(x, y) })
}

// Trunc narrows to a smaller width, keeping the low bits.
func (a MachineInt) Trunc(width uint) MachineInt {
	return MachineIntFromBig(&a.v, width, a.Signed)
}

// ZExt widens with zero bits.
func (a MachineInt) ZExt(width uint) MachineInt {
	return MachineInt{v: a.v, Width: width, Signed: a.Signed}
}

// SExt widens preserving the sign.
func (a MachineInt) SExt(width uint) MachineInt {
	s := a.signedValue()
	return MachineIntFromBig(s, width, a.Signed)
}

// Cast reinterprets at a new width/signedness.
func (a MachineInt) Cast(width uint, signed bool) MachineInt {
	src := a.v
	if signed && width > a.Width {
		src = *a.signedValue()
	}
	return MachineIntFromBig(&src, width, signed)
}

// Cmp is sign-aware: unsigned MachineInts compare the canonical
// representative, signed ones compare the two's-complement value.
func (a MachineInt) Cmp(b MachineInt) (int, error) {
	if err := checkCompat(a, b); err != nil {
		return 0, err
	}
	if a.Signed {
		return a.signedValue().Cmp(b.signedValue()), nil
	}
	return a.v.Cmp(&b.v), nil
}

func (a MachineInt) IsZero() bool { return a.v.Sign() == 0 }

func (a MachineInt) Equal(b MachineInt) bool {
	return a.Width == b.Width && a.Signed == b.Signed && a.v.Cmp(&b.v) == 0
}
