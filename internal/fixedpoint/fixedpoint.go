// Package fixedpoint implements a deterministic signed Q64.64 fixed-point
// number. Values are stored as raw big integers scaled by 2^64; every
// operation checks the representable range and fails instead of wrapping,
// so results are bit-identical across platforms.
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrOverflow is returned when an operation leaves the Q64.64 range.
	ErrOverflow = errors.New("fixedpoint: overflow")
	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
)

const fracBits = 64

var (
	scale  = new(big.Int).Lsh(big.NewInt(1), fracBits)
	maxRaw = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minRaw = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Number is an immutable signed Q64.64 value.
type Number struct {
	raw *big.Int
}

// Zero returns the zero value.
func Zero() Number {
	return Number{raw: big.NewInt(0)}
}

// One returns the value 1.
func One() Number {
	return Number{raw: new(big.Int).Set(scale)}
}

// FromInt64 converts a signed integer.
func FromInt64(v int64) Number {
	return Number{raw: new(big.Int).Lsh(big.NewInt(v), fracBits)}
}

// FromUint64 converts an unsigned integer.
func FromUint64(v uint64) (Number, error) {
	raw := new(big.Int).Lsh(new(big.Int).SetUint64(v), fracBits)
	return checked(raw)
}

// FromScaled converts an integer sample scaled by 10^decimals into its
// descaled Q64.64 value, truncating toward zero.
func FromScaled(value int64, decimals uint8) Number {
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	raw := new(big.Int).Lsh(big.NewInt(value), fracBits)
	return Number{raw: raw.Quo(raw, pow)}
}

// Parse converts a decimal string such as "1.5" or "-0.25".
func Parse(s string) (Number, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("fixedpoint: invalid number %q", s)
	}
	raw := new(big.Int).Mul(rat.Num(), scale)
	raw.Quo(raw, rat.Denom())
	return checked(raw)
}

func checked(raw *big.Int) (Number, error) {
	if raw.Cmp(maxRaw) > 0 || raw.Cmp(minRaw) < 0 {
		return Number{}, ErrOverflow
	}
	return Number{raw: raw}, nil
}

func (n Number) rawOrZero() *big.Int {
	if n.raw == nil {
		return big.NewInt(0)
	}
	return n.raw
}

// Add returns n + other.
func (n Number) Add(other Number) (Number, error) {
	return checked(new(big.Int).Add(n.rawOrZero(), other.rawOrZero()))
}

// Sub returns n - other.
func (n Number) Sub(other Number) (Number, error) {
	return checked(new(big.Int).Sub(n.rawOrZero(), other.rawOrZero()))
}

// Mul returns n * other, truncating toward zero.
func (n Number) Mul(other Number) (Number, error) {
	raw := new(big.Int).Mul(n.rawOrZero(), other.rawOrZero())
	return checked(raw.Quo(raw, scale))
}

// Div returns n / other, truncating toward zero.
func (n Number) Div(other Number) (Number, error) {
	divisor := other.rawOrZero()
	if divisor.Sign() == 0 {
		return Number{}, ErrDivisionByZero
	}
	raw := new(big.Int).Lsh(n.rawOrZero(), fracBits)
	return checked(raw.Quo(raw, divisor))
}

// Neg returns -n.
func (n Number) Neg() (Number, error) {
	return checked(new(big.Int).Neg(n.rawOrZero()))
}

// Int64 truncates toward zero and converts to int64.
func (n Number) Int64() (int64, error) {
	q := new(big.Int).Quo(n.rawOrZero(), scale)
	if !q.IsInt64() {
		return 0, ErrOverflow
	}
	return q.Int64(), nil
}

// Cmp compares n and other, returning -1, 0, or 1.
func (n Number) Cmp(other Number) int {
	return n.rawOrZero().Cmp(other.rawOrZero())
}

// Sign returns -1, 0, or 1 for negative, zero, or positive values.
func (n Number) Sign() int {
	return n.rawOrZero().Sign()
}

// String renders the value as a decimal with up to six fractional digits.
func (n Number) String() string {
	rat := new(big.Rat).SetFrac(n.rawOrZero(), scale)
	out := rat.FloatString(6)
	return out
}
