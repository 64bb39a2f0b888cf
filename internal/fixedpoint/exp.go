package fixedpoint

import "math/big"

// ln2 in raw Q64.64.
var ln2Raw = newRawUint("12786308645202655659")

func newRawUint(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedpoint: bad constant " + s)
	}
	return v
}

// Exp returns e^n. The input is decomposed as n = k*ln2 + r with
// r in [0, ln2); exp(r) is evaluated by Taylor series until the terms
// vanish below the fractional resolution, and 2^k is applied as a shift.
// Results that exceed the Q64.64 range return ErrOverflow; results below
// the fractional resolution truncate to zero.
func (n Number) Exp() (Number, error) {
	x := n.rawOrZero()

	// Floored division keeps the remainder non-negative for negative inputs.
	k, r := new(big.Int).DivMod(x, ln2Raw, new(big.Int))

	// exp(r) for r in [0, ln2): Taylor series in raw Q64.64.
	acc := new(big.Int).Set(scale)
	term := new(big.Int).Set(scale)
	for i := int64(1); term.Sign() != 0; i++ {
		term.Mul(term, r)
		term.Quo(term, scale)
		term.Quo(term, big.NewInt(i))
		acc.Add(acc, term)
	}

	if !k.IsInt64() {
		if k.Sign() < 0 {
			return Zero(), nil
		}
		return Number{}, ErrOverflow
	}
	shift := k.Int64()
	switch {
	case shift >= 0:
		if shift > 127 {
			return Number{}, ErrOverflow
		}
		return checked(acc.Lsh(acc, uint(shift)))
	case shift < -190:
		return Zero(), nil
	default:
		return Number{raw: acc.Rsh(acc, uint(-shift))}, nil
	}
}
