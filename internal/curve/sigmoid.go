// Package curve maps volatility samples through a trend-adjusted sigmoid
// into a fee bounded by a configured band.
package curve

import (
	"fmt"

	"volfee/internal/fixedpoint"
)

// HighVolatility is the descaled saturation threshold: at or above 20%
// the curve returns maxFee directly without evaluating the sigmoid.
var HighVolatility = fixedpoint.FromInt64(20)

// Evaluate maps a short-horizon volatility sample onto [minFee, maxFee].
//
// The sample is descaled by 10^decimals into the same unit space as alpha
// and beta. Saturation shortcuts return the exact band edges for zero and
// high-volatility inputs before any sigmoid math runs; otherwise the fee is
// minFee + (maxFee-minFee) * 1/(1+exp(-alpha*(v-beta))), clamped back into
// the band to keep rounding at the edges from escaping it.
func Evaluate(shortVol int64, decimals uint8, alpha, beta, minFee, maxFee fixedpoint.Number) (fixedpoint.Number, error) {
	if shortVol == 0 {
		return minFee, nil
	}

	vol := fixedpoint.FromScaled(shortVol, decimals)
	if vol.Cmp(HighVolatility) >= 0 {
		return maxFee, nil
	}

	s, err := logistic(vol, alpha, beta)
	if err != nil {
		return fixedpoint.Number{}, fmt.Errorf("sigmoid: %w", err)
	}

	span, err := maxFee.Sub(minFee)
	if err != nil {
		return fixedpoint.Number{}, fmt.Errorf("fee span: %w", err)
	}
	scaled, err := span.Mul(s)
	if err != nil {
		return fixedpoint.Number{}, fmt.Errorf("scale fee: %w", err)
	}
	fee, err := minFee.Add(scaled)
	if err != nil {
		return fixedpoint.Number{}, fmt.Errorf("offset fee: %w", err)
	}

	if fee.Cmp(minFee) < 0 {
		return minFee, nil
	}
	if fee.Cmp(maxFee) > 0 {
		return maxFee, nil
	}
	return fee, nil
}

// logistic computes 1/(1+exp(-alpha*(vol-beta))) in the numerically stable
// form that only ever exponentiates a non-positive argument, so the
// exponential cannot overflow for any representable input.
func logistic(vol, alpha, beta fixedpoint.Number) (fixedpoint.Number, error) {
	delta, err := vol.Sub(beta)
	if err != nil {
		return fixedpoint.Number{}, err
	}
	t, err := alpha.Mul(delta)
	if err != nil {
		return fixedpoint.Number{}, err
	}

	one := fixedpoint.One()
	if t.Sign() >= 0 {
		// s = 1 / (1 + exp(-t))
		neg, err := t.Neg()
		if err != nil {
			return fixedpoint.Number{}, err
		}
		e, err := neg.Exp()
		if err != nil {
			return fixedpoint.Number{}, err
		}
		denom, err := one.Add(e)
		if err != nil {
			return fixedpoint.Number{}, err
		}
		return one.Div(denom)
	}

	// s = exp(t) / (1 + exp(t))
	e, err := t.Exp()
	if err != nil {
		return fixedpoint.Number{}, err
	}
	denom, err := one.Add(e)
	if err != nil {
		return fixedpoint.Number{}, err
	}
	return e.Div(denom)
}
