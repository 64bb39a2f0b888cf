package curve

import (
	"fmt"

	"volfee/internal/fixedpoint"
)

var (
	two  = fixedpoint.FromInt64(2)
	five = fixedpoint.FromInt64(5)
)

// Adjust biases the curve parameters by the volatility trend. Both samples
// share the pool's feed scale, so the difference needs no descaling. A long
// horizon above the short horizon reads as falling volatility: the curve
// flattens (alpha -= alpha/2) and its midpoint rises (beta += beta/5),
// pulling fees down at the current reading. The opposite trend steepens the
// curve and lowers the midpoint. Equal samples pass the parameters through.
func Adjust(longVol, shortVol int64, alpha, beta fixedpoint.Number) (fixedpoint.Number, fixedpoint.Number, error) {
	trend := longVol - shortVol
	if trend == 0 {
		return alpha, beta, nil
	}

	halfAlpha, err := alpha.Div(two)
	if err != nil {
		return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("halve alpha: %w", err)
	}
	fifthBeta, err := beta.Div(five)
	if err != nil {
		return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("split beta: %w", err)
	}

	var adjAlpha, adjBeta fixedpoint.Number
	if trend > 0 {
		adjAlpha, err = alpha.Sub(halfAlpha)
		if err != nil {
			return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("soften alpha: %w", err)
		}
		adjBeta, err = beta.Add(fifthBeta)
		if err != nil {
			return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("raise beta: %w", err)
		}
	} else {
		adjAlpha, err = alpha.Add(halfAlpha)
		if err != nil {
			return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("steepen alpha: %w", err)
		}
		adjBeta, err = beta.Sub(fifthBeta)
		if err != nil {
			return fixedpoint.Number{}, fixedpoint.Number{}, fmt.Errorf("lower beta: %w", err)
		}
	}

	return adjAlpha, adjBeta, nil
}
