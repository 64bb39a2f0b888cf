package curve

import (
	"testing"

	"volfee/internal/fixedpoint"
)

const testDecimals = 5

func testBand(t *testing.T) (minFee, maxFee fixedpoint.Number) {
	t.Helper()
	return fixedpoint.FromInt64(3000), fixedpoint.FromInt64(10000)
}

func parseNum(t *testing.T, s string) fixedpoint.Number {
	t.Helper()
	n, err := fixedpoint.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func TestEvaluateZeroVolatilityIsMinFee(t *testing.T) {
	minFee, maxFee := testBand(t)
	got, err := Evaluate(0, testDecimals, parseNum(t, "1.0"), parseNum(t, "5.0"), minFee, maxFee)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Cmp(minFee) != 0 {
		t.Fatalf("zero volatility: got %s, want %s", got, minFee)
	}
}

func TestEvaluateHighVolatilityIsMaxFee(t *testing.T) {
	minFee, maxFee := testBand(t)
	alpha := parseNum(t, "1.0")
	beta := parseNum(t, "5.0")

	// 20% and beyond saturate to the max fee exactly.
	for _, vol := range []int64{2000000, 5000000, 10000000, 1 << 40} {
		got, err := Evaluate(vol, testDecimals, alpha, beta, minFee, maxFee)
		if err != nil {
			t.Fatalf("evaluate %d: %v", vol, err)
		}
		if got.Cmp(maxFee) != 0 {
			t.Fatalf("volatility %d: got %s, want %s", vol, got, maxFee)
		}
	}
}

func TestEvaluateMidpoint(t *testing.T) {
	minFee, maxFee := testBand(t)

	// At the curve midpoint the sigmoid is exactly one half.
	got, err := Evaluate(500000, testDecimals, parseNum(t, "1.0"), parseNum(t, "5.0"), minFee, maxFee)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if bps, _ := got.Int64(); bps != 6500 {
		t.Fatalf("midpoint fee: got %d, want 6500", bps)
	}
}

func TestEvaluateWithinBand(t *testing.T) {
	minFee, maxFee := testBand(t)
	alphas := []string{"0.1", "1.0", "7.5", "30"}
	betas := []string{"0.5", "5.0", "15", "19.9"}
	vols := []int64{-5000000, -1, 1, 50000, 100000, 400000, 999999, 1500000, 1999999}

	for _, a := range alphas {
		for _, b := range betas {
			for _, vol := range vols {
				got, err := Evaluate(vol, testDecimals, parseNum(t, a), parseNum(t, b), minFee, maxFee)
				if err != nil {
					t.Fatalf("evaluate a=%s b=%s vol=%d: %v", a, b, vol, err)
				}
				if got.Cmp(minFee) < 0 || got.Cmp(maxFee) > 0 {
					t.Fatalf("fee %s outside band a=%s b=%s vol=%d", got, a, b, vol)
				}
			}
		}
	}
}

func TestEvaluateMonotonic(t *testing.T) {
	minFee, maxFee := testBand(t)
	alpha := parseNum(t, "1.5")
	beta := parseNum(t, "4.0")

	prev := minFee
	for vol := int64(0); vol <= 2100000; vol += 50000 {
		got, err := Evaluate(vol, testDecimals, alpha, beta, minFee, maxFee)
		if err != nil {
			t.Fatalf("evaluate %d: %v", vol, err)
		}
		if got.Cmp(prev) < 0 {
			t.Fatalf("fee decreased at volatility %d: %s < %s", vol, got, prev)
		}
		prev = got
	}
}

func TestEvaluateSteepCurveNearMidpointStaysBounded(t *testing.T) {
	minFee, maxFee := testBand(t)

	// A steep curve far from its midpoint drives the exponent argument
	// deep in both directions; the stable form must not overflow.
	alpha := parseNum(t, "50")
	beta := parseNum(t, "10")
	for _, vol := range []int64{1, 100000, 1900000} {
		got, err := Evaluate(vol, testDecimals, alpha, beta, minFee, maxFee)
		if err != nil {
			t.Fatalf("evaluate %d: %v", vol, err)
		}
		if got.Cmp(minFee) < 0 || got.Cmp(maxFee) > 0 {
			t.Fatalf("fee %s escaped band at volatility %d", got, vol)
		}
	}
}
