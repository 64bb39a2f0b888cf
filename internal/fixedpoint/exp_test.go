package fixedpoint

import (
	"errors"
	"testing"
)

// between asserts lo <= n <= hi for decimal string bounds.
func between(t *testing.T, n Number, lo, hi string) {
	t.Helper()
	low, err := Parse(lo)
	if err != nil {
		t.Fatalf("parse %q: %v", lo, err)
	}
	high, err := Parse(hi)
	if err != nil {
		t.Fatalf("parse %q: %v", hi, err)
	}
	if n.Cmp(low) < 0 || n.Cmp(high) > 0 {
		t.Fatalf("value %s outside [%s, %s]", n, lo, hi)
	}
}

func TestExpZero(t *testing.T) {
	got, err := Zero().Exp()
	if err != nil {
		t.Fatalf("exp(0): %v", err)
	}
	if got.Cmp(One()) != 0 {
		t.Fatalf("exp(0): got %s, want 1", got)
	}
}

func TestExpKnownValues(t *testing.T) {
	cases := []struct {
		in     string
		lo, hi string
	}{
		{"1", "2.718281", "2.718282"},
		{"-1", "0.367879", "0.367880"},
		{"0.5", "1.648721", "1.648722"},
		{"-0.5", "0.606530", "0.606531"},
		{"2.302585092994", "9.999999", "10.000001"},
		{"10", "22026.465794", "22026.465795"},
		{"-10", "0.000045", "0.000046"},
		{"40", "235385266837019985", "235385266837019986"},
	}
	for _, tc := range cases {
		n, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		got, err := n.Exp()
		if err != nil {
			t.Fatalf("exp(%s): %v", tc.in, err)
		}
		between(t, got, tc.lo, tc.hi)
	}
}

func TestExpDeepNegativeUnderflowsToZero(t *testing.T) {
	got, err := FromInt64(-200).Exp()
	if err != nil {
		t.Fatalf("exp(-200): %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("exp(-200): got %s, want 0", got)
	}
}

func TestExpOverflow(t *testing.T) {
	if _, err := FromInt64(100).Exp(); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestExpMonotonic(t *testing.T) {
	prev := Number{}
	first := true
	for v := int64(-20); v <= 20; v++ {
		got, err := FromInt64(v).Exp()
		if err != nil {
			t.Fatalf("exp(%d): %v", v, err)
		}
		if !first && got.Cmp(prev) <= 0 {
			t.Fatalf("exp not increasing at %d", v)
		}
		prev = got
		first = false
	}
}
