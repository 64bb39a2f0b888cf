package curve

import "testing"

func TestAdjustFallingVolatility(t *testing.T) {
	alpha := parseNum(t, "2.0")
	beta := parseNum(t, "5.0")

	// Long horizon above short horizon: flatter curve, higher midpoint.
	gotAlpha, gotBeta, err := Adjust(600000, 400000, alpha, beta)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if gotAlpha.Cmp(parseNum(t, "1.0")) != 0 {
		t.Fatalf("alpha: got %s, want 1.0", gotAlpha)
	}
	if gotBeta.Cmp(parseNum(t, "6.0")) != 0 {
		t.Fatalf("beta: got %s, want 6.0", gotBeta)
	}
}

func TestAdjustRisingVolatility(t *testing.T) {
	alpha := parseNum(t, "2.0")
	beta := parseNum(t, "5.0")

	// Short horizon above long horizon: steeper curve, lower midpoint.
	gotAlpha, gotBeta, err := Adjust(400000, 600000, alpha, beta)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if gotAlpha.Cmp(parseNum(t, "3.0")) != 0 {
		t.Fatalf("alpha: got %s, want 3.0", gotAlpha)
	}
	if gotBeta.Cmp(parseNum(t, "4.0")) != 0 {
		t.Fatalf("beta: got %s, want 4.0", gotBeta)
	}
}

func TestAdjustFlatTrendPassesThrough(t *testing.T) {
	alpha := parseNum(t, "1.25")
	beta := parseNum(t, "7.5")

	gotAlpha, gotBeta, err := Adjust(500000, 500000, alpha, beta)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if gotAlpha.Cmp(alpha) != 0 || gotBeta.Cmp(beta) != 0 {
		t.Fatalf("flat trend changed parameters: %s, %s", gotAlpha, gotBeta)
	}
}

func TestAdjustSymmetry(t *testing.T) {
	cases := []struct {
		longVol, shortVol int64
	}{
		{100, 1},
		{1, 100},
		{-50, 50},
		{50, -50},
		{0, 1},
		{1, 0},
	}
	alpha := parseNum(t, "1.7")
	beta := parseNum(t, "3.3")

	for _, tc := range cases {
		gotAlpha, gotBeta, err := Adjust(tc.longVol, tc.shortVol, alpha, beta)
		if err != nil {
			t.Fatalf("adjust(%d, %d): %v", tc.longVol, tc.shortVol, err)
		}
		switch {
		case tc.longVol > tc.shortVol:
			if gotAlpha.Cmp(alpha) > 0 || gotBeta.Cmp(beta) < 0 {
				t.Fatalf("falling trend (%d, %d): alpha %s beta %s", tc.longVol, tc.shortVol, gotAlpha, gotBeta)
			}
		case tc.longVol < tc.shortVol:
			if gotAlpha.Cmp(alpha) < 0 || gotBeta.Cmp(beta) > 0 {
				t.Fatalf("rising trend (%d, %d): alpha %s beta %s", tc.longVol, tc.shortVol, gotAlpha, gotBeta)
			}
		}
	}
}
