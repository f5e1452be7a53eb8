package unit

import "testing"

func TestEMUWholePoints(t *testing.T) {
	tests := []struct {
		pt   float64
		want int64
	}{
		{0, 0},
		{1, 12700},
		{72, 914400}, // one inch
		{720, 9144000},
		{405, 5143500},
		{-10, -127000},
	}
	for _, tt := range tests {
		if got := EMU(tt.pt); got != tt.want {
			t.Errorf("EMU(%g) = %d, want %d", tt.pt, got, tt.want)
		}
	}
}

func TestEMUFractionalPoints(t *testing.T) {
	// Half points are exactly representable.
	if got := EMU(0.5); got != 6350 {
		t.Errorf("EMU(0.5) = %d, want 6350", got)
	}
	if got := EMU(10.25); got != 130175 {
		t.Errorf("EMU(10.25) = %d, want 130175", got)
	}
}

func TestEMUDeterministic(t *testing.T) {
	// Converting the same value twice yields the same result.
	for _, pt := range []float64{0.1, 3.7, 123.456, 405, 719.999} {
		a, b := EMU(pt), EMU(pt)
		if a != b {
			t.Errorf("EMU(%g) not deterministic: %d vs %d", pt, a, b)
		}
	}
}

func TestEMULinearForRepresentable(t *testing.T) {
	// EMU(a+b) == EMU(a) + EMU(b) when both are representable in EMU.
	pairs := [][2]float64{{1, 2}, {0.5, 0.5}, {100, 305}, {72, 333}}
	for _, p := range pairs {
		if got, want := EMU(p[0]+p[1]), EMU(p[0])+EMU(p[1]); got != want {
			t.Errorf("EMU(%g+%g) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestPointsRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 1, 0.5, 42, 720} {
		if got := Points(EMU(pt)); got != pt {
			t.Errorf("Points(EMU(%g)) = %g", pt, got)
		}
	}
}
