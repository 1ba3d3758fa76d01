package lattice

import "testing"

func TestOppInvolution(t *testing.T) {
	for a := 0; a < Q; a++ {
		if Opp(Opp(a)) != a {
			t.Errorf("Opp(Opp(%d)) = %d, want %d", a, Opp(Opp(a)), a)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range W {
		sum += w
	}
	if d := sum - 1; d > 1e-12 || d < -1e-12 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}
