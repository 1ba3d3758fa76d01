package lattice

import (
	"testing"

	"github.com/kr/pretty"
)

const testTolerance = 1e-10

func different(a, b, tolerance float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tolerance
}

// macroState is the field snapshot kr/pretty formats on mismatch,
// following the teacher's test-failure-message convention of showing
// the whole struct rather than one scalar at a time.
type macroState struct{ Rho, U, V, W float64 }

func TestEquilibriumReduceRoundTrip(t *testing.T) {
	rho0, u0, v0, w0 := 1.2, 0.03, -0.01, 0.02
	g := NewGrid(1, 2, 2, 2)
	fl := NewFields(g)
	fl.InitEquilibrium(g, rho0, u0, v0, w0)

	rho, u, v, w := Reduce(g, fl, 1, 1, 1, 1e-6)
	got := macroState{rho, u, v, w}
	want := macroState{rho0, u0, v0, w0}
	if different(rho, rho0, testTolerance) ||
		different(u, u0, testTolerance) || different(v, v0, testTolerance) || different(w, w0, testTolerance) {
		t.Errorf("reduced macro state mismatch:\n%s", pretty.Diff(want, got))
	}
}

// TestEquilibriumFixedPoint is spec section 8's equilibrium fixed
// point property: a collision step leaves f unchanged to machine
// precision when f already equals its own equilibrium.
func TestEquilibriumFixedPoint(t *testing.T) {
	rho0, u0, v0, w0 := 1.0, 0.01, 0.0, 0.0
	g := NewGrid(1, 3, 3, 3)
	fl := NewFields(g)
	fl.InitEquilibrium(g, rho0, u0, v0, w0)

	ReduceAll(g, fl, 1e-6)
	tau := 1.0
	Collide(g, fl, tau)

	lo, hi := g.Interior()
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				for a := 0; a < Q; a++ {
					got := fl.F.Get(k, j, i, a)
					want := Equilibrium(a, rho0, u0, v0, w0)
					if different(got, want, 1e-12) {
						t.Fatalf("voxel (%d,%d,%d) dir %d: f = %v after collision, want %v (equilibrium fixed point)", i, j, k, a, got, want)
					}
				}
			}
		}
	}
}

func TestMassMomentumQuiescent(t *testing.T) {
	g := NewGrid(1, 4, 4, 4)
	fl := NewFields(g)
	fl.InitEquilibrium(g, 1.0, 0, 0, 0)
	ReduceAll(g, fl, 1e-6)

	mass, px, py, pz := MassMomentum(g, fl)
	n := float64(g.MX * g.MY * g.MZ)
	if different(mass, n, testTolerance) {
		t.Errorf("mass = %v, want %v", mass, n)
	}
	if different(px, 0, testTolerance) || different(py, 0, testTolerance) || different(pz, 0, testTolerance) {
		t.Errorf("momentum = (%v,%v,%v), want (0,0,0)", px, py, pz)
	}
}

func TestStreamRestDirectionIsCopy(t *testing.T) {
	g := NewGrid(1, 3, 3, 3)
	fl := NewFields(g)
	fl.InitEquilibrium(g, 1.0, 0, 0, 0)
	Stream(g, fl)
	lo, hi := g.Interior()
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				got := fl.FNext.Get(k, j, i, 0)
				want := fl.F.Get(k, j, i, 0)
				if got != want {
					t.Fatalf("rest direction at (%d,%d,%d) = %v after stream, want copy %v", i, j, k, got, want)
				}
			}
		}
	}
}
