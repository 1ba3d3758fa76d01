package lattice

import "testing"

func TestGridIdx3(t *testing.T) {
	g := NewGrid(1, 4, 4, 4)
	for k := 0; k < g.MZP; k++ {
		for j := 0; j < g.MYP; j++ {
			for i := 0; i < g.MXP; i++ {
				want := i + j*g.MXP + k*g.MXP*g.MYP
				got := g.Idx3(i, j, k)
				if got != want {
					t.Fatalf("Idx3(%d,%d,%d) = %d, want %d", i, j, k, got, want)
				}
			}
		}
	}
}

func TestGridIdx4(t *testing.T) {
	g := NewGrid(1, 3, 3, 3)
	for k := 0; k < g.MZP; k++ {
		for j := 0; j < g.MYP; j++ {
			for i := 0; i < g.MXP; i++ {
				for a := 0; a < Q; a++ {
					want := a + Q*(i+j*g.MXP+k*g.MXP*g.MYP)
					got := g.Idx4(i, j, k, a)
					if got != want {
						t.Fatalf("Idx4(%d,%d,%d,%d) = %d, want %d", i, j, k, a, got, want)
					}
				}
			}
		}
	}
}

func TestIsInterior(t *testing.T) {
	g := NewGrid(1, 2, 2, 2)
	if g.IsInterior(0, 1, 1) {
		t.Error("i=0 should be a ghost voxel with n=1")
	}
	if !g.IsInterior(1, 1, 1) {
		t.Error("(1,1,1) should be interior")
	}
	if !g.IsInterior(g.N+g.MX-1, g.N+g.MY-1, g.N+g.MZ-1) {
		t.Error("far interior corner should be interior")
	}
	if g.IsInterior(g.N+g.MX, 1, 1) {
		t.Error("i=N+MX should be a ghost voxel")
	}
}

func TestFaceOpposite(t *testing.T) {
	cases := []struct {
		f, want Face
	}{
		{West, East}, {East, West},
		{South, North}, {North, South},
		{Bottom, Top}, {Top, Bottom},
	}
	for _, c := range cases {
		if got := c.f.Opposite(); got != c.want {
			t.Errorf("%v.Opposite() = %v, want %v", c.f, got, c.want)
		}
	}
}

func TestInteriorSlabFullPerpendicularExtent(t *testing.T) {
	g := NewGrid(2, 4, 4, 4)
	lo, hi := g.InteriorSlab(East, 0)
	if lo[1] != 0 || hi[1] != g.MYP || lo[2] != 0 || hi[2] != g.MZP {
		t.Errorf("East interior slab should span the full padded Y,Z extent, got lo=%v hi=%v", lo, hi)
	}
	if hi[0]-lo[0] != 1 {
		t.Errorf("East interior slab should be one voxel thick in X, got %d", hi[0]-lo[0])
	}
}
