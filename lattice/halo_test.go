package lattice

import (
	"sync"
	"testing"
)

// runRanks connects nprocs ranks with in-process transports and runs fn
// concurrently for each, waiting for all to finish. fn must not block
// on a SendRecv that a peer's fn never issues.
func runRanks(nprocs int, topos []*Topology, fn func(rank int, t Transport)) {
	transports := NewLocalTransports(nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for r := 0; r < nprocs; r++ {
		r := r
		go func() {
			defer wg.Done()
			fn(r, transports[r])
		}()
	}
	wg.Wait()
}

func buildTopos(px, py, pz int, periodic bool) []*Topology {
	n := px * py * pz
	topos := make([]*Topology, n)
	for r := 0; r < n; r++ {
		topos[r] = NewTopology(px, py, pz, periodic, periodic, periodic, r)
	}
	return topos
}

// ghostOwner returns the rank whose interior voxel a periodic exchange
// copies into ghost voxel (i,j,k): the rank offset from topo by -1, 0
// or +1 on each axis, according to whether that coordinate lies below,
// inside or above the interior range.
func ghostOwner(topo *Topology, g *Grid, i, j, k int) int {
	off := func(x, m int) int {
		switch {
		case x < g.N:
			return -1
		case x >= g.N+m:
			return 1
		}
		return 0
	}
	wrap := func(c, p int) int { return ((c % p) + p) % p }
	cx := wrap(topo.CoordX+off(i, g.MX), topo.Px)
	cy := wrap(topo.CoordY+off(j, g.MY), topo.Py)
	cz := wrap(topo.CoordZ+off(k, g.MZ), topo.Pz)
	return cz*topo.Px*topo.Py + cy*topo.Px + cx
}

// TestHaloPatternCheck is spec section 8 scenario 4: seed every rank
// with its own id, exchange once, and verify every ghost voxel equals
// the id of the neighbor that owns it: the face neighbor for a voxel
// in the middle of a face, and the diagonal neighbor for an edge or
// corner voxel, which the Z, X, Y phase order fills through two or
// three face hops.
func TestHaloPatternCheck(t *testing.T) {
	const px, py, pz = 2, 2, 2
	const mx, my, mz = 4, 4, 4
	nprocs := px * py * pz
	topos := buildTopos(px, py, pz, true)

	results := make([]*Fields, nprocs)
	grids := make([]*Grid, nprocs)
	var mu sync.Mutex

	runRanks(nprocs, topos, func(rank int, tr Transport) {
		g := NewGrid(1, mx, my, mz)
		fl := NewFields(g)
		for k := 0; k < g.MZP; k++ {
			for j := 0; j < g.MYP; j++ {
				for i := 0; i < g.MXP; i++ {
					fl.Rho.Set(float64(rank), k, j, i)
				}
			}
		}
		ex := NewExchanger(topos[rank], g, tr)
		if err := ex.Scalar(fl.Rho); err != nil {
			t.Errorf("rank %d: %v", rank, err)
			return
		}
		mu.Lock()
		results[rank] = fl
		grids[rank] = g
		mu.Unlock()
	})

	for rank := 0; rank < nprocs; rank++ {
		topo := topos[rank]
		g := grids[rank]
		fl := results[rank]

		lo, hi := g.Interior()
		for k := lo[2]; k < hi[2]; k++ {
			for j := lo[1]; j < hi[1]; j++ {
				for i := lo[0]; i < hi[0]; i++ {
					if got := fl.Rho.Get(k, j, i); got != float64(rank) {
						t.Fatalf("rank %d: interior voxel (%d,%d,%d) = %v, want %v", rank, i, j, k, got, rank)
					}
				}
			}
		}

		for f := West; f <= Top; f++ {
			nbr := topo.Neighbor(f)
			if nbr == NoNeighbor {
				continue
			}
			glo, ghi := g.Ghost(f, 0)
			for k := glo[2]; k < ghi[2]; k++ {
				for j := glo[1]; j < ghi[1]; j++ {
					for i := glo[0]; i < ghi[0]; i++ {
						if !g.IsInterior(i, j, k) {
							want := ghostOwner(topo, g, i, j, k)
							if got := fl.Rho.Get(k, j, i); got != float64(want) {
								t.Fatalf("rank %d face %v ghost voxel (%d,%d,%d) = %v, want neighbor id %v", rank, f, i, j, k, got, want)
							}
						}
					}
				}
			}
		}
	}
}

// TestBoundarySentinel is spec section 8 scenario 6: on a non-periodic
// topology, ghost slabs on domain-boundary faces are left untouched by
// the exchange, and the boundary hook writes a known sentinel.
func TestBoundarySentinel(t *testing.T) {
	const px, py, pz = 2, 2, 2
	const mx, my, mz = 4, 4, 4
	nprocs := px * py * pz
	topos := buildTopos(px, py, pz, false)

	hook, err := NewDefaultHook("-1")
	if err != nil {
		t.Fatal(err)
	}

	results := make([]*Fields, nprocs)
	grids := make([]*Grid, nprocs)
	var mu sync.Mutex

	runRanks(nprocs, topos, func(rank int, tr Transport) {
		g := NewGrid(1, mx, my, mz)
		fl := NewFields(g)
		ex := NewExchanger(topos[rank], g, tr)
		if err := ex.Scalar(fl.Rho); err != nil {
			t.Errorf("rank %d: %v", rank, err)
			return
		}
		hook.Apply(topos[rank], g, fl, topos[rank].DomainBoundaryFaces())
		mu.Lock()
		results[rank] = fl
		grids[rank] = g
		mu.Unlock()
	})

	// Rank 0 is the (0,0,0) corner: West, South, Bottom are
	// domain-boundary faces and must carry the sentinel.
	g := grids[0]
	fl := results[0]
	for _, f := range []Face{West, South, Bottom} {
		lo, hi := g.Ghost(f, 0)
		for k := lo[2]; k < hi[2]; k++ {
			for j := lo[1]; j < hi[1]; j++ {
				for i := lo[0]; i < hi[0]; i++ {
					if got := fl.Rho.Get(k, j, i); got != -1 {
						t.Fatalf("%v ghost voxel (%d,%d,%d) = %v, want sentinel -1", f, i, j, k, got)
					}
				}
			}
		}
	}
}
