package lattice

import "testing"

func TestTopologyCoords(t *testing.T) {
	topo := NewTopology(2, 2, 2, false, false, false, 5) // rank 5 = (1,0,1)
	if topo.CoordX != 1 || topo.CoordY != 0 || topo.CoordZ != 1 {
		t.Errorf("got coords (%d,%d,%d), want (1,0,1)", topo.CoordX, topo.CoordY, topo.CoordZ)
	}
}

func TestTopologyNonPeriodicBoundary(t *testing.T) {
	topo := NewTopology(2, 2, 2, false, false, false, 0) // rank 0 = (0,0,0), a corner
	if topo.Neighbor(West) != NoNeighbor {
		t.Error("corner rank should have no West neighbor on a non-periodic axis")
	}
	if topo.Neighbor(South) != NoNeighbor {
		t.Error("corner rank should have no South neighbor on a non-periodic axis")
	}
	if topo.Neighbor(Bottom) != NoNeighbor {
		t.Error("corner rank should have no Bottom neighbor on a non-periodic axis")
	}
	if topo.Neighbor(East) == NoNeighbor {
		t.Error("corner rank should have an East neighbor")
	}
	faces := topo.DomainBoundaryFaces()
	if len(faces) != 3 {
		t.Errorf("corner rank should have 3 domain-boundary faces, got %d", len(faces))
	}
}

func TestTopologyPeriodicWraps(t *testing.T) {
	topo := NewTopology(2, 2, 2, true, true, true, 0)
	if topo.Neighbor(West) == NoNeighbor {
		t.Error("periodic axis should wrap, not yield NoNeighbor")
	}
	if len(topo.DomainBoundaryFaces()) != 0 {
		t.Error("fully periodic topology should have no domain-boundary faces")
	}
}

func TestTopologyNeighborsSymmetric(t *testing.T) {
	px, py, pz := 2, 2, 2
	for rank := 0; rank < px*py*pz; rank++ {
		topo := NewTopology(px, py, pz, true, true, true, rank)
		for f := West; f <= Top; f++ {
			nbr := topo.Neighbor(f)
			other := NewTopology(px, py, pz, true, true, true, nbr)
			if other.Neighbor(f.Opposite()) != rank {
				t.Errorf("rank %d face %v neighbor %d does not point back via %v", rank, f, nbr, f.Opposite())
			}
		}
	}
}
