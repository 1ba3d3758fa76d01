/*
Copyright (c) 2026 The lbm3d Authors.
This file is part of lbm3d.

lbm3d is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

lbm3d is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with lbm3d.  If not, see <http://www.gnu.org/licenses/>.
*/

package lattice

import "github.com/ctessum/sparse"

// phase is one of the six ordered halo-exchange steps of spec section
// 4.3: +Z, -Z, +X, -X, +Y, -Y, in that fixed order.
type phase struct {
	sendFace Face // face the interior slab is read from and sent
	tag      int
}

var phases = [6]phase{
	{Top, 0},    // +Z: send TOP, recv BOTTOM
	{Bottom, 1}, // -Z: send BOTTOM, recv TOP
	{East, 2},   // +X: send EAST, recv WEST
	{West, 3},   // -X: send WEST, recv EAST
	{North, 4},  // +Y: send NORTH, recv SOUTH
	{South, 5},  // -Y: send SOUTH, recv NORTH
}

// Exchanger performs the scalar and distribution halo exchanges. It
// owns the retained send and receive scratch buffers (spec section 9's
// "Removed pattern": no per-call allocation), each sized to the largest
// of the three axis-perpendicular slab shapes, and the topology/grid it
// was built from.
type Exchanger struct {
	topo *Topology
	grid *Grid
	t    Transport

	scratchSend []float64
	scratchRecv []float64
}

// NewExchanger builds an Exchanger for the given topology, grid, and
// transport, allocating its scratch buffers once.
func NewExchanger(topo *Topology, g *Grid, t Transport) *Exchanger {
	maxSlab := g.MYP * g.MZP
	if s := g.MXP * g.MZP; s > maxSlab {
		maxSlab = s
	}
	if s := g.MXP * g.MYP; s > maxSlab {
		maxSlab = s
	}
	return &Exchanger{
		topo:        topo,
		grid:        g,
		t:           t,
		scratchSend: make([]float64, maxSlab),
		scratchRecv: make([]float64, maxSlab),
	}
}

// slabAccessor reads and writes the flat float64 values of a 3D
// rectangular region of an array shaped (MZP,MYP,MXP), in (k,j,i)
// iteration order, matching the order sparse.DenseArray.Index1d
// expects.
type slabAccessor func(lo, hi [3]int, buf []float64, read bool)

func denseSlab(a *sparse.DenseArray) slabAccessor {
	return func(lo, hi [3]int, buf []float64, read bool) {
		n := 0
		for k := lo[2]; k < hi[2]; k++ {
			for j := lo[1]; j < hi[1]; j++ {
				for i := lo[0]; i < hi[0]; i++ {
					if read {
						buf[n] = a.Get(k, j, i)
					} else {
						a.Set(buf[n], k, j, i)
					}
					n++
				}
			}
		}
	}
}

// sweep runs the six ordered phases of spec section 4.3 for every
// layer in [0,n), moving data through access, a slab accessor over a
// single scalar-shaped field (either a genuine scalar field, or one
// direction's component of the distribution field).
func (e *Exchanger) sweep(access slabAccessor) error {
	for layer := 0; layer < e.grid.N; layer++ {
		for _, ph := range phases {
			sendFace := ph.sendFace
			recvFace := sendFace.Opposite()

			sendTo := e.topo.Neighbor(sendFace)
			recvFrom := e.topo.Neighbor(recvFace)

			sendLo, sendHi := e.grid.InteriorSlab(sendFace, layer)
			n := SlabSize(sendLo, sendHi)
			send := e.scratchSend[:n]
			recv := e.scratchRecv[:n]

			if sendTo != NoNeighbor {
				access(sendLo, sendHi, send, true)
			}
			if err := e.t.SendRecv(sendTo, recvFrom, ph.tag, send, recv); err != nil {
				return err
			}
			if recvFrom != NoNeighbor {
				recvLo, recvHi := e.grid.Ghost(recvFace, layer)
				access(recvLo, recvHi, recv, false)
			}
		}
	}
	return nil
}

// Scalar exchanges the ghost layers of a single scalar field (ρ, u,
// v, or w).
func (e *Exchanger) Scalar(a *sparse.DenseArray) error {
	return e.sweep(denseSlab(a))
}

// Distribution exchanges the ghost layers of the 19-component
// distribution field, implemented as Q scalar exchanges over each
// direction's component slab, per spec section 4.3.
func (e *Exchanger) Distribution(f *sparse.DenseArray) error {
	for a := 0; a < Q; a++ {
		dir := a
		access := func(lo, hi [3]int, buf []float64, read bool) {
			n := 0
			for k := lo[2]; k < hi[2]; k++ {
				for j := lo[1]; j < hi[1]; j++ {
					for i := lo[0]; i < hi[0]; i++ {
						if read {
							buf[n] = f.Get(k, j, i, dir)
						} else {
							f.Set(buf[n], k, j, i, dir)
						}
						n++
					}
				}
			}
		}
		if err := e.sweep(access); err != nil {
			return err
		}
	}
	return nil
}
