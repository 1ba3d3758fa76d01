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

package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lbm3d/lattice"
)

// ownerRank is the rank that holds the container's file handle. Every
// other rank ships its interior block to it.
const ownerRank = 0

func tagFor(varIndex int) int { return 5000 + varIndex }

// Writer drives the collective write of spec section 4.7: each rank
// computes its own hyperslab offset from its Cartesian coordinates
// and ships its interior block to ownerRank over the same Transport
// used for halo exchange, tagged distinctly from any in-flight halo
// phase so the two never collide.
type Writer struct {
	Dir                string
	Topo               *lattice.Topology
	Grid               *lattice.Grid
	Transport          lattice.Transport
	Nx, Ny, Nz         int
	Px, Py, Pz         int
	Dx, Dy, Dz         float64

	coll *Collection
}

// NewWriter builds a Writer for one rank. Only ownerRank actually
// opens files; the others only ever send.
func NewWriter(dir string, topo *lattice.Topology, g *lattice.Grid, t lattice.Transport, nx, ny, nz, px, py, pz int) *Writer {
	return &Writer{
		Dir: dir, Topo: topo, Grid: g, Transport: t,
		Nx: nx, Ny: ny, Nz: nz, Px: px, Py: py, Pz: pz,
		Dx: 1, Dy: 1, Dz: 1,
		coll: &Collection{},
	}
}

// Write emits the global (ρ,u,v,w) snapshot at the given step, as a
// lattice.SnapshotFunc the Solver calls collectively.
func (w *Writer) Write(step int, topo *lattice.Topology, g *lattice.Grid, fl *lattice.Fields) error {
	lo, hi := g.Interior()
	nxLocal, nyLocal, nzLocal := hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]

	arrays := map[string]func(i, j, k int) float64{
		"rho": func(i, j, k int) float64 { return fl.Rho.Get(k, j, i) },
		"u":   func(i, j, k int) float64 { return fl.U.Get(k, j, i) },
		"v":   func(i, j, k int) float64 { return fl.V.Get(k, j, i) },
		"w":   func(i, j, k int) float64 { return fl.W.Get(k, j, i) },
	}
	local := make(map[string][]float64, len(Variables))
	for _, name := range Variables {
		get := arrays[name]
		buf := make([]float64, 0, nxLocal*nyLocal*nzLocal)
		for k := lo[2]; k < hi[2]; k++ {
			for j := lo[1]; j < hi[1]; j++ {
				for i := lo[0]; i < hi[0]; i++ {
					buf = append(buf, get(i, j, k))
				}
			}
		}
		local[name] = buf
	}

	myOffset := [3]int{topo.CoordZ * nzLocal, topo.CoordY * nyLocal, topo.CoordX * nxLocal}

	if topo.Rank != ownerRank {
		for vi, name := range Variables {
			if err := w.Transport.SendRecv(ownerRank, lattice.NoNeighbor, tagFor(vi), local[name], nil); err != nil {
				return err
			}
		}
		return nil
	}

	path := snapshotFileName(w.Dir, step)
	c, err := Create(path, w.Nx, w.Ny, w.Nz)
	if err != nil {
		return err
	}

	end := [3]int{myOffset[0] + nzLocal, myOffset[1] + nyLocal, myOffset[2] + nxLocal}
	for _, name := range Variables {
		if err := c.WriteHyperslab(name, myOffset, end, local[name]); err != nil {
			c.Close()
			return err
		}
	}

	nprocs := w.Px * w.Py * w.Pz
	for r := 0; r < nprocs; r++ {
		if r == ownerRank {
			continue
		}
		rx := r % w.Px
		ry := (r / w.Px) % w.Py
		rz := r / (w.Px * w.Py)
		rOffset := [3]int{rz * nzLocal, ry * nyLocal, rx * nxLocal}
		rEnd := [3]int{rOffset[0] + nzLocal, rOffset[1] + nyLocal, rOffset[2] + nxLocal}
		for vi, name := range Variables {
			buf := make([]float64, nxLocal*nyLocal*nzLocal)
			if err := w.Transport.SendRecv(lattice.NoNeighbor, r, tagFor(vi), nil, buf); err != nil {
				c.Close()
				return err
			}
			if err := c.WriteHyperslab(name, rOffset, rEnd, buf); err != nil {
				c.Close()
				return err
			}
		}
	}

	digest := c.Digest()
	if err := c.Close(); err != nil {
		return err
	}

	descPath := fmt.Sprintf("%s.xdmf", path)
	if err := WriteDescriptor(descPath, path, step, w.Nx, w.Ny, w.Nz, w.Dx, w.Dy, w.Dz, digest); err != nil {
		return err
	}
	collPath := filepath.Join(w.Dir, "collection.xdmf")
	logrus.WithFields(logrus.Fields{"step": step, "path": path, "digest": digest}).Info("snapshot: wrote container")
	return w.coll.Add(collPath, Entry{Step: step, ContainerPath: path, Digest: digest})
}
