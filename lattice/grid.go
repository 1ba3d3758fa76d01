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

// Face identifies one of the six faces of a subdomain.
type Face int

const (
	West Face = iota
	East
	South
	North
	Bottom
	Top
)

func (f Face) String() string {
	switch f {
	case West:
		return "west"
	case East:
		return "east"
	case South:
		return "south"
	case North:
		return "north"
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	default:
		return "unknown"
	}
}

// Opposite returns the face on the other side of the subdomain along
// the same axis.
func (f Face) Opposite() Face {
	switch f {
	case West:
		return East
	case East:
		return West
	case South:
		return North
	case North:
		return South
	case Bottom:
		return Top
	case Top:
		return Bottom
	default:
		panic("lattice: invalid face")
	}
}

// Grid is the pure arithmetic owner of a subdomain's padded dimensions.
// It holds no field data; Fields holds the arrays Grid indexes into.
// A Grid value is immutable once constructed.
type Grid struct {
	N          int // ghost-layer thickness
	MX, MY, MZ int // interior voxel counts
	MXP, MYP, MZP int // padded voxel counts

	// scalar and dist are index templates: zero-valued arrays shaped
	// like a scalar field (MZP,MYP,MXP) and a distribution field
	// (MZP,MYP,MXP,Q), kept only so Idx3/Idx4 can delegate to
	// sparse.DenseArray.Index1d instead of reimplementing the
	// linearization by hand.
	scalar *sparse.DenseArray
	dist   *sparse.DenseArray
}

// NewGrid constructs a Grid from the ghost-layer thickness and the
// per-rank interior voxel counts.
func NewGrid(n, mx, my, mz int) *Grid {
	mxp, myp, mzp := mx+2*n, my+2*n, mz+2*n
	return &Grid{
		N: n, MX: mx, MY: my, MZ: mz,
		MXP: mxp, MYP: myp, MZP: mzp,
		scalar: sparse.ZerosDense(mzp, myp, mxp),
		dist:   sparse.ZerosDense(mzp, myp, mxp, Q),
	}
}

// Idx3 returns the linear index of voxel (i,j,k) in a scalar field,
// matching idx3(i,j,k) = i + j*MXP + k*MXP*MYP.
func (g *Grid) Idx3(i, j, k int) int {
	return g.scalar.Index1d(k, j, i)
}

// Idx4 returns the linear index of (i,j,k,a) in a distribution field,
// matching idx4(i,j,k,a) = a + Q*(i + j*MXP + k*MXP*MYP).
func (g *Grid) Idx4(i, j, k, a int) int {
	return g.dist.Index1d(k, j, i, a)
}

// Interior returns the inclusive-exclusive bounds [lo,hi) of the
// interior voxel region along each axis, in (i,j,k) order.
func (g *Grid) Interior() (lo, hi [3]int) {
	lo = [3]int{g.N, g.N, g.N}
	hi = [3]int{g.N + g.MX, g.N + g.MY, g.N + g.MZ}
	return lo, hi
}

// InteriorSlab returns the (i,j,k) bounds of the layer-ℓ interior slab
// on the given face: a one-voxel-thick region along the face's axis,
// full padded extent (including ghost voxels) on the other two axes,
// per spec section 4.3 — so a diagonal neighbor's data reaches a
// local corner ghost through two successive face hops.
func (g *Grid) InteriorSlab(face Face, layer int) (lo, hi [3]int) {
	lo = [3]int{0, 0, 0}
	hi = [3]int{g.MXP, g.MYP, g.MZP}
	switch face {
	case East:
		lo[0] = g.N + g.MX - 1 - layer
		hi[0] = lo[0] + 1
	case West:
		lo[0] = g.N + layer
		hi[0] = lo[0] + 1
	case North:
		lo[1] = g.N + g.MY - 1 - layer
		hi[1] = lo[1] + 1
	case South:
		lo[1] = g.N + layer
		hi[1] = lo[1] + 1
	case Top:
		lo[2] = g.N + g.MZ - 1 - layer
		hi[2] = lo[2] + 1
	case Bottom:
		lo[2] = g.N + layer
		hi[2] = lo[2] + 1
	}
	return lo, hi
}

// Ghost returns the (i,j,k) bounds of the layer-ℓ ghost slab on the
// given face: the slab that receives data sent from the neighbor's
// matching interior slab.
func (g *Grid) Ghost(face Face, layer int) (lo, hi [3]int) {
	lo = [3]int{0, 0, 0}
	hi = [3]int{g.MXP, g.MYP, g.MZP}
	switch face {
	case East:
		lo[0] = g.N + g.MX + layer
		hi[0] = lo[0] + 1
	case West:
		lo[0] = g.N - 1 - layer
		hi[0] = lo[0] + 1
	case North:
		lo[1] = g.N + g.MY + layer
		hi[1] = lo[1] + 1
	case South:
		lo[1] = g.N - 1 - layer
		hi[1] = lo[1] + 1
	case Top:
		lo[2] = g.N + g.MZ + layer
		hi[2] = lo[2] + 1
	case Bottom:
		lo[2] = g.N - 1 - layer
		hi[2] = lo[2] + 1
	}
	return lo, hi
}

// IsInterior reports whether (i,j,k) is an interior voxel.
func (g *Grid) IsInterior(i, j, k int) bool {
	return i >= g.N && i < g.N+g.MX &&
		j >= g.N && j < g.N+g.MY &&
		k >= g.N && k < g.N+g.MZ
}

// SlabSize returns the number of voxels in the rectangular region
// [lo,hi).
func SlabSize(lo, hi [3]int) int {
	return (hi[0] - lo[0]) * (hi[1] - lo[1]) * (hi[2] - lo[2])
}
