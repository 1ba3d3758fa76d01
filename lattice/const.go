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

// Package lattice implements a distributed three-dimensional
// lattice-Boltzmann fluid solver on the D3Q19 velocity set, parallelized
// by Cartesian domain decomposition. Each process ("rank") owns a padded
// subdomain of the global voxel lattice and advances it in lockstep with
// its neighbors through a ghost-layer halo exchange.
package lattice

// Q is the number of discrete velocities in the D3Q19 lattice.
const Q = 19

// Cx, Cy, Cz are the integer components of the D3Q19 discrete velocities
// c_a, a in [0,18]. Direction 0 is the rest velocity.
var (
	Cx = [Q]int{0, 1, -1, 0, 0, 0, 0, 1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0}
	Cy = [Q]int{0, 0, 0, 1, -1, 0, 0, 1, -1, -1, 1, 0, 0, 0, 0, 1, -1, 1, -1}
	Cz = [Q]int{0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 1, -1, -1, 1, 1, -1, -1, 1}
)

// W holds the D3Q19 equilibrium weights: 1/3 for the rest direction,
// 1/18 for the six axis directions, 1/36 for the twelve edge directions.
var W = [Q]float64{
	1. / 3.,
	1. / 18., 1. / 18., 1. / 18., 1. / 18., 1. / 18., 1. / 18.,
	1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36.,
	1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36., 1. / 36.,
}

// Cs2 is the lattice speed of sound squared, 1/3 in lattice units.
const Cs2 = 1. / 3.

// opp maps each direction to its antipode: opp[a] is b such that
// c_b = -c_a.
var opp = [Q]int{0, 2, 1, 4, 3, 6, 5, 8, 7, 10, 9, 12, 11, 14, 13, 16, 15, 18, 17}

// Opp returns the antipodal direction index of a.
func Opp(a int) int { return opp[a] }

func init() {
	for a := 0; a < Q; a++ {
		if Cx[opp[a]] != -Cx[a] || Cy[opp[a]] != -Cy[a] || Cz[opp[a]] != -Cz[a] {
			panic("lattice: opp table is inconsistent with the D3Q19 velocity set")
		}
	}
	var sumW float64
	for _, w := range W {
		sumW += w
	}
	if d := sumW - 1; d > 1e-12 || d < -1e-12 {
		panic("lattice: D3Q19 weights do not sum to 1")
	}
}
