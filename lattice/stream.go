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

// Stream advects F into FNext over every interior voxel:
// fNext(i,j,k,a) = f(i-cx_a, j-cy_a, k-cz_a, a). Ghost layers are read
// but never written, so Stream must run after the distribution halo
// exchange has populated them. It does not swap the buffers; the
// caller does that once streaming over all interior voxels completes,
// so no voxel reads a partially-streamed value.
func Stream(g *Grid, fl *Fields) {
	lo, hi := g.Interior()
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				for a := 0; a < Q; a++ {
					src := fl.F.Get(k-Cz[a], j-Cy[a], i-Cx[a], a)
					fl.FNext.Set(src, k, j, i, a)
				}
			}
		}
	}
}
