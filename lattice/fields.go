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

// Fields holds the arrays a rank owns: the macroscopic scalars and
// the double-buffered distribution function. All arrays are allocated
// once, sized by Grid, and live for the duration of the run.
type Fields struct {
	Rho, U, V, W *sparse.DenseArray // shape (MZP, MYP, MXP)
	F, FNext     *sparse.DenseArray // shape (MZP, MYP, MXP, Q)
}

// NewFields allocates the macroscopic and distribution arrays for the
// subdomain g describes.
func NewFields(g *Grid) *Fields {
	return &Fields{
		Rho: sparse.ZerosDense(g.MZP, g.MYP, g.MXP),
		U:   sparse.ZerosDense(g.MZP, g.MYP, g.MXP),
		V:   sparse.ZerosDense(g.MZP, g.MYP, g.MXP),
		W:   sparse.ZerosDense(g.MZP, g.MYP, g.MXP),
		F:     sparse.ZerosDense(g.MZP, g.MYP, g.MXP, Q),
		FNext: sparse.ZerosDense(g.MZP, g.MYP, g.MXP, Q),
	}
}

// Swap exchanges F and FNext, completing the double-buffered
// streaming step without copying data.
func (fl *Fields) Swap() {
	fl.F, fl.FNext = fl.FNext, fl.F
}

// InitEquilibrium sets every voxel of F (interior and ghost) to the
// D3Q19 equilibrium distribution for the given density and velocity,
// and sets Rho, U, V, W to match. It is the solver's initial
// condition when no other loader is supplied.
func (fl *Fields) InitEquilibrium(g *Grid, rho0, u0, v0, w0 float64) {
	for k := 0; k < g.MZP; k++ {
		for j := 0; j < g.MYP; j++ {
			for i := 0; i < g.MXP; i++ {
				fl.Rho.Set(rho0, k, j, i)
				fl.U.Set(u0, k, j, i)
				fl.V.Set(v0, k, j, i)
				fl.W.Set(w0, k, j, i)
				for a := 0; a < Q; a++ {
					fl.F.Set(Equilibrium(a, rho0, u0, v0, w0), k, j, i, a)
				}
			}
		}
	}
}
