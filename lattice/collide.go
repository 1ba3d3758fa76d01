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

import "gonum.org/v1/gonum/floats"

// Equilibrium returns f_a^eq(ρ,u,v,w), the D3Q19 equilibrium
// distribution in direction a.
func Equilibrium(a int, rho, u, v, w float64) float64 {
	cu := float64(Cx[a])*u + float64(Cy[a])*v + float64(Cz[a])*w
	usq := u*u + v*v + w*w
	return W[a] * rho * (1 + 3*cu + 4.5*cu*cu - 1.5*usq)
}

// scratch is a fixed-size array for the 19 distribution values at one
// voxel. Reduce declares one per call as a value, so it needs no heap
// allocation.
type scratch [Q]float64

// Reduce computes (ρ, u, v, w) at voxel (i,j,k) from F, clamping the
// velocity computation's denominator at rhoFloor.
func Reduce(g *Grid, fl *Fields, i, j, k int, rhoFloor float64) (rho, u, v, w float64) {
	var fa scratch
	for a := 0; a < Q; a++ {
		fa[a] = fl.F.Get(k, j, i, a)
	}
	rho = floats.Sum(fa[:])
	denom := rho
	if denom < rhoFloor {
		denom = rhoFloor
	}
	var mx, my, mz float64
	for a := 0; a < Q; a++ {
		mx += float64(Cx[a]) * fa[a]
		my += float64(Cy[a]) * fa[a]
		mz += float64(Cz[a]) * fa[a]
	}
	u = mx / denom
	v = my / denom
	w = mz / denom
	return rho, u, v, w
}

// ReduceAll runs Reduce over every interior voxel and stores the
// result in Rho, U, V, W.
func ReduceAll(g *Grid, fl *Fields, rhoFloor float64) {
	lo, hi := g.Interior()
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				rho, u, v, w := Reduce(g, fl, i, j, k, rhoFloor)
				fl.Rho.Set(rho, k, j, i)
				fl.U.Set(u, k, j, i)
				fl.V.Set(v, k, j, i)
				fl.W.Set(w, k, j, i)
			}
		}
	}
}

// Collide relaxes F toward its equilibrium at every interior voxel,
// using the macroscopic values already stored in Rho, U, V, W by a
// prior ReduceAll. tau is the BGK relaxation time.
func Collide(g *Grid, fl *Fields, tau float64) {
	invTau := 1 / tau
	lo, hi := g.Interior()
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				rho := fl.Rho.Get(k, j, i)
				u := fl.U.Get(k, j, i)
				v := fl.V.Get(k, j, i)
				w := fl.W.Get(k, j, i)
				for a := 0; a < Q; a++ {
					feq := Equilibrium(a, rho, u, v, w)
					f := fl.F.Get(k, j, i, a)
					fl.F.Set(f-invTau*(f-feq), k, j, i, a)
				}
			}
		}
	}
}

// MassMomentum sums ρ and ρu, ρv, ρw over every interior voxel, for
// the conservation property tests.
func MassMomentum(g *Grid, fl *Fields) (mass, px, py, pz float64) {
	lo, hi := g.Interior()
	n := SlabSize(lo, hi)
	rhos := make([]float64, 0, n)
	for k := lo[2]; k < hi[2]; k++ {
		for j := lo[1]; j < hi[1]; j++ {
			for i := lo[0]; i < hi[0]; i++ {
				rho := fl.Rho.Get(k, j, i)
				u := fl.U.Get(k, j, i)
				v := fl.V.Get(k, j, i)
				w := fl.W.Get(k, j, i)
				rhos = append(rhos, rho)
				px += rho * u
				py += rho * v
				pz += rho * w
			}
		}
	}
	mass = floats.Sum(rhos)
	return mass, px, py, pz
}
