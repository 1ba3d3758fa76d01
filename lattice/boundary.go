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

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// BoundaryHook is invoked once per step after the distribution halo
// exchange and once after the macroscopic halo exchange, per spec
// section 6. It populates the ghost slabs on the faces named by
// faces; every other face was already filled by the halo exchange.
type BoundaryHook interface {
	Apply(topo *Topology, g *Grid, fl *Fields, faces []Face)
}

// DefaultHook is the core's built-in hook: a no-op on periodic runs
// (there are no domain-boundary faces to populate), and otherwise an
// optional govaluate expression evaluated at each ghost voxel of each
// domain-boundary face, in terms of the voxel's local (i,j,k)
// coordinates. Wall, inflow, and outflow variants are out of scope
// (spec section 6); SentinelExpr exists only to give scenario 6 of
// spec section 8 a known, checkable value to write.
type DefaultHook struct {
	expr *govaluate.EvaluableExpression
}

// NewDefaultHook compiles expr, which may be empty, in which case
// Apply leaves domain-boundary ghost voxels untouched.
func NewDefaultHook(expr string) (*DefaultHook, error) {
	if expr == "" {
		return &DefaultHook{}, nil
	}
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("lattice: invalid sentinel expression: %v", err)
	}
	return &DefaultHook{expr: e}, nil
}

// Apply fills every ghost voxel on each of faces with the compiled
// sentinel expression evaluated at that voxel's local (i,j,k), or
// leaves it untouched if no expression was supplied.
func (h *DefaultHook) Apply(topo *Topology, g *Grid, fl *Fields, faces []Face) {
	if h.expr == nil {
		return
	}
	for _, face := range faces {
		// A domain-boundary face has no neighbor, so every layer's
		// ghost slab belongs to this hook, not just layer 0.
		for layer := 0; layer < g.N; layer++ {
			lo, hi := g.Ghost(face, layer)
			for k := lo[2]; k < hi[2]; k++ {
				for j := lo[1]; j < hi[1]; j++ {
					for i := lo[0]; i < hi[0]; i++ {
						params := map[string]interface{}{
							"i": float64(i), "j": float64(j), "k": float64(k),
						}
						result, err := h.expr.Evaluate(params)
						if err != nil {
							continue
						}
						val, ok := result.(float64)
						if !ok {
							continue
						}
						fl.Rho.Set(val, k, j, i)
					}
				}
			}
		}
	}
}
