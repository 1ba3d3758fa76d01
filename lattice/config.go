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
	"github.com/ctessum/unit"
)

// Config holds the parameters spec section 6 lists as the abstract
// external configuration surface. It is populated by lbmutil from a
// TOML file or LBM_-prefixed environment variables and validated once,
// before any field is allocated.
type Config struct {
	// Nx, Ny, Nz are the global interior voxel counts.
	Nx, Ny, Nz int

	// Px, Py, Pz is the process grid shape; Px*Py*Pz must equal the
	// rank count, and each axis must divide the corresponding global
	// extent evenly.
	Px, Py, Pz int

	// PeriodicX, PeriodicY, PeriodicZ select periodic or sentinel
	// boundaries per axis.
	PeriodicX, PeriodicY, PeriodicZ bool

	// N is the ghost-layer thickness. D3Q19 requires N >= 1; nothing
	// in the stencil requires more.
	N int

	// Nu is the kinematic viscosity, in lattice units. Tau is derived
	// from it as Tau = 3*Nu + 0.5. Exactly one of Nu or Tau should be
	// set by the caller; when Tau is nil, Validate derives it from Nu.
	// Nu is never derived from Tau.
	Nu *unit.Unit

	// Tau is the BGK relaxation time. Stability requires Tau > 0.5.
	Tau *unit.Unit

	// TTotal is the number of steps to run. TOut is the snapshot
	// cadence; a snapshot is emitted when t mod TOut == 0.
	TTotal, TOut int

	// CheckPeriod is the cadence, in steps, of the optional
	// divergence/NaN reduction. Zero disables the check.
	CheckPeriod int

	// RhoFloor is the minimum density used when computing velocity
	// from momentum.
	RhoFloor float64

	// RankAddrs lists one host:port per linear rank index
	// pz*Px*Py + py*Px + px, used by the TCP transport to dial peers.
	// Unused by the in-process transport.
	RankAddrs []string

	// SnapshotDir is the directory snapshot containers and descriptors
	// are written to.
	SnapshotDir string

	// SentinelExpr is a govaluate expression evaluated at each ghost
	// voxel coordinate by the default boundary hook on non-periodic
	// domain-boundary faces. With an empty string the hook leaves
	// those ghost voxels untouched.
	SentinelExpr string
}

// Validate checks Config for the errors spec section 7 classifies as
// configuration errors: process-grid mismatch, non-divisible
// decomposition, and a non-positive tau-0.5. It runs before any field
// is allocated and returns a *ConfigError naming the first offending
// field it finds.
func (c *Config) Validate(rankCount int) error {
	if c.Nx <= 0 {
		return &ConfigError{Field: "Nx", Msg: "must be positive"}
	}
	if c.Ny <= 0 {
		return &ConfigError{Field: "Ny", Msg: "must be positive"}
	}
	if c.Nz <= 0 {
		return &ConfigError{Field: "Nz", Msg: "must be positive"}
	}
	if c.Px <= 0 || c.Py <= 0 || c.Pz <= 0 {
		return &ConfigError{Field: "Px,Py,Pz", Msg: "process grid dimensions must be positive"}
	}
	if c.Px*c.Py*c.Pz != rankCount {
		return &ConfigError{Field: "Px,Py,Pz", Msg: "process grid does not match rank count"}
	}
	if c.Nx%c.Px != 0 {
		return &ConfigError{Field: "Px", Msg: "does not evenly divide Nx"}
	}
	if c.Ny%c.Py != 0 {
		return &ConfigError{Field: "Py", Msg: "does not evenly divide Ny"}
	}
	if c.Nz%c.Pz != 0 {
		return &ConfigError{Field: "Pz", Msg: "does not evenly divide Nz"}
	}
	if c.N < 1 {
		return &ConfigError{Field: "N", Msg: "ghost-layer thickness must be at least 1"}
	}

	if c.Tau == nil {
		if c.Nu == nil {
			return &ConfigError{Field: "Nu", Msg: "either Nu or Tau must be set"}
		}
		c.Tau = unit.New(3*c.Nu.Value()+0.5, unit.Dimless)
	}
	if c.Tau.Value() <= 0.5 {
		return &ConfigError{Field: "Tau", Msg: "must be greater than 0.5 for stability"}
	}

	if c.TTotal <= 0 {
		return &ConfigError{Field: "TTotal", Msg: "must be positive"}
	}
	if c.TOut <= 0 {
		return &ConfigError{Field: "TOut", Msg: "must be positive"}
	}
	if c.RhoFloor <= 0 {
		return &ConfigError{Field: "RhoFloor", Msg: "must be positive"}
	}
	return nil
}

// MX, MY, MZ are the per-rank interior voxel counts implied by the
// global extents and the process grid.
func (c *Config) MX() int { return c.Nx / c.Px }
func (c *Config) MY() int { return c.Ny / c.Py }
func (c *Config) MZ() int { return c.Nz / c.Pz }
