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

package lbmutil

import (
	"os"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile mirrors the field names latticeConfig reads off of
// cfg.Viper, so a file written by WriteDefaultConfigFile loads straight
// back through --config with no translation step.
type defaultConfigFile struct {
	Nx, Ny, Nz                      int
	Px, Py, Pz                      int
	PeriodicX, PeriodicY, PeriodicZ bool
	N                               int
	Nu                              float64
	TTotal, TOut, CheckPeriod       int
	RhoFloor                        float64
	SnapshotDir                     string
}

// WriteDefaultConfigFile writes a starter TOML configuration file to
// path, following the teacher's inmap/cmd toml.Decode round trip
// (github.com/BurntSushi/toml) in the opposite direction: this solver
// needs to hand a new user a config file to edit, rather than read an
// existing one back into a struct.
func WriteDefaultConfigFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg := defaultConfigFile{
		Nx: 32, Ny: 32, Nz: 32,
		Px: 1, Py: 1, Pz: 1,
		PeriodicX: true, PeriodicY: true, PeriodicZ: true,
		N:         1,
		Nu:        0.1,
		TTotal:    1000, TOut: 100, CheckPeriod: 10,
		RhoFloor:    1e-6,
		SnapshotDir: "out",
	}
	return toml.NewEncoder(f).Encode(cfg)
}
