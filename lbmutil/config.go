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
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/lbm3d/lattice"
)

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkSnapshotDir makes sure the snapshot directory is specified and
// exists, expanding any environment variables and creating it if
// necessary, mirroring the teacher's checkOutputFile.
func checkSnapshotDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`lbmutil: you need to specify a SnapshotDir configuration variable (for example: SnapshotDir="out")`)
	}
	dir = os.ExpandEnv(dir)
	if _, err := os.Stat(dir); err != nil {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return "", fmt.Errorf("lbmutil: the SnapshotDir directory doesn't exist and could not be created: %v", mkErr)
		}
	}
	return dir, nil
}

// latticeConfig assembles a *lattice.Config from the bound viper
// values, the way the teacher's VarGridConfig assembles an
// inmap.VarGridConfig from cfg.Viper.
func latticeConfig(cfg *Cfg) (*lattice.Config, error) {
	c := &lattice.Config{
		Nx: cfg.GetInt("Nx"), Ny: cfg.GetInt("Ny"), Nz: cfg.GetInt("Nz"),
		Px: cfg.GetInt("Px"), Py: cfg.GetInt("Py"), Pz: cfg.GetInt("Pz"),
		PeriodicX: cfg.GetBool("PeriodicX"), PeriodicY: cfg.GetBool("PeriodicY"), PeriodicZ: cfg.GetBool("PeriodicZ"),
		N:            cfg.GetInt("N"),
		TTotal:       cfg.GetInt("TTotal"),
		TOut:         cfg.GetInt("TOut"),
		CheckPeriod:  cfg.GetInt("CheckPeriod"),
		RhoFloor:     cfg.GetFloat64("RhoFloor"),
		RankAddrs:    expandStringSlice(cfg.GetStringSlice("RankAddrs")),
		SentinelExpr: strings.TrimSpace(cfg.GetString("SentinelExpr")),
	}

	if nu := cfg.GetFloat64("Nu"); nu > 0 {
		c.Nu = unit.New(nu, unit.Dimless)
	}
	if tau := cfg.GetFloat64("Tau"); tau > 0 {
		c.Tau = unit.New(tau, unit.Dimless)
	}

	snapDir, err := checkSnapshotDir(cfg.GetString("SnapshotDir"))
	if err != nil {
		return nil, err
	}
	c.SnapshotDir = snapDir

	return c, nil
}
