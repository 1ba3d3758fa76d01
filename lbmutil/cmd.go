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

// Package lbmutil wires up the command-line interface and
// configuration loading for the lattice-Boltzmann solver, following
// the teacher's inmaputil package: a Cfg wrapping *viper.Viper, a
// table-driven flag registration loop shared between the CLI and the
// configuration file, and a cobra command tree hung off that table.
package lbmutil

import (
	"fmt"
	"sync"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/lbm3d/lattice"
	"github.com/spatialmodel/lbm3d/snapshot"
)

// Version is the version of this solver build, printed by the
// version subcommand.
const Version = "0.1.0"

// Cfg holds configuration information bound from flags, a config
// file, and environment variables, plus the cobra command tree built
// around it.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, runCmd, rankCmd, initConfigCmd *cobra.Command
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig builds the command tree and binds every
// configuration option to both the CLI flags and the config file /
// environment variable of the same name, following the teacher's
// InitializeConfig pattern.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "lbmrun",
		Short: "A distributed D3Q19 lattice-Boltzmann fluid solver.",
		Long: `lbmrun runs a distributed lattice-Boltzmann fluid simulation.
Use the subcommands specified below to launch a run.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'LBM_var' where 'var' is
the name of the variable to be set.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this build of the solver.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("lbm3d v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}

	// runCmd launches every rank of the process grid in-process, over
	// goroutines and channels (lattice.NewLocalTransports), the way a
	// single-machine smoke test or small run needs no separate
	// processes at all.
	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run every rank of the simulation in this one process.",
		Long: `run loads the configuration, validates it against the number of
ranks the process grid implies, and runs every rank concurrently in this
process using in-process channels instead of the network. This is the mode
for single-machine runs; for a distributed run launch one 'rank' process
per rank instead, each pointed at the same RankAddrs list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := latticeConfig(cfg)
			if err != nil {
				return err
			}
			nprocs := c.Px * c.Py * c.Pz
			if err := c.Validate(nprocs); err != nil {
				return err
			}
			return runLocal(c, nprocs)
		},
		DisableAutoGenTag: true,
	}

	// rankCmd is the single-rank worker entry point the multi-process
	// launcher starts once per rank, dialing its peers over TCP using
	// the RankAddrs list.
	cfg.rankCmd = &cobra.Command{
		Use:   "rank",
		Short: "Run a single rank of a distributed simulation.",
		Long: `rank runs exactly one rank of the process grid, identified by
--rank, connecting to every other rank over TCP using the addresses
listed in RankAddrs. Every rank in the run must be started with the same
configuration file and a distinct --rank value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := latticeConfig(cfg)
			if err != nil {
				return err
			}
			rank := cfg.GetInt("rank")
			if len(c.RankAddrs) == 0 {
				return &lattice.ConfigError{Field: "RankAddrs", Msg: "must list one host:port per rank for a distributed run"}
			}
			if err := c.Validate(len(c.RankAddrs)); err != nil {
				return err
			}
			if rank < 0 || rank >= len(c.RankAddrs) {
				return &lattice.ConfigError{Field: "rank", Msg: "must be in [0, len(RankAddrs))"}
			}
			return runRank(c, rank)
		},
		DisableAutoGenTag: true,
	}

	cfg.initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a starter TOML configuration file.",
		Long:  `init-config writes a starter configuration file with default values to path, ready to edit and pass to --config.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteDefaultConfigFile(args[0])
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.runCmd, cfg.rankCmd, cfg.initConfigCmd)

	// Options are the configuration options available to the solver.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name:       "config",
			usage:      `config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "Nx",
			usage:      `Nx is the global interior voxel count on the X axis.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Ny",
			usage:      `Ny is the global interior voxel count on the Y axis.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Nz",
			usage:      `Nz is the global interior voxel count on the Z axis.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Px",
			usage:      `Px is the process grid size on the X axis.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Py",
			usage:      `Py is the process grid size on the Y axis.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Pz",
			usage:      `Pz is the process grid size on the Z axis.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "PeriodicX",
			usage:      `PeriodicX selects a periodic boundary on the X axis instead of the sentinel hook.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "PeriodicY",
			usage:      `PeriodicY selects a periodic boundary on the Y axis instead of the sentinel hook.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "PeriodicZ",
			usage:      `PeriodicZ selects a periodic boundary on the Z axis instead of the sentinel hook.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "N",
			usage:      `N is the ghost-layer thickness. D3Q19 needs at least 1.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name: "Nu",
			usage: `Nu is the kinematic viscosity in lattice units. Exactly one of Nu
or Tau should be set; Tau is derived from Nu as 3*Nu+0.5 if Tau is left at 0.
`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "Tau",
			usage:      `Tau is the BGK relaxation time. Must be > 0.5 for stability. Leave at 0 to derive it from Nu.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "TTotal",
			usage:      `TTotal is the total number of time steps to run.`,
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "TOut",
			usage:      `TOut is the snapshot cadence, in steps.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "CheckPeriod",
			usage:      `CheckPeriod is the cadence, in steps, of the NaN/density-floor check. Zero disables it.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "RhoFloor",
			usage:      `RhoFloor is the minimum density used when computing velocity from momentum.`,
			defaultVal: 1e-6,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name: "RankAddrs",
			usage: `RankAddrs lists one host:port per linear rank index pz*Px*Py+py*Px+px,
used by 'rank' to dial its peers over TCP. Unused by 'run', which stays in-process.
`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.rankCmd.Flags()},
		},
		{
			name:       "SnapshotDir",
			usage:      `SnapshotDir is the directory snapshot containers and XDMF descriptors are written to.`,
			defaultVal: "out",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name: "SentinelExpr",
			usage: `SentinelExpr is a govaluate expression, in terms of i, j, and k, evaluated at
each ghost voxel by the default boundary hook on non-periodic domain-boundary faces.
Left empty, the hook leaves those ghost voxels untouched.
`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.rankCmd.Flags()},
		},
		{
			name:       "rank",
			usage:      `rank is this process's linear rank index, in [0, Px*Py*Pz).`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{cfg.rankCmd.Flags()},
		},
	}

	cfg.SetEnvPrefix("LBM")
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // Don't create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.String(option.name, v, option.usage)
			case []string:
				set.StringSlice(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			case int:
				set.Int(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			default:
				panic(fmt.Errorf("invalid argument type: %T", option.defaultVal))
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("lbmutil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// runLocal runs every rank of a nprocs-rank process grid in this one
// process, wiring each rank's Solver to an in-process Transport.
func runLocal(c *lattice.Config, nprocs int) error {
	transports := lattice.NewLocalTransports(nprocs)

	var wg sync.WaitGroup
	errs := make([]error, nprocs)
	for rank := 0; rank < nprocs; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			errs[rank] = runOneRank(c, transports[rank], rank)
		}(rank)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// runRank runs a single rank of a distributed run, dialing its peers
// over TCP.
func runRank(c *lattice.Config, rank int) error {
	t, err := lattice.NewTCPTransport(c.RankAddrs, rank)
	if err != nil {
		return err
	}
	defer t.Close()
	return runOneRank(c, t, rank)
}

// runOneRank builds the topology, boundary hook, and snapshot writer
// for one rank and runs its Solver to completion.
func runOneRank(c *lattice.Config, t lattice.Transport, rank int) error {
	topo := lattice.NewTopology(c.Px, c.Py, c.Pz, c.PeriodicX, c.PeriodicY, c.PeriodicZ, rank)

	hook, err := lattice.NewDefaultHook(c.SentinelExpr)
	if err != nil {
		return &lattice.ConfigError{Field: "SentinelExpr", Msg: err.Error()}
	}

	solver := lattice.NewSolver(c, topo, t, hook, nil)
	solver.Fl.InitEquilibrium(solver.Grid, 1.0, 0, 0, 0)

	w := snapshot.NewWriter(c.SnapshotDir, topo, solver.Grid, t, c.Nx, c.Ny, c.Nz, c.Px, c.Py, c.Pz)
	solver.Snapshot = w.Write

	logrus.WithFields(logrus.Fields{"rank": rank, "steps": c.TTotal}).Info("lbmutil: starting run")
	return solver.Run(c.TTotal)
}
