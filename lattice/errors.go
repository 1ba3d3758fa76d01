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

import "fmt"

// ConfigError is a configuration problem detected before any allocation,
// per spec section 7. Field names the offending configuration field.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("lattice: configuration error in %s: %s", e.Field, e.Msg)
}

// TransportError is a failed send/receive or collective write. It is
// always fatal to the run.
type TransportError struct {
	Rank int
	Face Face
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lattice: rank %d: transport failure on face %s: %v", e.Rank, e.Face, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NumericalError is a NaN or an out-of-floor density detected at the
// configured check cadence. It identifies the step that produced it.
type NumericalError struct {
	Rank int
	Step int
	Msg  string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("lattice: rank %d: numerical error at step %d: %s", e.Rank, e.Step, e.Msg)
}

// IOError wraps a failure to open or write a snapshot container.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("lattice: I/O error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
