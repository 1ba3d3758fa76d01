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

// Package snapshot emits the parallel structured-grid output of spec
// section 4.7: a self-describing binary container holding the four
// macroscopic datasets, and a companion XDMF-family text descriptor a
// standard visualizer can open directly.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"os"

	"github.com/ctessum/cdf"
	"golang.org/x/crypto/blake2b"
)

// Variables are the four datasets every container carries, in the
// order spec section 6 lists them.
var Variables = []string{"rho", "u", "v", "w"}

// Container is one global field snapshot: a single binary file with
// four 3D datasets of shape (Nz, Ny, Nx), row-major (z, y, x), each a
// 64-bit float. It is adapted from the NetCDF-classic container
// github.com/ctessum/cdf reads and writes, generalized here from a
// single-writer-per-file assumption to the solver's collective
// per-rank hyperslab writes: every rank calls WriteHyperslab with its
// own interior block, and only the owning rank holds the file handle.
type Container struct {
	Nx, Ny, Nz int

	f  *cdf.File
	fh *os.File
	h  hash.Hash
}

// Create opens a new container at path sized (nx,ny,nz) and writes
// its header. Only the rank that owns the file handle (conventionally
// rank 0) calls Create; other ranks ship their hyperslab to it over
// the same Transport used for halo exchange (see Writer).
func Create(path string, nx, ny, nz int) (*Container, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	h := cdf.NewHeader([]string{"z", "y", "x"}, []int{nz, ny, nx})
	h.AddAttribute("", "comment", "distributed lattice-Boltzmann snapshot")
	for _, name := range Variables {
		h.AddVariable(name, []string{"z", "y", "x"}, []float64{0})
	}
	h.Define()
	f, err := cdf.Create(fh, h)
	if err != nil {
		fh.Close()
		return nil, err
	}
	digest, err := blake2b.New256(nil)
	if err != nil {
		fh.Close()
		return nil, err
	}
	return &Container{Nx: nx, Ny: ny, Nz: nz, f: f, fh: fh, h: digest}, nil
}

// Open opens an existing container for reading, for the snapshot
// round-trip property test of spec section 8 scenario 5.
func Open(path string) (*Container, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := cdf.Open(fh)
	if err != nil {
		fh.Close()
		return nil, err
	}
	lengths := f.Header.Lengths(Variables[0])
	return &Container{Nz: lengths[0], Ny: lengths[1], Nx: lengths[2], f: f, fh: fh}, nil
}

// WriteHyperslab writes data, the interior block of variable name
// owned by one rank, at global offset begin (in z,y,x order,
// inclusive) through end (exclusive). It also folds the written bytes
// into the container's running digest, so Digest reflects every
// hyperslab written collectively across all ranks.
func (c *Container) WriteHyperslab(name string, begin, end [3]int, data []float64) error {
	b := []int{begin[0], begin[1], begin[2]}
	e := []int{end[0], end[1], end[2]}
	w := c.f.Writer(name, b, e)
	if _, err := w.Write(data); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, data); err != nil {
		return err
	}
	c.h.Write(buf.Bytes())
	return nil
}

// ReadHyperslab reads the region begin (inclusive) through end
// (exclusive), in z,y,x order, of variable name into a freshly
// allocated slice.
func (c *Container) ReadHyperslab(name string, begin, end [3]int) ([]float64, error) {
	b := []int{begin[0], begin[1], begin[2]}
	e := []int{end[0], end[1], end[2]}
	r := c.f.Reader(name, b, e)
	n := (end[0] - begin[0]) * (end[1] - begin[1]) * (end[2] - begin[2])
	out := make([]float64, n)
	if _, err := r.Read(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Digest returns the hex-encoded blake2b-256 digest of every byte
// written to the container so far. It is meaningless on a Container
// returned by Open.
func (c *Container) Digest() string {
	if c.h == nil {
		return ""
	}
	return hex.EncodeToString(c.h.Sum(nil))
}

// Close closes the underlying file.
func (c *Container) Close() error {
	return c.fh.Close()
}
