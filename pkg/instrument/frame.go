/*
Copyright © 2026 the skirt authors.
This file is part of skirt.

skirt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

skirt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with skirt.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package instrument implements the detection planes of §4.3: distant,
// multi-frame, and SED-only instruments that accumulate peeled-off photon
// packets into pixel grids and calibrate them to physical flux units on
// write.
package instrument

import (
	"math"
	"sync/atomic"

	"github.com/ctessum/sparse"
)

// Frame is a 2-D pixel accumulator of shape (Nxp, Nyp), safe for
// concurrent per-pixel additions from many worker goroutines (§4.3
// "each pixel uses an atomic fetch-and-add").
//
// Accumulation happens into bits, a parallel array of float64 bit
// patterns updated with a compare-and-swap loop: sparse.DenseArray's own
// AddVal is a plain read-modify-write with no synchronization, and the
// standard library has no atomic float64 add, so the CAS loop is the
// narrow piece of hand-rolled atomics this package needs. dense mirrors
// the same shape and is only populated by Sync, immediately before
// calibration and write-out, which happens single-threaded.
type Frame struct {
	nxp, nyp int
	bits     []uint64
	dense    *sparse.DenseArray
}

// NewFrame allocates a zeroed frame of shape (nxp, nyp).
func NewFrame(nxp, nyp int) *Frame {
	return &Frame{
		nxp:   nxp,
		nyp:   nyp,
		bits:  make([]uint64, nxp*nyp),
		dense: sparse.ZerosDense(nxp, nyp),
	}
}

func (f *Frame) index(i, j int) int { return i*f.nyp + j }

// Add atomically adds val to pixel (i,j). Out-of-range indices are
// ignored: Distant.Detect only calls Add after project reports the pixel
// in range (§4.3 "Returns −1 if
// (i,j) is out of pixel range").
func (f *Frame) Add(i, j int, val float64) {
	if i < 0 || i >= f.nxp || j < 0 || j >= f.nyp {
		return
	}
	idx := f.index(i, j)
	for {
		old := atomic.LoadUint64(&f.bits[idx])
		newVal := math.Float64frombits(old) + val
		if atomic.CompareAndSwapUint64(&f.bits[idx], old, math.Float64bits(newVal)) {
			return
		}
	}
}

// Get returns the current value at (i,j).
func (f *Frame) Get(i, j int) float64 {
	return math.Float64frombits(atomic.LoadUint64(&f.bits[f.index(i, j)]))
}

// Sync copies the accumulated bits into the dense array and returns it,
// for calibration and write-out (single-threaded, after the photon
// loop).
func (f *Frame) Sync() *sparse.DenseArray {
	for i := 0; i < f.nxp; i++ {
		for j := 0; j < f.nyp; j++ {
			f.dense.Set(f.Get(i, j), i, j)
		}
	}
	return f.dense
}

func (f *Frame) Shape() (nxp, nyp int) { return f.nxp, f.nyp }
