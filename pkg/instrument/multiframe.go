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

package instrument

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/units"
	"github.com/skirtgo/skirt/pkg/wavelength"
)

// calibratedFrame bundles a calibrated channel array with the wavelength
// it was calibrated at, the minimum fitsio needs to write an axis.
type calibratedFrame struct {
	lambdaMeters float64
	array        *sparse.DenseArray
}

// MultiFrame holds one Distant frame set per wavelength, sharing the same
// pointing angles but allowing per-wavelength extents (§4.3 "The
// multi-frame instrument holds one frame per wavelength ... Invariant:
// number of frames equals number of wavelengths").
type MultiFrame struct {
	Grid   *wavelength.Grid
	Frames []*Distant
}

// NewMultiFrame builds a MultiFrame whose Frames has exactly grid.Len()
// entries, one per wavelength, each built by newFrame(ell).
func NewMultiFrame(grid *wavelength.Grid, newFrame func(ell int) (*Distant, error)) (*MultiFrame, error) {
	frames := make([]*Distant, grid.Len())
	for ell := 0; ell < grid.Len(); ell++ {
		f, err := newFrame(ell)
		if err != nil {
			return nil, fmt.Errorf("instrument: multiframe wavelength %d: %w", ell, err)
		}
		frames[ell] = f
	}
	return &MultiFrame{Grid: grid, Frames: frames}, nil
}

// Detect forwards pp to frames[pp.Ell].Detect (§4.3).
func (m *MultiFrame) Detect(pp *photon.PeelOffPacket, channel string) bool {
	return m.Frames[pp.Ell].Detect(pp, channel)
}

// CalibrateAll calls Calibrate(ell) on every frame and returns the
// per-wavelength calibrated channel maps.
func (m *MultiFrame) CalibrateAll(sys *units.System) []map[string]*calibratedFrame {
	out := make([]map[string]*calibratedFrame, len(m.Frames))
	for ell, f := range m.Frames {
		lambda := m.Grid.Lambda(ell)
		width := m.Grid.Width(ell)
		arrays := f.Calibrate(lambda, width, sys)
		chans := make(map[string]*calibratedFrame, len(arrays))
		for name, arr := range arrays {
			chans[name] = &calibratedFrame{lambdaMeters: lambda, array: arr}
		}
		out[ell] = chans
	}
	return out
}
