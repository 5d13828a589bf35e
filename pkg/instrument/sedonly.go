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
	"bufio"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/units"
	"github.com/skirtgo/skirt/pkg/wavelength"
)

// SEDOnly accumulates a single 1-D luminosity vector per wavelength,
// without any spatial pixel grid (§4.3 "SED-only instruments accumulate
// a 1-D vector per wavelength").
type SEDOnly struct {
	Grid *wavelength.Grid
	bits []uint64 // one per wavelength, atomic-add accumulator
}

// NewSEDOnly allocates a zeroed SED accumulator over grid.
func NewSEDOnly(grid *wavelength.Grid) *SEDOnly {
	return &SEDOnly{Grid: grid, bits: make([]uint64, grid.Len())}
}

// Detect atomically adds pp's effective luminosity into bin pp.Ell.
func (s *SEDOnly) Detect(pp *photon.PeelOffPacket) {
	idx := pp.Ell
	for {
		old := atomic.LoadUint64(&s.bits[idx])
		newVal := math.Float64frombits(old) + pp.EffectiveLuminosity()
		if atomic.CompareAndSwapUint64(&s.bits[idx], old, math.Float64bits(newVal)) {
			return
		}
	}
}

// calibratedValue returns the monochromatic flux density at ell, per
// §4.3's calibration chain minus the pixel solid angle (there is no
// pixel), so division is by deltaLambda and 4*pi*D^2 only, then the
// unit system's flux-density factor at lambda.
func (s *SEDOnly) calibratedValue(ell int, distance float64, sys *units.System) float64 {
	raw := math.Float64frombits(atomic.LoadUint64(&s.bits[ell]))
	lambda := s.Grid.Lambda(ell)
	width := s.Grid.Width(ell)
	fluxPerMeter := raw / width / (4 * math.Pi * distance * distance)
	return sys.ConvertFluxDensity(fluxPerMeter, lambda)
}

// WriteTSV writes a tab-separated file with a header row describing each
// column: wavelength and the calibrated flux density (§4.3 "emit a
// tab-separated file with a header describing each column").
func (s *SEDOnly) WriteTSV(w io.Writer, distance float64, sys *units.System) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "lambda(m)\tflux(%s)\n", sys.FluxDensityUnit); err != nil {
		return err
	}
	for ell := 0; ell < s.Grid.Len(); ell++ {
		lambda := s.Grid.Lambda(ell)
		flux := s.calibratedValue(ell, distance, sys)
		if _, err := fmt.Fprintf(bw, "%g\t%g\n", lambda, flux); err != nil {
			return err
		}
	}
	return bw.Flush()
}
