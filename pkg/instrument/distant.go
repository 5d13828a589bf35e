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
	"math"

	"github.com/ctessum/sparse"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/units"
)

// Distant is a parallel-projection instrument at distance D from the
// origin, oriented by inclination, azimuth and position angle, recording
// one 2-D frame per channel for a single wavelength (§4.3 "A distant
// instrument is parameterized by distance D, and by Euler-like angles").
type Distant struct {
	Distance      float64
	Inclination   float64
	Azimuth       float64
	PositionAngle float64

	Xpmax, Ypmax float64
	Nxp, Nyp     int
	xpres, ypres float64
	xmin, ymin   float64

	sinPhi, cosPhi     float64
	sinTheta, cosTheta float64
	sinOmega, cosOmega float64

	Frames map[string]*Frame
}

// NewDistant builds a Distant instrument. channels names the recorded
// channels (e.g. "total", "direct", "scattered"); every channel gets its
// own same-shaped Frame (§3 "Instrument frame ... per recorded channel").
func NewDistant(distance, inclination, azimuth, positionAngle, xpmax, ypmax float64, nxp, nyp int, channels []string) (*Distant, error) {
	if !(distance > 0) {
		return nil, fmt.Errorf("instrument: distant requires Distance > 0, got %v", distance)
	}
	if nxp < 2 || nyp < 2 {
		return nil, fmt.Errorf("instrument: distant requires at least 2 pixels per axis, got %dx%d", nxp, nyp)
	}
	d := &Distant{
		Distance:      distance,
		Inclination:   inclination,
		Azimuth:       azimuth,
		PositionAngle: positionAngle,
		Xpmax:         xpmax,
		Ypmax:         ypmax,
		Nxp:           nxp,
		Nyp:           nyp,
		Frames:        make(map[string]*Frame, len(channels)),
	}
	d.xpres = 2 * xpmax / float64(nxp-1)
	d.ypres = 2 * ypmax / float64(nyp-1)
	d.xmin = -xpmax
	d.ymin = -ypmax
	d.sinPhi, d.cosPhi = math.Sincos(azimuth)
	d.sinTheta, d.cosTheta = math.Sincos(inclination)
	d.sinOmega, d.cosOmega = math.Sincos(positionAngle)
	for _, ch := range channels {
		d.Frames[ch] = NewFrame(nxp, nyp)
	}
	return d, nil
}

// project maps a photon-packet position onto the detector plane,
// returning pixel indices and whether they fall within range (§4.3
// "Pixel mapping").
func (d *Distant) project(p geom3.Position) (i, j int, ok bool) {
	x, y, z := p.Cartesian()

	xpp := -d.sinPhi*x + d.cosPhi*y
	ypp := -d.cosPhi*d.cosTheta*x - d.sinPhi*d.cosTheta*y + d.sinTheta*z

	xp := d.cosOmega*xpp - d.sinOmega*ypp
	yp := d.sinOmega*xpp + d.cosOmega*ypp

	i = int(math.Floor((xp-d.xmin)/d.xpres + 0.5))
	j = int(math.Floor((yp-d.ymin)/d.ypres + 0.5))
	if i < 0 || i >= d.Nxp || j < 0 || j >= d.Nyp {
		return -1, -1, false
	}
	return i, j, true
}

// Detect accumulates pp's effective luminosity into the named channel's
// pixel, if its projected position lands on the detector (§4.3
// "Detection (peel-off): effective luminosity is L*exp(-tau)").
func (d *Distant) Detect(pp *photon.PeelOffPacket, channel string) bool {
	i, j, ok := d.project(pp.Pos)
	if !ok {
		return false
	}
	f, exists := d.Frames[channel]
	if !exists {
		return false
	}
	f.Add(i, j, pp.EffectiveLuminosity())
	return true
}

// Direction returns the unit vector pointing from the model origin toward
// the observer, built from the same inclination/azimuth angles as project
// (§4.3 "A distant instrument is parameterized by distance D, and by
// Euler-like angles"). A peel-off packet aimed at this instrument travels
// along this fixed direction regardless of its emission or scattering
// position, the parallel-projection assumption.
func (d *Distant) Direction() geom3.Direction {
	return geom3.NewDirection(d.sinTheta*d.cosPhi, d.sinTheta*d.sinPhi, d.cosTheta)
}

// solidAngle returns the pixel solid angle Omega used by calibration
// (§4.3).
func (d *Distant) solidAngle() float64 {
	return 2 * math.Atan(d.xpres/(2*d.Distance)) * 2 * math.Atan(d.ypres/(2*d.Distance))
}

// Calibrate rescales every channel's synced frame from accumulated
// luminosity to the unit system's surface-brightness unit at
// lambdaMeters with bin width deltaLambdaMeters, and returns the
// calibrated dense arrays keyed by channel (§4.3 "Calibration on
// write").
func (d *Distant) Calibrate(lambdaMeters, deltaLambdaMeters float64, sys *units.System) map[string]*sparse.DenseArray {
	factor := 1 / deltaLambdaMeters / d.solidAngle() / (4 * math.Pi * d.Distance * d.Distance) * sys.SurfaceBrightnessFactor(lambdaMeters)
	out := make(map[string]*sparse.DenseArray, len(d.Frames))
	for name, f := range d.Frames {
		arr := f.Sync()
		arr.Scale(factor)
		out[name] = arr
	}
	return out
}
