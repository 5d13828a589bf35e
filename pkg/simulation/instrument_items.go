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

package simulation

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/skirtgo/skirt/pkg/fitsio"
	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/instrument"
	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/simitem"
	"github.com/skirtgo/skirt/pkg/units"
	"github.com/skirtgo/skirt/pkg/wavelength"
)

// Instrument is the capability every detector item exposes to the photon
// loop and to the output-writing pass (§4.3, §6 "Output files"). Detect
// peels src off toward the instrument's fixed viewing direction and
// records the result; each instrument owns the direction its own pointing
// angles define, so the photon loop never computes one itself.
type Instrument interface {
	Detect(src *photon.Packet, dust photon.DustSystem)
	WriteOutput(dir string, sys *units.System) error
}

var DistantInstrumentSchema = simitem.Schema{
	{Name: "name", Kind: simitem.KindString, Required: true},
	{Name: "distance", Kind: simitem.KindDouble, Required: true},
	{Name: "inclination", Kind: simitem.KindDouble, Required: false, Default: 0.0},
	{Name: "azimuth", Kind: simitem.KindDouble, Required: false, Default: 0.0},
	{Name: "positionangle", Kind: simitem.KindDouble, Required: false, Default: 0.0},
	{Name: "xpmax", Kind: simitem.KindDouble, Required: true},
	{Name: "ypmax", Kind: simitem.KindDouble, Required: true},
	{Name: "nxp", Kind: simitem.KindInt, Required: true},
	{Name: "nyp", Kind: simitem.KindInt, Required: true},
}

const totalChannel = "total"

// DistantInstrumentItem builds one instrument.MultiFrame (one Distant
// projection per wavelength bin), and writes one FITS-like file per
// wavelength on output, named per §6.
type DistantInstrumentItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Name                                           string
	Distance, Inclination, Azimuth, PositionAngle float64
	Xpmax, Ypmax                                   float64
	Nxp, Nyp                                       int

	grid  *wavelength.Grid
	multi *instrument.MultiFrame
}

func NewDistantInstrumentItem(grid *wavelength.Grid) *DistantInstrumentItem {
	it := &DistantInstrumentItem{grid: grid}
	it.Item.Init(it)
	return it
}

func (it *DistantInstrumentItem) SetString(name, v string) error {
	if name != "name" {
		return fmt.Errorf("simulation: DistantInstrument has no property %q", name)
	}
	it.Name = v
	return nil
}

func (it *DistantInstrumentItem) SetInt(name string, v int) error {
	switch name {
	case "nxp":
		it.Nxp = v
	case "nyp":
		it.Nyp = v
	default:
		return fmt.Errorf("simulation: DistantInstrument has no property %q", name)
	}
	return nil
}

func (it *DistantInstrumentItem) SetDouble(name string, v float64) error {
	switch name {
	case "distance":
		it.Distance = v
	case "inclination":
		it.Inclination = v
	case "azimuth":
		it.Azimuth = v
	case "positionangle":
		it.PositionAngle = v
	case "xpmax":
		it.Xpmax = v
	case "ypmax":
		it.Ypmax = v
	default:
		return fmt.Errorf("simulation: DistantInstrument has no property %q", name)
	}
	return nil
}

func (it *DistantInstrumentItem) SetupAfter() error {
	multi, err := instrument.NewMultiFrame(it.grid, func(ell int) (*instrument.Distant, error) {
		return instrument.NewDistant(it.Distance, it.Inclination, it.Azimuth, it.PositionAngle,
			it.Xpmax, it.Ypmax, it.Nxp, it.Nyp, []string{totalChannel})
	})
	if err != nil {
		return err
	}
	it.multi = multi
	return nil
}

func (it *DistantInstrumentItem) Detect(src *photon.Packet, dust photon.DustSystem) {
	dir := it.multi.Frames[src.Ell].Direction()
	pp := photon.PeelOff(src, dir, dust)
	it.multi.Detect(pp, totalChannel)
}

func (it *DistantInstrumentItem) WriteOutput(dir string, sys *units.System) error {
	pixelScale := sys.ConvertLength(2 * it.Xpmax / float64(it.Nxp-1))
	for ell, frame := range it.multi.Frames {
		lambda := it.multi.Grid.Lambda(ell)
		width := it.multi.Grid.Width(ell)
		arrays := frame.Calibrate(lambda, width, sys)
		arr, ok := arrays[totalChannel]
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%d.fits", it.Name, totalChannel, ell))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("simulation: creating %s: %w", path, err)
		}
		err = fitsio.WriteFrame(f, totalChannel, arr, lambda, pixelScale, "pixel")
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("simulation: writing %s: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("simulation: closing %s: %w", path, closeErr)
		}
	}
	return nil
}

var SEDInstrumentSchema = simitem.Schema{
	{Name: "name", Kind: simitem.KindString, Required: true},
	{Name: "distance", Kind: simitem.KindDouble, Required: true},
	{Name: "inclination", Kind: simitem.KindDouble, Required: false, Default: 0.0},
	{Name: "azimuth", Kind: simitem.KindDouble, Required: false, Default: 0.0},
}

// SEDInstrumentItem accumulates per-wavelength flux with no spatial
// resolution, writing one tab-separated SED file per §6. It is still a
// distant, fixed-direction instrument for peel-off purposes; it just has
// no pixel grid to project onto.
type SEDInstrumentItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Name                 string
	Distance             float64
	Inclination, Azimuth float64

	sed *instrument.SEDOnly
}

func NewSEDInstrumentItem(grid *wavelength.Grid) *SEDInstrumentItem {
	it := &SEDInstrumentItem{sed: instrument.NewSEDOnly(grid)}
	it.Item.Init(it)
	return it
}

func (it *SEDInstrumentItem) SetString(name, v string) error {
	if name != "name" {
		return fmt.Errorf("simulation: SEDInstrument has no property %q", name)
	}
	it.Name = v
	return nil
}

func (it *SEDInstrumentItem) SetDouble(name string, v float64) error {
	switch name {
	case "distance":
		it.Distance = v
	case "inclination":
		it.Inclination = v
	case "azimuth":
		it.Azimuth = v
	default:
		return fmt.Errorf("simulation: SEDInstrument has no property %q", name)
	}
	return nil
}

// Direction returns the unit vector toward the observer, the same
// convention as Distant.Direction.
func (it *SEDInstrumentItem) Direction() geom3.Direction {
	sinTheta, cosTheta := math.Sincos(it.Inclination)
	sinPhi, cosPhi := math.Sincos(it.Azimuth)
	return geom3.NewDirection(sinTheta*cosPhi, sinTheta*sinPhi, cosTheta)
}

func (it *SEDInstrumentItem) Detect(src *photon.Packet, dust photon.DustSystem) {
	pp := photon.PeelOff(src, it.Direction(), dust)
	it.sed.Detect(pp)
}

func (it *SEDInstrumentItem) WriteOutput(dir string, sys *units.System) error {
	path := filepath.Join(dir, fmt.Sprintf("%s_sed.dat", it.Name))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("simulation: creating %s: %w", path, err)
	}
	err = it.sed.WriteTSV(f, it.Distance, sys)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("simulation: writing %s: %w", path, err)
	}
	return closeErr
}
