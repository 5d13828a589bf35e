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

// Package units implements the engine's unit system: conversions for length,
// flux density, and surface brightness that every instrument output passes
// through before being written to disk (§4.3, §6). Length wraps a
// github.com/ctessum/unit.Unit tagged with LengthDim; the System conversions
// take and return plain float64 SI values and do no dimension checking.
package units

import "github.com/ctessum/unit"

// LengthDim, FluxDensityDim and SurfaceBrightnessDim are the custom
// dimensions used by the radiative-transfer unit system. FluxDensityDim and
// SurfaceBrightnessDim are declared distinct from the SI base dimensions
// because they carry photometric (per-steradian, per-wavelength) factors
// that the generic unit.Dimensions map cannot express structurally; we track
// them as opaque tags and rely on the System below to apply the correct
// numeric factor, rather than composing them from base SI dimensions.
var (
	LengthDim            = unit.NewDimension("length")
	FluxDensityDim        = unit.NewDimension("fluxdensity")
	SurfaceBrightnessDim = unit.NewDimension("surfacebrightness")
)

// Length wraps a length value (always stored internally in meters).
type Length struct{ u *unit.Unit }

// NewLength builds a Length from a value in meters.
func NewLength(meters float64) Length {
	return Length{unit.New(meters, unit.Dimensions{LengthDim: 1})}
}

// Meters returns the value in meters.
func (l Length) Meters() float64 { return l.u.Value() }

// Length unit conversion factors, all expressed as "1 <unit> = N meters".
const (
	Angstrom = 1e-10
	Micron   = 1e-6
	AU       = 1.495978707e11
	Parsec   = 3.0856775814913673e16
)

// System is the active unit system: it names the output unit for each axis
// kind and converts internal SI values to it on write (§4.3 "Output is
// written with axis units from the active unit system").
type System struct {
	LengthUnit            string // one of "m", "AU", "pc"
	FluxDensityUnit        string // one of "W/m2/micron", "Jy"
	SurfaceBrightnessUnit string // one of "W/m2/micron/arcsec2", "MJy/sr"
}

// Default returns the system's default unit choices, matching what SKIRT's
// own default unit system uses for imaging output.
func Default() *System {
	return &System{
		LengthUnit:            "pc",
		FluxDensityUnit:        "W/m2/micron",
		SurfaceBrightnessUnit: "W/m2/micron/arcsec2",
	}
}

// ConvertLength converts a length in meters to the system's configured
// length unit.
func (s *System) ConvertLength(meters float64) float64 {
	switch s.LengthUnit {
	case "AU":
		return meters / AU
	case "pc":
		return meters / Parsec
	default:
		return meters
	}
}

// arcsec2PerSteradian is the number of square arcseconds in one steradian,
// used to convert the per-steradian surface-brightness factor of §4.3 into
// the per-arcsec^2 convention astronomers expect on output.
const arcsec2PerSteradian = 4.25451702961522e10

// janskyPerSI is the conversion factor from W/m^2/Hz to Jansky.
const janskyPerSI = 1e26

// ConvertFluxDensity converts a monochromatic flux density in SI units
// (W/m^2/m, i.e. per meter of wavelength) at wavelength lambdaMeters to the
// system's configured flux-density unit.
func (s *System) ConvertFluxDensity(fluxPerMeter, lambdaMeters float64) float64 {
	switch s.FluxDensityUnit {
	case "Jy":
		// F_nu = F_lambda * lambda^2 / c
		const c = 2.99792458e8
		fNu := fluxPerMeter * lambdaMeters * lambdaMeters / c
		return fNu * janskyPerSI
	default: // W/m2/micron
		return fluxPerMeter * Micron
	}
}

// SurfaceBrightnessFactor returns the multiplicative factor that converts a
// per-steradian monochromatic flux density at lambdaMeters into the system's
// configured surface-brightness unit, as used by the instrument calibration
// step of §4.3.
func (s *System) SurfaceBrightnessFactor(lambdaMeters float64) float64 {
	switch s.SurfaceBrightnessUnit {
	case "MJy/sr":
		const c = 2.99792458e8
		return lambdaMeters * lambdaMeters / c * janskyPerSI / 1e6
	default: // W/m2/micron/arcsec2
		return Micron / arcsec2PerSteradian
	}
}
