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

package density

import (
	"fmt"
	"math"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// ttauriDiskExponent is the fixed radial power-law index p=17/8 used by the
// flared T Tauri disk profile (§4.2 "TTauriDisk").
const ttauriDiskExponent = 17.0 / 8.0

// TTauriDisk is a flared disk: radial surface density ~ R^-p truncated to
// [RMin,RMax], with a Gaussian vertical profile of scale height
// H(R) = H0*(R/R0)^zeta (§4.2 "TTauriDisk").
type TTauriDisk struct {
	RMin, RMax float64
	H0, R0     float64
	Zeta       float64

	sMin, sMax float64
	norm       float64 // normalizes the radial surface density to integrate to 1
}

// NewTTauriDisk validates and builds a TTauriDisk geometry.
func NewTTauriDisk(rMin, rMax, h0, r0, zeta float64) (*TTauriDisk, error) {
	if !(rMin > 0 && rMax > rMin) {
		return nil, fmt.Errorf("density: ttauridisk requires 0 < rMin < rMax, got %v, %v", rMin, rMax)
	}
	if !(h0 > 0 && r0 > 0) {
		return nil, fmt.Errorf("density: ttauridisk requires H0 > 0 and R0 > 0, got %v, %v", h0, r0)
	}
	d := &TTauriDisk{RMin: rMin, RMax: rMax, H0: h0, R0: r0, Zeta: zeta}
	d.sMin = rng.GenLog(-ttauriDiskExponent, rMin)
	d.sMax = rng.GenLog(-ttauriDiskExponent, rMax)
	exp := 2 - ttauriDiskExponent
	integral := (math.Pow(rMax, exp) - math.Pow(rMin, exp)) / exp
	d.norm = 1 / (2 * math.Pi * integral)
	return d, nil
}

func (d *TTauriDisk) scaleHeight(rr float64) float64 {
	return d.H0 * math.Pow(rr/d.R0, d.Zeta)
}

// Density implements Geometry.
func (d *TTauriDisk) Density(p geom3.Position) float64 {
	x, y, z := p.Cartesian()
	rr := math.Hypot(x, y)
	if rr < d.RMin || rr > d.RMax {
		return 0
	}
	h := d.scaleHeight(rr)
	surface := d.norm * math.Pow(rr, -ttauriDiskExponent)
	return surface / (h * math.Sqrt(2*math.Pi)) * math.Exp(-0.5*(z/h)*(z/h))
}

// GeneratePosition samples cylindrical radius by the generalized-log
// inverse CDF (fixed exponent 17/8), azimuth uniform, and height Gaussian
// with radius-dependent scale height (§4.2 "TTauriDisk").
func (d *TTauriDisk) GeneratePosition(src *rng.Source) geom3.Position {
	rr := rng.InverseGenLog(-ttauriDiskExponent, d.sMin+src.Uniform()*(d.sMax-d.sMin))
	phi := src.Uniform() * 2 * math.Pi
	h := d.scaleHeight(rr)
	z := src.Gauss() * h
	x := rr * math.Cos(phi)
	y := rr * math.Sin(phi)
	return geom3.NewCartesian(x, y, z)
}

// SigmaZ is zero: the polar axis lies at R=0 < RMin, where the density
// vanishes.
func (d *TTauriDisk) SigmaZ() float64 { return 0 }

func (d *TTauriDisk) sigmaPlanar() float64 {
	exp := 1 - ttauriDiskExponent - d.Zeta
	var integral float64
	if math.Abs(exp) < 1e-12 {
		integral = math.Log(d.RMax / d.RMin)
	} else {
		integral = (math.Pow(d.RMax, exp) - math.Pow(d.RMin, exp)) / exp
	}
	return 2 * d.norm * math.Pow(d.R0, d.Zeta) / (d.H0 * math.Sqrt(2*math.Pi)) * integral
}

// SigmaX, SigmaY are the line integrals through the midplane along the
// in-plane axes, equal by the profile's azimuthal symmetry.
func (d *TTauriDisk) SigmaX() float64 { return d.sigmaPlanar() }
func (d *TTauriDisk) SigmaY() float64 { return d.sigmaPlanar() }
