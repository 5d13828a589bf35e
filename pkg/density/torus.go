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

// Torus is rho ~ r^-p * exp(-q|cos theta|) confined radially to
// [RMin,RMax] and angularly to theta in [pi/2-Delta, pi/2+Delta] (§4.2
// "Torus").
type Torus struct {
	RMin, RMax float64
	P, Q       float64
	Delta      float64 // half-opening angle around the equatorial plane

	sinDelta  float64
	sMin, sMax float64
	norm       float64
}

// NewTorus validates and builds a Torus geometry.
func NewTorus(rMin, rMax, p, q, delta float64) (*Torus, error) {
	if !(rMin > 0 && rMax > rMin) {
		return nil, fmt.Errorf("density: torus requires 0 < rMin < rMax, got %v, %v", rMin, rMax)
	}
	if !(delta > 0 && delta <= math.Pi/2) {
		return nil, fmt.Errorf("density: torus requires 0 < delta <= pi/2, got %v", delta)
	}
	t := &Torus{RMin: rMin, RMax: rMax, P: p, Q: q, Delta: delta, sinDelta: math.Sin(delta)}
	t.sMin = rng.GenLog(-p, rMin)
	t.sMax = rng.GenLog(-p, rMax)
	radialIntegral := shellRadialIntegral(rMin, rMax, p)
	angularIntegral := torusAngularIntegral(q, t.sinDelta)
	t.norm = 1 / (2 * math.Pi * radialIntegral * angularIntegral)
	return t, nil
}

// shellRadialIntegral computes Integral[r^2 * r^-p] dr, rMin..rMax, shared
// with Shell's normalization.
func shellRadialIntegral(rMin, rMax, p float64) float64 {
	exp := 3 - p
	if math.Abs(exp) < 1e-12 {
		return math.Log(rMax / rMin)
	}
	return (math.Pow(rMax, exp) - math.Pow(rMin, exp)) / exp
}

// torusAngularIntegral computes Integral[exp(-q|u|)] du, u in
// [-sinDelta,sinDelta].
func torusAngularIntegral(q, sinDelta float64) float64 {
	if math.Abs(q) < 1e-12 {
		return 2 * sinDelta
	}
	return 2 * (1 - math.Exp(-q*sinDelta)) / q
}

// Density implements Geometry.
func (t *Torus) Density(p geom3.Position) float64 {
	r, theta, _ := p.Spherical()
	if r < t.RMin || r > t.RMax {
		return 0
	}
	u := math.Cos(theta)
	if math.Abs(u) > t.sinDelta {
		return 0
	}
	return t.norm * math.Pow(r, -t.P) * math.Exp(-t.Q*math.Abs(u))
}

// GeneratePosition samples r as in Shell, cos(theta) from the truncated
// exponential (uniform when q=0), and phi uniform (§4.2).
func (t *Torus) GeneratePosition(src *rng.Source) geom3.Position {
	r := rng.InverseGenLog(-t.P, t.sMin+src.Uniform()*(t.sMax-t.sMin))

	var u float64
	if math.Abs(t.Q) < 1e-12 {
		u = t.sinDelta * (2*src.Uniform() - 1)
	} else {
		sign := 1.0
		if src.Uniform() < 0.5 {
			sign = -1.0
		}
		x := src.Uniform()
		u = sign * (-math.Log(1-x*(1-math.Exp(-t.Q*t.sinDelta))) / t.Q)
	}
	theta := math.Acos(clamp(u, -1, 1))
	phi := src.Uniform() * 2 * math.Pi
	return geom3.NewSpherical(r, theta, phi)
}

func (t *Torus) sigmaZ() float64 {
	// Line integral straight up the z axis passes through theta=0, outside
	// the torus's angular support unless Delta==pi/2, so it's 0 in general.
	if t.Delta < math.Pi/2-1e-9 {
		return 0
	}
	return t.sigmaEquatorial()
}

func (t *Torus) sigmaEquatorial() float64 {
	exp := 1 - t.P
	var integral float64
	if math.Abs(exp) < 1e-12 {
		integral = math.Log(t.RMax / t.RMin)
	} else {
		integral = (math.Pow(t.RMax, exp) - math.Pow(t.RMin, exp)) / exp
	}
	return 2 * t.norm * integral
}

// SigmaX, SigmaY are the in-plane line integrals through the equator.
func (t *Torus) SigmaX() float64 { return t.sigmaEquatorial() }
func (t *Torus) SigmaY() float64 { return t.sigmaEquatorial() }

// SigmaZ is the line integral along the polar axis.
func (t *Torus) SigmaZ() float64 { return t.sigmaZ() }
