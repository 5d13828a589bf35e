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

// Shell is the spherically symmetric rho ~ r^-p power law confined to
// [RMin,RMax] (§4.2 "Shell").
type Shell struct {
	RMin, RMax float64
	P          float64

	norm       float64 // makes the volume integral over the shell equal to 1
	sMin, sMax float64 // generalized-log endpoints for inverse-CDF sampling
}

// NewShell validates and builds a Shell geometry.
func NewShell(rMin, rMax, p float64) (*Shell, error) {
	if !(rMin > 0 && rMax > rMin) {
		return nil, fmt.Errorf("density: shell requires 0 < rMin < rMax, got %v, %v", rMin, rMax)
	}
	s := &Shell{RMin: rMin, RMax: rMax, P: p}
	s.sMin = rng.GenLog(-p, rMin)
	s.sMax = rng.GenLog(-p, rMax)
	s.norm = shellNorm(rMin, rMax, p)
	return s, nil
}

// shellNorm returns 1 / (4*pi * Integral[r^2 * r^-p] dr, rMin..rMax), the
// constant making the shell's volume integral equal 1 (§4.2 "rho
// proportional to r^-p ... Shell ... inverted cumulative mass").
func shellNorm(rMin, rMax, p float64) float64 {
	exp := 3 - p
	var integral float64
	if math.Abs(exp) < 1e-12 {
		integral = math.Log(rMax / rMin)
	} else {
		integral = (math.Pow(rMax, exp) - math.Pow(rMin, exp)) / exp
	}
	return 1 / (4 * math.Pi * integral)
}

// Density implements Geometry.
func (s *Shell) Density(p geom3.Position) float64 {
	r := p.Vector().Norm()
	if r < s.RMin || r > s.RMax {
		return 0
	}
	return s.norm * math.Pow(r, -s.P)
}

// GeneratePosition samples r by inverting the cumulative mass via the
// generalized logarithm g_{-p}(r)=r^{1-p}/(1-p) (ln r if p=1), theta
// uniform in cos(theta), phi uniform (§4.2).
func (s *Shell) GeneratePosition(src *rng.Source) geom3.Position {
	r := rng.InverseGenLog(-s.P, s.sMin+src.Uniform()*(s.sMax-s.sMin))
	cosTheta := 1 - 2*src.Uniform()
	theta := math.Acos(clamp(cosTheta, -1, 1))
	phi := src.Uniform() * 2 * math.Pi
	return geom3.NewSpherical(r, theta, phi)
}

func (s *Shell) sigma() float64 {
	exp := 1 - s.P
	var integral float64
	if math.Abs(exp) < 1e-12 {
		integral = math.Log(s.RMax / s.RMin)
	} else {
		integral = (math.Pow(s.RMax, exp) - math.Pow(s.RMin, exp)) / exp
	}
	return 2 * s.norm * integral
}

// SigmaX, SigmaY, SigmaZ are all equal by spherical symmetry.
func (s *Shell) SigmaX() float64 { return s.sigma() }
func (s *Shell) SigmaY() float64 { return s.sigma() }
func (s *Shell) SigmaZ() float64 { return s.sigma() }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
