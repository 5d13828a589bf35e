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
	"sort"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// GaussianComponent is one term of a Multi-Gaussian Expansion: an
// axisymmetric Gaussian with dispersion Sigma in the equatorial plane,
// flattened by axis ratio Q along z, carrying a fraction Mass of the total
// (§4.2 "MGE").
type GaussianComponent struct {
	Mass  float64
	Sigma float64
	Q     float64 // 0 < Q <= 1, z-dispersion is Q*Sigma
}

// MGE is a sum of GaussianComponent terms (§4.2 "MGE: discrete mixture of
// Gaussian components, pick a component weighted by mass, draw an
// anisotropic Gaussian").
type MGE struct {
	Components []GaussianComponent

	cumMass []float64 // cumulative mass fraction, length len(Components)
}

// NewMGE validates and normalizes the component masses.
func NewMGE(components []GaussianComponent) (*MGE, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("density: mge requires at least one component")
	}
	total := 0.0
	for i, c := range components {
		if !(c.Mass > 0) {
			return nil, fmt.Errorf("density: mge component %d requires Mass > 0, got %v", i, c.Mass)
		}
		if !(c.Sigma > 0) {
			return nil, fmt.Errorf("density: mge component %d requires Sigma > 0, got %v", i, c.Sigma)
		}
		if !(c.Q > 0 && c.Q <= 1) {
			return nil, fmt.Errorf("density: mge component %d requires 0 < Q <= 1, got %v", i, c.Q)
		}
		total += c.Mass
	}

	m := &MGE{Components: make([]GaussianComponent, len(components))}
	cum := make([]float64, len(components))
	running := 0.0
	for i, c := range components {
		c.Mass /= total
		m.Components[i] = c
		running += c.Mass
		cum[i] = running
	}
	cum[len(cum)-1] = 1
	m.cumMass = cum
	return m, nil
}

func gauss3(x, y, z, sigma, q float64) float64 {
	norm := 1 / (math.Pow(2*math.Pi, 1.5) * sigma * sigma * sigma * q)
	return norm * math.Exp(-0.5*((x*x+y*y)/(sigma*sigma)+z*z/(sigma*sigma*q*q)))
}

// Density implements Geometry.
func (m *MGE) Density(p geom3.Position) float64 {
	x, y, z := p.Cartesian()
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Mass * gauss3(x, y, z, c.Sigma, c.Q)
	}
	return sum
}

// GeneratePosition picks a component weighted by mass fraction, then draws
// an anisotropic 3-D Gaussian (§4.2 "MGE").
func (m *MGE) GeneratePosition(src *rng.Source) geom3.Position {
	u := src.Uniform()
	i := sort.SearchFloat64s(m.cumMass, u)
	if i >= len(m.Components) {
		i = len(m.Components) - 1
	}
	c := m.Components[i]
	x := src.Gauss() * c.Sigma
	y := src.Gauss() * c.Sigma
	z := src.Gauss() * c.Sigma * c.Q
	return geom3.NewCartesian(x, y, z)
}

func (m *MGE) sigmaAxis(axis int) float64 {
	// Line integral of a 3-D Gaussian through the origin along a principal
	// axis reduces to the 2-D marginal Gaussian in the perpendicular plane,
	// evaluated at the origin: 1/(2*pi*sigma_a*sigma_b).
	sum := 0.0
	for _, c := range m.Components {
		var sa, sb float64
		switch axis {
		case 2: // z axis: perpendicular plane is (x,y), both sigma
			sa, sb = c.Sigma, c.Sigma
		default: // x or y axis: perpendicular plane mixes the other equatorial axis with z
			sa, sb = c.Sigma, c.Sigma*c.Q
		}
		sum += c.Mass / (2 * math.Pi * sa * sb)
	}
	return sum
}

func (m *MGE) SigmaX() float64 { return m.sigmaAxis(0) }
func (m *MGE) SigmaY() float64 { return m.sigmaAxis(1) }
func (m *MGE) SigmaZ() float64 { return m.sigmaAxis(2) }
