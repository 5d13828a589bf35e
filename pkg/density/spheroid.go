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

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// Spheroid flattens a spherically symmetric base Geometry along z by axis
// ratio Q, preserving the base's radial mass profile (§4.2 "Spheroid:
// flatten a spherical geometry along the z axis").
type Spheroid struct {
	Base Geometry
	Q    float64
}

// NewSpheroid validates and wraps base.
func NewSpheroid(base Geometry, q float64) (*Spheroid, error) {
	if !(q > 0) {
		return nil, fmt.Errorf("density: spheroid requires Q > 0, got %v", q)
	}
	return &Spheroid{Base: base, Q: q}, nil
}

// Density evaluates the base density at the point rescaled back to the
// spherical frame, divided by Q for the flattening Jacobian (§4.2
// "Spheroid").
func (s *Spheroid) Density(p geom3.Position) float64 {
	x, y, z := p.Cartesian()
	spherical := geom3.NewCartesian(x, y, z/s.Q)
	return s.Base.Density(spherical) / s.Q
}

// GeneratePosition draws a spherical position from Base and rescales its z
// coordinate by Q (§4.2 "Spheroid").
func (s *Spheroid) GeneratePosition(src *rng.Source) geom3.Position {
	base := s.Base.GeneratePosition(src)
	x, y, z := base.Cartesian()
	return geom3.NewCartesian(x, y, z*s.Q)
}

// SigmaX, SigmaY are the base values divided by Q: along x or y in the
// equatorial plane the path length is unchanged, but Density carries the
// 1/Q Jacobian.
func (s *Spheroid) SigmaX() float64 { return s.Base.SigmaX() / s.Q }
func (s *Spheroid) SigmaY() float64 { return s.Base.SigmaY() / s.Q }

// SigmaZ picks up the 1/Q Jacobian together with the Q stretch of the path
// length, leaving the polar line integral unchanged.
func (s *Spheroid) SigmaZ() float64 { return s.Base.SigmaZ() }
