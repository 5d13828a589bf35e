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

// Package density implements the analytic density geometries of §4.2: each
// exposes density, generatePosition, and marginal surface densities along
// the principal axes.
package density

import (
	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// Geometry is a normalized density function over 3-D space (integral of
// density over all space equals 1 by construction) with a sampler and
// marginal surface densities (GLOSSARY "Geometry").
type Geometry interface {
	// Density returns the (non-negative) probability density at p.
	Density(p geom3.Position) float64
	// GeneratePosition draws a position distributed as Density.
	GeneratePosition(src *rng.Source) geom3.Position
	// SigmaX, SigmaY, SigmaZ are the line integrals of Density through the
	// origin along each principal axis.
	SigmaX() float64
	SigmaY() float64
	SigmaZ() float64
}
