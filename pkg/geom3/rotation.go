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

package geom3

import "math"

// EulerRotation is a precomputed 3x3 rotation matrix built from the
// (alpha, beta, gamma) Euler angles used by the rotated-geometry decorator.
// It is built once at setup time and reused for every sampled position.
type EulerRotation struct {
	m [3][3]float64
}

// NewEulerRotation builds the rotation matrix R(alpha, beta, gamma) using the
// z-x-z convention: rotate by alpha about z, then by beta about the new x,
// then by gamma about the new z.
func NewEulerRotation(alpha, beta, gamma float64) EulerRotation {
	sa, ca := math.Sin(alpha), math.Cos(alpha)
	sb, cb := math.Sin(beta), math.Cos(beta)
	sg, cg := math.Sin(gamma), math.Cos(gamma)

	return EulerRotation{m: [3][3]float64{
		{ca*cg - sa*cb*sg, -ca*sg - sa*cb*cg, sa * sb},
		{sa*cg + ca*cb*sg, -sa*sg + ca*cb*cg, -ca * sb},
		{sb * sg, sb * cg, cb},
	}}
}

// Apply rotates v by R.
func (r EulerRotation) Apply(v Vector) Vector {
	m := r.m
	return Vector{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyInverse rotates v by R^-1 = R^T, as used inside density() and
// generateDirection() of the rotated-geometry decorator (§4.2).
func (r EulerRotation) ApplyInverse(v Vector) Vector {
	m := r.m
	return Vector{
		m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyPosition rotates a Position by R.
func (r EulerRotation) ApplyPosition(p Position) Position {
	v := r.Apply(p.Vector())
	return NewCartesian(v.X, v.Y, v.Z)
}

// ApplyDirection rotates a Direction by R.
func (r EulerRotation) ApplyDirection(d Direction) Direction {
	v := r.Apply(d.Vector())
	return FromVector(v)
}
