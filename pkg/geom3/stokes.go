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

// Stokes carries the polarization state of a photon packet. I is kept
// normalized to 1 by convention (per the data model), so only Q, U, V are
// stored; the zero value is the unpolarized state created at launch.
type Stokes struct {
	Q, U, V float64
}

// Degree returns the degree of polarization sqrt(Q^2+U^2+V^2), which must stay
// at or below 1 (the invariant Q^2+U^2+V^2 <= 1, up to rounding).
func (s Stokes) Degree() float64 {
	return math.Sqrt(s.Q*s.Q + s.U*s.U + s.V*s.V)
}

// Valid reports whether s still satisfies the normalization invariant within
// the stated rounding tolerance.
func (s Stokes) Valid() bool {
	return s.Q*s.Q+s.U*s.U+s.V*s.V <= 1+1e-12
}

// Rotate applies the 2-D rotation of the (Q,U) plane by angle phi (radians),
// leaving V untouched. This is used to align the Stokes reference frame with
// the scattering plane before a Mueller-matrix transform is applied.
func (s Stokes) Rotate(phi float64) Stokes {
	c := math.Cos(2 * phi)
	sn := math.Sin(2 * phi)
	return Stokes{
		Q: c*s.Q + sn*s.U,
		U: -sn*s.Q + c*s.U,
		V: s.V,
	}
}

// MuellerSparse holds the four nonzero entries of a sparsity-pattern Mueller
// matrix of the form used by every scattering mode in this engine:
//
//	| S11  S12   0    0  |
//	| S12  S11   0    0  |
//	|  0    0   S33  S34 |
//	|  0    0  -S34  S33 |
//
// which is the standard reduced form for azimuthally symmetric scattering
// (Rayleigh, Henyey-Greenstein with polarization, or tabulated dust mixes).
type MuellerSparse struct {
	S11, S12, S33, S34 float64
}

// Apply multiplies the 4-vector (1, Q, U, V) by m and renormalizes I back to
// 1, returning the transformed Stokes state and the flux scaling factor
// (S11 + S12*Q) / S11 that the caller must fold into the packet luminosity.
func (m MuellerSparse) Apply(s Stokes) (out Stokes, fluxScale float64) {
	i := 1.0
	iOut := m.S11*i + m.S12*s.Q
	if iOut == 0 {
		return Stokes{}, 0
	}
	qOut := m.S12*i + m.S11*s.Q
	uOut := m.S33*s.U + m.S34*s.V
	vOut := -m.S34*s.U + m.S33*s.V
	inv := 1 / iOut
	return Stokes{Q: qOut * inv, U: uOut * inv, V: vOut * inv}, iOut / m.S11
}
