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

package photon

import (
	"math"

	"github.com/skirtgo/skirt/pkg/geom3"
)

// ScatteringPlane tracks the reference normal used to rotate a packet's
// Stokes vector into the local scattering plane before a Mueller multiply,
// and back out afterwards, so the polarization reference axis stays
// consistent across a chain of scatter events and any peel-off taken in
// between (supplemented feature: the original engine's
// SKIRTcore/Fundamentals keep a reference-direction per scatter event for
// exactly this bookkeeping).
type ScatteringPlane struct {
	normal geom3.Vector
	valid  bool
}

// update recomputes the scattering-plane normal from the incoming and
// outgoing directions: normal = incoming x outgoing, normalized. A
// near-forward or near-backward scatter (negligible normal) leaves the
// previous plane in place, since the rotation angle is undefined there.
func (s *ScatteringPlane) update(incoming, outgoing geom3.Direction) {
	n := incoming.Vector().Cross(outgoing.Vector())
	if n.Norm() < 1e-12 {
		return
	}
	s.normal = n.Scale(1 / n.Norm())
	s.valid = true
}

// rotationAngle returns the angle between the packet's current
// polarization reference axis and the new scattering plane, the angle by
// which the Stokes vector must be rotated before the Mueller multiply. A
// packet with no established plane yet (first scatter) needs no rotation.
func (s *ScatteringPlane) rotationAngle(refAxis geom3.Vector, incoming geom3.Direction) float64 {
	if !s.valid {
		return 0
	}
	// project refAxis and the plane normal onto the plane perpendicular to
	// the incoming direction to get a well-defined signed angle between them.
	k := incoming.Vector()
	refPerp := refAxis.Sub(k.Scale(refAxis.Dot(k)))
	planePerp := s.normal.Sub(k.Scale(s.normal.Dot(k)))
	if refPerp.Norm() < 1e-12 || planePerp.Norm() < 1e-12 {
		return 0
	}
	cosPhi := refPerp.Dot(planePerp) / (refPerp.Norm() * planePerp.Norm())
	cosPhi = clamp(cosPhi, -1, 1)
	sinPhi := k.Dot(refPerp.Cross(planePerp)) / (refPerp.Norm() * planePerp.Norm())
	return math.Atan2(sinPhi, cosPhi)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Scatter applies a scattering event to p: rotates the Stokes vector into
// the new scattering plane, applies the sparse Mueller matrix, updates
// direction, luminosity, and scatter count, and refreshes the scattering
// plane's reference normal (§3 "StokesVector ... transformed by 2-D
// rotation of the (Q,U) plane and by 4x4 Mueller multiplications").
// refAxis is the packet's polarization reference axis prior to this event.
func (p *Packet) Scatter(newDir geom3.Direction, m geom3.MuellerSparse, plane *ScatteringPlane, refAxis geom3.Vector) {
	oldDir := p.Dir
	phi := plane.rotationAngle(refAxis, oldDir)
	rotated := p.Stokes.Rotate(phi)
	out, fluxScale := m.Apply(rotated)

	p.Stokes = out
	p.L *= fluxScale
	p.Dir = newDir
	p.ScatterCount++
	plane.update(oldDir, newDir)
}
