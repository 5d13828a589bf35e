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

// Package photon implements the photon-packet life cycle of §4 module E:
// launch, forced propagation (extinction), peel-off toward instruments, and
// the Stokes polarization transforms of scattering.
package photon

import (
	"math"

	"github.com/skirtgo/skirt/pkg/geom3"
)

// Packet is a discrete carrier of monochromatic luminosity (§3 "Photon
// packet"), not a physical photon. It is constructed at emission, mutated
// only by scattering/extinction transforms, and released after reaching
// the grid boundary or being fully absorbed.
type Packet struct {
	Stellar      bool
	Ell          int // wavelength index
	Pos          geom3.Position
	Dir          geom3.Direction
	L            float64 // luminosity
	ScatterCount int
	Stokes       geom3.Stokes
}

// New constructs an unpolarized packet at launch (§3 "created unpolarised
// at launch").
func New(stellar bool, ell int, pos geom3.Position, dir geom3.Direction, luminosity float64) *Packet {
	return &Packet{
		Stellar: stellar,
		Ell:     ell,
		Pos:     pos,
		Dir:     dir,
		L:       luminosity,
	}
}

// Propagate advances the packet's position by ds along its current
// direction without changing luminosity; callers extinguish separately via
// Extinguish once the optical depth crossed is known.
func (p *Packet) Propagate(ds float64) {
	p.Pos = p.Pos.Translate(p.Dir, ds)
}

// Extinguish reduces luminosity by exp(-tau) for optical depth tau
// accumulated along a segment.
func (p *Packet) Extinguish(tau float64) {
	p.L *= math.Exp(-tau)
}

// Clone returns a value copy of the packet, used to create a peel-off
// packet that is mutated independently of the main trajectory.
func (p *Packet) Clone() Packet {
	return *p
}
