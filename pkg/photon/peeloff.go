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

// DustSystem is the read-only query a peel-off packet makes against the
// dust grid it was spawned from: the total optical depth to infinity along
// a ray (§9 "Back-references from peel-off packets to the dust system").
// The dust system outlives every packet, so no lifetime bookkeeping beyond
// a plain interface value is needed.
type DustSystem interface {
	OpticalDepth(start geom3.Position, dir geom3.Direction) float64
}

// PeelOffPacket is a deterministic copy of a photon packet aimed directly
// at an instrument to reduce variance (§3 "Photon packet" / GLOSSARY
// "Peel-off"). It holds a non-owning reference to the dust system
// established at construction, used once to compute the line-of-sight
// optical depth.
type PeelOffPacket struct {
	Packet
	dust DustSystem
	tau  float64
}

// PeelOff builds a PeelOffPacket aimed at instrumentDir from the given
// source packet, querying the dust system for the optical depth along the
// new direction. The caller is expected to have already applied any
// scattering-induced Stokes rotation to src before calling PeelOff.
func PeelOff(src *Packet, instrumentDir geom3.Direction, dust DustSystem) *PeelOffPacket {
	pp := &PeelOffPacket{
		Packet: src.Clone(),
		dust:   dust,
	}
	pp.Dir = instrumentDir
	pp.tau = dust.OpticalDepth(pp.Pos, instrumentDir)
	return pp
}

// OpticalDepth returns the line-of-sight optical depth computed at
// construction (§4.3 "Detection (peel-off)").
func (pp *PeelOffPacket) OpticalDepth() float64 { return pp.tau }

// EffectiveLuminosity returns L*exp(-tau), the quantity an instrument
// accumulates per detected packet (§4.3).
func (pp *PeelOffPacket) EffectiveLuminosity() float64 {
	return pp.L * math.Exp(-pp.tau)
}
