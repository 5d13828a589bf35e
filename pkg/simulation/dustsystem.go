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

package simulation

import (
	"github.com/skirtgo/skirt/pkg/density"
	"github.com/skirtgo/skirt/pkg/dustgrid"
	"github.com/skirtgo/skirt/pkg/geom3"
)

// DustSystem composes a traversal grid with a normalized density geometry
// and a gray mass-extinction coefficient into the photon.DustSystem
// contract: optical depth along a ray is the path integral of
// kappa*density, evaluated segment-by-segment along the grid's own
// traversal so the same cell boundaries drive both scattering decisions
// and peel-off detection.
type DustSystem struct {
	Grid     dustgrid.Grid
	Geometry density.Geometry
	Kappa    float64 // mass extinction coefficient, resource-file stand-in (§6 "Resource files")
}

// OpticalDepth integrates kappa*density(midpoint)*Ds over every interior
// segment of the grid's traversal from start along dir, skipping the
// external approach segment (CellID<0).
func (d *DustSystem) OpticalDepth(start geom3.Position, dir geom3.Direction) float64 {
	segments := d.Grid.Path(start, dir)
	tau := 0.0
	travelled := 0.0
	for _, seg := range segments {
		if seg.CellID < 0 {
			travelled += seg.Ds
			continue
		}
		mid := start.Translate(dir, travelled+seg.Ds/2)
		tau += d.Kappa * d.Geometry.Density(mid) * seg.Ds
		travelled += seg.Ds
	}
	return tau
}
