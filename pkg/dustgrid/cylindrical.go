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

package dustgrid

import (
	"fmt"
	"math"
	"sort"

	"github.com/skirtgo/skirt/internal/xlog"
	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// CylindricalAxisymmetric is the axisymmetric cylindrical dust grid of
// §3/§4.1: ascending radial boundaries R_0=0..R_NR and axial boundaries
// z_0=-zMax..z_Nz=+zMax. Cell id m = k + Nz*i.
type CylindricalAxisymmetric struct {
	R    []float64 // NR+1 ascending radial boundaries, R[0] == 0
	z    []float64 // Nz+1 ascending axial boundaries, symmetric about 0
	eps  float64   // 1e-11 * RMax
	diag *Diagnostics
}

// NewCylindricalAxisymmetric validates and builds the grid.
func NewCylindricalAxisymmetric(rBounds, zBounds []float64) (*CylindricalAxisymmetric, error) {
	if len(rBounds) < 2 {
		return nil, fmt.Errorf("dustgrid: need at least 2 radial boundaries")
	}
	if rBounds[0] != 0 {
		return nil, fmt.Errorf("dustgrid: innermost radial boundary must be 0, got %v", rBounds[0])
	}
	if !sort.Float64sAreSorted(rBounds) || hasDuplicates(rBounds) {
		return nil, fmt.Errorf("dustgrid: radial boundaries must be strictly ascending")
	}
	if len(zBounds) < 2 {
		return nil, fmt.Errorf("dustgrid: need at least 2 axial boundaries")
	}
	if !sort.Float64sAreSorted(zBounds) || hasDuplicates(zBounds) {
		return nil, fmt.Errorf("dustgrid: axial boundaries must be strictly ascending")
	}

	rMax := rBounds[len(rBounds)-1]
	return &CylindricalAxisymmetric{
		R:    append([]float64(nil), rBounds...),
		z:    append([]float64(nil), zBounds...),
		eps:  1e-11 * rMax,
		diag: &Diagnostics{},
	}, nil
}

// Diagnostics returns the accumulator of recoverable-warning counters.
func (g *CylindricalAxisymmetric) Diagnostics() *Diagnostics { return g.diag }

func (g *CylindricalAxisymmetric) numR() int { return len(g.R) - 1 }
func (g *CylindricalAxisymmetric) numZ() int { return len(g.z) - 1 }

// NumCells returns NR*Nz.
func (g *CylindricalAxisymmetric) NumCells() int { return g.numR() * g.numZ() }

func (g *CylindricalAxisymmetric) cellID(i, k int) int {
	return k + g.numZ()*i
}

func (g *CylindricalAxisymmetric) indices(m int) (i, k int) {
	nz := g.numZ()
	return m / nz, m % nz
}

// radialIndex mirrors SphericalAxisymmetric.radialIndex: largest i with
// R_i <= R, clamped to [0, numR()-1], or numR() if strictly beyond RMax.
func (g *CylindricalAxisymmetric) radialIndex(r float64) int {
	nr := g.numR()
	rMax := g.R[nr]
	if r < 0 {
		return -1
	}
	if r > rMax {
		return nr
	}
	i := sort.SearchFloat64s(g.R, r)
	if i == 0 {
		return 0
	}
	if g.R[i] == r {
		if i == nr {
			return nr - 1
		}
		return i
	}
	return i - 1
}

// axialIndex is the z-axis analogue: largest k with z_k <= z, clamped to
// [0, numZ()-1], -1 below zMin, numZ() above zMax.
func (g *CylindricalAxisymmetric) axialIndex(z float64) int {
	nz := g.numZ()
	zMin, zMax := g.z[0], g.z[nz]
	if z < zMin {
		return -1
	}
	if z > zMax {
		return nz
	}
	k := sort.SearchFloat64s(g.z, z)
	if k == 0 {
		return 0
	}
	if g.z[k] == z {
		if k == nz {
			return nz - 1
		}
		return k
	}
	return k - 1
}

// CellIndex implements Grid.CellIndex via binary search on the boundary
// arrays (§4.1).
func (g *CylindricalAxisymmetric) CellIndex(p geom3.Position) int {
	r := p.CylindricalR()
	_, _, z := p.Cylindrical()
	i := g.radialIndex(r)
	if i < 0 {
		return -1
	}
	if i >= g.numR() {
		return g.NumCells()
	}
	k := g.axialIndex(z)
	if k < 0 || k >= g.numZ() {
		return g.NumCells()
	}
	return g.cellID(i, k)
}

// Volume returns pi*(R_{i+1}^2 - R_i^2)*(z_{k+1} - z_k), the closed-form
// cylindrical-shell-slab volume of §4.1.
func (g *CylindricalAxisymmetric) Volume(cellID int) float64 {
	i, k := g.indices(cellID)
	return math.Pi * (g.R[i+1]*g.R[i+1] - g.R[i]*g.R[i]) * (g.z[k+1] - g.z[k])
}

// TotalVolume returns the volume of the whole grid envelope: pi*RMax^2*(2*zMax).
func (g *CylindricalAxisymmetric) TotalVolume() float64 {
	rMax := g.R[len(g.R)-1]
	zMax := g.z[len(g.z)-1]
	zMin := g.z[0]
	return math.Pi * rMax * rMax * (zMax - zMin)
}

// RandomPositionInCell samples uniformly by physical volume within the
// cell (§4.1).
func (g *CylindricalAxisymmetric) RandomPositionInCell(cellID int, src *rng.Source) geom3.Position {
	i, k := g.indices(cellID)
	r2 := g.R[i]*g.R[i] + src.Uniform()*(g.R[i+1]*g.R[i+1]-g.R[i]*g.R[i])
	r := math.Sqrt(r2)
	z := g.z[k] + src.Uniform()*(g.z[k+1]-g.z[k])
	phi := src.Uniform() * 2 * math.Pi
	return geom3.NewCylindrical(r, phi, z)
}

// entryDistance computes how far along (pos, dir) the ray must travel to
// enter the finite cylinder {R<=RMax, zMin<=z<=zMax}, treating it as the
// intersection of a quadratic R-slab and a linear z-slab (standard
// ray/convex-region clipping). Returns (0, true) if pos is already inside.
func (g *CylindricalAxisymmetric) entryDistance(pos geom3.Position, dir geom3.Direction) (float64, bool) {
	rx, ry, rz := pos.Cartesian()
	kx, ky, kz := dir.Components()
	rMax := g.R[len(g.R)-1]
	zMin, zMax := g.z[0], g.z[len(g.z)-1]

	sEnter, sExit := math.Inf(-1), math.Inf(1)

	a := kx*kx + ky*ky
	if a > 1e-18 {
		b := rx*kx + ry*ky
		c := rx*rx + ry*ry - rMax*rMax
		disc := b*b - a*c
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		s1, s2 := (-b-sq)/a, (-b+sq)/a
		sEnter = math.Max(sEnter, s1)
		sExit = math.Min(sExit, s2)
	} else if rx*rx+ry*ry > rMax*rMax {
		return 0, false
	}

	if kz != 0 {
		t1, t2 := (zMin-rz)/kz, (zMax-rz)/kz
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		sEnter = math.Max(sEnter, t1)
		sExit = math.Min(sExit, t2)
	} else if rz < zMin || rz > zMax {
		return 0, false
	}

	if sEnter >= sExit {
		return 0, false
	}
	if sEnter <= 0 {
		return 0, true
	}
	return sEnter, true
}

// Path implements the ray-traversal contract of §4.1 for the axisymmetric
// cylindrical grid.
func (g *CylindricalAxisymmetric) Path(start geom3.Position, dir geom3.Direction) []Segment {
	pos := start
	kx, ky, kz := dir.Components()

	var segments []Segment

	r := pos.CylindricalR()
	_, _, z := pos.Cylindrical()
	rMax := g.R[len(g.R)-1]
	zMin, zMax := g.z[0], g.z[len(g.z)-1]
	if r > rMax || z < zMin || z > zMax {
		s, ok := g.entryDistance(pos, dir)
		if !ok {
			return nil
		}
		if s > 0 {
			segments = append(segments, Segment{CellID: -1, Ds: s})
			pos = pos.Translate(dir, s+g.eps)
		}
	}

	r = pos.CylindricalR()
	_, _, z = pos.Cylindrical()
	i := g.radialIndex(r)
	k := g.axialIndex(z)
	if i < 0 || i >= g.numR() || k < 0 || k >= g.numZ() {
		if len(segments) > 0 {
			return segments
		}
		return nil
	}

	for i >= 0 && i < g.numR() && k >= 0 && k < g.numZ() {
		rx, ry, rz := pos.Cartesian()
		rho2 := rx*rx + ry*ry
		rdotkXY := rx*kx + ry*ky

		type candidate struct {
			s        float64
			di, dk   int
			terminal bool
		}
		var cands []candidate

		a := kx*kx + ky*ky
		if i > 0 {
			if s, ok := smallestPositiveRoot(a, rdotkXY, rho2-g.R[i]*g.R[i]); ok {
				cands = append(cands, candidate{s: s, di: -1})
			}
		}
		if s, ok := smallestPositiveRoot(a, rdotkXY, rho2-g.R[i+1]*g.R[i+1]); ok {
			cands = append(cands, candidate{s: s, di: +1, terminal: i+1 >= g.numR()})
		}
		if kz != 0 {
			sLo := (g.z[k] - rz) / kz
			if sLo > 0 {
				cands = append(cands, candidate{s: sLo, dk: -1, terminal: k == 0})
			}
			sHi := (g.z[k+1] - rz) / kz
			if sHi > 0 {
				cands = append(cands, candidate{s: sHi, dk: +1, terminal: k == g.numZ()-1})
			}
		}

		if len(cands) == 0 {
			g.diag.NoIntersectionNudges++
			xlog.Warnf("dustgrid: no exit boundary found in cell (i=%d,k=%d); nudging", i, k)
			pos = pos.Translate(dir, g.eps)
			r = pos.CylindricalR()
			_, _, z = pos.Cylindrical()
			i = g.radialIndex(r)
			k = g.axialIndex(z)
			continue
		}

		best := cands[0]
		for _, c := range cands[1:] {
			if c.s < best.s {
				best = c
			}
		}

		segments = append(segments, Segment{CellID: g.cellID(i, k), Ds: best.s})
		pos = pos.Translate(dir, best.s+g.eps)

		if best.terminal {
			break
		}
		i += best.di
		k += best.dk
	}

	return segments
}
