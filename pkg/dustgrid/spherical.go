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

// SphericalAxisymmetric is the axisymmetric spherical dust grid of §3/§4.1:
// ascending radial boundaries r_0=0..r_Nr=rMax and polar-angle boundaries
// theta_0=0..theta_Ntheta=pi, with the equatorial plane theta=pi/2 required
// to be represented exactly (cosine forced to exactly 0).
type SphericalAxisymmetric struct {
	r        []float64 // Nr+1 ascending radial boundaries, r[0] == 0
	theta    []float64 // Ntheta+1 ascending polar-angle boundaries, theta[0]=0..theta[Ntheta]=pi
	cos      []float64 // Ntheta+1 cosines of theta boundaries, descending from 1 to -1
	eps      float64   // 1e-11 * rMax
	diag     *Diagnostics
	equatorK int // index k such that cos[k] == 0 exactly
}

// NewSphericalAxisymmetric validates and builds the grid. It is FATAL at
// setup (returns an error) if the equatorial plane is not represented
// exactly once, since Path relies on that to take the c=0 linear branch.
func NewSphericalAxisymmetric(rBounds, thetaBounds []float64) (*SphericalAxisymmetric, error) {
	if len(rBounds) < 2 {
		return nil, fmt.Errorf("dustgrid: need at least 2 radial boundaries")
	}
	if rBounds[0] != 0 {
		return nil, fmt.Errorf("dustgrid: innermost radial boundary must be 0, got %v", rBounds[0])
	}
	if !sort.Float64sAreSorted(rBounds) || hasDuplicates(rBounds) {
		return nil, fmt.Errorf("dustgrid: radial boundaries must be strictly ascending")
	}
	if len(thetaBounds) < 2 {
		return nil, fmt.Errorf("dustgrid: need at least 2 polar-angle boundaries")
	}
	if !sort.Float64sAreSorted(thetaBounds) || hasDuplicates(thetaBounds) {
		return nil, fmt.Errorf("dustgrid: polar-angle boundaries must be strictly ascending")
	}
	if thetaBounds[0] != 0 || thetaBounds[len(thetaBounds)-1] != math.Pi {
		return nil, fmt.Errorf("dustgrid: polar-angle boundaries must span [0, pi]")
	}

	cos := make([]float64, len(thetaBounds))
	equatorK := -1
	for i, th := range thetaBounds {
		c := math.Cos(th)
		if math.Abs(th-math.Pi/2) < 1e-12 {
			c = 0
			if equatorK != -1 {
				return nil, fmt.Errorf("dustgrid: equatorial plane represented more than once")
			}
			equatorK = i
		}
		cos[i] = c
	}
	if equatorK == -1 {
		return nil, fmt.Errorf("dustgrid: equatorial plane theta=pi/2 must be represented exactly once")
	}

	rMax := rBounds[len(rBounds)-1]
	return &SphericalAxisymmetric{
		r:        append([]float64(nil), rBounds...),
		theta:    append([]float64(nil), thetaBounds...),
		cos:      cos,
		eps:      1e-11 * rMax,
		diag:     &Diagnostics{},
		equatorK: equatorK,
	}, nil
}

// Diagnostics returns the accumulator of recoverable-warning counters.
func (g *SphericalAxisymmetric) Diagnostics() *Diagnostics { return g.diag }

func hasDuplicates(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return true
		}
	}
	return false
}

// numR, numTheta are the cell counts along each axis.
func (g *SphericalAxisymmetric) numR() int     { return len(g.r) - 1 }
func (g *SphericalAxisymmetric) numTheta() int { return len(g.cos) - 1 }

// NumCells returns Nr*Ntheta.
func (g *SphericalAxisymmetric) NumCells() int { return g.numR() * g.numTheta() }

// cellID packs (i, k) into m = k + Ntheta*i, per the data model.
func (g *SphericalAxisymmetric) cellID(i, k int) int {
	return k + g.numTheta()*i
}

// indices unpacks m back into (i, k).
func (g *SphericalAxisymmetric) indices(m int) (i, k int) {
	nt := g.numTheta()
	return m / nt, m % nt
}

// radialIndex returns the largest i with r_i <= r (i.e. r in [r_i, r_{i+1}]),
// clamped to [0, numR()-1], or numR() if r lies strictly beyond the outer
// boundary (r > rMax is "outside"; r == rMax belongs to the outermost cell,
// matching the boundary-behaviour requirement that starting exactly on a
// grid boundary still produces a non-empty segment sequence, §8).
func (g *SphericalAxisymmetric) radialIndex(r float64) int {
	nr := g.numR()
	rMax := g.r[nr]
	if r < 0 {
		return -1
	}
	if r > rMax {
		return nr
	}
	i := sort.SearchFloat64s(g.r, r) // first index with r[i] >= r
	if i == 0 {
		return 0
	}
	if g.r[i] == r {
		if i == nr {
			return nr - 1
		}
		return i
	}
	return i - 1
}

// polarIndex returns k such that theta in [theta_k, theta_{k+1}), matching
// the half-open convention used by radialIndex so that a ray travelling
// exactly along the equatorial plane (theta == pi/2) is assigned to the cell
// whose lower boundary is the equator, per the boundary-behaviour tests of
// §8 (scenario 1).
func (g *SphericalAxisymmetric) polarIndex(theta float64) int {
	nt := g.numTheta()
	i := sort.SearchFloat64s(g.theta, theta)
	if i <= 0 {
		return 0
	}
	if g.theta[i] == theta && i < nt {
		return i
	}
	if i > nt {
		return nt - 1
	}
	return i - 1
}

// CellIndex implements Grid.CellIndex via binary search on the boundary
// arrays (§4.1).
func (g *SphericalAxisymmetric) CellIndex(p geom3.Position) int {
	r, theta, _ := p.Spherical()
	i := g.radialIndex(r)
	if i < 0 {
		return -1
	}
	if i >= g.numR() {
		return g.numR() * g.numTheta()
	}
	k := g.polarIndex(theta)
	return g.cellID(i, k)
}

// Volume returns (2*pi/3)*(r_{i+1}^3 - r_i^3)*(cos(theta_k) - cos(theta_{k+1})),
// the closed-form spherical-shell-wedge volume of §4.1.
func (g *SphericalAxisymmetric) Volume(cellID int) float64 {
	i, k := g.indices(cellID)
	return (2 * math.Pi / 3) * (cube(g.r[i+1]) - cube(g.r[i])) * (g.cos[k] - g.cos[k+1])
}

func cube(x float64) float64 { return x * x * x }

// TotalVolume returns the volume of the whole grid envelope, used by the
// Σvolume(m) testable property of §8.
func (g *SphericalAxisymmetric) TotalVolume() float64 {
	rMax := g.r[len(g.r)-1]
	return (2 * math.Pi / 3) * cube(rMax) * (g.cos[0] - g.cos[len(g.cos)-1])
}

// RandomPositionInCell samples uniformly by physical volume within the
// cell: r = sqrt(r_i^2 + X1*(r_{i+1}^2 - r_i^2)), theta uniform in
// [theta_k, theta_{k+1}] (equivalently cos(theta) uniform in
// [cos_{k+1}, cos_k]), phi uniform in [0, 2pi).
func (g *SphericalAxisymmetric) RandomPositionInCell(cellID int, src *rng.Source) geom3.Position {
	i, k := g.indices(cellID)
	r2 := g.r[i]*g.r[i] + src.Uniform()*(g.r[i+1]*g.r[i+1]-g.r[i]*g.r[i])
	r := math.Sqrt(r2)
	c := g.cos[k+1] + src.Uniform()*(g.cos[k]-g.cos[k+1])
	theta := math.Acos(clamp(c, -1, 1))
	phi := src.Uniform() * 2 * math.Pi
	return geom3.NewSpherical(r, theta, phi)
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

// Path implements the ray-traversal contract of §4.1 for the axisymmetric
// spherical grid.
func (g *SphericalAxisymmetric) Path(start geom3.Position, dir geom3.Direction) []Segment {
	pos := start
	kx, ky, kz := dir.Components()
	rMax := g.r[len(g.r)-1]

	var segments []Segment

	// Nudge away from the exact origin so spherical-coordinate inversion in
	// radialIndex/polarIndex is well defined (§4.1).
	x, y, z := pos.Cartesian()
	if x*x+y*y+z*z == 0 {
		pos = pos.Translate(dir, g.eps)
	}

	// Entry handling: if we start outside the outer sphere, find the entry
	// intersection; if none, the ray misses the grid entirely.
	rNow := pos.SphericalR()
	if rNow > rMax {
		rx, ry, rz := pos.Cartesian()
		a := 1.0
		b := rx*kx + ry*ky + rz*kz
		c := rx*rx + ry*ry + rz*rz - rMax*rMax
		s, ok := smallestPositiveRoot(a, b, c)
		if !ok {
			return nil
		}
		segments = append(segments, Segment{CellID: -1, Ds: s})
		pos = pos.Translate(dir, s+g.eps)
	}

	i, k := g.startCell(pos)
	for i >= 0 && i < g.numR() && k >= 0 && k < g.numTheta() {
		rx, ry, rz := pos.Cartesian()
		r2 := rx*rx + ry*ry + rz*rz
		rdotk := rx*kx + ry*ky + rz*kz

		type candidate struct {
			s        float64
			di, dk   int
			terminal bool
		}
		var cands []candidate

		if i > 0 {
			if s, ok := smallestPositiveRoot(1, rdotk, r2-g.r[i]*g.r[i]); ok {
				cands = append(cands, candidate{s: s, di: -1})
			}
		}
		if s, ok := smallestPositiveRoot(1, rdotk, r2-g.r[i+1]*g.r[i+1]); ok {
			cands = append(cands, candidate{s: s, di: +1, terminal: i+1 >= g.numR()})
		}
		if k > 0 {
			if s, ok := g.coneRoot(g.cos[k], rx, ry, rz, kx, ky, kz, r2, rdotk); ok {
				cands = append(cands, candidate{s: s, dk: -1})
			}
		}
		if k < g.numTheta()-1 {
			if s, ok := g.coneRoot(g.cos[k+1], rx, ry, rz, kx, ky, kz, r2, rdotk); ok {
				cands = append(cands, candidate{s: s, dk: +1})
			}
		}

		if len(cands) == 0 {
			// Pathological rounding case: nudge and recompute, per §4.1.
			g.diag.NoIntersectionNudges++
			xlog.Warnf("dustgrid: no exit boundary found in cell (i=%d,k=%d); nudging", i, k)
			pos = pos.Translate(dir, g.eps)
			i, k = g.startCell(pos)
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

// startCell computes the (i,k) cell containing pos, assumed already known to
// be inside or on the outer boundary.
func (g *SphericalAxisymmetric) startCell(pos geom3.Position) (int, int) {
	r, theta, _ := pos.Spherical()
	i := g.radialIndex(r)
	if i >= g.numR() {
		i = g.numR() - 1
	}
	if i < 0 {
		i = 0
	}
	k := g.polarIndex(theta)
	return i, k
}

// coneRoot solves the cone-intersection equation of §4.1 for cosine c,
// falling back to the degenerate linear equation s = -r_z/k_z when c == 0
// (the equatorial plane).
func (g *SphericalAxisymmetric) coneRoot(c, rx, ry, rz, kx, ky, kz, r2, rdotk float64) (float64, bool) {
	if c == 0 {
		if kz == 0 {
			return 0, false
		}
		s := -rz / kz
		if s > 0 {
			return s, true
		}
		return 0, false
	}
	a := c*c - kz*kz
	b := c*c*rdotk - rz*kz
	cc := c*c*r2 - rz*rz
	return smallestPositiveRoot(a, b, cc)
}
