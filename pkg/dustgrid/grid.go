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

// Package dustgrid implements the abstract dust grid contract (§4.1): given a
// ray, produce the ordered sequence of (cell, path-length) segments it
// traverses. Two concrete families are provided, SphericalAxisymmetric and
// CylindricalAxisymmetric; both share the numerical policy (epsilon nudge,
// degenerate-quadratic fallback, no-intersection recovery) described in the
// spec, factored here so the two traversal algorithms stay textually close
// to each other.
package dustgrid

import (
	"math"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// Segment is a (cell, path-length) pair emitted by Path. CellID -1 denotes
// the empty approach from outside the grid.
type Segment struct {
	CellID int
	Ds     float64
}

// Diagnostics accumulates the recoverable-warning counters the original
// engine logs per run (§9 "supplemented features"): how many times a ray
// step found no candidate intersection and had to be nudged.
type Diagnostics struct {
	NoIntersectionNudges int
}

// Grid is the contract every concrete dust grid family satisfies.
type Grid interface {
	// NumCells returns the total number of interior cells.
	NumCells() int
	// CellIndex returns the cell id containing position, or -1/NumCells()
	// if position lies below/above the grid.
	CellIndex(p geom3.Position) int
	// Volume returns the physical volume of the given interior cell.
	Volume(cellID int) float64
	// RandomPositionInCell draws a position uniformly distributed (by
	// volume) within the given interior cell.
	RandomPositionInCell(cellID int, src *rng.Source) geom3.Position
	// Path returns the ordered segment sequence the ray (start, dir)
	// traverses until it leaves the grid's outer boundary.
	Path(start geom3.Position, dir geom3.Direction) []Segment
}

// smallestPositiveRoot solves a*s^2 + 2*b*s + c = 0 for the smallest
// strictly positive root, falling back to the linear solution -c/(2b) when
// |a| < linearFallbackEps (near-degenerate quadratic, §4.1). Returns
// (root, true) or (0, false) if no strictly positive root exists.
func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	const linearFallbackEps = 1e-9
	const posEps = 0.0
	if abs(a) < linearFallbackEps {
		if b == 0 {
			return 0, false
		}
		s := -c / (2 * b)
		if s > posEps {
			return s, true
		}
		return 0, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	s1 := (-b + sq) / a
	s2 := (-b - sq) / a
	lo, hi := s1, s2
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo > posEps {
		return lo, true
	}
	if hi > posEps {
		return hi, true
	}
	return 0, false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
