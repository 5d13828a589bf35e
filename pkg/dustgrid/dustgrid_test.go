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
	"math"
	"testing"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

func approxEqual(t *testing.T, got, want, tol float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v want %v", msg, got, want)
	}
}

// Scenario 1: spherical grid r_v=[0,1,2], theta_v=[0,pi/2,pi]; ray from the
// origin along +x travels exactly along the equatorial plane.
func TestSphericalScenario1(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1, 2}, []float64{0, math.Pi / 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(0, 0, 0)
	dir := geom3.NewDirection(1, 0, 0)
	segs := g.Path(start, dir)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].CellID != g.cellID(0, 1) {
		t.Fatalf("expected first cell (i=0,k=1)=%d, got %d", g.cellID(0, 1), segs[0].CellID)
	}
	approxEqual(t, segs[0].Ds, 1, 1e-8, "segment 0 length")
	if segs[1].CellID != g.cellID(1, 1) {
		t.Fatalf("expected second cell (i=1,k=1)=%d, got %d", g.cellID(1, 1), segs[1].CellID)
	}
	approxEqual(t, segs[1].Ds, 1, 1e-8, "segment 1 length")
}

// Scenario 2: same grid, ray starting outside the grid at (3,0,0) travelling
// along -x; the first segment is the empty outside approach, and the path
// runs on through the far side until the ray leaves the outer boundary at
// x=-2, so a fourth segment (back through the outer shell) follows.
func TestSphericalScenario2(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1, 2}, []float64{0, math.Pi / 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(3, 0, 0)
	dir := geom3.NewDirection(-1, 0, 0)
	segs := g.Path(start, dir)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].CellID != -1 {
		t.Fatalf("expected first segment to be the outside approach, got cell %d", segs[0].CellID)
	}
	approxEqual(t, segs[0].Ds, 1, 1e-8, "outside approach length")
	if segs[1].CellID != g.cellID(1, 1) {
		t.Fatalf("expected second cell (i=1,k=1)=%d, got %d", g.cellID(1, 1), segs[1].CellID)
	}
	approxEqual(t, segs[1].Ds, 1, 1e-8, "segment 1 length")
	if segs[2].CellID != g.cellID(0, 1) {
		t.Fatalf("expected third cell (i=0,k=1)=%d, got %d", g.cellID(0, 1), segs[2].CellID)
	}
	approxEqual(t, segs[2].Ds, 2, 1e-8, "segment 2 length")
}

// Scenario 3: cylindrical grid R_v=[0,1], z_v=[-1,0,1]; ray from (0,0,-2)
// travelling along +z.
func TestCylindricalScenario3(t *testing.T) {
	g, err := NewCylindricalAxisymmetric([]float64{0, 1}, []float64{-1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(0, 0, -2)
	dir := geom3.NewDirection(0, 0, 1)
	segs := g.Path(start, dir)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].CellID != -1 {
		t.Fatalf("expected first segment to be the outside approach, got cell %d", segs[0].CellID)
	}
	approxEqual(t, segs[0].Ds, 1, 1e-8, "outside approach length")
	if segs[1].CellID != g.cellID(0, 0) {
		t.Fatalf("expected second cell (i=0,k=0)=%d, got %d", g.cellID(0, 0), segs[1].CellID)
	}
	approxEqual(t, segs[1].Ds, 1, 1e-8, "segment 1 length")
	if segs[2].CellID != g.cellID(0, 1) {
		t.Fatalf("expected third cell (i=0,k=1)=%d, got %d", g.cellID(0, 1), segs[2].CellID)
	}
	approxEqual(t, segs[2].Ds, 1, 1e-8, "segment 2 length")
}

func TestSphericalOuterMissReturnsEmptyPath(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1}, []float64{0, math.Pi / 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(5, 0, 0)
	dir := geom3.NewDirection(0, 1, 0)
	segs := g.Path(start, dir)
	if segs != nil {
		t.Fatalf("expected nil path for a ray that never meets the grid, got %+v", segs)
	}
}

func TestCylindricalOuterMissReturnsEmptyPath(t *testing.T) {
	g, err := NewCylindricalAxisymmetric([]float64{0, 1}, []float64{-1, 1})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(5, 0, 0)
	dir := geom3.NewDirection(0, 1, 0)
	segs := g.Path(start, dir)
	if segs != nil {
		t.Fatalf("expected nil path for a ray that never meets the grid, got %+v", segs)
	}
}

func TestSphericalChordLengthSumsToExpected(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 0.5, 1, 2, 3}, []float64{0, 0.7, math.Pi / 2, 2.3, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(-5, 0.3, 0.1)
	dir := geom3.NewDirection(1, 0, 0)
	segs := g.Path(start, dir)
	total := 0.0
	for _, s := range segs {
		if s.CellID == -1 {
			continue
		}
		total += s.Ds
	}
	rMax := 3.0
	r0 := math.Sqrt(0.3*0.3 + 0.1*0.1)
	chord := 2 * math.Sqrt(rMax*rMax-r0*r0)
	approxEqual(t, total, chord, 1e-6, "interior chord length")
}

func TestSphericalVolumeSumsToTotal(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1, 2, 3}, []float64{0, 0.5, math.Pi / 2, 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for m := 0; m < g.NumCells(); m++ {
		total += g.Volume(m)
	}
	approxEqual(t, total, g.TotalVolume(), 1e-9, "spherical total volume")
}

func TestCylindricalVolumeSumsToTotal(t *testing.T) {
	g, err := NewCylindricalAxisymmetric([]float64{0, 1, 2}, []float64{-2, -1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for m := 0; m < g.NumCells(); m++ {
		total += g.Volume(m)
	}
	approxEqual(t, total, g.TotalVolume(), 1e-9, "cylindrical total volume")
}

func TestSphericalRandomPositionRoundTrip(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1, 2, 3}, []float64{0, 0.5, math.Pi / 2, 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	src := rng.New(42, 0)
	for m := 0; m < g.NumCells(); m++ {
		for trial := 0; trial < 20; trial++ {
			p := g.RandomPositionInCell(m, src)
			if got := g.CellIndex(p); got != m {
				t.Fatalf("cell %d: round-trip gave %d for position %+v", m, got, p)
			}
		}
	}
}

func TestCylindricalRandomPositionRoundTrip(t *testing.T) {
	g, err := NewCylindricalAxisymmetric([]float64{0, 1, 2}, []float64{-2, -1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	src := rng.New(7, 0)
	for m := 0; m < g.NumCells(); m++ {
		for trial := 0; trial < 20; trial++ {
			p := g.RandomPositionInCell(m, src)
			if got := g.CellIndex(p); got != m {
				t.Fatalf("cell %d: round-trip gave %d for position %+v", m, got, p)
			}
		}
	}
}

func TestSphericalBoundaryStartProducesNonEmptyPath(t *testing.T) {
	g, err := NewSphericalAxisymmetric([]float64{0, 1, 2}, []float64{0, math.Pi / 2, math.Pi})
	if err != nil {
		t.Fatal(err)
	}
	start := geom3.NewCartesian(2, 0, 0) // exactly on the outer boundary
	dir := geom3.NewDirection(-1, 0, 0)
	segs := g.Path(start, dir)
	if len(segs) == 0 {
		t.Fatalf("expected a non-empty path starting exactly on the outer boundary")
	}
}

func TestNewSphericalRejectsMissingEquator(t *testing.T) {
	if _, err := NewSphericalAxisymmetric([]float64{0, 1}, []float64{0, 1.0, math.Pi}); err == nil {
		t.Fatalf("expected error when the equatorial plane is not represented exactly")
	}
}

func TestNewCylindricalRejectsNonZeroInnerBoundary(t *testing.T) {
	if _, err := NewCylindricalAxisymmetric([]float64{0.1, 1}, []float64{-1, 1}); err == nil {
		t.Fatalf("expected error for a non-zero innermost radial boundary")
	}
}
