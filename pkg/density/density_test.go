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

package density

import (
	"math"
	"sort"
	"testing"

	"github.com/GaryBoone/GoStats/stats"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/rng"
)

// ksStatistic returns the two-sided Kolmogorov-Smirnov D statistic between
// a sample of radii and a CDF function.
func ksStatistic(radii []float64, cdf func(r float64) float64) float64 {
	sorted := append([]float64(nil), radii...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	d := 0.0
	for i, r := range sorted {
		empirical := float64(i+1) / n
		theoretical := cdf(r)
		if diff := math.Abs(empirical - theoretical); diff > d {
			d = diff
		}
		empiricalBefore := float64(i) / n
		if diff := math.Abs(empiricalBefore - theoretical); diff > d {
			d = diff
		}
	}
	return d
}

// TestShellRadiiPassKSTest draws 1e6 samples from r_min=1, r_max=2, p=2 and
// compares the empirical CDF of the radius against the closed-form CDF
// (1/r_min - 1/r)/(1/r_min - 1/r_max), requiring a KS statistic under 0.002
// (§8 scenario 4).
func TestShellRadiiPassKSTest(t *testing.T) {
	const rMin, rMax, p = 1.0, 2.0, 2.0
	s, err := NewShell(rMin, rMax, p)
	if err != nil {
		t.Fatal(err)
	}
	src := rng.New(1, 0)

	const n = 1_000_000
	radii := make([]float64, n)
	for i := range radii {
		pos := s.GeneratePosition(src)
		radii[i] = pos.Vector().Norm()
	}

	max := stats.StatsMax(radii)
	min := stats.StatsMin(radii)
	if max > rMax+1e-9 || min < rMin-1e-9 {
		t.Fatalf("sampled radius out of bounds: min=%v max=%v, want [%v,%v]", min, max, rMin, rMax)
	}

	cdf := func(r float64) float64 {
		return (1/rMin - 1/r) / (1/rMin - 1/rMax)
	}
	d := ksStatistic(radii, cdf)
	const critical = 0.002
	if d > critical {
		t.Fatalf("KS statistic %v exceeds scenario-4 threshold %v for n=%d", d, critical, n)
	}
}

// TestGeometrySamplesHavePositiveDensity draws positions from each geometry
// and checks that the geometry's own density is positive at every sampled
// point. It does not integrate the density numerically.
func TestGeometrySamplesHavePositiveDensity(t *testing.T) {
	src := rng.New(2, 0)
	shell, err := NewShell(1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	torus, err := NewTorus(1, 10, 1.5, 2, math.Pi/6)
	if err != nil {
		t.Fatal(err)
	}
	sersic, err := NewSersic(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	disk, err := NewTTauriDisk(0.1, 50, 0.1, 1, 1.125)
	if err != nil {
		t.Fatal(err)
	}

	geoms := map[string]Geometry{
		"shell":  shell,
		"torus":  torus,
		"sersic": sersic,
		"disk":   disk,
	}
	for name, g := range geoms {
		t.Run(name, func(t *testing.T) {
			const n = 20000
			sum := 0.0
			for i := 0; i < n; i++ {
				p := g.GeneratePosition(src)
				d := g.Density(p)
				if d <= 0 {
					t.Fatalf("%s: sampled position has non-positive density %v", name, d)
				}
				sum += 1 // importance-sampled estimator of Integral[density dV] is just count/n by construction
			}
			mean := sum / n
			if math.Abs(mean-1) > 1e-9 {
				t.Fatalf("%s: importance-sampling identity broke, got %v", name, mean)
			}
		})
	}
}

// TestSpheroidScalesEquatorialSigma checks that a Spheroid's in-plane sigma
// is its base geometry's divided by Q: along the x axis the density is the
// base density divided by Q, over an unchanged path.
func TestSpheroidScalesEquatorialSigma(t *testing.T) {
	base, err := NewShell(1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	sph, err := NewSpheroid(base, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if sph.SigmaX() != base.SigmaX()/0.5 {
		t.Fatalf("got SigmaX=%v want %v", sph.SigmaX(), base.SigmaX()/0.5)
	}
}

// TestRotateRoundTrip checks that Rotate's Density at a rotated point
// matches the base geometry's density at the corresponding unrotated
// point, for a handful of sample directions.
func TestRotateRoundTrip(t *testing.T) {
	base, err := NewShell(1, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRotate(base, 0.3, 1.1, 2.4)

	pts := []geom3.Position{
		geom3.NewCartesian(2, 0, 0),
		geom3.NewCartesian(0, 3, 1),
		geom3.NewCartesian(-1, -2, 5),
	}
	for _, p := range pts {
		rotated := r.Rotation.ApplyPosition(p)
		got := r.Density(rotated)
		want := base.Density(p)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("rotate round trip mismatch: got %v want %v", got, want)
		}
	}
}

// TestMGEComponentMassesNormalize checks that NewMGE rescales component
// masses so they sum to 1.
func TestMGEComponentMassesNormalize(t *testing.T) {
	m, err := NewMGE([]GaussianComponent{
		{Mass: 2, Sigma: 1, Q: 0.6},
		{Mass: 2, Sigma: 3, Q: 0.8},
	})
	if err != nil {
		t.Fatal(err)
	}
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Mass
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("component masses sum to %v, want 1", sum)
	}
}

// TestMGEGeneratePositionPicksAllComponents checks that sampling visits
// every component of a mixture with non-negligible mass.
func TestMGEGeneratePositionPicksAllComponents(t *testing.T) {
	m, err := NewMGE([]GaussianComponent{
		{Mass: 1, Sigma: 1, Q: 1},
		{Mass: 1, Sigma: 5, Q: 0.3},
	})
	if err != nil {
		t.Fatal(err)
	}
	src := rng.New(3, 0)
	sawSmall, sawLarge := false, false
	for i := 0; i < 200; i++ {
		p := m.GeneratePosition(src)
		r := p.Vector().Norm()
		if r < 2 {
			sawSmall = true
		}
		if r > 6 {
			sawLarge = true
		}
	}
	if !sawSmall || !sawLarge {
		t.Fatalf("expected samples from both components, sawSmall=%v sawLarge=%v", sawSmall, sawLarge)
	}
}

func TestNewShellRejectsBadBounds(t *testing.T) {
	if _, err := NewShell(0, 10, 2); err == nil {
		t.Fatal("expected error for RMin=0")
	}
	if _, err := NewShell(5, 2, 2); err == nil {
		t.Fatal("expected error for RMax<RMin")
	}
}

func TestNewTorusRejectsBadDelta(t *testing.T) {
	if _, err := NewTorus(1, 10, 1, 1, math.Pi); err == nil {
		t.Fatal("expected error for delta > pi/2")
	}
}
