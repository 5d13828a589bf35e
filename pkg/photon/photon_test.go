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
	"testing"

	"github.com/skirtgo/skirt/pkg/geom3"
)

type constantOpticalDepth float64

func (c constantOpticalDepth) OpticalDepth(start geom3.Position, dir geom3.Direction) float64 {
	return float64(c)
}

func TestNewPacketIsUnpolarized(t *testing.T) {
	p := New(true, 0, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 1)
	if p.Stokes.Degree() != 0 {
		t.Fatalf("expected an unpolarized packet at launch, got degree %v", p.Stokes.Degree())
	}
}

func TestExtinguishReducesLuminosity(t *testing.T) {
	p := New(true, 0, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 10)
	p.Extinguish(1)
	want := 10 * math.Exp(-1)
	if math.Abs(p.L-want) > 1e-12 {
		t.Fatalf("got L=%v want %v", p.L, want)
	}
}

func TestPeelOffComputesEffectiveLuminosity(t *testing.T) {
	p := New(true, 0, geom3.NewCartesian(1, 2, 3), geom3.NewDirection(1, 0, 0), 5)
	dust := constantOpticalDepth(0.5)
	pp := PeelOff(p, geom3.NewDirection(0, 0, 1), dust)
	if pp.OpticalDepth() != 0.5 {
		t.Fatalf("expected tau=0.5, got %v", pp.OpticalDepth())
	}
	want := 5 * math.Exp(-0.5)
	if math.Abs(pp.EffectiveLuminosity()-want) > 1e-12 {
		t.Fatalf("got %v want %v", pp.EffectiveLuminosity(), want)
	}
}

func TestPeelOffDoesNotMutateSource(t *testing.T) {
	p := New(true, 0, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 5)
	dust := constantOpticalDepth(1)
	_ = PeelOff(p, geom3.NewDirection(0, 1, 0), dust)
	if p.Dir.X() != 1 {
		t.Fatalf("expected source packet direction unchanged, got %v", p.Dir)
	}
}

func TestScatterKeepsStokesWithinBound(t *testing.T) {
	p := New(true, 0, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 1)
	m := geom3.MuellerSparse{S11: 1, S12: 0.1, S33: 0.9, S34: 0.05}
	plane := &ScatteringPlane{}
	axis := geom3.Vector{X: 0, Y: 1, Z: 0}
	for i := 0; i < 20; i++ {
		dir := geom3.NewDirection(1, float64(i)*0.01, 0)
		p.Scatter(dir, m, plane, axis)
		if d := p.Stokes.Degree(); d > 1+1e-9 {
			t.Fatalf("iteration %d: polarization degree %v exceeds 1", i, d)
		}
	}
	if p.ScatterCount != 20 {
		t.Fatalf("expected scatter count 20, got %d", p.ScatterCount)
	}
}
