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

package geom3

import (
	"math"
	"testing"
)

func TestDirectionIsUnit(t *testing.T) {
	d := NewDirection(3, 4, 0)
	if !d.IsUnit() {
		t.Fatalf("expected unit direction, got degree %v", d.Vector().Norm())
	}
	if math.Abs(d.Vector().Norm()-1) > NormTolerance*1e6 {
		t.Fatalf("norm = %v, want 1", d.Vector().Norm())
	}
}

func TestPositionRoundTripSpherical(t *testing.T) {
	p := NewSpherical(2, math.Pi/3, math.Pi/4)
	r, theta, phi := p.Spherical()
	if math.Abs(r-2) > 1e-9 || math.Abs(theta-math.Pi/3) > 1e-9 || math.Abs(phi-math.Pi/4) > 1e-9 {
		t.Fatalf("round trip mismatch: r=%v theta=%v phi=%v", r, theta, phi)
	}
}

func TestPositionRoundTripCylindrical(t *testing.T) {
	p := NewCylindrical(3, math.Pi/6, -1.5)
	r, phi, z := p.Cylindrical()
	if math.Abs(r-3) > 1e-9 || math.Abs(phi-math.Pi/6) > 1e-9 || math.Abs(z+1.5) > 1e-9 {
		t.Fatalf("round trip mismatch: r=%v phi=%v z=%v", r, phi, z)
	}
}

func TestStokesRotationPreservesDegree(t *testing.T) {
	s := Stokes{Q: 0.3, U: -0.2, V: 0.1}
	before := s.Degree()
	rotated := s.Rotate(0.77)
	after := rotated.Degree()
	if math.Abs(before-after) > 1e-9 {
		t.Fatalf("rotation changed degree of polarization: %v -> %v", before, after)
	}
}

func TestMuellerUnpolarizedStaysUnderOne(t *testing.T) {
	m := MuellerSparse{S11: 1, S12: 0.3, S33: 0.8, S34: 0.1}
	out, scale := m.Apply(Stokes{})
	if !out.Valid() {
		t.Fatalf("invariant violated: degree=%v", out.Degree())
	}
	if scale <= 0 {
		t.Fatalf("expected positive flux scale, got %v", scale)
	}
}

func TestEulerRotationRoundTrip(t *testing.T) {
	r := NewEulerRotation(0.4, 1.1, -0.3)
	v := Vector{1, 2, 3}
	rotated := r.Apply(v)
	back := r.ApplyInverse(rotated)
	if math.Abs(back.X-v.X) > 1e-9 || math.Abs(back.Y-v.Y) > 1e-9 || math.Abs(back.Z-v.Z) > 1e-9 {
		t.Fatalf("rotation round trip mismatch: got %+v, want %+v", back, v)
	}
}
