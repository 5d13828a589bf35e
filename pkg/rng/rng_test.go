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

package rng

import (
	"math"
	"testing"
)

func TestUniformRange(t *testing.T) {
	s := New(42, 0)
	for i := 0; i < 1000; i++ {
		u := s.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("uniform() out of range: %v", u)
		}
	}
}

func TestDeterministicPerWorker(t *testing.T) {
	a := New(7, 3)
	b := New(7, 3)
	for i := 0; i < 10; i++ {
		if a.Uniform() != b.Uniform() {
			t.Fatalf("same seed+worker index should reproduce the same stream")
		}
	}
}

func TestDifferentWorkersDiverge(t *testing.T) {
	a := New(7, 0)
	b := New(7, 1)
	same := true
	for i := 0; i < 10; i++ {
		if a.Uniform() != b.Uniform() {
			same = false
		}
	}
	if same {
		t.Fatalf("different worker indices should not produce identical streams")
	}
}

func TestGenLogInverse(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 2} {
		x := 3.7
		y := GenLog(p, x)
		back := InverseGenLog(p, y)
		if math.Abs(back-x) > 1e-9 {
			t.Fatalf("GenLog/InverseGenLog mismatch for p=%v: got %v want %v", p, back, x)
		}
	}
}

func TestGaussMoments(t *testing.T) {
	s := New(1, 0)
	n := 200000
	sum, sum2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		g := s.Gauss()
		sum += g
		sum2 += g * g
	}
	mean := sum / float64(n)
	variance := sum2/float64(n) - mean*mean
	if math.Abs(mean) > 0.02 {
		t.Fatalf("mean too far from 0: %v", mean)
	}
	if math.Abs(variance-1) > 0.05 {
		t.Fatalf("variance too far from 1: %v", variance)
	}
}
