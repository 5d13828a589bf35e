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

package wavelength

import (
	"math"
	"testing"
)

func TestNewRejectsUnsorted(t *testing.T) {
	if _, err := New([]float64{3, 1, 2}); err == nil {
		t.Fatalf("expected error for unsorted input")
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty grid")
	}
}

func TestWidthsSumToSpan(t *testing.T) {
	g, err := New([]float64{1e-6, 2e-6, 4e-6, 8e-6})
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for i := 0; i < g.Len(); i++ {
		total += g.Width(i)
	}
	expected := g.Lambda(g.Len()-1) + (g.Lambda(g.Len()-1)-g.Lambda(g.Len()-2))/2 -
		(g.Lambda(0) - (g.Lambda(1)-g.Lambda(0))/2)
	if math.Abs(total-expected) > 1e-15 {
		t.Fatalf("widths do not tile the full span: got %v want %v", total, expected)
	}
}

func TestNearestIndex(t *testing.T) {
	g, err := New([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if g.NearestIndex(1.1) != 0 {
		t.Fatalf("expected index 0")
	}
	if g.NearestIndex(3.9) != 3 {
		t.Fatalf("expected index 3")
	}
	if g.NearestIndex(-5) != 0 {
		t.Fatalf("expected clamp to 0")
	}
	if g.NearestIndex(50) != 3 {
		t.Fatalf("expected clamp to last index")
	}
}
