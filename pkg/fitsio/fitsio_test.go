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

package fitsio

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func TestWriteFrameReadFrameRoundTrip(t *testing.T) {
	arr := sparse.ZerosDense(4, 3)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			arr.Set(float64(i*3+j), i, j)
		}
	}

	var buf MemBuffer
	if err := WriteFrame(&buf, "total", arr, 5e-7, 1e14, "W/m2/micron/arcsec2"); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFrame(&buf, "total")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Elements) != len(arr.Elements) {
		t.Fatalf("got %d elements, want %d", len(got.Elements), len(arr.Elements))
	}
	for i, v := range arr.Elements {
		if math.Abs(got.Elements[i]-v) > 1e-9 {
			t.Fatalf("element %d: got %v want %v", i, got.Elements[i], v)
		}
	}
}

func TestWriteFrameRejectsNon2D(t *testing.T) {
	arr := sparse.ZerosDense(2, 2, 2)
	var buf MemBuffer
	if err := WriteFrame(&buf, "total", arr, 5e-7, 1e14, "W/m2/micron/arcsec2"); err == nil {
		t.Fatal("expected an error for a non-2D array")
	}
}
