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

package units

import (
	"math"
	"testing"
)

func TestConvertLengthParsec(t *testing.T) {
	s := Default()
	got := s.ConvertLength(Parsec)
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("1 pc in meters should convert back to 1 pc, got %v", got)
	}
}

func TestConvertLengthMeters(t *testing.T) {
	s := &System{LengthUnit: "m"}
	if got := s.ConvertLength(42); got != 42 {
		t.Fatalf("identity conversion failed: got %v", got)
	}
}

func TestSurfaceBrightnessFactorPositive(t *testing.T) {
	s := Default()
	f := s.SurfaceBrightnessFactor(0.55 * Micron)
	if f <= 0 {
		t.Fatalf("expected positive surface brightness factor, got %v", f)
	}
}

func TestConvertFluxDensityJanskyPositive(t *testing.T) {
	s := &System{FluxDensityUnit: "Jy"}
	f := s.ConvertFluxDensity(1e-15, 0.55*Micron)
	if f <= 0 {
		t.Fatalf("expected positive flux density in Jy, got %v", f)
	}
}
