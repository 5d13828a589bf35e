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

package instrument

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/units"
	"github.com/skirtgo/skirt/pkg/wavelength"
)

type zeroOpticalDepth struct{}

func (zeroOpticalDepth) OpticalDepth(start geom3.Position, dir geom3.Direction) float64 { return 0 }

func TestDistantScenario5OriginPacketLandsAtPixel99(t *testing.T) {
	dist, err := NewDistant(1e19, 0, 0, 0, 1e18, 1e18, 200, 200, []string{"total"})
	if err != nil {
		t.Fatal(err)
	}

	p := photon.New(true, 0, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 1)
	pp := photon.PeelOff(p, geom3.NewDirection(0, 0, 1), zeroOpticalDepth{})

	i, j, ok := dist.project(pp.Pos)
	if !ok {
		t.Fatalf("expected origin packet to land on the detector")
	}
	if i != 99 || j != 99 {
		t.Fatalf("got pixel (%d,%d), want (99,99)", i, j)
	}

	if !dist.Detect(pp, "total") {
		t.Fatalf("Detect rejected a packet that project() accepted")
	}
	if got := dist.Frames["total"].Get(99, 99); got != 1 {
		t.Fatalf("got accumulated luminosity %v, want 1", got)
	}

	sys := units.Default()
	arrays := dist.Calibrate(5e-7, 1e-8, sys)
	arr, ok := arrays["total"]
	if !ok {
		t.Fatal("missing total channel after calibration")
	}
	solidAngle := dist.solidAngle()
	want := 1.0 / 1e-8 / solidAngle / (4 * math.Pi * dist.Distance * dist.Distance) * sys.SurfaceBrightnessFactor(5e-7)
	got := arr.Get(99, 99)
	if math.Abs(got-want) > math.Abs(want)*1e-9 {
		t.Fatalf("calibrated pixel = %v, want %v", got, want)
	}
}

func newDistantSignature() (func(ell int) (*Distant, error), error) {
	return func(ell int) (*Distant, error) {
		return NewDistant(1e19, 0, 0, 0, 1e18, 1e18, 50, 50, []string{"total"})
	}, nil
}

func TestMultiFrameHasOneFramePerWavelength(t *testing.T) {
	grid, err := wavelength.New([]float64{4e-7, 5e-7, 6e-7})
	if err != nil {
		t.Fatal(err)
	}
	newFrame, err := newDistantSignature()
	if err != nil {
		t.Fatal(err)
	}
	mf, err := NewMultiFrame(grid, newFrame)
	if err != nil {
		t.Fatal(err)
	}
	if len(mf.Frames) != grid.Len() {
		t.Fatalf("got %d frames, want %d", len(mf.Frames), grid.Len())
	}
}

func TestMultiFrameDetectRoutesByWavelengthIndex(t *testing.T) {
	grid, err := wavelength.New([]float64{4e-7, 5e-7, 6e-7})
	if err != nil {
		t.Fatal(err)
	}
	newFrame, _ := newDistantSignature()
	mf, err := NewMultiFrame(grid, newFrame)
	if err != nil {
		t.Fatal(err)
	}

	p := photon.New(true, 2, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 1)
	pp := photon.PeelOff(p, geom3.NewDirection(0, 0, 1), zeroOpticalDepth{})
	if !mf.Detect(pp, "total") {
		t.Fatal("expected detection to succeed")
	}
	for ell, f := range mf.Frames {
		sum := 0.0
		nxp, nyp := f.Frames["total"].Shape()
		for i := 0; i < nxp; i++ {
			for j := 0; j < nyp; j++ {
				sum += f.Frames["total"].Get(i, j)
			}
		}
		if ell == 2 && sum == 0 {
			t.Fatalf("expected frame 2 to receive the detection")
		}
		if ell != 2 && sum != 0 {
			t.Fatalf("frame %d received a detection meant for frame 2", ell)
		}
	}
}

func TestSEDOnlyWriteTSVHasHeaderAndOneRowPerWavelength(t *testing.T) {
	grid, err := wavelength.New([]float64{4e-7, 5e-7, 6e-7})
	if err != nil {
		t.Fatal(err)
	}
	sed := NewSEDOnly(grid)
	p := photon.New(true, 1, geom3.NewCartesian(0, 0, 0), geom3.NewDirection(1, 0, 0), 2)
	pp := photon.PeelOff(p, geom3.NewDirection(0, 0, 1), zeroOpticalDepth{})
	sed.Detect(pp)

	var buf bytes.Buffer
	if err := sed.WriteTSV(&buf, 1e19, units.Default()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != grid.Len()+1 {
		t.Fatalf("got %d lines, want %d (header + %d wavelengths)", len(lines), grid.Len()+1, grid.Len())
	}
	if !strings.HasPrefix(lines[0], "lambda") {
		t.Fatalf("expected header row, got %q", lines[0])
	}
}
