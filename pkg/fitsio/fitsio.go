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

// Package fitsio writes calibrated instrument frames as 2-D raster images,
// adapted from the gridded-array NetCDF writer of vargrid.go's CTMData.Write:
// a header describing dimensions and variables is written first, then each
// variable's data is written into its pre-allocated slab (§6 "<prefix>_<
// instrument>_<channel>_<ell>.fits: 2-D FITS image, axis units from the
// active unit system, pixel scale written in the WCS").
//
// The file written is a NetCDF-style CDF file produced by ctessum/cdf, not
// a FITS file: the pixel scale and axis unit are stored as CDF attributes
// (cdelt1, cdelt2, axis_unit), and no FITS header or WCS block is written.
package fitsio

import (
	"fmt"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// WriteFrame writes a single 2-D channel array to rw as a self-describing
// raster: a "naxis1" x "naxis2" variable named by channel, with WCS-style
// attributes recording the pixel scale and reference wavelength (§6).
func WriteFrame(rw cdf.ReaderWriterAt, channel string, arr *sparse.DenseArray, lambdaMeters, pixelScaleMeters float64, axisUnit string) error {
	if len(arr.Shape) != 2 {
		return fmt.Errorf("fitsio: expected a 2-D array, got shape %v", arr.Shape)
	}
	naxis1, naxis2 := arr.Shape[0], arr.Shape[1]

	h := cdf.NewHeader([]string{"naxis1", "naxis2"}, []int{naxis1, naxis2})
	h.AddAttribute("", "comment", "radiative transfer instrument frame")
	h.AddAttribute("", "lambda", []float64{lambdaMeters})
	h.AddAttribute("", "cdelt1", []float64{pixelScaleMeters})
	h.AddAttribute("", "cdelt2", []float64{pixelScaleMeters})
	h.AddAttribute("", "axis_unit", axisUnit)

	h.AddVariable(channel, []string{"naxis1", "naxis2"}, []float64{0})
	h.AddAttribute(channel, "units", axisUnit)
	h.Define()

	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("fitsio: creating file: %w", err)
	}

	if len(arr.Elements) != naxis1*naxis2 {
		return fmt.Errorf("fitsio: array has %d elements, want %d", len(arr.Elements), naxis1*naxis2)
	}
	end := f.Header.Lengths(channel)
	start := make([]int, len(end))
	w := f.Writer(channel, start, end)
	if _, err := w.Write(arr.Elements); err != nil {
		return fmt.Errorf("fitsio: writing variable %s: %w", channel, err)
	}
	return nil
}

// ReadFrame reads back the channel variable written by WriteFrame, for
// round-trip testing.
func ReadFrame(rw cdf.ReaderWriterAt, channel string) (*sparse.DenseArray, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("fitsio: opening file: %w", err)
	}
	lengths := f.Header.Lengths(channel)
	if len(lengths) != 2 {
		return nil, fmt.Errorf("fitsio: variable %s has %d dimensions, want 2", channel, len(lengths))
	}
	arr := sparse.ZerosDense(lengths...)
	r := f.Reader(channel, make([]int, len(lengths)), lengths)
	if _, err := r.Read(arr.Elements); err != nil {
		return nil, fmt.Errorf("fitsio: reading variable %s: %w", channel, err)
	}
	return arr, nil
}
