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

// Package wavelength implements the ordered wavelength grid (§3 "Wavelength
// grid + units") used to index every per-channel quantity in the engine:
// photon-packet wavelength index ell, instrument frames, and SED columns.
package wavelength

import (
	"fmt"
	"sort"
)

// Grid is an ordered, immutable sequence of wavelengths (meters) with
// per-bin widths derived from the midpoints between neighbours.
type Grid struct {
	lambda []float64 // meters, strictly ascending
	width  []float64 // meters, same length as lambda
}

// New builds a Grid from an ascending slice of wavelengths in meters. Bin
// widths are the distance between the midpoints on either side of each
// wavelength, with the outermost bins mirrored from their single neighbour.
func New(lambdaMeters []float64) (*Grid, error) {
	n := len(lambdaMeters)
	if n == 0 {
		return nil, fmt.Errorf("wavelength: grid must have at least one wavelength")
	}
	for i := 1; i < n; i++ {
		if !(lambdaMeters[i] > lambdaMeters[i-1]) {
			return nil, fmt.Errorf("wavelength: wavelengths must be strictly ascending")
		}
	}
	lambda := append([]float64(nil), lambdaMeters...)
	width := make([]float64, n)
	if n == 1 {
		width[0] = 0
		return &Grid{lambda: lambda, width: width}, nil
	}
	for i := 0; i < n; i++ {
		var lo, hi float64
		switch {
		case i == 0:
			lo = lambda[0] - (lambda[1]-lambda[0])/2
			hi = (lambda[0] + lambda[1]) / 2
		case i == n-1:
			lo = (lambda[i-1] + lambda[i]) / 2
			hi = lambda[i] + (lambda[i]-lambda[i-1])/2
		default:
			lo = (lambda[i-1] + lambda[i]) / 2
			hi = (lambda[i] + lambda[i+1]) / 2
		}
		width[i] = hi - lo
	}
	return &Grid{lambda: lambda, width: width}, nil
}

// Len returns the number of wavelength bins.
func (g *Grid) Len() int { return len(g.lambda) }

// Lambda returns the wavelength (meters) at index ell.
func (g *Grid) Lambda(ell int) float64 { return g.lambda[ell] }

// Width returns the bin width (meters) at index ell.
func (g *Grid) Width(ell int) float64 { return g.width[ell] }

// NearestIndex returns the index of the wavelength closest to lambdaMeters,
// via binary search on the sorted grid.
func (g *Grid) NearestIndex(lambdaMeters float64) int {
	i := sort.SearchFloat64s(g.lambda, lambdaMeters)
	if i == 0 {
		return 0
	}
	if i == len(g.lambda) {
		return i - 1
	}
	if lambdaMeters-g.lambda[i-1] < g.lambda[i]-lambdaMeters {
		return i - 1
	}
	return i
}
