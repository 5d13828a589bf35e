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

package fit

import (
	"fmt"

	"github.com/skirtgo/skirt/pkg/rng"
)

// AlleleKind tags which field of an Allele is meaningful, the
// "tagged-variant allele" design named in §9: a GA gene may represent a
// continuous parameter or a discrete one, and mutation/crossover dispatch
// differently for each.
type AlleleKind int

const (
	AlleleDouble AlleleKind = iota
	AlleleInt
)

// Allele is one gene of a GA individual: either a bounded double or a
// bounded int, selected by Kind.
type Allele struct {
	Kind AlleleKind

	Double   float64
	Int      int
	Min, Max float64 // bounds, shared representation for both kinds
}

// NewDoubleAllele builds a continuous gene bounded to [min,max].
func NewDoubleAllele(value, min, max float64) Allele {
	return Allele{Kind: AlleleDouble, Double: value, Min: min, Max: max}
}

// NewIntAllele builds a discrete gene bounded to [min,max].
func NewIntAllele(value, min, max int) Allele {
	return Allele{Kind: AlleleInt, Int: value, Min: float64(min), Max: float64(max)}
}

// String renders the allele's value for template substitution.
func (a Allele) String() string {
	switch a.Kind {
	case AlleleDouble:
		return fmt.Sprintf("%g", a.Double)
	case AlleleInt:
		return fmt.Sprintf("%d", a.Int)
	default:
		return fmt.Sprintf("Allele(kind=%d)", int(a.Kind))
	}
}

// mutate perturbs the allele in place by a Gaussian step scaled by spread
// times the allele's range, clamped back into [Min,Max]. Kinds outside
// {Double,Int} are returned unchanged, and nothing is logged for them.
func (a Allele) mutate(src *rng.Source, spread float64) Allele {
	switch a.Kind {
	case AlleleDouble:
		step := src.Gauss() * spread * (a.Max - a.Min)
		a.Double = clampFloat(a.Double+step, a.Min, a.Max)
	case AlleleInt:
		step := int(src.Gauss() * spread * (a.Max - a.Min))
		a.Int = clampInt(a.Int+step, int(a.Min), int(a.Max))
	}
	return a
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
