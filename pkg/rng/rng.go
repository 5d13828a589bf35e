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

// Package rng provides the per-thread random source used throughout the
// Monte Carlo engine (§4.5). Each worker owns exactly one Source; there is no
// shared state and so no locking is required on the hot path.
package rng

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a single mutable random stream. It is not safe for concurrent
// use; callers must create one Source per worker thread.
type Source struct {
	rnd    *rand.Rand
	normal distuv.Normal
}

// New creates a Source seeded deterministically from a global seed and a
// per-worker index, so that re-running with the same seed and thread count
// reproduces the same photon history per worker.
func New(globalSeed int64, workerIndex int) *Source {
	seed := globalSeed ^ int64(uint64(workerIndex)*0x9E3779B97F4A7C15+1)
	r := rand.New(rand.NewSource(seed))
	return &Source{
		rnd:    r,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: r},
	}
}

// Uniform draws a sample in [0,1).
func (s *Source) Uniform() float64 {
	return s.rnd.Float64()
}

// SqrtUniform draws sqrt(uniform()), a helper needed by several inverse-CDF
// samplers (e.g. the MGE radius draw) that work in r^2 space.
func (s *Source) SqrtUniform() float64 {
	return math.Sqrt(s.rnd.Float64())
}

// Gauss draws a standard normal sample (mean 0, variance 1).
func (s *Source) Gauss() float64 {
	return s.normal.Rand()
}

// UniformIn draws a sample uniformly distributed in [lo, hi).
func (s *Source) UniformIn(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

// GenLog is the generalised logarithm g_p(x) used to invert power-law
// cumulative distributions (§4.2): g_p(x) = x^(p+1)/(p+1) for p != -1, and
// ln(x) for p == -1.
func GenLog(p, x float64) float64 {
	if p == -1 {
		return math.Log(x)
	}
	return math.Pow(x, p+1) / (p + 1)
}

// InverseGenLog inverts GenLog: given y = g_p(x), recovers x.
func InverseGenLog(p, y float64) float64 {
	if p == -1 {
		return math.Exp(y)
	}
	return math.Pow(y*(p+1), 1/(p+1))
}
