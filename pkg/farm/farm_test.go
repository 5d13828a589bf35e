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

package farm

import (
	"math"
	"testing"
)

func squareTask(in Envelope) (Envelope, error) {
	out := NewEnvelope()
	x := in.Scalars["x"]
	out.Scalars["x"] = x * x
	return out, nil
}

func identityTask(in Envelope) (Envelope, error) {
	return in, nil
}

func makeScalarInputs(xs []float64) []Envelope {
	inputs := make([]Envelope, len(xs))
	for i, x := range xs {
		e := NewEnvelope()
		e.Scalars["x"] = x
		inputs[i] = e
	}
	return inputs
}

// TestLocalSquareTaskPreservesOrder is scenario 6 of §8, local-pool
// variant: outputs [0,1,4,9,16,25,36,49] regardless of pool size.
func TestLocalSquareTaskPreservesOrder(t *testing.T) {
	for _, numWorkers := range []int{1, 3, 8} {
		m := NewManager(numWorkers, nil)
		idx := m.RegisterTask(squareTask)
		if err := m.AcquireSlaves(); err != nil {
			t.Fatal(err)
		}
		inputs := makeScalarInputs([]float64{0, 1, 2, 3, 4, 5, 6, 7})
		outputs, err := m.PerformTask(idx, inputs)
		if err != nil {
			t.Fatal(err)
		}
		for i, out := range outputs {
			want := float64(i * i)
			if math.Abs(out.Scalars["x"]-want) > 1e-9 {
				t.Fatalf("workers=%d: output[%d]=%v, want %v", numWorkers, i, out.Scalars["x"], want)
			}
		}
		if err := m.ReleaseSlaves(); err != nil {
			t.Fatal(err)
		}
	}
}

// TestLocalIdentityTaskRoundTrips covers §8's "identity task returns
// outputs equal to inputs, element-wise, for input sizes smaller and
// larger than the slave count".
func TestLocalIdentityTaskRoundTrips(t *testing.T) {
	for _, n := range []int{1, 5, 20} {
		m := NewManager(3, nil)
		idx := m.RegisterTask(identityTask)
		if err := m.AcquireSlaves(); err != nil {
			t.Fatal(err)
		}
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		outputs, err := m.PerformTask(idx, makeScalarInputs(xs))
		if err != nil {
			t.Fatal(err)
		}
		for i, out := range outputs {
			if out.Scalars["x"] != xs[i] {
				t.Fatalf("n=%d: output[%d]=%v, want %v", n, i, out.Scalars["x"], xs[i])
			}
		}
		if err := m.ReleaseSlaves(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAcquireTwiceIsFatal(t *testing.T) {
	m := NewManager(1, nil)
	if err := m.AcquireSlaves(); err != nil {
		t.Fatal(err)
	}
	if err := m.AcquireSlaves(); err == nil {
		t.Fatalf("expected FATAL error acquiring twice")
	}
}

func TestReleaseWithoutAcquireIsFatal(t *testing.T) {
	m := NewManager(1, nil)
	if err := m.ReleaseSlaves(); err == nil {
		t.Fatalf("expected FATAL error releasing without acquiring")
	}
}

func TestPerformTaskBeforeAcquireIsFatal(t *testing.T) {
	m := NewManager(1, nil)
	idx := m.RegisterTask(identityTask)
	if _, err := m.PerformTask(idx, makeScalarInputs([]float64{1})); err == nil {
		t.Fatalf("expected FATAL error performing before acquiring")
	}
}

func TestEnvelopeMarshalRoundTrip(t *testing.T) {
	e := NewEnvelope()
	e.Scalars["a"] = 1.5
	e.Arrays["b"] = []float64{1, 2, 3}
	e.Strings["c"] = "hello"
	data, err := Marshal(e, DefaultMaxBytes)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scalars["a"] != 1.5 || got.Strings["c"] != "hello" || len(got.Arrays["b"]) != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestEnvelopeOversizeIsFatal(t *testing.T) {
	e := NewEnvelope()
	e.Arrays["big"] = make([]float64, 10000)
	if _, err := Marshal(e, DefaultMaxBytes); err == nil {
		t.Fatalf("expected error for an oversize envelope")
	}
}
