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

// Package farm implements the master-slave task farm of §4.4: a generic
// value envelope crossing either a local worker pool or a cross-process
// message layer, with a strict state machine enforced against the
// constructing goroutine.
package farm

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Envelope is the tagged value that crosses a farm boundary: named float64
// scalars, named float64 arrays, and named strings (§3 "Task envelope").
// It has no field for nested lists. Fit-driver callers pack simulation parameters and objective
// results into one of these; the farm itself never interprets the fields.
type Envelope struct {
	Scalars map[string]float64
	Arrays  map[string][]float64
	Strings map[string]string
}

// NewEnvelope returns an empty envelope ready for field assignment.
func NewEnvelope() Envelope {
	return Envelope{
		Scalars: make(map[string]float64),
		Arrays:  make(map[string][]float64),
		Strings: make(map[string]string),
	}
}

// DefaultMaxBytes is the default serialized-envelope size cap (§3).
const DefaultMaxBytes = 4000

// Marshal serializes e and enforces maxBytes; exceeding it is FATAL at the
// farm boundary (§4.4 "Serialization").
func Marshal(e Envelope, maxBytes int) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("farm: encoding envelope: %w", err)
	}
	if buf.Len() > maxBytes {
		return nil, fmt.Errorf("farm: envelope of %d bytes exceeds the %d byte limit", buf.Len(), maxBytes)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes an envelope; any failure is FATAL at the
// receiving end (§4.4).
func Unmarshal(data []byte) (Envelope, error) {
	var e Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return Envelope{}, fmt.Errorf("farm: decoding envelope: %w", err)
	}
	return e, nil
}
