// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stencil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// fivePoint builds the 2-D 5-point Jacobi stencil weight matrix
//   [0,1,0]
//   [1,0,1]
//   [0,1,0]
// centred at (1,1).
func fivePoint() *Stencil {
	w := tile.NewRoot[float64](geom.FromSizes(3, 3))
	w.Set([]int{0, 1}, 1)
	w.Set([]int{1, 0}, 1)
	w.Set([]int{1, 2}, 1)
	w.Set([]int{2, 1}, 1)
	return New(w, []int{1, 1})
}

func TestDetectActiveFivePoint(t *testing.T) {
	s := fivePoint()
	assert.Equal(t, []int{1, 1}, s.Low)
	assert.Equal(t, []int{1, 1}, s.High)

	active := s.DetectActive()
	wantActive := map[string]bool{
		"-1,0": true, "1,0": true, "0,-1": true, "0,1": true,
	}
	for _, n := range geom.AllSlots(2) {
		d := geom.Displacement(2, n)
		key := key(d)
		if wantActive[key] {
			assert.Truef(t, active[n], "slot %v should be active", d)
		} else {
			assert.Falsef(t, active[n], "corner slot %v should be inactive", d)
		}
	}
}

func key(d []int) string {
	s := ""
	for i, v := range d {
		if i > 0 {
			s += ","
		}
		s += itoa(v)
	}
	return s
}

func itoa(v int) string {
	if v < 0 {
		return "-" + itoa(-v)
	}
	return string(rune('0' + v))
}

type fakeLayout struct {
	neighbors map[int]int
}

func (f fakeLayout) Neighbor(rank int, shift []int) int {
	n, ok := f.neighbors[geom.SlotOf(shift)]
	if !ok {
		return -1
	}
	return n
}

func TestDeactivateEmptyNeighborsSingleRank(t *testing.T) {
	s := fivePoint()
	active := s.DetectActive()
	lay := fakeLayout{neighbors: map[int]int{}}
	DeactivateEmptyNeighbors(lay, 0, active)
	for _, a := range active {
		assert.False(t, a)
	}
}
