// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stencil implements the weighted neighbor pattern applied to every
// interior cell (spec §3 "Stencil", §4.4 "Active-border detection")
package stencil

import "github.com/uva-trasgo/EPSILOD/tile"

// Stencil holds the weight matrix of a stencil plus its derived border
// thickness vectors (spec §3). Weight 0 at a position means "not a real
// neighbor" -- this drives active-border detection.
type Stencil struct {
	Weights tile.Tile[float64] // the weight matrix, in the caller's own coordinate system
	Origin  []int              // the coordinate of the self-cell ("centre") within Weights
	Low     []int              // border.low[i]: distance from Origin to the furthest nonzero weight on the low side of axis i
	High    []int              // border.high[i]: distance from Origin to the furthest nonzero weight on the high side of axis i
}

// New computes the derived border vectors from a weight tile and the
// coordinate of its self-cell. It scans every cell of weights once.
func New(weights tile.Tile[float64], origin []int) *Stencil {
	ndim := weights.Shape().Dims()
	low := make([]int, ndim)
	high := make([]int, ndim)
	weights.Each(func(c []int) {
		if weights.At(c) == 0 {
			return
		}
		for i := 0; i < ndim; i++ {
			d := c[i] - origin[i]
			if d < 0 && -d > low[i] {
				low[i] = -d
			}
			if d > 0 && d > high[i] {
				high[i] = d
			}
		}
	})
	return &Stencil{Weights: weights, Origin: append([]int{}, origin...), Low: low, High: high}
}

// Ndim returns the stencil's dimensionality
func (s *Stencil) Ndim() int {
	return len(s.Low)
}
