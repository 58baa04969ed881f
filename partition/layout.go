// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"github.com/cpmech/gosl/utl"

	"github.com/uva-trasgo/EPSILOD/geom"
)

// Layout is the assignment of a sub-shape of the global domain to each rank
// in a process topology (spec §3 "Layout")
type Layout struct {
	Global   geom.Shape // the global shape this layout was computed from
	Topology Topology   // rank <-> grid coordinate mapping
	Blocks   []geom.Shape
	Active   []bool
}

// NumProcs returns the number of ranks this layout was built for
func (l *Layout) NumProcs() int {
	return len(l.Blocks)
}

// Shape returns the local shape assigned to rank
func (l *Layout) Shape(rank int) geom.Shape {
	return l.Blocks[rank]
}

// IsActive tells whether rank was assigned non-empty work
func (l *Layout) IsActive(rank int) bool {
	return l.Active[rank]
}

// Neighbor returns the rank reached from rank by shift (spec §4.7
// "neighbor(lay, shift) → rank"), or Topology.NullRank if the shift falls
// outside the grid, or if it lands on an inactive rank (there is no one
// there to exchange a halo with)
func (l *Layout) Neighbor(rank int, shift []int) int {
	n := l.Topology.Neighbor(rank, shift)
	if n == NullRank {
		return NullRank
	}
	if !l.Active[n] {
		return NullRank
	}
	return n
}

// FailingAxes returns every axis (partitioned or not, by index into shape)
// on which this rank's local block is smaller than the stencil's halo radius,
// per spec §4.2's validation rule. An inactive rank's empty block never
// fails (it carries no halo traffic on any axis).
func FailingAxes(shape geom.Shape, haloLow, haloHigh []int) []int {
	if shape.Size() == 0 {
		return nil
	}
	var bad []int
	for i := 0; i < shape.Dims(); i++ {
		radius := utl.Imax(haloLow[i], haloHigh[i])
		if shape.Card(i) < radius {
			bad = append(bad, i)
		}
	}
	return bad
}
