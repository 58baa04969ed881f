// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stencil

import "github.com/uva-trasgo/EPSILOD/geom"

// DetectActive computes, for every neighbor slot (spec §4.4), whether any
// nonzero weight of s falls in that slot's region. The centre slot (the
// local inner region) is always forced inactive afterward -- it is the
// "no-op neighbor" sentinel, not a real transfer target.
//
// Algorithm: for every stencil cell, classify each axis's coordinate into
// {low, centre, high} relative to Origin; a nonzero weight marks its slot
// active.
func (s *Stencil) DetectActive() []bool {
	ndim := s.Ndim()
	active := make([]bool, geom.NumSlots(ndim))
	d := make([]int, ndim)
	s.Weights.Each(func(c []int) {
		if s.Weights.At(c) == 0 {
			return
		}
		for i := 0; i < ndim; i++ {
			switch {
			case c[i] < s.Origin[i]:
				d[i] = -1
			case c[i] > s.Origin[i]:
				d[i] = 1
			default:
				d[i] = 0
			}
		}
		active[geom.SlotOf(d)] = true
	})
	active[geom.CenterSlot(ndim)] = false
	return active
}

// NeighborLookup abstracts the layout's rank-neighbor lookup (spec §4.7
// "neighbor(lay, shift) → rank") so this package does not depend on
// partition.Layout directly.
type NeighborLookup interface {
	Neighbor(rank int, shift []int) int
}

// DeactivateEmptyNeighbors clears every slot of active whose neighbor rank
// (per lay, from rank) does not exist (spec §4.4's last step, §8 scenario 4
// "all eight corner slots are inactive" on a single-rank layout). active is
// modified in place and also returned for convenience.
func DeactivateEmptyNeighbors(lay NeighborLookup, rank int, active []bool) []bool {
	ndim := 0
	for n := 1; n < len(active); n *= 3 {
		ndim++
	}
	for _, n := range geom.AllSlots(ndim) {
		if !active[n] {
			continue
		}
		shift := geom.Displacement(ndim, n)
		if lay.Neighbor(rank, shift) < 0 {
			active[n] = false
		}
	}
	return active
}
