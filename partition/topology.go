// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

// Topology is a rectangular process grid: ProcsPerAxis[i] is the number of
// ranks spread along axis i (1 means that axis is not partitioned). Ranks
// are addressed by a row-major mixed-radix coordinate, axis 0 slowest.
type Topology struct {
	ProcsPerAxis []int
}

// NumProcs returns the total number of ranks implied by the topology
func (t Topology) NumProcs() int {
	n := 1
	for _, p := range t.ProcsPerAxis {
		n *= p
	}
	return n
}

// Coords returns the grid coordinate of rank, one entry per axis
func (t Topology) Coords(rank int) []int {
	coords := make([]int, len(t.ProcsPerAxis))
	for i := len(t.ProcsPerAxis) - 1; i >= 0; i-- {
		coords[i] = rank % t.ProcsPerAxis[i]
		rank /= t.ProcsPerAxis[i]
	}
	return coords
}

// RankOf returns the rank at the given grid coordinate
func (t Topology) RankOf(coords []int) int {
	rank := 0
	for i, p := range t.ProcsPerAxis {
		rank = rank*p + coords[i]
	}
	return rank
}

// NullRank is returned by Neighbor for an out-of-grid shift
const NullRank = -1

// Neighbor returns the rank reached by displacing rank's grid coordinate by
// shift (one entry per axis, each typically in {-1,0,+1}), or NullRank if
// the result falls outside the grid on any axis
func (t Topology) Neighbor(rank int, shift []int) int {
	coords := t.Coords(rank)
	for i, d := range shift {
		coords[i] += d
		if coords[i] < 0 || coords[i] >= t.ProcsPerAxis[i] {
			return NullRank
		}
	}
	return t.RankOf(coords)
}

// balancedFactors spreads nprocs across k axes as evenly as possible by
// greedily assigning prime factors of nprocs to the axis with the smallest
// running product -- a simple, deterministic analogue of MPI_Dims_create.
func balancedFactors(nprocs, k int) []int {
	factors := primeFactors(nprocs)
	per := make([]int, k)
	for i := range per {
		per[i] = 1
	}
	// assign the largest factors first so the greedy choice stays balanced
	for i := len(factors) - 1; i >= 0; i-- {
		f := factors[i]
		axis := 0
		for a := 1; a < k; a++ {
			if per[a] < per[axis] {
				axis = a
			}
		}
		per[axis] *= f
	}
	return per
}

func primeFactors(n int) []int {
	var fs []int
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			fs = append(fs, p)
			n /= p
		}
	}
	if n > 1 {
		fs = append(fs, n)
	}
	return fs
}
