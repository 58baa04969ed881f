// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import "github.com/uva-trasgo/EPSILOD/geom"

// Kind selects the shape of the process-topology / block-sizing policy
// (spec §4.2)
type Kind int

const (
	KindMultiDim  Kind = iota // grid topology with k axes, equal blocks
	KindSingleDim             // 1-D process line along one axis, equal blocks
	KindNotDim                // multi-dim on every axis except one
	KindWeighted              // 1-D along one axis, weighted block sizes
)

// Spec names a partitioner and its parameters; construct with MultiDim,
// SingleDim, NotDim or Weighted
type Spec struct {
	Kind Kind
	K    int // MultiDim: number of partitioned axes
	Axis int // SingleDim/NotDim/Weighted: the distinguished axis
}

// MultiDim builds a grid topology spread over the leading k axes
func MultiDim(k int) Spec { return Spec{Kind: KindMultiDim, K: k} }

// SingleDim builds a plain 1-D process line along axis
func SingleDim(axis int) Spec { return Spec{Kind: KindSingleDim, Axis: axis} }

// NotDim builds a multi-dim topology over every axis except axis
func NotDim(axis int) Spec { return Spec{Kind: KindNotDim, Axis: axis} }

// Weighted builds a 1-D line along axis with block sizes proportional to
// per-rank weights
func Weighted(axis int) Spec { return Spec{Kind: KindWeighted, Axis: axis} }

// Default is the partitioner used when EPSILOD_PARTITION is unconfigured
// (spec §4.2 "Default when unconfigured: SingleDim(0)")
func Default() Spec { return SingleDim(0) }

// MaxDims is the highest dimensionality EPSILOD supports (spec §7
// "unsupported dimensionality (must be ≤ 4)"), matching the original
// engine's hard EPSILOD_MAX_DIMS limit.
const MaxDims = 4

// Partition lays global (already reduced to the inner domain -- the global
// matrix border thickness has been removed on every axis by the caller)
// onto nprocs ranks according to spec. weights is only consulted for
// KindWeighted.
func Partition(spec Spec, global geom.Shape, nprocs int, weights Weights) (*Layout, error) {
	ndim := global.Dims()
	if ndim > MaxDims {
		return nil, &ConfigError{Msg: "unsupported dimensionality (must be <= 4)"}
	}

	var partitioned []int
	switch spec.Kind {
	case KindMultiDim:
		k := spec.K
		if k <= 0 || k > ndim {
			return nil, &ConfigError{Msg: "MultiDim: k must be in [1,ndim]"}
		}
		for i := 0; i < k; i++ {
			partitioned = append(partitioned, i)
		}
	case KindSingleDim, KindWeighted:
		if spec.Axis < 0 || spec.Axis >= ndim {
			return nil, &ConfigError{Msg: "axis out of range"}
		}
		partitioned = []int{spec.Axis}
	case KindNotDim:
		if spec.Axis < 0 || spec.Axis >= ndim {
			return nil, &ConfigError{Msg: "axis out of range"}
		}
		for i := 0; i < ndim; i++ {
			if i != spec.Axis {
				partitioned = append(partitioned, i)
			}
		}
	default:
		return nil, &ConfigError{Msg: "unknown partition kind"}
	}

	procsPerAxis := make([]int, ndim)
	for i := range procsPerAxis {
		procsPerAxis[i] = 1
	}
	if spec.Kind == KindWeighted {
		procsPerAxis[spec.Axis] = nprocs
	} else {
		factors := balancedFactors(nprocs, len(partitioned))
		for i, axis := range partitioned {
			procsPerAxis[axis] = factors[i]
		}
	}
	topo := Topology{ProcsPerAxis: procsPerAxis}
	if topo.NumProcs() != nprocs {
		return nil, &ConfigError{Msg: "process topology could not be built for the requested process count"}
	}

	// per-axis signature bounds for every proc-coordinate along every axis
	axisBounds := make([][]geom.Sig, ndim)
	for axis := 0; axis < ndim; axis++ {
		card := global.Card(axis)
		base := global.Sigs[axis].Begin
		procs := procsPerAxis[axis]
		if spec.Kind == KindWeighted && axis == spec.Axis {
			axisBounds[axis] = weightedBounds(base, card, weights)
		} else {
			axisBounds[axis] = equalBounds(base, card, procs)
		}
	}

	blocks := make([]geom.Shape, nprocs)
	active := make([]bool, nprocs)
	for rank := 0; rank < nprocs; rank++ {
		coords := topo.Coords(rank)
		sigs := make([]geom.Sig, ndim)
		size := 1
		for axis := 0; axis < ndim; axis++ {
			sigs[axis] = axisBounds[axis][coords[axis]]
			size *= sigs[axis].Card()
		}
		blocks[rank] = geom.Shape{Sigs: sigs}
		active[rank] = size > 0
	}

	return &Layout{Global: global, Topology: topo, Blocks: blocks, Active: active}, nil
}

// equalBounds splits [base, base+card) into n nearly-equal blocks; the last
// block absorbs the remainder (spec §4.2 "last axis absorbs the remainder").
func equalBounds(base, card, n int) []geom.Sig {
	bounds := make([]geom.Sig, n)
	block := card / n
	offset := base
	for i := 0; i < n; i++ {
		size := block
		if i == n-1 {
			size = card - block*(n-1)
		}
		bounds[i] = geom.NewSig(offset, offset+size)
		offset += size
	}
	return bounds
}

// weightedBounds splits [base, base+card) proportionally to the normalised
// weights: floor per rank, residual added to the last non-zero-weight rank
// (spec §4.2 "Weighted" rounding policy); a rank with weight 0 gets zero
// rows and is marked inactive.
func weightedBounds(base, card int, weights Weights) []geom.Sig {
	n := len(weights)
	norm := weights.Normalize()
	sizes := make([]int, n)
	used := 0
	lastNonZero := -1
	for i, w := range norm {
		sizes[i] = int(w * float64(card))
		used += sizes[i]
		if w > 0 {
			lastNonZero = i
		}
	}
	residual := card - used
	if residual != 0 {
		if lastNonZero < 0 {
			lastNonZero = n - 1
		}
		sizes[lastNonZero] += residual
	}
	bounds := make([]geom.Sig, n)
	offset := base
	for i, size := range sizes {
		bounds[i] = geom.NewSig(offset, offset+size)
		offset += size
	}
	return bounds
}
