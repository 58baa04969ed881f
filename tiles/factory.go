// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiles

import (
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// Border carries the per-axis halo thickness derived from a stencil (spec
// §3 "Borders"); it is the part of stencil.Stencil the factory needs,
// copied out so this package does not depend on package stencil.
type Border struct {
	Low  []int
	High []int
}

// Build derives a Set from local (this rank's owned sub-shape, in the same
// absolute coordinate space as global), global (the full inner-domain
// shape, border-thickness already removed, used only to test whether a
// face coincides with the domain edge) and active (the per-slot activity
// flags from stencil.DetectActive + DeactivateEmptyNeighbors). local must
// be non-empty; an inactive (empty) rank's Set is the caller's
// responsibility to special-case, as it has no sensible mat allocation.
func Build[C tile.Cell](local, global geom.Shape, b Border, active []bool) *Set[C] {
	ndim := local.Dims()

	// step 1: mat = local expanded by the border on every axis
	matShape := local
	for i := 0; i < ndim; i++ {
		matShape = matShape.Transform(i, geom.Begin, -b.Low[i])
		matShape = matShape.Transform(i, geom.End, b.High[i])
	}
	mat := tile.NewRoot[C](matShape)

	nslots := geom.NumSlots(ndim)
	borderIn := make([]tile.Tile[C], nslots)
	borderOut := make([]tile.Tile[C], nslots)
	for n := 0; n < nslots; n++ {
		borderIn[n] = tile.Null[C]()
		borderOut[n] = tile.Null[C]()
	}

	// steps 2-3: inbound halo and outbound border selections per slot
	for n := 0; n < nslots; n++ {
		if n == geom.CenterSlot(ndim) || !active[n] {
			continue
		}
		d := geom.Displacement(ndim, n)

		inShape := local
		outShape := local
		participates := false
		for i, di := range d {
			if di == 0 {
				continue
			}
			participates = true
			if di < 0 {
				inShape = inShape.Transform(i, geom.First, b.Low[i])
				inShape = inShape.Transform(i, geom.Move, -b.Low[i])
				outShape = outShape.Transform(i, geom.First, b.High[i])
			} else {
				inShape = inShape.Transform(i, geom.Last, b.High[i])
				inShape = inShape.Transform(i, geom.Move, b.High[i])
				outShape = outShape.Transform(i, geom.Last, b.Low[i])
			}
		}
		if !participates || inShape.IsNull() || outShape.IsNull() {
			continue
		}
		borderIn[n] = mat.Select(inShape)
		borderOut[n] = mat.Select(outShape)
	}

	// step 4: inner = local with active out-neighbor faces carved off
	inner := local
	for i := 0; i < ndim; i++ {
		if !borderOut[axisSlot(ndim, i, 1)].IsNull() {
			inner = inner.Transform(i, geom.End, -b.High[i])
		}
		if !borderOut[axisSlot(ndim, i, -1)].IsNull() {
			inner = inner.Transform(i, geom.Begin, b.Low[i])
		}
	}
	innerTile := mat.Select(inner)

	// step 5: device-side border slabs with overlap removal (lower axis wins).
	// A slab is only built when its pure axis-aligned out-neighbor is
	// active: otherwise that band was left inside inner at step 4, and
	// building it here too would violate the inner/border_out_dev
	// partition invariant (spec §8).
	borderOutDev := make([][2]tile.Tile[C], ndim)
	for i := 0; i < ndim; i++ {
		lowActive := !borderOut[axisSlot(ndim, i, -1)].IsNull()
		highActive := !borderOut[axisSlot(ndim, i, 1)].IsNull()

		low := local.Transform(i, geom.First, b.High[i])
		high := local.Transform(i, geom.Last, b.Low[i])
		for k := 0; k < i; k++ {
			if !borderOutDev[k][0].IsNull() {
				low = low.Transform(k, geom.Begin, b.High[k])
				high = high.Transform(k, geom.Begin, b.High[k])
			}
			if !borderOutDev[k][1].IsNull() {
				low = low.Transform(k, geom.End, -b.Low[k])
				high = high.Transform(k, geom.End, -b.Low[k])
			}
		}
		if !lowActive || low.IsNull() {
			borderOutDev[i][0] = tile.Null[C]()
		} else {
			borderOutDev[i][0] = mat.Select(low)
		}
		if !highActive || high.IsNull() {
			borderOutDev[i][1] = tile.Null[C]()
		} else {
			borderOutDev[i][1] = mat.Select(high)
		}
	}

	// step 6: io = mat minus inbound halos, except where a face sits on
	// the global matrix edge (spec §9 open-question decision: prefer the
	// clearer offset-membership test)
	ioShape := matShape
	globalOff := global.Offset()
	localOff := local.Offset()
	for i := 0; i < ndim; i++ {
		onLowEdge := localOff[i] == globalOff[i]
		onHighEdge := localOff[i]+local.Card(i) == globalOff[i]+global.Card(i)
		if !onLowEdge {
			ioShape = ioShape.Transform(i, geom.Begin, b.Low[i])
		}
		if !onHighEdge {
			ioShape = ioShape.Transform(i, geom.End, -b.High[i])
		}
	}
	ioTile := mat.Select(ioShape)

	return &Set[C]{
		Mat:          mat,
		Inner:        innerTile,
		IO:           ioTile,
		BorderIn:     borderIn,
		BorderOut:    borderOut,
		BorderOutDev: borderOutDev,
	}
}

// axisSlot returns the neighbor slot whose displacement vector is zero on
// every axis except axis, where it is sign (must be -1 or +1)
func axisSlot(ndim, axis, sign int) int {
	d := make([]int, ndim)
	d[axis] = sign
	return geom.SlotOf(d)
}
