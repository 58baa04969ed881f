// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tile implements named sub-views ("selections") of an owned buffer
// sharing storage with a root allocation (spec §3 "Tile", §9 "Cycles")
package tile

import (
	"sync/atomic"

	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/geom"
)

// Cell is the constraint on user element types: a primitive (float64) or a
// fixed-arity compound aggregate (e.g. a [19]float64 for D3Q19 lattice
// Boltzmann). comparable is enough for the engine's needs -- copy is plain
// assignment, byte size is unsafe.Sizeof of the zero value, and equality
// (used only in tests) is "==". The engine never inspects cell contents.
type Cell interface {
	comparable
}

// DeviceHandle is the opaque per-tile device-side allocation handle; the
// Runtime façade (spec §4.7) is the only code that dereferences it.
type DeviceHandle interface {
	Free()
}

// root owns the host (and optionally device) storage a tree of Tiles
// selects into. A root is never freed while a Tile still references it;
// refs is incremented on every Select and decremented on every Tile.Release.
type root[C Cell] struct {
	shape  geom.Shape // the root's own shape; defines the coordinate space of Idx
	data   []C        // dense, row-major storage (axis 0 slowest)
	device DeviceHandle
	refs   int32
}

// NewRoot allocates a new root tile covering shape and returns the full
// Tile selecting the entire root
func NewRoot[C Cell](shape geom.Shape) Tile[C] {
	if shape.IsNull() {
		chk.Panic("tile: cannot allocate a root over the NULL shape")
	}
	r := &root[C]{
		shape: shape,
		data:  make([]C, shape.Size()),
		refs:  1,
	}
	return Tile[C]{shape: shape, root: r}
}

// strides returns the row-major element strides of the root, axis 0 slowest
func (r *root[C]) strides() []int {
	nd := r.shape.Dims()
	strides := make([]int, nd)
	strides[nd-1] = 1
	for i := nd - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * r.shape.Card(i+1)
	}
	return strides
}

// idx computes the flat index of absolute coordinate coords within the root
func (r *root[C]) idx(coords []int) int {
	off := r.shape.Offset()
	strides := r.strides()
	flat := 0
	for i, c := range coords {
		flat += (c - off[i]) * strides[i]
	}
	return flat
}

func (r *root[C]) retain() {
	atomic.AddInt32(&r.refs, 1)
}

func (r *root[C]) release() {
	if atomic.AddInt32(&r.refs, -1) == 0 {
		if r.device != nil {
			r.device.Free()
			r.device = nil
		}
		r.data = nil
	}
}
