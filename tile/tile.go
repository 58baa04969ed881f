// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tile

import (
	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/geom"
)

// Tile is a named sub-view (selection) of a root's storage. Invariant
// (spec §3): a selection's shape is a sub-shape of its root -- every axis's
// signature is contained in the root's axis signature. A Tile never
// outlives its root: the root's storage is only released once every Tile
// referencing it has called Release.
type Tile[C Cell] struct {
	shape geom.Shape
	root  *root[C]
}

// Null returns the absent-tile sentinel (spec §9 "Option<Tile>"); every
// iteration site must check IsNull explicitly rather than relying on a
// sentinel value.
func Null[C Cell]() Tile[C] {
	return Tile[C]{shape: geom.Null()}
}

// IsNull tells whether this is the absent-tile sentinel
func (t Tile[C]) IsNull() bool {
	return t.shape.IsNull()
}

// Shape returns this tile's shape
func (t Tile[C]) Shape() geom.Shape {
	return t.shape
}

// Select returns a child Tile over sub, a sub-shape of t.shape. Panics if
// sub is not contained in t.shape -- this is an invariant violation, not a
// runtime condition callers are expected to recover from.
func (t Tile[C]) Select(sub geom.Shape) Tile[C] {
	if sub.IsNull() {
		return Null[C]()
	}
	if !geom.Contains(t.shape, sub) {
		chk.Panic("tile: selection %v is not contained in %v", sub, t.shape)
	}
	t.root.retain()
	return Tile[C]{shape: sub, root: t.root}
}

// Release drops this tile's reference to its root storage. The underlying
// buffer (and any device allocation) is freed once every outstanding Tile
// referencing the root has released it.
func (t Tile[C]) Release() {
	if t.IsNull() {
		return
	}
	t.root.release()
}

// At returns the cell at absolute coordinate coords
func (t Tile[C]) At(coords []int) C {
	return t.root.data[t.root.idx(coords)]
}

// Set writes the cell at absolute coordinate coords
func (t Tile[C]) Set(coords []int, v C) {
	t.root.data[t.root.idx(coords)] = v
}

// Each calls f with every absolute coordinate selected by this tile, in
// row-major order
func (t Tile[C]) Each(f func(coords []int)) {
	t.shape.Each(f)
}

// Flatten copies this tile's cells into a freshly-allocated, densely-packed
// slice in row-major order -- the layout used for halo-exchange wire
// transfers (spec §6) and for host staging buffers (spec §4.5).
func (t Tile[C]) Flatten() []C {
	out := make([]C, 0, t.shape.Size())
	t.Each(func(coords []int) {
		out = append(out, t.At(coords))
	})
	return out
}

// Unflatten writes a densely-packed, row-major slice (as produced by
// Flatten) back into this tile's cells
func (t Tile[C]) Unflatten(data []C) {
	i := 0
	t.Each(func(coords []int) {
		t.Set(coords, data[i])
		i++
	})
}

// CopyFrom bulk-copies every cell of src into the corresponding relative
// position of t. The two tiles must have identical cardinality on every
// axis (their absolute coordinates may differ -- this is how an inbound
// halo on one rank is filled from an outbound border with a different
// origin on the sender).
func CopyFrom[C Cell](dst, src Tile[C]) {
	if dst.shape.Dims() != src.shape.Dims() {
		chk.Panic("tile: CopyFrom dimension mismatch %d != %d", dst.shape.Dims(), src.shape.Dims())
	}
	for i := 0; i < dst.shape.Dims(); i++ {
		if dst.shape.Card(i) != src.shape.Card(i) {
			chk.Panic("tile: CopyFrom cardinality mismatch on axis %d: %d != %d", i, dst.shape.Card(i), src.shape.Card(i))
		}
	}
	dstOff := dst.shape.Offset()
	srcOff := src.shape.Offset()
	src.Each(func(srcCoords []int) {
		dstCoords := make([]int, len(srcCoords))
		for i, c := range srcCoords {
			dstCoords[i] = c - srcOff[i] + dstOff[i]
		}
		dst.Set(dstCoords, src.At(srcCoords))
	})
}

// Equal reports whether a and b hold bit-identical cells at every
// corresponding coordinate; used by tests to verify halo-exchange
// correctness (spec §8).
func Equal[C Cell](a, b Tile[C]) bool {
	if a.shape.Dims() != b.shape.Dims() {
		return false
	}
	for i := 0; i < a.shape.Dims(); i++ {
		if a.shape.Card(i) != b.shape.Card(i) {
			return false
		}
	}
	aOff, bOff := a.shape.Offset(), b.shape.Offset()
	equal := true
	a.Each(func(aCoords []int) {
		bCoords := make([]int, len(aCoords))
		for i, c := range aCoords {
			bCoords[i] = c - aOff[i] + bOff[i]
		}
		if a.At(aCoords) != b.At(bCoords) {
			equal = false
		}
	})
	return equal
}
