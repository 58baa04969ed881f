// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tiles implements the tile factory (spec §4.3): given a rank's
// layout and a stencil's border thickness, it derives the local, inner,
// I/O, inbound-halo and outbound-border selections that make up one half
// of the double-buffer pair.
package tiles

import "github.com/uva-trasgo/EPSILOD/tile"

// Set is the per-rank, per-buffer collection of derived tiles (spec §3
// "EpsilodTiles"). BorderIn and BorderOut are indexed by neighbor slot
// (geom.SlotOf order), length 3^ndim; a Null entry marks an inactive slot
// that compute and transfer code must skip (spec §4.3 contract).
type Set[C tile.Cell] struct {
	Mat   tile.Tile[C] // local owned region expanded by the stencil's border on every axis
	Inner tile.Tile[C] // mat with all outbound borders carved off -- the independent compute region
	IO    tile.Tile[C] // mat minus inbound halos that are not on the global matrix edge

	BorderIn  []tile.Tile[C] // inbound halo selections, one per neighbor slot
	BorderOut []tile.Tile[C] // outbound border selections, symmetric to BorderIn

	// BorderOutDev[axis][0] is the low-side outbound border slab, [1] the
	// high-side slab: 2*ndim minimum non-overlapping tiles covering the
	// outbound border region, used to launch border kernels independently
	// of the inner kernel (spec §4.3 step 5).
	BorderOutDev [][2]tile.Tile[C]

	// NeighSync holds the halo-exchange pattern built over this Set by the
	// engine (package pattern); left nil until the engine builds it, to
	// avoid a tiles -> pattern import cycle (pattern only depends on tile).
	NeighSync any
}

// Release drops every tile's reference to mat's root storage. The order
// does not matter, since every other selection's Select call already
// retained the same root; releasing them all once is sufficient -- the
// root's storage is freed when every reference (Mat + every selection) has
// been released.
func (s *Set[C]) Release() {
	s.Mat.Release()
	s.Inner.Release()
	s.IO.Release()
	for _, t := range s.BorderIn {
		t.Release()
	}
	for _, t := range s.BorderOut {
		t.Release()
	}
	for _, pair := range s.BorderOutDev {
		pair[0].Release()
		pair[1].Release()
	}
}
