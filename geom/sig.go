// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements the multidimensional index-range geometry used to
// describe the global domain, per-rank layouts and tile selections
package geom

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Sig is a half-open integer interval [Begin, End) over one axis, with an
// optional Stride (Stride==1 means every index in the interval is selected)
type Sig struct {
	Begin  int // first index (inclusive)
	End    int // last index (exclusive)
	Stride int // step between selected indices; 0 or 1 means contiguous
}

// NewSig returns a contiguous signature [begin, end)
func NewSig(begin, end int) Sig {
	return Sig{Begin: begin, End: end, Stride: 1}
}

// stride returns o.Stride normalised to 1 when unset
func (o Sig) stride() int {
	if o.Stride <= 0 {
		return 1
	}
	return o.Stride
}

// Empty tells whether the signature selects no index at all
func (o Sig) Empty() bool {
	return o.End <= o.Begin
}

// Card returns the number of indices selected by this signature
func (o Sig) Card() int {
	if o.Empty() {
		return 0
	}
	return (o.End-o.Begin+o.stride()-1) / o.stride()
}

// Intersect returns the axiswise intersection of two signatures; the result
// is Empty() when the two do not overlap. Stride is taken from the receiver;
// EPSILOD never intersects two differently-strided signatures.
func (o Sig) Intersect(other Sig) Sig {
	begin := utl.Imax(o.Begin, other.Begin)
	end := o.End
	if other.End < end {
		end = other.End
	}
	if end < begin {
		end = begin
	}
	return Sig{Begin: begin, End: end, Stride: o.stride()}
}

// Contains tells whether sub is a valid selection of this signature, i.e.
// sub lies entirely within [o.Begin, o.End)
func (o Sig) Contains(sub Sig) bool {
	if sub.Empty() {
		return true
	}
	return sub.Begin >= o.Begin && sub.End <= o.End
}

// String returns a compact textual representation, e.g. "[3,9)"
func (o Sig) String() string {
	if o.Stride > 1 {
		return io.Sf("[%d,%d)/%d", o.Begin, o.End, o.Stride)
	}
	return io.Sf("[%d,%d)", o.Begin, o.End)
}
