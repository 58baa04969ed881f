// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Shape is an ordered sequence of per-axis Sig. A NULL shape (Dims()==-1) is
// the explicit "absent" marker produced whenever a transform degenerates;
// every caller of shape arithmetic must check IsNull before using a result.
type Shape struct {
	Sigs []Sig // [ndim] one signature per axis
}

// Null returns the NULL shape, EPSILOD's explicit "absent" sentinel
func Null() Shape {
	return Shape{Sigs: nil}
}

// New returns a shape with the given per-axis signatures
func New(sigs ...Sig) Shape {
	return Shape{Sigs: append([]Sig{}, sigs...)}
}

// FromSizes returns a dense shape [0,n0) x [0,n1) x ...
func FromSizes(sizes ...int) Shape {
	sigs := make([]Sig, len(sizes))
	for i, n := range sizes {
		sigs[i] = NewSig(0, n)
	}
	return Shape{Sigs: sigs}
}

// IsNull tells whether this is the NULL shape
func (o Shape) IsNull() bool {
	return o.Sigs == nil
}

// Dims returns the number of axes, or -1 for the NULL shape
func (o Shape) Dims() int {
	if o.IsNull() {
		return -1
	}
	return len(o.Sigs)
}

// Card returns the cardinality of axis i
func (o Shape) Card(i int) int {
	return o.Sigs[i].Card()
}

// Size returns the total number of cells in the shape (product of Card(i));
// the NULL shape has size zero
func (o Shape) Size() int {
	if o.IsNull() {
		return 0
	}
	n := 1
	for _, s := range o.Sigs {
		n *= s.Card()
	}
	return n
}

// Offset returns the per-axis Begin of each signature, i.e. the shape's
// origin within its parent index space
func (o Shape) Offset() []int {
	off := make([]int, len(o.Sigs))
	for i, s := range o.Sigs {
		off[i] = s.Begin
	}
	return off
}

// TransformMode selects the kind of per-axis adjustment shape_transform
// performs
type TransformMode int

const (
	Begin TransformMode = iota // shift the low boundary by Δ
	End                        // shift the high boundary by Δ
	First                      // keep only the leading Δ indices
	Last                       // keep only the trailing Δ indices
	Move                       // translate the whole axis by Δ
)

// Transform applies shape_transform (spec §4.1) to a single axis of o and
// returns the resulting shape, or Null() if the transform collapses the
// shape (begin > end on any axis). o is never mutated.
func (o Shape) Transform(axis int, mode TransformMode, delta int) Shape {
	if o.IsNull() {
		return Null()
	}
	sigs := append([]Sig{}, o.Sigs...)
	s := sigs[axis]
	switch mode {
	case Begin:
		s.Begin += delta
	case End:
		s.End += delta
	case First:
		s.End = s.Begin + delta
	case Last:
		s.Begin = s.End - delta
	case Move:
		s.Begin += delta
		s.End += delta
	default:
		chk.Panic("geom: unknown transform mode %d", mode)
	}
	sigs[axis] = s
	return collapseIfDegenerate(Shape{Sigs: sigs})
}

// collapseIfDegenerate returns Null() when any axis signature has
// begin > end, per the rule in spec §4.1; callers never see a panic for a
// degenerate shape
func collapseIfDegenerate(o Shape) Shape {
	for _, s := range o.Sigs {
		if s.Begin > s.End {
			return Null()
		}
	}
	return o
}

// Intersect returns the axiswise intersection of a and b; yields Null() if
// the two shapes have different dimensionality or are empty along any axis
func Intersect(a, b Shape) Shape {
	if a.IsNull() || b.IsNull() {
		return Null()
	}
	if a.Dims() != b.Dims() {
		return Null()
	}
	sigs := make([]Sig, a.Dims())
	for i := range sigs {
		sigs[i] = a.Sigs[i].Intersect(b.Sigs[i])
		if sigs[i].Empty() {
			return Null()
		}
	}
	return Shape{Sigs: sigs}
}

// Contains verifies that sub is a valid selection of root: same
// dimensionality, and each axis of sub lies inside the corresponding axis of
// root
func Contains(root, sub Shape) bool {
	if root.IsNull() || sub.IsNull() {
		return false
	}
	if root.Dims() != sub.Dims() {
		return false
	}
	for i, rs := range root.Sigs {
		if !rs.Contains(sub.Sigs[i]) {
			return false
		}
	}
	return true
}

// String returns a textual representation, e.g. "[0,4)x[0,4)"
func (o Shape) String() string {
	if o.IsNull() {
		return "NULL"
	}
	s := ""
	for i, sig := range o.Sigs {
		if i > 0 {
			s += "x"
		}
		s += io.Sf("%v", sig)
	}
	return s
}
