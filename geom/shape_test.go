// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeSizeAndCard(t *testing.T) {
	s := FromSizes(4, 4)
	assert.Equal(t, 2, s.Dims())
	assert.Equal(t, 4, s.Card(0))
	assert.Equal(t, 16, s.Size())
}

func TestShapeTransformDegenerate(t *testing.T) {
	s := FromSizes(4, 4)
	collapsed := s.Transform(0, Begin, 10)
	assert.True(t, collapsed.IsNull())
}

func TestShapeTransformModes(t *testing.T) {
	cases := []struct {
		name  string
		mode  TransformMode
		delta int
		want  Sig
	}{
		{"begin shrinks from left", Begin, 1, NewSig(1, 4)},
		{"end shrinks from right", End, -1, NewSig(0, 3)},
		{"first keeps leading k", First, 2, NewSig(0, 2)},
		{"last keeps trailing k", Last, 2, NewSig(2, 4)},
		{"move translates", Move, 3, NewSig(3, 7)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := FromSizes(4)
			got := s.Transform(0, c.mode, c.delta)
			assert.Equal(t, c.want, got.Sigs[0])
		})
	}
}

func TestShapeIntersect(t *testing.T) {
	a := New(NewSig(0, 10), NewSig(0, 10))
	b := New(NewSig(5, 15), NewSig(-3, 3))
	got := Intersect(a, b)
	assert.False(t, got.IsNull())
	assert.Equal(t, NewSig(5, 10), got.Sigs[0])
	assert.Equal(t, NewSig(0, 3), got.Sigs[1])
}

func TestShapeIntersectEmpty(t *testing.T) {
	a := New(NewSig(0, 4))
	b := New(NewSig(4, 8))
	assert.True(t, Intersect(a, b).IsNull())
}

func TestShapeContains(t *testing.T) {
	root := FromSizes(10, 10)
	sub := New(NewSig(2, 5), NewSig(0, 10))
	assert.True(t, Contains(root, sub))
	assert.False(t, Contains(root, New(NewSig(-1, 5), NewSig(0, 10))))
}

func TestNeighborSlots(t *testing.T) {
	assert.Equal(t, 9, NumSlots(2))
	assert.Equal(t, 27, NumSlots(3))
	assert.Equal(t, 4, CenterSlot(2))

	d := Displacement(2, 0)
	assert.Equal(t, []int{-1, -1}, d)
	assert.Equal(t, 0, SlotOf(d))

	for _, n := range AllSlots(2) {
		assert.NotEqual(t, CenterSlot(2), n)
	}

	opp := Opposite(2, SlotOf([]int{-1, 0}))
	assert.Equal(t, SlotOf([]int{1, 0}), opp)
}
