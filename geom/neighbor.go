// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// NumSlots returns 3^ndim, the number of (direction,axis) neighbor slots for
// an ndim-dimensional grid: each axis contributes a displacement in
// {-1, 0, +1}
func NumSlots(ndim int) int {
	n := 1
	for i := 0; i < ndim; i++ {
		n *= 3
	}
	return n
}

// CenterSlot returns the index of the slot whose displacement vector is all
// zeros -- the local inner region, which never carries traffic
func CenterSlot(ndim int) int {
	n := NumSlots(ndim)
	return n / 2
}

// Displacement decodes neighbor slot index n (0 <= n < 3^ndim) into its
// per-axis displacement vector, each entry in {-1, 0, +1}. Slots are ordered
// as a mixed-radix-3 counter over the axes, matching SlotOf's encoding.
func Displacement(ndim, n int) []int {
	d := make([]int, ndim)
	for i := 0; i < ndim; i++ {
		d[i] = n%3 - 1
		n /= 3
	}
	return d
}

// SlotOf encodes a per-axis displacement vector (entries in {-1,0,+1}) into
// its neighbor slot index, inverse of Displacement
func SlotOf(d []int) int {
	n := 0
	mul := 1
	for i := 0; i < len(d); i++ {
		n += (d[i] + 1) * mul
		mul *= 3
	}
	return n
}

// Opposite returns the slot index of the neighbor slot symmetric to n, i.e.
// every axis displacement negated
func Opposite(ndim, n int) int {
	d := Displacement(ndim, n)
	for i := range d {
		d[i] = -d[i]
	}
	return SlotOf(d)
}

// AllSlots returns every neighbor slot index except the center slot, in
// ascending order
func AllSlots(ndim int) []int {
	center := CenterSlot(ndim)
	slots := make([]int, 0, NumSlots(ndim)-1)
	for n := 0; n < NumSlots(ndim); n++ {
		if n != center {
			slots = append(slots, n)
		}
	}
	return slots
}
