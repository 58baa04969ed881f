// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Each calls f once for every absolute coordinate selected by o, in
// row-major order (axis 0 slowest), matching the wire format of spec §6.
// It is a no-op for the NULL shape.
func (o Shape) Each(f func(coords []int)) {
	if o.IsNull() || o.Size() == 0 {
		return
	}
	coords := o.Offset()
	o.eachRec(0, coords, f)
}

func (o Shape) eachRec(axis int, coords []int, f func(coords []int)) {
	if axis == len(o.Sigs) {
		cp := append([]int{}, coords...)
		f(cp)
		return
	}
	s := o.Sigs[axis]
	step := s.stride()
	for v := s.Begin; v < s.End; v += step {
		coords[axis] = v
		o.eachRec(axis+1, coords, f)
	}
}
