// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package partition maps a global domain onto a process topology (spec §4.2)
package partition

// Weights is a vector of non-negative floats of length num_procs, used by
// the Weighted partitioner; normalised at use (spec §3 "Weights").
type Weights []float64

// Normalize returns w scaled so that its entries sum to 1. A rank with
// weight 0 stays at weight 0 (and will be assigned zero rows by Weighted).
// If every entry is zero, rank 0 receives weight 1 so the partitioner still
// makes progress (spec §4.8 "if all zero, rank 0 gets weight 1").
func (w Weights) Normalize() Weights {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	out := make(Weights, len(w))
	if sum <= 0 {
		if len(out) > 0 {
			out[0] = 1
		}
		return out
	}
	for i, v := range w {
		out[i] = v / sum
	}
	return out
}

// Equal returns a uniform weight vector for n ranks
func Equal(n int) Weights {
	w := make(Weights, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
