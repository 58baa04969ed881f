// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package alb implements the automatic load-balancing supervisor (spec
// §4.8): a sliding window of recent inner-compute durations, a pluggable
// rebalance-trigger heuristic, and the redistribute sequence itself.
package alb

// WindowSize is the fixed sliding-window length spec §4.8 names.
const WindowSize = 30

// Window is a fixed-capacity ring buffer of recent inner-kernel timings.
// Mean is undefined (ok=false) until the window has filled once, matching
// the original heuristics never triggering on partial data.
type Window struct {
	samples [WindowSize]float64
	count   int
	next    int
}

// Push records one new sample, evicting the oldest once the window is
// full.
func (w *Window) Push(v float64) {
	w.samples[w.next] = v
	w.next = (w.next + 1) % WindowSize
	if w.count < WindowSize {
		w.count++
	}
}

// Mean returns the window's average and whether it has enough samples to
// be meaningful (spec §4.8 step 1: "avg = window.mean() (undefined until
// full)").
func (w *Window) Mean() (avg float64, ok bool) {
	if w.count < WindowSize {
		return 0, false
	}
	sum := 0.0
	for _, s := range w.samples {
		sum += s
	}
	return sum / WindowSize, true
}

// Reset empties the window (spec §4.8: "reset sliding window" after a
// redistribute).
func (w *Window) Reset() {
	*w = Window{}
}
