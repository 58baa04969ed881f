// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alb

import "math"

// Heuristic decides when the supervisor should trigger a rebalance and
// carries whatever per-heuristic state that decision needs across
// iterations (spec §4.8 "all share the same interface
// init/should_rebalance/on_redistribute/end").
type Heuristic interface {
	// Init resets the heuristic's internal state.
	Init()
	// ShouldRebalance reports whether a rebalance should start this
	// iteration.
	ShouldRebalance(currIter, currALB int) bool
	// OnRedistribute is called once a rebalance has actually happened,
	// with the per-rank timing data gathered for it, so the heuristic can
	// plan its next trigger.
	OnRedistribute(currIter, currALB int, rowTimes, avgTimes, redisTimes []float64)
	// End releases any resources the heuristic holds.
	End()
}

// never is used as the "no next trigger" sentinel for heuristics whose
// rule can degenerate (NextALB when every rank is equally loaded).
const never = math.MaxInt32

// NextALBHeuristic estimates the next rebalance point from how unbalanced
// the ranks currently are and how expensive the last redistribute was
// (spec §4.8 "NextALB").
type NextALBHeuristic struct {
	nextALB      int
	avgRedisTime float64
}

func (h *NextALBHeuristic) Init() {
	h.nextALB = 0
	h.avgRedisTime = 0
}

func (h *NextALBHeuristic) ShouldRebalance(currIter, currALB int) bool {
	return currIter >= h.nextALB
}

func (h *NextALBHeuristic) OnRedistribute(currIter, currALB int, rowTimes, avgTimes, redisTimes []float64) {
	sum, worst := 0.0, 0.0
	for _, v := range avgTimes {
		sum += v
		if v > worst {
			worst = v
		}
	}
	mean := sum / float64(len(avgTimes))

	iters := never
	if len(redisTimes) > 0 && redisTimes[0] != -1 && worst != mean {
		worstRedis := 0.0
		for _, v := range redisTimes {
			if v > worstRedis {
				worstRedis = v
			}
		}
		if currALB > 0 {
			h.avgRedisTime = (h.avgRedisTime*float64(currALB-1) + worstRedis) / float64(currALB)
		}
		iters = int(math.Ceil(h.avgRedisTime / (worst - mean)))
	}
	if iters == never {
		h.nextALB = never
	} else {
		h.nextALB = currIter + iters
	}
}

func (h *NextALBHeuristic) End() {}

// ConstItersHeuristic triggers every iteration its caller bothers to ask
// (spec §4.8: "engine callers throttle via their outer heuristic usage" --
// here that throttle is simply that the engine only asks once the window
// is full).
type ConstItersHeuristic struct{}

func (h *ConstItersHeuristic) Init() {}
func (h *ConstItersHeuristic) ShouldRebalance(currIter, currALB int) bool { return true }
func (h *ConstItersHeuristic) OnRedistribute(currIter, currALB int, row, avg, redis []float64) {}
func (h *ConstItersHeuristic) End() {}

// ExpItersHeuristic doubles the iteration gap between rebalances on every
// redistribute: after the n-th one the gap is 2^n (spec §4.8 "ExpIters").
type ExpItersHeuristic struct {
	nextALB int
}

func (h *ExpItersHeuristic) Init() { h.nextALB = 0 }

func (h *ExpItersHeuristic) ShouldRebalance(currIter, currALB int) bool {
	return currIter >= h.nextALB
}

func (h *ExpItersHeuristic) OnRedistribute(currIter, currALB int, row, avg, redis []float64) {
	h.nextALB = currIter + (1 << currALB)
}

func (h *ExpItersHeuristic) End() {}

// DoubleItersHeuristic doubles the absolute iteration count on every
// trigger (spec §4.8 "DoubleIters").
type DoubleItersHeuristic struct {
	nextALB int
}

func (h *DoubleItersHeuristic) Init() { h.nextALB = 0 }

func (h *DoubleItersHeuristic) ShouldRebalance(currIter, currALB int) bool {
	return currIter >= h.nextALB
}

func (h *DoubleItersHeuristic) OnRedistribute(currIter, currALB int, row, avg, redis []float64) {
	next := currIter * 2
	if next <= currIter {
		next = currIter + 1
	}
	h.nextALB = next
}

func (h *DoubleItersHeuristic) End() {}

// NoneHeuristic never rebalances (spec §4.8 "None").
type NoneHeuristic struct{}

func (h *NoneHeuristic) Init() {}
func (h *NoneHeuristic) ShouldRebalance(currIter, currALB int) bool { return false }
func (h *NoneHeuristic) OnRedistribute(currIter, currALB int, row, avg, redis []float64) {}
func (h *NoneHeuristic) End() {}
