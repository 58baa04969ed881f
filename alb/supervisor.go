// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alb

import (
	"io"

	gosl_io "github.com/cpmech/gosl/io"

	"github.com/uva-trasgo/EPSILOD/partition"
)

// Decision is the outcome of one Supervisor.Step call (spec §4.8).
type Decision int

const (
	// NoAction means no rebalance is due this iteration.
	NoAction Decision = iota
	// Triggered means the heuristic fired for the first time since the
	// last rebalance: nothing is gathered yet, the caller keeps running and
	// the weights are not ready. No collective is started at this point;
	// the timing data is all-gathered only on the next trigger, through
	// Step's gather callback.
	Triggered
	// Rebalanced means a second trigger arrived and the timing data was
	// gathered during that call: Weights is now valid and the caller must
	// run the redistribute sequence (spec §4.8 steps a-k).
	Rebalanced
)

// Supervisor drives the ALB decision: when to rebalance and with what new
// per-rank weights (spec §4.8). It owns no tiles or communication handles
// directly -- those live in package engine, which calls Step every
// iteration and Plan (package-level, see redistribute.go) once a
// Rebalanced decision arrives.
type Supervisor struct {
	Heuristic Heuristic
	Window    Window

	CurrIter, CurrALB int
	commTimes         bool

	trace io.Writer
}

// NewSupervisor returns a Supervisor driven by heuristic. If the configured
// partition kind is not Weighted, the safety rule in spec §4.8 forces None
// regardless of what heuristic was requested.
func NewSupervisor(heuristic Heuristic, partitionKind partition.Kind) *Supervisor {
	if partitionKind != partition.KindWeighted {
		if _, isNone := heuristic.(*NoneHeuristic); !isNone {
			heuristic = &NoneHeuristic{}
		}
	}
	heuristic.Init()
	return &Supervisor{Heuristic: heuristic}
}

// Trace directs a CSV-formatted record of each trigger and each
// redistribute decision of Step to w (NoAction steps are not logged), for
// offline analysis of rebalance behavior (not part of the original
// upstream build, added here as a lightweight always-on replacement for
// its compile-time experiment-mode tracing).
func (s *Supervisor) Trace(w io.Writer) {
	s.trace = w
}

// Step records one iteration's measured inner-kernel time and reports
// whether a rebalance should happen now (spec §4.8 steps 1-2). gather is
// called exactly once, only when the second trigger of a rebalance arrives,
// to all-gather the per-rank row-time, avg-time and last-redistribute-time
// vectors; rank is this process's own index
// into those vectors, used to compute the new weights.
func (s *Supervisor) Step(kernelTime float64, rank int, gather func() (rowTimes, avgTimes, redisTimes []float64)) (Decision, partition.Weights) {
	defer func() { s.CurrIter++ }()

	s.Window.Push(kernelTime)
	avg, ok := s.Window.Mean()
	if !ok {
		return NoAction, nil
	}
	if !s.Heuristic.ShouldRebalance(s.CurrIter, s.CurrALB) {
		return NoAction, nil
	}
	if !s.commTimes {
		s.commTimes = true
		s.logTrace("trigger", avg, nil)
		return Triggered, nil
	}

	rowTimes, avgTimes, redisTimes := gather()
	weights := computeWeights(rowTimes)
	s.CurrALB++
	s.Heuristic.OnRedistribute(s.CurrIter, s.CurrALB, rowTimes, avgTimes, redisTimes)
	s.logTrace("redistribute", avg, weights)
	s.Window.Reset()
	s.commTimes = false
	return Rebalanced, weights
}

// computeWeights implements spec §4.8's rounding policy: w_k = Σ_j
// rowtime_j / rowtime_k, zero weight for a zero-time rank, rank 0 gets
// weight 1 if every rank reported zero.
func computeWeights(rowTimes []float64) partition.Weights {
	sum := 0.0
	anyNonZero := false
	for _, t := range rowTimes {
		sum += t
		if t > 0 {
			anyNonZero = true
		}
	}
	w := make(partition.Weights, len(rowTimes))
	if !anyNonZero {
		if len(w) > 0 {
			w[0] = 1
		}
		return w
	}
	for k, t := range rowTimes {
		if t <= 0 {
			w[k] = 0
			continue
		}
		w[k] = sum / t
	}
	return w
}

func (s *Supervisor) logTrace(event string, avg float64, w partition.Weights) {
	if s.trace == nil {
		return
	}
	line := gosl_io.Sf("%s,%d,%d,%f", event, s.CurrIter, s.CurrALB, avg)
	for _, v := range w {
		line += gosl_io.Sf(",%f", v)
	}
	s.trace.Write([]byte(line + "\n"))
}
