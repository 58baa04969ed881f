// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/runtime"
	"github.com/uva-trasgo/EPSILOD/stencil"
	"github.com/uva-trasgo/EPSILOD/tile"
	"github.com/uva-trasgo/EPSILOD/tiles"
)

// epoch is everything that gets rebuilt on an ALB rebalance: the layout,
// the double-buffer tile sets and their halo-exchange patterns (spec §9
// "EpsilodTiles: one pair per ALB epoch").
type epoch[C tile.Cell] struct {
	lay  *partition.Layout
	cur  *tiles.Set[C]
	prev *tiles.Set[C]

	curPat  *pattern.Pattern[C]
	prevPat *pattern.Pattern[C]
}

// Run drives iterations steps of the double-buffered stencil loop over
// full, the whole matrix as the driver sees it, borders included (spec
// §4.6). Run reduces full by the stencil's halo on every axis to get the
// inner domain that actually gets partitioned and computed over (spec
// §4.2) -- the outermost Stencil.Low/High cells on each axis are the
// global-matrix border and are never assigned to any rank or touched by
// a kernel launch; a Hooks.Init that wants them set still sees them,
// since Mat always spans the full local block expanded back out to
// Stencil.Low/High. It returns the first fatal error encountered, per
// the taxonomy in spec §7; every such error is also fatal to every other
// rank participating in the run, and the caller is expected to abort the
// process rather than retry.
func Run[C tile.Cell](ctx *Context[C], full geom.Shape, iterations int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Err: fmt.Errorf("%v", r)}
		}
	}()

	ctx.Controller.SetExplicitDependencies(true)

	global := reduceToInner(full, ctx.Stencil.Low, ctx.Stencil.High)

	lay, err := partition.Partition(ctx.Config.Spec, global, ctx.NProcs, partition.Equal(ctx.NProcs))
	if err != nil {
		return err
	}
	if err := checkPartitionFine(ctx, lay); err != nil {
		return err
	}

	border := tiles.Border{Low: ctx.Stencil.Low, High: ctx.Stencil.High}
	baseActive := ctx.Stencil.DetectActive()

	ep := buildEpoch(ctx, lay, global, border, baseActive)
	if ep.cur != nil {
		initStage(ctx, ep.cur, ep.prev)
	}

	supervisor := alb.NewSupervisor(ctx.Config.Heuristic, ctx.Config.Spec.Kind)
	lastRedisTime := -1.0

	for i := 0; i < iterations; i++ {
		isLast := i == iterations-1

		kernelTime, err := stepCompute(ctx, ep, isLast)
		if err != nil {
			return err
		}

		if isLast {
			continue
		}

		rowsOwned := 0
		if ep.lay.IsActive(ctx.Rank) && ctx.Config.Spec.Kind == partition.KindWeighted {
			rowsOwned = ep.lay.Shape(ctx.Rank).Card(ctx.Config.Spec.Axis)
		}
		decision, weights := supervisor.Step(kernelTime, ctx.Rank, func() ([]float64, []float64, []float64) {
			avg, _ := supervisor.Window.Mean()
			return gatherTimings(ctx, ep.lay, avg, rowsOwned, lastRedisTime)
		})
		if decision != alb.Rebalanced {
			continue
		}

		next, redisTime, err := rebalance(ctx, ep, global, border, baseActive, weights)
		if err != nil {
			return err
		}
		ep = next
		lastRedisTime = redisTime
		if ctx.Hooks.OnRebalance != nil {
			ctx.Hooks.OnRebalance(i, weights)
		}
	}

	if ep.cur != nil {
		if ctx.Hooks.Output != nil {
			ctx.Hooks.Output(ctx.Rank, ep.cur.IO)
		}
		ep.cur.Release()
		ep.prev.Release()
	}
	return nil
}

// reduceToInner removes the global-matrix border from full on every axis,
// giving the inner domain that partition.Partition and tiles.Build expect
// as their "global" argument (spec §4.2, §4.3): the shape actually handed
// out to ranks, with the outermost low/high cells on each axis excluded
// from the start rather than carved out per-rank after the fact.
func reduceToInner(full geom.Shape, low, high []int) geom.Shape {
	inner := full
	for i := 0; i < full.Dims(); i++ {
		inner = inner.Transform(i, geom.Begin, low[i])
		inner = inner.Transform(i, geom.End, -high[i])
	}
	return inner
}

// checkPartitionFine raises PartitionTooFine (spec §7) after a global
// reduce-max, so every rank fails together even if only one rank's block
// is too small for the stencil's halo radius.
func checkPartitionFine[C tile.Cell](ctx *Context[C], lay *partition.Layout) error {
	var bad []int
	if lay.IsActive(ctx.Rank) {
		bad = partition.FailingAxes(lay.Shape(ctx.Rank), ctx.Stencil.Low, ctx.Stencil.High)
	}
	local := 0.0
	if len(bad) > 0 {
		local = 1
	}
	reduced := make([]float64, 1)
	ctx.Msg.Reduce(lay, []float64{local}, reduced, runtime.Max)
	if reduced[0] == 0 {
		return nil
	}
	axis := 0
	if len(bad) > 0 {
		axis = bad[0]
	}
	return &partition.TooFineError{Axis: axis}
}

// buildEpoch lays out global over lay, derives this rank's active-neighbor
// flags and builds both halves of the double buffer plus their patterns
// (spec §4.3, §4.5). An inactive rank gets a zero-value epoch (nil tile
// sets): it still participates in collectives, but owns no tiles to
// compute over (spec §8 "Inactive rank").
func buildEpoch[C tile.Cell](ctx *Context[C], lay *partition.Layout, global geom.Shape, border tiles.Border, baseActive []bool) *epoch[C] {
	ep := &epoch[C]{lay: lay}
	if !lay.IsActive(ctx.Rank) {
		return ep
	}
	local := lay.Shape(ctx.Rank)
	ndim := global.Dims()
	neighborOf := func(slot int) int {
		return lay.Neighbor(ctx.Rank, geom.Displacement(ndim, slot))
	}

	build := func() (*tiles.Set[C], *pattern.Pattern[C]) {
		active := append([]bool{}, baseActive...)
		stencil.DeactivateEmptyNeighbors(lay, ctx.Rank, active)
		set := tiles.Build[C](local, global, border, active)
		pat := pattern.Build[C](ndim, set.BorderIn, set.BorderOut, neighborOf)
		set.NeighSync = pat
		return set, pat
	}

	ep.cur, ep.curPat = build()
	ep.prev, ep.prevPat = build()
	return ep
}

// initStage runs the engine's pre-iteration-0 setup (spec §4.6 "Init
// stage"): host init, upload, device init, then seed the copy tile.
func initStage[C tile.Cell](ctx *Context[C], cur, prev *tiles.Set[C]) {
	if ctx.Hooks.Init != nil {
		ctx.Controller.HostTask(cur.Mat, func() { ctx.Hooks.Init(cur.Mat) })
	}
	ctx.Controller.MoveTo(cur.Mat)
	if ctx.Hooks.DeviceInit != nil {
		ctx.Hooks.DeviceInit(cur.Mat)
	}
	if ctx.Hooks.InitCopy != nil {
		ctx.Hooks.InitCopy(prev.Mat, cur.Mat)
	} else {
		tile.CopyFrom(prev.Mat, cur.Mat)
	}
	ctx.Controller.MoveTo(prev.Mat)
}

// stepCompute runs one iteration's swap/border-compute/exchange/inner
// sequence (spec §4.6 steps 1-5, 7) and reports the inner kernel's wall
// time for the ALB hook. An inactive rank reports zero time and does
// nothing else.
func stepCompute[C tile.Cell](ctx *Context[C], ep *epoch[C], isLast bool) (float64, error) {
	if ep.cur == nil {
		return 0, nil
	}
	ep.cur, ep.prev = ep.prev, ep.cur
	ep.curPat, ep.prevPat = ep.prevPat, ep.curPat
	cur, prev := ep.cur, ep.prev

	ndim := len(cur.BorderOutDev)
	for axis := 0; axis < ndim; axis++ {
		for side := 0; side < 2; side++ {
			out := cur.BorderOutDev[axis][side]
			if out.IsNull() {
				continue
			}
			ctx.Controller.Launch(axis*2+side, ctx.Kernel, out, prev.BorderOutDev[axis][side])
		}
	}
	for axis := 0; axis < ndim; axis++ {
		for side := 0; side < 2; side++ {
			out := cur.BorderOutDev[axis][side]
			if !out.IsNull() {
				ctx.Controller.WaitTile(out)
			}
		}
	}

	if !isLast && !ep.curPat.Empty() {
		if err := ep.curPat.Run(ctx.Config.Method, ctx.Pat, ctx.Stager); err != nil {
			return 0, &MessagingError{Err: err}
		}
	}

	const innerStream = -1
	ctx.Controller.Launch(innerStream, ctx.Kernel, cur.Inner, prev.Inner)
	return ctx.Controller.TimeLastOp(cur.Inner), nil
}

// gatherTimings runs the ALB supervisor's all-gather of per-rank timing
// data (spec §4.8 step 2, "subsequent trigger"): the row-normalized
// average, the raw average, and the last redistribute time, one per rank.
func gatherTimings[C tile.Cell](ctx *Context[C], lay *partition.Layout, avg float64, rowsOwned int, lastRedisTime float64) ([]float64, []float64, []float64) {
	n := ctx.NProcs
	rowTime := 0.0
	if rowsOwned > 0 {
		rowTime = avg / float64(rowsOwned)
	}

	rowTimes := make([]float64, n)
	ctx.Msg.AllGather(lay, []float64{rowTime}, rowTimes)

	avgTimes := make([]float64, n)
	ctx.Msg.AllGather(lay, []float64{avg}, avgTimes)

	redisTimes := make([]float64, n)
	ctx.Msg.AllGather(lay, []float64{lastRedisTime}, redisTimes)

	return rowTimes, avgTimes, redisTimes
}
