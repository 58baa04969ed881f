// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"time"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/stencil"
	"github.com/uva-trasgo/EPSILOD/tile"
	"github.com/uva-trasgo/EPSILOD/tiles"
)

// rebalance runs the ALB redistribute sequence (spec §4.8 step 2,
// "subsequent trigger", sub-steps a-k): flush the current mat to host,
// build a new Weighted layout, move the overlapping data across, rebuild
// both buffer halves and their patterns over the new layout, and refresh
// halos so the next iteration sees valid data everywhere.
func rebalance[C tile.Cell](ctx *Context[C], ep *epoch[C], global geom.Shape, border tiles.Border, baseActive []bool, weights partition.Weights) (*epoch[C], float64, error) {
	start := time.Now()

	// a) flush cur.mat to host
	if ep.cur != nil {
		ctx.Controller.MoveFrom(ep.cur.Mat)
		ctx.Controller.WaitTile(ep.cur.Mat)
	}
	// b) free prev
	if ep.prev != nil {
		ep.prev.Release()
	}

	// c) new Weighted layout
	newLay, err := partition.Partition(partition.Weighted(ctx.Config.Spec.Axis), global, ctx.NProcs, weights)
	if err != nil {
		return nil, 0, err
	}

	ndim := global.Dims()
	neighborOf := func(slot int) int {
		return newLay.Neighbor(ctx.Rank, geom.Displacement(ndim, slot))
	}
	buildSet := func() *tiles.Set[C] {
		if !newLay.IsActive(ctx.Rank) {
			return nil
		}
		active := append([]bool{}, baseActive...)
		stencil.DeactivateEmptyNeighbors(newLay, ctx.Rank, active)
		return tiles.Build[C](newLay.Shape(ctx.Rank), global, border, active)
	}

	// d) new_cur
	newCur := buildSet()

	// e) generic layout redistribute, old cur.mat -> new_cur.mat
	sends, recvs := alb.Plan(ep.lay, newLay, ctx.Rank, border.Low, border.High)
	if err := redistribute(ctx, ep.lay, ep.cur, newCur, sends, recvs); err != nil {
		return nil, 0, &MessagingError{Err: err}
	}

	// f) free old cur, adopt new_lay
	if ep.cur != nil {
		ep.cur.Release()
	}

	// g) new_prev
	newPrev := buildSet()

	// h) rebuild both patterns
	var newCurPat, newPrevPat *pattern.Pattern[C]
	if newCur != nil {
		newCurPat = pattern.Build[C](ndim, newCur.BorderIn, newCur.BorderOut, neighborOf)
		newCur.NeighSync = newCurPat
	}
	if newPrev != nil {
		newPrevPat = pattern.Build[C](ndim, newPrev.BorderIn, newPrev.BorderOut, neighborOf)
		newPrev.NeighSync = newPrevPat
	}

	// i) full halo exchange so downstream iterations see valid halos
	if newCurPat != nil && !newCurPat.Empty() {
		if err := newCurPat.Run(ctx.Config.Method, ctx.Pat, ctx.Stager); err != nil {
			return nil, 0, &MessagingError{Err: err}
		}
	}

	// j) upload new_cur.mat
	if newCur != nil {
		ctx.Controller.MoveTo(newCur.Mat)
	}
	// k) seed new_prev from new_cur so the next swap hands the iteration a
	// coherent "previous timestep" (mirrors the init stage's copy step)
	if newCur != nil && newPrev != nil {
		tile.CopyFrom(newPrev.Mat, newCur.Mat)
		ctx.Controller.MoveTo(newPrev.Mat)
	}

	return &epoch[C]{lay: newLay, cur: newCur, prev: newPrev, curPat: newCurPat, prevPat: newPrevPat}, time.Since(start).Seconds(), nil
}

// redistribute executes a layout-redistribute plan (spec §4.9): every
// Transfer whose RemoteRank equals this rank is a same-rank local copy
// (oldSet and newSet overlap without crossing a rank boundary); every
// other Transfer is a point-to-point exchange over Messaging.SendRecv,
// which treats the send half and the recv half of one call independently,
// so a send-only or recv-only Transfer can pass a Null tile for the side
// it does not need (see hostruntime.Messaging.SendRecv).
func redistribute[C tile.Cell](ctx *Context[C], lay *partition.Layout, oldSet, newSet *tiles.Set[C], sends, recvs []alb.Transfer) error {
	for _, s := range sends {
		if s.RemoteRank == ctx.Rank || oldSet == nil {
			continue
		}
		out := oldSet.Mat.Select(s.Region)
		if err := ctx.Msg.SendRecv(lay, s.RemoteRank, out, 0, tile.Null[C]()); err != nil {
			return err
		}
	}
	for _, r := range recvs {
		if newSet == nil {
			continue
		}
		in := newSet.Mat.Select(r.Region)
		if r.RemoteRank == ctx.Rank {
			if oldSet != nil {
				tile.CopyFrom(in, oldSet.Mat.Select(r.Region))
			}
			continue
		}
		if err := ctx.Msg.SendRecv(lay, 0, tile.Null[C](), r.RemoteRank, in); err != nil {
			return err
		}
	}
	return nil
}
