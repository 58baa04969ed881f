// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hostruntime is an in-process reference implementation of the
// runtime façade (spec §4.7), with no actual device and no actual network:
// "host" and "device" are the same memory, and Controller's streams are
// plain synchronous calls on the calling goroutine. It exists to drive the
// engine end to end in tests and on machines with no GPU, not as a
// performance target.
package hostruntime

import (
	"context"
	"time"

	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/runtime"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// Controller is a single-rank, no-device runtime.Controller[C]. Every op
// runs synchronously, so WaitTile and Synchronize are no-ops beyond
// bookkeeping; TimeLastOp reports genuine wall-clock time so the ALB
// supervisor has real numbers to balance against.
type Controller[C tile.Cell] struct {
	weights     partition.Weights
	explicit    bool
	lastOpTimes map[int]float64
}

// New returns a Controller configured with the given per-rank compute
// weights (as config_weights would report them from a real device
// inventory file).
func New[C tile.Cell](weights partition.Weights) *Controller[C] {
	return &Controller[C]{weights: weights, lastOpTimes: make(map[int]float64)}
}

func (c *Controller[C]) Alloc(shape geom.Shape) tile.Tile[C] {
	if shape.IsNull() {
		chk.Panic("hostruntime: Alloc called with a null shape")
	}
	return tile.NewRoot[C](shape)
}

func (c *Controller[C]) Free(t tile.Tile[C]) {
	t.Release()
}

func (c *Controller[C]) Select(parent tile.Tile[C], sub geom.Shape) tile.Tile[C] {
	return parent.Select(sub)
}

func (c *Controller[C]) HostTask(t tile.Tile[C], fn func()) {
	start := time.Now()
	fn()
	c.record(t, time.Since(start))
}

// MoveTo and MoveFrom are no-ops: host and device share the same backing
// array in this reference implementation.
func (c *Controller[C]) MoveTo(t tile.Tile[C])   {}
func (c *Controller[C]) MoveFrom(t tile.Tile[C]) {}

func (c *Controller[C]) Launch(streamID int, kernel runtime.Kernel[C], args ...tile.Tile[C]) {
	start := time.Now()
	kernel(context.Background(), args...)
	if len(args) > 0 {
		c.record(args[0], time.Since(start))
	}
}

func (c *Controller[C]) WaitTile(t tile.Tile[C]) {}

func (c *Controller[C]) TimeLastOp(t tile.Tile[C]) float64 {
	return c.lastOpTimes[tileKey(t)]
}

func (c *Controller[C]) ConfigWeights() partition.Weights {
	return c.weights
}

func (c *Controller[C]) Synchronize() {}

func (c *Controller[C]) SetExplicitDependencies(explicit bool) {
	c.explicit = explicit
}

func (c *Controller[C]) record(t tile.Tile[C], d time.Duration) {
	c.lastOpTimes[tileKey(t)] = d.Seconds()
}

// tileKey derives a stable-enough map key for timing bookkeeping from a
// tile's shape offset; two distinct live tiles covering the same absolute
// region are not expected to be timed concurrently by one Controller.
func tileKey[C tile.Cell](t tile.Tile[C]) int {
	off := t.Shape().Offset()
	key := 0
	for _, o := range off {
		key = key*131 + o
	}
	return key
}
