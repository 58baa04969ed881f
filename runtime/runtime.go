// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runtime declares the typed façade the engine drives instead of
// calling a device/comm runtime directly (spec §4.7). The runtime itself --
// multi-rank messaging, a per-rank device controller with streams,
// host<->device transfer, kernel launch -- is explicitly out of scope (spec
// §1 "external collaborators"); this package only fixes the contract and
// ships one in-process reference implementation (package hostruntime) good
// enough to drive the engine and its tests without real MPI or a GPU.
package runtime

import (
	"context"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// Kernel is an opaque compute functor the engine launches over a tile
// (spec §1 "opaque compute functors"); package kernels supplies the
// concrete stencils (jacobi, poisson, gaussian, wave, gas-simulation).
type Kernel[C tile.Cell] func(ctx context.Context, args ...tile.Tile[C])

// ReduceOp names a collective reduction operator for Reduce (spec §4.7
// "reduce(lay, local, global, op)").
type ReduceOp int

const (
	Sum ReduceOp = iota
	Max
	Min
)

// Controller is the per-rank device half of the Runtime façade: tile
// allocation, host/device transfer, kernel launch and stream
// synchronization (spec §4.7's first list).
type Controller[C tile.Cell] interface {
	// Alloc allocates a new root tile of shape on the device.
	Alloc(shape geom.Shape) tile.Tile[C]
	// Free releases a tile's device storage.
	Free(t tile.Tile[C])
	// Select returns a zero-copy sub-view of parent.
	Select(parent tile.Tile[C], sub geom.Shape) tile.Tile[C]
	// HostTask schedules a host callback on t's stream.
	HostTask(t tile.Tile[C], fn func())
	// MoveTo issues an async host-to-device transfer for t.
	MoveTo(t tile.Tile[C])
	// MoveFrom issues an async device-to-host transfer for t.
	MoveFrom(t tile.Tile[C])
	// Launch schedules kernel on stream streamID with the given tiles.
	Launch(streamID int, kernel Kernel[C], args ...tile.Tile[C])
	// WaitTile blocks until every pending op on t has completed.
	WaitTile(t tile.Tile[C])
	// TimeLastOp returns the wall time of the last operation issued
	// against t, in seconds.
	TimeLastOp(t tile.Tile[C]) float64
	// ConfigWeights returns the per-rank compute weights the device
	// configuration implies (spec §4.7 "config_weights"), used to seed a
	// Weighted partition.
	ConfigWeights() partition.Weights
	// Synchronize drains every stream.
	Synchronize()
	// SetExplicitDependencies toggles whether the engine, rather than the
	// controller, is responsible for ordering producer/consumer ops via
	// WaitTile (spec §4.7 "explicit dependencies" mode flag).
	SetExplicitDependencies(explicit bool)
}

// Messaging is the collective half of the Runtime façade (spec §4.7
// "Messaging façade"). The point-to-point half used by halo exchange is
// package pattern's Messaging; this interface adds the collectives the
// engine and ALB supervisor need directly.
type Messaging[C tile.Cell] interface {
	// Barrier blocks every rank participating in lay until all have
	// arrived.
	Barrier(lay *partition.Layout)
	// SendRecv exchanges outTile with dstRank and inTile with srcRank in
	// one call, used outside the steady-state halo-exchange pattern (e.g.
	// ALB's layout redistribute, spec §4.9).
	SendRecv(lay *partition.Layout, dstRank int, outTile tile.Tile[C], srcRank int, inTile tile.Tile[C]) error
	// Reduce combines local across every rank in lay with op, leaving the
	// result in global on every rank (allreduce semantics).
	Reduce(lay *partition.Layout, local []float64, global []float64, op ReduceOp)
	// AllGather gathers send from every rank in lay into recv, ordered by
	// rank.
	AllGather(lay *partition.Layout, send []float64, recv []float64)
	// Neighbor returns the rank reached by shift from the caller's
	// position in lay, or partition.NullRank if that would fall outside
	// the grid.
	Neighbor(lay *partition.Layout, rank int, shift []int) int
}
