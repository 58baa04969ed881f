// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package engine implements the distributed iteration engine (spec §4.6):
// the double-buffered border/inner compute loop, driven by the Runtime
// façade (package runtime) and the halo-exchange pattern (package
// pattern), with the ALB supervisor (package alb) hooked in after every
// inner compute. It replaces the source's global mutable state (clocks,
// rank id, communicator handle, cached env-var decisions) with a single
// Context value threaded through every top-level operation (spec §9
// "Global mutable state").
package engine

import (
	"github.com/uva-trasgo/EPSILOD/config"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/runtime"
	"github.com/uva-trasgo/EPSILOD/stencil"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// Hooks are the user-supplied callbacks the engine treats as opaque (spec
// §1 "out of scope: the device-kernel implementations themselves", §4.6
// "Init stage"). All are optional.
type Hooks[C tile.Cell] struct {
	// Init runs once on the host before the initial upload (f_init).
	Init func(mat tile.Tile[C])
	// DeviceInit runs once directly on the uploaded device mat
	// (f_dev_init).
	DeviceInit func(mat tile.Tile[C])
	// InitCopy seeds the copy (prev) tile from the freshly initialized mat
	// (f_init_copy). If nil, the engine falls back to a plain tile.CopyFrom
	// -- most stencils need nothing fancier. Algorithms with a non-trivial
	// first step (e.g. a leapfrog scheme's half-step) supply their own.
	InitCopy func(dst, src tile.Tile[C])
	// Output is handed the io tile once the run completes (f_output); file
	// formats and encodings are entirely its responsibility (spec §6
	// "Persisted state: none within the engine").
	Output func(rank int, io tile.Tile[C])
	// OnRebalance runs after a completed ALB redistribute (spec §4.8 step
	// 2's "subsequent trigger"), once the new layout and weights are in
	// effect. Purely an observability hook -- the engine never consults it
	// for control flow.
	OnRebalance func(iter int, weights partition.Weights)
}

// Context is the per-rank value threaded through Run instead of global
// state (spec §9). It is built once per process and reused across ALB
// epochs; only the layout, tile sets and patterns it wraps are replaced on
// rebalance.
type Context[C tile.Cell] struct {
	Rank, NProcs int

	Config *config.Data

	Kernel     runtime.Kernel[C]
	Controller runtime.Controller[C]
	Msg        runtime.Messaging[C]
	Pat        pattern.Messaging
	Stager     pattern.HostStager[C]

	Stencil *stencil.Stencil
	Hooks   Hooks[C]
}
