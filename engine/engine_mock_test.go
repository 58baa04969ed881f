// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/config"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/runtime/hostruntime"
	"github.com/uva-trasgo/EPSILOD/runtime/runtimemock"
	"github.com/uva-trasgo/EPSILOD/tile"
	"github.com/uva-trasgo/EPSILOD/tiles"
)

// TestStepComputePostsExactlyOneSendRecvPairToTheLiveNeighbor builds a
// single-axis, single-neighbor tile set by hand and drives stepCompute
// directly against a mocked pattern.Messaging, to assert the halo exchange
// talks to the wire exactly once per direction -- a property the
// hostruntime-backed scenario test can't isolate from the rest of a real
// run.
func TestStepComputePostsExactlyOneSendRecvPairToTheLiveNeighbor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const ndim = 1
	local := geom.FromSizes(4)
	global := geom.FromSizes(4)
	border := tiles.Border{Low: []int{1}, High: []int{1}}

	active := make([]bool, geom.NumSlots(ndim))
	highSlot := geom.SlotOf([]int{1})
	active[highSlot] = true

	neighborOf := func(slot int) int {
		if slot == highSlot {
			return 9
		}
		return partition.NullRank
	}

	set := tiles.Build[float64](local, global, border, active)
	pat := pattern.Build[float64](ndim, set.BorderIn, set.BorderOut, neighborOf)
	set.NeighSync = pat
	require.False(t, pat.Empty())

	noop := func(context.Context, ...tile.Tile[float64]) {}

	mockMsg := runtimemock.NewMockMessaging(ctrl)
	req := runtimemock.NewMockRequest(ctrl)
	req.EXPECT().Wait().Return(nil).AnyTimes()
	mockMsg.EXPECT().Isend(9, gomock.Any(), gomock.Any()).Return(req, nil).Times(1)
	mockMsg.EXPECT().Irecv(9, gomock.Any(), gomock.Any()).Return(req, nil).Times(1)

	ctx := &Context[float64]{
		Rank: 0, NProcs: 2,
		Config: &config.Data{
			Spec:      partition.SingleDim(0),
			Heuristic: &alb.NoneHeuristic{},
			Method:    pattern.HostWaitAll,
		},
		Kernel:     noop,
		Controller: hostruntime.New[float64](partition.Equal(2)),
		Pat:        mockMsg,
		Stager:     hostruntime.GenericStager[float64]{},
	}

	ep := &epoch[float64]{cur: set, prev: set, curPat: pat, prevPat: pat}
	_, err := stepCompute(ctx, ep, false)
	require.NoError(t, err)
}
