// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
)

func mustLayout(t *testing.T, spec partition.Spec, global geom.Shape, nprocs int, w partition.Weights) *partition.Layout {
	lay, err := partition.Partition(spec, global, nprocs, w)
	require.NoError(t, err)
	return lay
}

func TestPlanSplitsOverlapBetweenRebalancedRanks(t *testing.T) {
	global := geom.FromSizes(8, 1)
	oldLay := mustLayout(t, partition.Weighted(0), global, 2, partition.Weights{1, 1})
	newLay := mustLayout(t, partition.Weighted(0), global, 2, partition.Weights{1, 3})

	zero := []int{0, 0}
	sends, recvs := Plan(oldLay, newLay, 0, zero, zero)
	// rank 0 used to own rows [0,4); it now owns [0,2) (weight 1 of 4), so
	// its old ownership splits into a local retained slice and a [2,4)
	// slice that must move to rank 1.
	require.Len(t, sends, 2)
	byRemote := map[int]int{}
	for _, s := range sends {
		byRemote[s.RemoteRank] = s.Region.Card(0)
	}
	assert.Equal(t, 2, byRemote[0])
	assert.Equal(t, 2, byRemote[1])

	require.Len(t, recvs, 1)
	assert.Equal(t, 0, recvs[0].RemoteRank) // local copy of its own retained rows
}

func TestPlanNoOverlapWhenRankGoesInactive(t *testing.T) {
	global := geom.FromSizes(8, 1)
	oldLay := mustLayout(t, partition.Weighted(0), global, 2, partition.Weights{1, 1})
	newLay := mustLayout(t, partition.Weighted(0), global, 2, partition.Weights{1, 0})

	zero := []int{0, 0}
	sends, recvs := Plan(oldLay, newLay, 1, zero, zero)
	assert.Empty(t, recvs) // rank 1 owns nothing in the new layout
	assert.NotEmpty(t, sends)
}
