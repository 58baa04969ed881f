// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uva-trasgo/EPSILOD/geom"
)

func TestSingleDimEqualSplit(t *testing.T) {
	global := geom.FromSizes(4, 4)
	lay, err := Partition(SingleDim(0), global, 2, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, lay.Shape(0).Card(0))
	assert.Equal(t, 2, lay.Shape(1).Card(0))
	assert.Equal(t, 4, lay.Shape(0).Card(1))
}

func TestWeightedRoundingPolicy(t *testing.T) {
	global := geom.FromSizes(10)
	lay, err := Partition(Weighted(0), global, 3, Weights{1, 2, 7})
	assert.NoError(t, err)
	assert.Equal(t, 1, lay.Shape(0).Card(0))
	assert.Equal(t, 2, lay.Shape(1).Card(0))
	assert.Equal(t, 7, lay.Shape(2).Card(0))

	lay2, err := Partition(Weighted(0), global, 3, Weights{1, 1, 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, lay2.Shape(0).Card(0))
	assert.Equal(t, 3, lay2.Shape(1).Card(0))
	assert.Equal(t, 4, lay2.Shape(2).Card(0))
}

func TestWeightedZeroWeightIsInactive(t *testing.T) {
	global := geom.FromSizes(10)
	lay, err := Partition(Weighted(0), global, 2, Weights{0, 1})
	assert.NoError(t, err)
	assert.False(t, lay.IsActive(0))
	assert.True(t, lay.IsActive(1))
	assert.Equal(t, 0, lay.Shape(0).Card(0))
	assert.Equal(t, 10, lay.Shape(1).Card(0))
}

func TestSingleRankHasNoNeighbors(t *testing.T) {
	global := geom.FromSizes(4, 4)
	lay, err := Partition(MultiDim(2), global, 1, nil)
	assert.NoError(t, err)
	for _, n := range geom.AllSlots(2) {
		d := geom.Displacement(2, n)
		assert.Equal(t, NullRank, lay.Neighbor(0, d))
	}
}

func TestFailingAxesDetectsTooFineBlock(t *testing.T) {
	shape := geom.FromSizes(1, 10)
	bad := FailingAxes(shape, []int{1, 0}, []int{1, 0})
	assert.Equal(t, []int{0}, bad)
}

func TestPartitionRejectsUnsupportedDimensionality(t *testing.T) {
	global := geom.FromSizes(2, 2, 2, 2, 2)
	_, err := Partition(SingleDim(0), global, 2, nil)
	assert.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestMultiDimBalancesProcs(t *testing.T) {
	global := geom.FromSizes(8, 8)
	lay, err := Partition(MultiDim(2), global, 4, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, lay.Topology.ProcsPerAxis[0])
	assert.Equal(t, 2, lay.Topology.ProcsPerAxis[1])
}
