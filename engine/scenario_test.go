// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/config"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/kernels"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/runtime/hostruntime"
	"github.com/uva-trasgo/EPSILOD/tile"
)

func jacobiInit(c []int) float64 { return float64(c[0]*4 + c[1]) }

type cellKey [2]int

// runJacobiRank runs one rank of the scenario-1 Jacobi setup and records
// every cell of its final IO tile into results, keyed by absolute
// coordinate so every rank's contribution can be merged into one matrix.
func runJacobiRank(t *testing.T, world *hostruntime.World, rank, nprocs int, results *sync.Map) error {
	t.Helper()
	msg := hostruntime.NewMessaging[float64](world, rank)
	ctx := &Context[float64]{
		Rank: rank, NProcs: nprocs,
		Config: &config.Data{
			Spec:      partition.SingleDim(0),
			Heuristic: &alb.NoneHeuristic{},
			Method:    pattern.HostWaitAll,
		},
		Kernel:     kernels.Jacobi(kernels.JacobiParams{Dx: 1, Dy: 1}),
		Controller: hostruntime.New[float64](partition.Equal(nprocs)),
		Msg:        msg,
		Pat:        msg,
		Stager:     hostruntime.GenericStager[float64]{},
		Stencil:    fivePoint(t),
		Hooks: Hooks[float64]{
			Init: func(mat tile.Tile[float64]) {
				mat.Each(func(c []int) { mat.Set(c, jacobiInit(c)) })
			},
			Output: func(rank int, io tile.Tile[float64]) {
				io.Each(func(c []int) {
					results.Store(cellKey{c[0], c[1]}, io.At(c))
				})
			},
		},
	}
	return Run[float64](ctx, geom.FromSizes(4, 4), 1)
}

// TestRunScenario1TwoRankJacobiMatchesOneRankReference drives spec §8
// scenario 1: a 2-D 5-point Jacobi step over a 4x4 domain, init'd to
// i*4+j, compared bit-exact between a 1-rank run and a 2-rank run split
// along axis 0. i*4+j is already harmonic under the 4-neighbor mean, so
// every cell -- interior and border alike -- is expected to come back
// unchanged; border cells are never touched at all, since they sit
// outside the inner domain Run partitions over.
func TestRunScenario1TwoRankJacobiMatchesOneRankReference(t *testing.T) {
	reference := &sync.Map{}
	require.NoError(t, runJacobiRank(t, hostruntime.NewWorld(1), 0, 1, reference))

	twoRank := &sync.Map{}
	world := hostruntime.NewWorld(2)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			errs[rank] = runJacobiRank(t, world, rank, 2, twoRank)
		}(r)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := jacobiInit([]int{i, j})

			refV, ok := reference.Load(cellKey{i, j})
			require.True(t, ok, "1-rank reference missing cell %d,%d", i, j)
			assert.Equal(t, want, refV, "1-rank reference cell %d,%d", i, j)

			gotV, ok := twoRank.Load(cellKey{i, j})
			require.True(t, ok, "2-rank run missing cell %d,%d", i, j)
			assert.Equal(t, want, gotV, "2-rank cell %d,%d", i, j)
		}
	}
}
