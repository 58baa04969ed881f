// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// epsilod is a sample driver for the engine: it partitions a 2-D matrix
// across a number of in-process ranks sharing the hostruntime reference
// runtime (spec §4.7 "no actual device and no actual network"), runs one
// of the bundled kernels (package kernels) for a number of iterations, and
// reports the per-rank wall time on completion.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/uva-trasgo/EPSILOD/config"
	"github.com/uva-trasgo/EPSILOD/engine"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/kernels"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/runtime"
	"github.com/uva-trasgo/EPSILOD/runtime/hostruntime"
	"github.com/uva-trasgo/EPSILOD/stencil"
	"github.com/uva-trasgo/EPSILOD/tile"
)

var (
	rows, cols int
	iters      int
	nprocs     int
	kernelName string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "epsilod",
		Short: "Run an EPSILOD stencil kernel over an in-process rank group",
		RunE:  run,
	}
	flags := root.Flags()
	flags.IntVar(&rows, "rows", 64, "matrix rows, border included")
	flags.IntVar(&cols, "cols", 64, "matrix columns, border included")
	flags.IntVar(&iters, "iters", 100, "number of engine iterations to run")
	flags.IntVar(&nprocs, "nprocs", 4, "number of simulated ranks")
	flags.StringVar(&kernelName, "kernel", "jacobi", "kernel to run: jacobi|poisson")
	flags.BoolVar(&verbose, "verbose", true, "print the startup banner and per-rank timings")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", r)
			err = fmt.Errorf("%v", r)
		}
	}()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	if verbose {
		io.PfWhite("\nEPSILOD -- Elastic Partitioning and Stencil Iteration over Logically Organized Data\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"matrix rows", "rows", rows,
			"matrix columns", "cols", cols,
			"iterations", "iters", iters,
			"simulated ranks", "nprocs", nprocs,
			"kernel", "kernel", kernelName,
			"EPSILOD_PARTITION", "partition", cfg.Partition,
			"EPSILOD_ALB_HEUR", "heuristic", cfg.ALBHeur,
			"EPSILOD_COMM_METHOD", "method", cfg.CommMethod,
		))
	}

	full := geom.FromSizes(rows, cols)
	kernel, st, initFn, err := buildKernel(kernelName, full)
	if err != nil {
		return err
	}

	world := hostruntime.NewWorld(nprocs)

	var wg sync.WaitGroup
	errs := make([]error, nprocs)
	elapsed := make([]time.Duration, nprocs)
	for r := 0; r < nprocs; r++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			start := time.Now()
			errs[rank] = runRank(cfg, world, rank, nprocs, full, st, kernel, initFn)
			elapsed[rank] = time.Since(start)
		}(r)
	}
	wg.Wait()

	for r, e := range errs {
		if e != nil {
			return fmt.Errorf("rank %d: %w", r, e)
		}
	}
	if verbose {
		for r, d := range elapsed {
			io.Pf("rank %d: %v\n", r, d)
		}
	}
	return nil
}

// runRank builds one rank's Context over the shared world and drives it
// through engine.Run.
func runRank(cfg *config.Data, world *hostruntime.World, rank, nprocs int, full geom.Shape, st *stencil.Stencil, kernel runtime.Kernel[float64], initFn func(mat tile.Tile[float64])) error {
	msg := hostruntime.NewMessaging[float64](world, rank)
	ctx := &engine.Context[float64]{
		Rank: rank, NProcs: nprocs,
		Config:     cfg,
		Kernel:     kernel,
		Controller: hostruntime.New[float64](partition.Equal(nprocs)),
		Msg:        msg,
		Pat:        msg,
		Stager:     hostruntime.GenericStager[float64]{},
		Stencil:    st,
		Hooks: engine.Hooks[float64]{
			Init: initFn,
		},
	}
	return engine.Run[float64](ctx, full, iters)
}

// fivePointStencil builds the 2-D, radius-1, 4-neighbor stencil shared by
// the jacobi and poisson kernels.
func fivePointStencil() *stencil.Stencil {
	w := tile.NewRoot[float64](geom.FromSizes(3, 3))
	w.Set([]int{0, 1}, 1)
	w.Set([]int{1, 0}, 1)
	w.Set([]int{1, 2}, 1)
	w.Set([]int{2, 1}, 1)
	return stencil.New(w, []int{1, 1})
}

// buildKernel resolves --kernel into a runtime.Kernel, its halo stencil and
// an initial-condition hook, mirroring the original engine's bundled
// example programs (laplace and poisson_jacobi).
func buildKernel(name string, full geom.Shape) (runtime.Kernel[float64], *stencil.Stencil, func(mat tile.Tile[float64]), error) {
	lastRow, lastCol := full.Card(0)-1, full.Card(1)-1

	switch name {
	case "jacobi":
		k := kernels.Jacobi(kernels.JacobiParams{Dx: 1, Dy: 1})
		init := func(mat tile.Tile[float64]) {
			mat.Each(func(c []int) {
				if c[0] == 0 {
					mat.Set(c, 100)
				} else {
					mat.Set(c, 0)
				}
			})
		}
		return k, fivePointStencil(), init, nil

	case "poisson":
		hot := []int{lastRow / 4, lastCol / 4}
		cold := []int{3 * lastRow / 4, 3 * lastCol / 4}
		k := kernels.Poisson(kernels.PoissonParams{Dx: 1, Dy: 1, HotSpot: hot, ColdSpot: cold})
		init := func(mat tile.Tile[float64]) {
			mat.Each(func(c []int) { mat.Set(c, 0) })
		}
		return k, fivePointStencil(), init, nil

	default:
		return nil, nil, nil, &partition.ConfigError{Msg: "unknown --kernel: " + name}
	}
}
