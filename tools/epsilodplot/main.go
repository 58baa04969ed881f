// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// epsilodplot draws a partition.Layout as a 2-D grid of rank blocks, one
// rectangle per rank labelled with its rank id -- a direct analogue of
// gofem's Mesh.Draw2d, but over EPSILOD's rank blocks instead of a finite
// element mesh. It is a diagnostic aid for EPSILOD_DEBUG_TILES=y runs, not
// part of the engine itself (spec §6 "DebugTiles ... opaque to the
// engine").
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/spf13/cobra"

	"github.com/uva-trasgo/EPSILOD/config"
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
)

var (
	rows, cols int
	nprocs     int
	partSpec   string
	outDir     string
	outFile    string
	force      bool
)

func main() {
	root := &cobra.Command{
		Use:   "epsilodplot",
		Short: "Plot a partition.Layout's rank blocks over a 2-D matrix",
		RunE:  run,
	}
	flags := root.Flags()
	flags.IntVar(&rows, "rows", 64, "matrix rows, border included")
	flags.IntVar(&cols, "cols", 64, "matrix columns, border included")
	flags.IntVar(&nprocs, "nprocs", 4, "number of ranks to lay out")
	flags.StringVar(&partSpec, "partition", "", "EPSILOD_PARTITION grammar (m[k]|s<d>|w<d>|n<d>); defaults to the environment")
	flags.StringVar(&outDir, "outdir", "/tmp", "directory to save the plot in")
	flags.StringVar(&outFile, "outfile", "epsilodplot.png", "plot filename")
	flags.BoolVar(&force, "force", false, "plot even if EPSILOD_DEBUG_TILES is not set")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if partSpec != "" {
		os.Setenv("EPSILOD_PARTITION", partSpec)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if !cfg.DebugOn && !force {
		io.Pf("epsilodplot: EPSILOD_DEBUG_TILES is not set, nothing to do (pass --force to plot anyway)\n")
		return nil
	}

	global := geom.FromSizes(rows, cols)
	lay, err := partition.Partition(cfg.Spec, global, nprocs, partition.Equal(nprocs))
	if err != nil {
		return err
	}

	for rank := 0; rank < nprocs; rank++ {
		if !lay.IsActive(rank) {
			continue
		}
		drawBlock(rank, lay.Shape(rank))
	}

	plt.Equal()
	plt.AxisRange(0, float64(cols), 0, float64(rows))
	plt.AxisOff()

	plt.SetForPng(0.8, 600, 600)
	if err := plt.SaveD(outDir, outFile); err != nil {
		return fmt.Errorf("epsilodplot: save: %w", err)
	}
	return nil
}

// drawBlock outlines one rank's block and labels its center with the rank
// id, mirroring Draw2d's one-loop-per-cell-edge style but over a rank's
// axis-aligned rectangle instead of an element's edges.
func drawBlock(rank int, shape geom.Shape) {
	off := shape.Offset()
	r0, c0 := float64(off[0]), float64(off[1])
	r1, c1 := r0+float64(shape.Card(0)), c0+float64(shape.Card(1))

	x := []float64{c0, c1, c1, c0, c0}
	y := []float64{r0, r0, r1, r1, r0}
	plt.Plot(x, y, fmt.Sprintf("'-', color='%s', lw=2, clip_on=0", rankColor(rank)))
	plt.Text((c0+c1)/2, (r0+r1)/2, strconv.Itoa(rank), "")
}

// rankColor cycles a small fixed palette so adjacent ranks stay visually
// distinct regardless of nprocs.
func rankColor(rank int) string {
	palette := []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}
	return palette[rank%len(palette)]
}
