// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/partition"
)

// expectedWeights mirrors spec §4.8's rounding policy (w_k = sum of every
// rowtime / rowtime_k) so a spec can assert Supervisor.Step's Rebalanced
// output without reaching into alb's unexported computeWeights.
func expectedWeights(rowTimes []float64) partition.Weights {
	sum := 0.0
	for _, t := range rowTimes {
		sum += t
	}
	w := make(partition.Weights, len(rowTimes))
	for k, t := range rowTimes {
		if t <= 0 {
			continue
		}
		w[k] = sum / t
	}
	return w
}

var _ = Describe("alb.Supervisor driving engine.Run's per-iteration ALB hook", func() {
	var sup *alb.Supervisor

	BeforeEach(func() {
		sup = alb.NewSupervisor(&alb.ConstItersHeuristic{}, partition.KindWeighted)
	})

	Context("while the sliding window has not filled yet", func() {
		It("reports NoAction and never calls gather", func() {
			for i := 0; i < alb.WindowSize-1; i++ {
				decision, weights := sup.Step(1.0, 0, func() ([]float64, []float64, []float64) {
					Fail("gather must not run before the window fills")
					return nil, nil, nil
				})
				Expect(decision).To(Equal(alb.NoAction))
				Expect(weights).To(BeNil())
			}
		})
	})

	Context("once the window fills", func() {
		BeforeEach(func() {
			for i := 0; i < alb.WindowSize-1; i++ {
				sup.Step(1.0, 0, nil)
			}
		})

		It("triggers on the fill and rebalances on the following call", func() {
			decision, weights := sup.Step(1.0, 0, nil)
			Expect(decision).To(Equal(alb.Triggered))
			Expect(weights).To(BeNil())

			rowTimes := []float64{2.0, 1.0}
			gather := func() ([]float64, []float64, []float64) {
				return rowTimes, rowTimes, []float64{-1, -1}
			}
			decision, weights = sup.Step(1.0, 0, gather)
			Expect(decision).To(Equal(alb.Rebalanced))
			Expect(weights).To(Equal(expectedWeights(rowTimes)))
		})

		DescribeTable("weight computation from the gathered row times",
			func(rowTimes []float64) {
				sup.Step(1.0, 0, nil)
				gather := func() ([]float64, []float64, []float64) {
					return rowTimes, rowTimes, []float64{-1, -1}
				}
				decision, weights := sup.Step(1.0, 0, gather)
				Expect(decision).To(Equal(alb.Rebalanced))
				Expect(weights).To(Equal(expectedWeights(rowTimes)))
			},
			Entry("evenly loaded ranks", []float64{1.0, 1.0, 1.0}),
			Entry("one rank much slower per-row", []float64{4.0, 1.0, 1.0}),
			Entry("a rank that reported zero row time gets zero weight", []float64{2.0, 0.0, 1.0}),
		)
	})
})

var _ = Describe("alb.NewSupervisor's safety rule for non-Weighted specs", func() {
	It("forces NoneHeuristic regardless of what heuristic was requested", func() {
		sup := alb.NewSupervisor(&alb.ConstItersHeuristic{}, partition.KindSingleDim)
		for i := 0; i < alb.WindowSize+2; i++ {
			decision, weights := sup.Step(1.0, 0, func() ([]float64, []float64, []float64) {
				Fail("a forced-None heuristic must never reach gather")
				return nil, nil, nil
			})
			Expect(decision).To(Equal(alb.NoAction))
			Expect(weights).To(BeNil())
		}
	})
})
