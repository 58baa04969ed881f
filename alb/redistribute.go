// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alb

import (
	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/partition"
)

// Transfer is one point-to-point leg of a generic layout redistribute
// (spec §4.9): the region of the global index space overlapping both
// remoteRank's old ownership and this rank's new ownership (or vice
// versa), expressed in the border-expanded coordinate space so that any
// halo cells that did not cross a rank boundary already land correctly.
type Transfer struct {
	RemoteRank int
	Region     geom.Shape
}

// Plan computes the send and receive legs rank must perform to move from
// oldLay to newLay (spec §4.9 "for every overlap (r1,r2) ... schedule a
// point-to-point transfer"). Both layouts are expanded by the stencil's
// border thickness before intersecting, so an edge that stayed inside one
// rank's ownership arrives with a coherent halo already in place; edges
// that crossed a rank boundary are left to the follow-up halo exchange
// (step i of §4.8).
// A Transfer whose RemoteRank equals rank is a local copy (this rank's old
// and new ownership overlap directly) -- callers should special-case it
// rather than route it through messaging.
func Plan(oldLay, newLay *partition.Layout, rank int, borderLow, borderHigh []int) (sends, recvs []Transfer) {
	oldMine := expand(oldLay.Shape(rank), borderLow, borderHigh)
	newMine := expand(newLay.Shape(rank), borderLow, borderHigh)

	if oldLay.IsActive(rank) {
		for other := 0; other < newLay.NumProcs(); other++ {
			if !newLay.IsActive(other) {
				continue
			}
			theirNew := expand(newLay.Shape(other), borderLow, borderHigh)
			overlap := geom.Intersect(oldMine, theirNew)
			if !overlap.IsNull() {
				sends = append(sends, Transfer{RemoteRank: other, Region: overlap})
			}
		}
	}
	if newLay.IsActive(rank) {
		for other := 0; other < oldLay.NumProcs(); other++ {
			if !oldLay.IsActive(other) {
				continue
			}
			theirOld := expand(oldLay.Shape(other), borderLow, borderHigh)
			overlap := geom.Intersect(newMine, theirOld)
			if !overlap.IsNull() {
				recvs = append(recvs, Transfer{RemoteRank: other, Region: overlap})
			}
		}
	}
	return sends, recvs
}

func expand(s geom.Shape, low, high []int) geom.Shape {
	if s.IsNull() {
		return s
	}
	for i := 0; i < s.Dims(); i++ {
		s = s.Transform(i, geom.Begin, -low[i])
		s = s.Transform(i, geom.End, high[i])
	}
	return s
}
