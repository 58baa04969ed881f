// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uva-trasgo/EPSILOD/geom"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// netKey addresses one in-flight message by the receiving rank and tag.
type netKey struct {
	rank, tag int
}

// network is a tiny in-process loopback standing in for a real Messaging
// (such as hostruntime's), used only by tests.
type network struct {
	mu    sync.Mutex
	boxes map[netKey][]byte
}

func newNetwork() *network {
	return &network{boxes: make(map[netKey][]byte)}
}

func (n *network) deposit(rank, tag int, data []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.boxes[netKey{rank, tag}] = data
}

func (n *network) take(rank, tag int) ([]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	data, ok := n.boxes[netKey{rank, tag}]
	if ok {
		delete(n.boxes, netKey{rank, tag})
	}
	return data, ok
}

// loopback is a Messaging bound to one rank's identity on a shared network.
type loopback struct {
	net  *network
	self int
}

type doneRequest struct{}

func (doneRequest) Test() (bool, error) { return true, nil }
func (doneRequest) Wait() error         { return nil }

type recvRequest struct {
	net       *network
	self, tag int
	buf       []byte
}

func (r *recvRequest) Test() (bool, error) {
	data, ok := r.net.take(r.self, r.tag)
	if !ok {
		return false, nil
	}
	copy(r.buf, data)
	return true, nil
}

func (r *recvRequest) Wait() error {
	for {
		done, err := r.Test()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		time.Sleep(time.Microsecond)
	}
}

func (l loopback) Isend(dstRank, tag int, data []byte) (Request, error) {
	l.net.deposit(dstRank, tag, data)
	return doneRequest{}, nil
}

func (l loopback) Irecv(srcRank, tag int, buf []byte) (Request, error) {
	return &recvRequest{net: l.net, self: l.self, tag: tag, buf: buf}, nil
}

// float64Stager flattens/unflattens float64 tiles to a wire-compatible byte
// slice, standing in for the device-memory staging a real Runtime performs
// (spec §4.7 move_to/move_from).
type float64Stager struct{}

func (float64Stager) MoveFrom(t tile.Tile[float64]) []byte {
	cells := t.Flatten()
	buf := make([]byte, 8*len(cells))
	for i, c := range cells {
		bits := math.Float64bits(c)
		for b := 0; b < 8; b++ {
			buf[8*i+b] = byte(bits >> (8 * b))
		}
	}
	return buf
}

func (float64Stager) MoveTo(t tile.Tile[float64], buf []byte) {
	n := len(buf) / 8
	cells := make([]float64, n)
	for i := 0; i < n; i++ {
		var bits uint64
		for b := 0; b < 8; b++ {
			bits |= uint64(buf[8*i+b]) << (8 * b)
		}
		cells[i] = math.Float64frombits(bits)
	}
	t.Unflatten(cells)
}

// TestOrderingPolicyLargestFirst validates spec §8 scenario 6: of two
// active slots with BorderIn sizes 100 and 10, the pair touching the
// 100-cell slot is registered first.
func TestOrderingPolicyLargestFirst(t *testing.T) {
	ndim := 1
	big := tile.NewRoot[float64](geom.FromSizes(100))
	small := tile.NewRoot[float64](geom.FromSizes(10))
	defer big.Release()
	defer small.Release()

	bigFull := big.Select(geom.FromSizes(100))
	smallFull := small.Select(geom.FromSizes(10))

	borderIn := make([]tile.Tile[float64], geom.NumSlots(ndim))
	borderOut := make([]tile.Tile[float64], geom.NumSlots(ndim))
	for i := range borderIn {
		borderIn[i] = tile.Null[float64]()
		borderOut[i] = tile.Null[float64]()
	}
	slotSmall := geom.SlotOf([]int{-1})
	slotBig := geom.SlotOf([]int{1})
	borderIn[slotSmall] = smallFull
	borderOut[slotSmall] = smallFull
	borderIn[slotBig] = bigFull
	borderOut[slotBig] = bigFull

	p := Build[float64](ndim, borderIn, borderOut, func(slot int) int { return 7 })
	require.Equal(t, 2, p.NumOps())
	assert.Equal(t, []int{slotBig, slotSmall}, p.SlotOrder())
}

// TestBuildSkipsInactiveAndDeadNeighbors checks that a slot missing either
// selection, or whose neighbor lookup reports no live rank, is never
// registered (spec §8 "one rank / plain topology: pattern has zero sends").
func TestBuildSkipsInactiveAndDeadNeighbors(t *testing.T) {
	ndim := 1
	borderIn := make([]tile.Tile[float64], geom.NumSlots(ndim))
	borderOut := make([]tile.Tile[float64], geom.NumSlots(ndim))
	for i := range borderIn {
		borderIn[i] = tile.Null[float64]()
		borderOut[i] = tile.Null[float64]()
	}
	root := tile.NewRoot[float64](geom.FromSizes(4))
	defer root.Release()
	full := root.Select(geom.FromSizes(4))
	// slot +1 has both selections but no live neighbor; slot -1 has only
	// its inbound selection.
	borderIn[geom.SlotOf([]int{1})] = full
	borderOut[geom.SlotOf([]int{1})] = full
	borderIn[geom.SlotOf([]int{-1})] = full
	p := Build[float64](ndim, borderIn, borderOut, func(slot int) int { return -1 })
	assert.True(t, p.Empty())
}

// buildOneAxisPattern wires a single active slot, with out and in as its
// outbound and inbound selections and neighborRank as its peer, for use as
// either side of an exchange.
func buildOneAxisPattern(ndim, slot, neighborRank int, out, in tile.Tile[float64]) *Pattern[float64] {
	borderIn := make([]tile.Tile[float64], geom.NumSlots(ndim))
	borderOut := make([]tile.Tile[float64], geom.NumSlots(ndim))
	for i := range borderIn {
		borderIn[i] = tile.Null[float64]()
		borderOut[i] = tile.Null[float64]()
	}
	borderIn[slot] = in
	borderOut[slot] = out
	return Build[float64](ndim, borderIn, borderOut, func(s int) int {
		if s == slot {
			return neighborRank
		}
		return -1
	})
}

// TestRunExchangesAcrossTwoRanks drives a real two-rank halo exchange over
// the loopback network for every execution variant and checks the
// receiving side ends up with the sender's values (spec §8 scenario 2's
// correctness property, generalized to every Method).
func TestRunExchangesAcrossTwoRanks(t *testing.T) {
	for _, method := range []Method{HostWaitAll, HostWaitAny, HostWaitAnyRecvFirst, DeviceAware} {
		method := method
		t.Run("", func(t *testing.T) {
			ndim := 1
			leftSend := tile.NewRoot[float64](geom.FromSizes(5))
			leftGhost := tile.NewRoot[float64](geom.FromSizes(5))
			rightSend := tile.NewRoot[float64](geom.FromSizes(5))
			rightGhost := tile.NewRoot[float64](geom.FromSizes(5))
			defer leftSend.Release()
			defer leftGhost.Release()
			defer rightSend.Release()
			defer rightGhost.Release()

			leftOut := leftSend.Select(geom.FromSizes(5))
			leftIn := leftGhost.Select(geom.FromSizes(5))
			rightOut := rightSend.Select(geom.FromSizes(5))
			rightIn := rightGhost.Select(geom.FromSizes(5))
			leftOut.Each(func(c []int) { leftOut.Set(c, float64(c[0]+1)) })
			rightOut.Each(func(c []int) { rightOut.Set(c, float64(100+c[0])) })

			slotHigh := geom.SlotOf([]int{1})
			slotLow := geom.SlotOf([]int{-1})

			leftPattern := buildOneAxisPattern(ndim, slotHigh, 1, leftOut, leftIn)
			rightPattern := buildOneAxisPattern(ndim, slotLow, 0, rightOut, rightIn)

			net := newNetwork()
			var wg sync.WaitGroup
			var leftErr, rightErr error
			wg.Add(2)
			go func() {
				defer wg.Done()
				leftErr = leftPattern.Run(method, loopback{net: net, self: 0}, float64Stager{})
			}()
			go func() {
				defer wg.Done()
				rightErr = rightPattern.Run(method, loopback{net: net, self: 1}, float64Stager{})
			}()
			wg.Wait()

			require.NoError(t, leftErr)
			require.NoError(t, rightErr)
			assert.True(t, tile.Equal(leftOut, rightIn))
			assert.True(t, tile.Equal(rightOut, leftIn))
		})
	}
}
