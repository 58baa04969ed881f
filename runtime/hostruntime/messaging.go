// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostruntime

import (
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
	"github.com/uva-trasgo/EPSILOD/runtime"
	"github.com/uva-trasgo/EPSILOD/tile"
)

// World is the in-process stand-in for an MPI communicator: every rank's
// Messaging shares one World, the way gosl/mpi's package-level Start/Rank/
// Size share one process group. It is only meant to let several "ranks"
// run as goroutines inside a single test binary.
type World struct {
	mu       sync.Mutex
	nprocs   int
	boxes    map[worldKey][]byte
	barriers map[int]chan struct{} // keyed by generation
	gen      int
	arrived  int
	cond     *sync.Cond
}

type worldKey struct {
	rank, tag int
}

// NewWorld creates a World sized for nprocs ranks.
func NewWorld(nprocs int) *World {
	w := &World{nprocs: nprocs, boxes: make(map[worldKey][]byte)}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *World) deposit(rank, tag int, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.boxes[worldKey{rank, tag}] = data
}

func (w *World) take(rank, tag int) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.boxes[worldKey{rank, tag}]
	if ok {
		delete(w.boxes, worldKey{rank, tag})
	}
	return data, ok
}

// barrier blocks the caller until nprocs callers total have reached this
// generation of the barrier, then releases them all together.
func (w *World) barrier() {
	w.mu.Lock()
	myGen := w.gen
	w.arrived++
	if w.arrived == w.nprocs {
		w.arrived = 0
		w.gen++
		w.cond.Broadcast()
		w.mu.Unlock()
		return
	}
	for w.gen == myGen {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// Messaging is one rank's handle onto a shared World, implementing both
// runtime.Messaging (collectives) and pattern.Messaging (point-to-point),
// so the engine can hand the same value to both the halo-exchange pattern
// and the ALB supervisor's collectives.
type Messaging[C tile.Cell] struct {
	world *World
	self  int
}

// NewMessaging returns a Messaging bound to rank's identity on world.
func NewMessaging[C tile.Cell](world *World, rank int) *Messaging[C] {
	return &Messaging[C]{world: world, self: rank}
}

func (m *Messaging[C]) Barrier(lay *partition.Layout) {
	m.world.barrier()
}

func (m *Messaging[C]) Reduce(lay *partition.Layout, local []float64, global []float64, op runtime.ReduceOp) {
	gathered := make([][]float64, lay.NumProcs())
	gathered[m.self] = local
	for r := 0; r < lay.NumProcs(); r++ {
		if r == m.self {
			continue
		}
		buf := encodeFloats(local)
		m.world.deposit(r, reduceTag-m.self, buf)
	}
	m.world.barrier()
	for r := 0; r < lay.NumProcs(); r++ {
		if r == m.self {
			continue
		}
		data, ok := m.world.take(m.self, reduceTag-r)
		if !ok {
			chk.Panic("hostruntime: Reduce missing contribution from rank %d", r)
		}
		gathered[r] = decodeFloats(data)
	}
	m.world.barrier()
	for i := range global {
		global[i] = combine(op, gathered, i)
	}
}

func (m *Messaging[C]) AllGather(lay *partition.Layout, send []float64, recv []float64) {
	per := len(send)
	buf := encodeFloats(send)
	for r := 0; r < lay.NumProcs(); r++ {
		m.world.deposit(r, allGatherTag+m.self, buf)
	}
	m.world.barrier()
	for r := 0; r < lay.NumProcs(); r++ {
		data, ok := m.world.take(m.self, allGatherTag+r)
		if !ok {
			chk.Panic("hostruntime: AllGather missing contribution from rank %d", r)
		}
		copy(recv[r*per:(r+1)*per], decodeFloats(data))
	}
	m.world.barrier()
}

func (m *Messaging[C]) Neighbor(lay *partition.Layout, rank int, shift []int) int {
	return lay.Neighbor(rank, shift)
}

func (m *Messaging[C]) SendRecv(lay *partition.Layout, dstRank int, outTile tile.Tile[C], srcRank int, inTile tile.Tile[C]) error {
	stager := GenericStager[C]{}
	if !outTile.IsNull() {
		m.world.deposit(dstRank, sendRecvTag-m.self, stager.MoveFrom(outTile))
	}
	if inTile.IsNull() {
		return nil
	}
	for {
		data, ok := m.world.take(m.self, sendRecvTag-srcRank)
		if ok {
			stager.MoveTo(inTile, data)
			return nil
		}
		time.Sleep(time.Microsecond)
	}
}

// Isend and Irecv satisfy pattern.Messaging, letting the engine drive halo
// exchange over the same World.
func (m *Messaging[C]) Isend(dstRank, tag int, data []byte) (pattern.Request, error) {
	m.world.deposit(dstRank, tag, data)
	return doneRequest{}, nil
}

func (m *Messaging[C]) Irecv(srcRank, tag int, buf []byte) (pattern.Request, error) {
	return &recvRequest{world: m.world, self: m.self, tag: tag, buf: buf}, nil
}

type doneRequest struct{}

func (doneRequest) Test() (bool, error) { return true, nil }
func (doneRequest) Wait() error         { return nil }

type recvRequest struct {
	world     *World
	self, tag int
	buf       []byte
}

func (r *recvRequest) Test() (bool, error) {
	data, ok := r.world.take(r.self, r.tag)
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

const (
	reduceTag    = -1
	allGatherTag = -1000
	sendRecvTag  = -2
)

func combine(op runtime.ReduceOp, gathered [][]float64, i int) float64 {
	switch op {
	case runtime.Sum:
		sum := 0.0
		for _, g := range gathered {
			sum += g[i]
		}
		return sum
	case runtime.Max:
		max := gathered[0][i]
		for _, g := range gathered[1:] {
			if g[i] > max {
				max = g[i]
			}
		}
		return max
	case runtime.Min:
		min := gathered[0][i]
		for _, g := range gathered[1:] {
			if g[i] < min {
				min = g[i]
			}
		}
		return min
	default:
		chk.Panic("hostruntime: unknown reduce op %v", op)
	}
	return 0
}
