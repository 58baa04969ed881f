// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"github.com/cpmech/gosl/chk"

	"github.com/uva-trasgo/EPSILOD/tile"
)

// Method selects one of the four halo-exchange execution variants (spec
// §4.5 "Execution variants").
type Method int

const (
	// HostWaitAll posts every transfer, waits for all of them, then copies
	// every completed recv device-ward. Simplest, least overlap.
	HostWaitAll Method = iota
	// HostWaitAny polls the outstanding recvs round-robin and stages each
	// one device-ward as soon as it completes, overlapping transfer with
	// device copy.
	HostWaitAny
	// HostWaitAnyRecvFirst posts every recv before any send (both
	// non-blocking), polls the recvs, staging each as it lands, and waits
	// on the sends (blocking) only after every recv has been staged.
	HostWaitAnyRecvFirst
	// DeviceAware runs the same sequence as HostWaitAll, through the same
	// stager; no code path here hands device memory to Messaging without a
	// host copy.
	DeviceAware
)

// HostStager is the device half of a host-staged transfer: a tile whose
// contents must be copied out to a host buffer before sending, or copied in
// from a host buffer after receiving (spec §4.7 move_to/move_from).
type HostStager[C tile.Cell] interface {
	MoveFrom(t tile.Tile[C]) []byte // device -> host, for a send
	MoveTo(t tile.Tile[C], buf []byte) // host -> device, for a recv
}

// Run executes every registered transfer using the given method. msg posts
// and polls the wire transfers; stager moves bytes across the host/device
// boundary. Every method, DeviceAware included, goes through stager, so it
// must not be nil.
func (p *Pattern[C]) Run(method Method, msg Messaging, stager HostStager[C]) error {
	if p.Empty() {
		return nil
	}
	switch method {
	case HostWaitAll:
		return p.runWaitAll(msg, stager)
	case HostWaitAny:
		return p.runWaitAny(msg, stager)
	case HostWaitAnyRecvFirst:
		return p.runWaitAnyRecvFirst(msg, stager)
	case DeviceAware:
		return p.runDeviceAware(msg, stager)
	default:
		chk.Panic("pattern: unknown execution method %v", method)
	}
	return nil
}

type pending[C tile.Cell] struct {
	o   op[C]
	req Request
	buf []byte
}

func (p *Pattern[C]) postSends(msg Messaging, stager HostStager[C]) ([]pending[C], error) {
	sends := make([]pending[C], len(p.ops))
	for i, o := range p.ops {
		buf := stager.MoveFrom(o.out)
		req, err := msg.Isend(o.neighborRank, sendTagOf(o.slot), buf)
		if err != nil {
			return nil, err
		}
		sends[i] = pending[C]{o: o, req: req, buf: buf}
	}
	return sends, nil
}

func (p *Pattern[C]) postRecvs(msg Messaging, stager HostStager[C]) ([]pending[C], error) {
	recvs := make([]pending[C], len(p.ops))
	for i, o := range p.ops {
		buf := make([]byte, len(stager.MoveFrom(o.in)))
		req, err := msg.Irecv(o.neighborRank, recvTagOf(p.ndim, o.slot), buf)
		if err != nil {
			return nil, err
		}
		recvs[i] = pending[C]{o: o, req: req, buf: buf}
	}
	return recvs, nil
}

// runWaitAll posts every send and recv, waits for all of them to complete,
// then stages every recv device-ward (spec §4.5 "wait for the whole batch,
// then HtoD each recv").
func (p *Pattern[C]) runWaitAll(msg Messaging, stager HostStager[C]) error {
	sends, err := p.postSends(msg, stager)
	if err != nil {
		return err
	}
	recvs, err := p.postRecvs(msg, stager)
	if err != nil {
		return err
	}
	for _, s := range sends {
		if err := s.req.Wait(); err != nil {
			return err
		}
	}
	for _, r := range recvs {
		if err := r.req.Wait(); err != nil {
			return err
		}
	}
	for _, r := range recvs {
		stager.MoveTo(r.o.in, r.buf)
	}
	return nil
}

// runWaitAny posts every send and recv, then polls the outstanding recvs
// round-robin, staging each one device-ward the moment it completes (spec
// §4.5 "poll whichever recv lands next, stage it immediately").
func (p *Pattern[C]) runWaitAny(msg Messaging, stager HostStager[C]) error {
	sends, err := p.postSends(msg, stager)
	if err != nil {
		return err
	}
	recvs, err := p.postRecvs(msg, stager)
	if err != nil {
		return err
	}
	remaining := append([]pending[C]{}, recvs...)
	for len(remaining) > 0 {
		next := remaining[:0]
		for _, r := range remaining {
			done, err := r.req.Test()
			if err != nil {
				return err
			}
			if !done {
				next = append(next, r)
				continue
			}
			stager.MoveTo(r.o.in, r.buf)
		}
		remaining = next
	}
	for _, s := range sends {
		if err := s.req.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// runWaitAnyRecvFirst posts every recv, then every send (both non-blocking),
// polls the recvs, staging each as it lands, and defers the (blocking) send
// waits until every recv has landed. It differs from runWaitAny only in
// posting the recvs first.
func (p *Pattern[C]) runWaitAnyRecvFirst(msg Messaging, stager HostStager[C]) error {
	recvs, err := p.postRecvs(msg, stager)
	if err != nil {
		return err
	}
	sends, err := p.postSends(msg, stager)
	if err != nil {
		return err
	}
	remaining := append([]pending[C]{}, recvs...)
	for len(remaining) > 0 {
		next := remaining[:0]
		for _, r := range remaining {
			done, err := r.req.Test()
			if err != nil {
				return err
			}
			if !done {
				next = append(next, r)
				continue
			}
			stager.MoveTo(r.o.in, r.buf)
		}
		remaining = next
	}
	for _, s := range sends {
		if err := s.req.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// runDeviceAware posts the whole batch and waits for all of it, same as
// HostWaitAll, but is kept as its own variant because on a true
// device-aware build, stager's MoveFrom/MoveTo reduce to no-ops over a
// device pointer rather than an actual host copy (spec §4.5 "device-aware
// MPI: no host bounce"); on this host reference runtime the two variants
// behave identically.
func (p *Pattern[C]) runDeviceAware(msg Messaging, stager HostStager[C]) error {
	return p.runWaitAll(msg, stager)
}
