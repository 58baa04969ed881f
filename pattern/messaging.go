// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pattern builds and drives the halo-exchange send/recv schedule
// for one stencil footprint (spec §4.5)
package pattern

// Messaging is the slice of the Runtime façade (spec §4.7) this package
// needs: posting non-blocking point-to-point transfers and polling them to
// completion. A concrete implementation lives in package runtime; tests use
// an in-process loopback.
type Messaging interface {
	Isend(dstRank, tag int, data []byte) (Request, error)
	Irecv(srcRank, tag int, buf []byte) (Request, error)
}

// Request is a single non-blocking transfer's handle, replacing the
// source's coroutine-flavored pattern stepping with an explicit poll/wait
// pair (spec §9 "Coroutine-flavored async pattern stepping").
type Request interface {
	// Test reports whether the transfer has completed without blocking.
	Test() (done bool, err error)
	// Wait blocks until the transfer completes.
	Wait() error
}
