// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/cpmech/gosl/io"

// RuntimeError wraps a fatal failure surfaced by the Runtime façade --
// device OOM, launch failure, transfer failure (spec §7 "RuntimeError").
// hostruntime never raises it (every operation is synchronous and
// infallible on this host-only reference); Run still recovers any panic
// escaping a Controller call and reports it through this type, since a
// real device-backed Controller is expected to panic rather than thread
// an error return through every call in the interface.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string { return io.Sf("epsilod: runtime error: %v", e.Err) }
func (e *RuntimeError) Unwrap() error  { return e.Err }

// MessagingError wraps a fatal failure from the messaging layer (spec §7
// "MessagingError"): a halo exchange, collective, or redistribute
// SendRecv that returned an error.
type MessagingError struct {
	Err error
}

func (e *MessagingError) Error() string { return io.Sf("epsilod: messaging error: %v", e.Err) }
func (e *MessagingError) Unwrap() error  { return e.Err }

// IOError wraps a fatal failure from a user-supplied init or output
// callback (spec §7 "IOError").
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return io.Sf("epsilod: io error: %v", e.Err) }
func (e *IOError) Unwrap() error  { return e.Err }
