// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import "github.com/cpmech/gosl/io"

// TooFineError is raised when a rank's local block is smaller than the
// stencil's halo radius on a partitioned axis (spec §4.2, §7
// "PartitionTooFine"). It is fatal: the caller must abort every rank.
type TooFineError struct {
	Axis int
}

func (e *TooFineError) Error() string {
	return io.Sf("partition too fine on axis %d: a rank's block is smaller than the stencil's halo radius", e.Axis)
}

// ConfigError reports an invalid partition configuration (spec §7
// "ConfigError"): an unknown partition string, a dimensionality above the
// supported maximum, or an inconsistent heuristic/partition combination.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "epsilod: config error: " + e.Msg
}
