// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config reads the engine's external interface (spec §6): the
// handful of EPSILOD_* environment variables that pick a partitioner, an
// ALB heuristic, a halo-exchange method and a couple of diagnostic
// toggles. It follows the teacher's two-step Data pattern (SetDefault
// then PostProcess) rather than a one-shot parse, so a caller can
// override fields between the two steps (e.g. in tests) before the
// derived values (Spec, Heuristic, Method) are computed.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/uva-trasgo/EPSILOD/alb"
	"github.com/uva-trasgo/EPSILOD/partition"
	"github.com/uva-trasgo/EPSILOD/pattern"
)

// Data holds the raw and derived engine configuration (spec §6). Raw
// string fields mirror the environment variables verbatim; SetDefault
// fills in the documented defaults, and PostProcess parses the raw
// fields into the typed values the engine actually consumes.
type Data struct {
	MPIDevAware string // EPSILOD_MPI_DEV_AWARE: y|n
	Partition   string // EPSILOD_PARTITION: m[k] | s<d> | w<d> | n<d>
	ALBHeur     string // EPSILOD_ALB_HEUR: none|NextALB|ConstIters|ExpIters|DoubleIters
	CommMethod  string // EPSILOD_COMM_METHOD: host_waitany|host_waitany_recvfirst|host_waitall
	DebugTiles  string // EPSILOD_DEBUG_TILES: diagnostic toggle, opaque to the engine
	ExamplesExp string // CTRL_EXAMPLES_EXP_MODE: diagnostic toggle, opaque to the engine

	// Derived fields, populated by PostProcess.
	Spec       partition.Spec
	Heuristic  alb.Heuristic
	Method     pattern.Method
	DevAware   bool
	DebugOn    bool
	ExamplesOn bool
}

// FromEnv reads the six EPSILOD_* / CTRL_* variables (spec §6, values are
// case-insensitive) and returns a Data with defaults applied and
// PostProcess already run.
func FromEnv() (*Data, error) {
	d := &Data{
		MPIDevAware: os.Getenv("EPSILOD_MPI_DEV_AWARE"),
		Partition:   os.Getenv("EPSILOD_PARTITION"),
		ALBHeur:     os.Getenv("EPSILOD_ALB_HEUR"),
		CommMethod:  os.Getenv("EPSILOD_COMM_METHOD"),
		DebugTiles:  os.Getenv("EPSILOD_DEBUG_TILES"),
		ExamplesExp: os.Getenv("CTRL_EXAMPLES_EXP_MODE"),
	}
	d.SetDefault()
	if err := d.PostProcess(); err != nil {
		return nil, err
	}
	return d, nil
}

// SetDefault fills in the documented defaults for any raw field left
// blank: EPSILOD_PARTITION defaults to "s0" (spec §6); EPSILOD_ALB_HEUR
// defaults to "none"; EPSILOD_COMM_METHOD defaults to "host_waitall".
func (d *Data) SetDefault() {
	if d.Partition == "" {
		d.Partition = "s0"
	}
	if d.ALBHeur == "" {
		d.ALBHeur = "none"
	}
	if d.CommMethod == "" {
		d.CommMethod = "host_waitall"
	}
}

// PostProcess parses the raw string fields into the typed values the
// engine consumes, returning a *partition.ConfigError (spec §7
// "ConfigError") on any unrecognized value.
func (d *Data) PostProcess() error {
	d.DevAware = parseBool(d.MPIDevAware)
	d.DebugOn = parseBool(d.DebugTiles)
	d.ExamplesOn = parseBool(d.ExamplesExp)

	spec, err := parsePartition(d.Partition)
	if err != nil {
		return err
	}
	d.Spec = spec

	heuristic, err := parseHeuristic(d.ALBHeur)
	if err != nil {
		return err
	}
	d.Heuristic = heuristic

	method, err := parseMethod(d.CommMethod)
	if err != nil {
		return err
	}
	if d.DevAware {
		method = pattern.DeviceAware
	}
	d.Method = method

	if d.Spec.Kind != partition.KindWeighted {
		if _, isNone := d.Heuristic.(*alb.NoneHeuristic); !isNone {
			d.Heuristic = &alb.NoneHeuristic{}
		}
	}
	return nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

// parsePartition decodes EPSILOD_PARTITION's m[k] | s<d> | w<d> | n<d>
// grammar (spec §6, §4.2).
func parsePartition(raw string) (partition.Spec, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return partition.Spec{}, &partition.ConfigError{Msg: "EPSILOD_PARTITION must not be empty"}
	}
	switch {
	case strings.HasPrefix(s, "m["):
		if !strings.HasSuffix(s, "]") {
			return partition.Spec{}, &partition.ConfigError{Msg: "malformed EPSILOD_PARTITION: " + raw}
		}
		k, err := strconv.Atoi(s[2 : len(s)-1])
		if err != nil {
			return partition.Spec{}, &partition.ConfigError{Msg: "malformed EPSILOD_PARTITION: " + raw}
		}
		return partition.MultiDim(k), nil
	case strings.HasPrefix(s, "s"):
		axis, err := strconv.Atoi(s[1:])
		if err != nil {
			return partition.Spec{}, &partition.ConfigError{Msg: "malformed EPSILOD_PARTITION: " + raw}
		}
		return partition.SingleDim(axis), nil
	case strings.HasPrefix(s, "w"):
		axis, err := strconv.Atoi(s[1:])
		if err != nil {
			return partition.Spec{}, &partition.ConfigError{Msg: "malformed EPSILOD_PARTITION: " + raw}
		}
		return partition.Weighted(axis), nil
	case strings.HasPrefix(s, "n"):
		axis, err := strconv.Atoi(s[1:])
		if err != nil {
			return partition.Spec{}, &partition.ConfigError{Msg: "malformed EPSILOD_PARTITION: " + raw}
		}
		return partition.NotDim(axis), nil
	default:
		return partition.Spec{}, &partition.ConfigError{Msg: "unknown EPSILOD_PARTITION: " + raw}
	}
}

// parseHeuristic maps EPSILOD_ALB_HEUR's five values onto fresh
// alb.Heuristic instances (spec §6, §4.8). Matching is case-insensitive.
func parseHeuristic(raw string) (alb.Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "":
		return &alb.NoneHeuristic{}, nil
	case "nextalb":
		return &alb.NextALBHeuristic{}, nil
	case "constiters":
		return &alb.ConstItersHeuristic{}, nil
	case "expiters":
		return &alb.ExpItersHeuristic{}, nil
	case "doubleiters":
		return &alb.DoubleItersHeuristic{}, nil
	default:
		return nil, &partition.ConfigError{Msg: "unknown EPSILOD_ALB_HEUR: " + raw}
	}
}

// parseMethod maps EPSILOD_COMM_METHOD's three host-side values onto a
// pattern.Method (spec §6, §4.5). device_aware halo exchange is selected
// by EPSILOD_MPI_DEV_AWARE, which PostProcess layers over whichever method
// is configured here, not by this variable.
func parseMethod(raw string) (pattern.Method, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "host_waitall":
		return pattern.HostWaitAll, nil
	case "host_waitany":
		return pattern.HostWaitAny, nil
	case "host_waitany_recvfirst":
		return pattern.HostWaitAnyRecvFirst, nil
	default:
		return 0, &partition.ConfigError{Msg: "unknown EPSILOD_COMM_METHOD: " + raw}
	}
}
