// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package run

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/pattern"
	"fillmore-labs.com/sinkguard/internal/telemetry"
)

// Options represent configuration options for the sinkguard analyzer.
//
// Options are mutable until the first pass runs. The pattern catalog and metrics are built once,
// on first use, and shared read-only by all passes.
type Options struct {
	// Config holds the limits and pattern declarations.
	Config config.Config

	// Behavior holds behavioral options.
	Behavior config.BitMask[config.Behavior]

	// Workers bounds the number of files analyzed in parallel. Zero means GOMAXPROCS.
	Workers int

	// Registerer receives the run metrics. Nil disables metrics.
	Registerer prometheus.Registerer

	// Logger receives debug and degradation messages. Nil discards them.
	Logger *slog.Logger

	// Err collects errors of options applied before the first run.
	Err error

	prepare func() (*prepared, error)
}

type prepared struct {
	catalog *pattern.Catalog
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	o := &Options{
		Config:   config.Default(),
		Behavior: config.DefaultBehavior(),
	}

	o.prepare = sync.OnceValues(o.compile)

	return o
}

func (o *Options) compile() (*prepared, error) {
	if o.Err != nil {
		return nil, o.Err
	}

	if err := o.Config.Validate(); err != nil {
		return nil, err
	}

	catalog, err := pattern.Load(pattern.Builtin(), o.Config.Patterns, o.Config.Overrides, o.Config.Disabled)
	if err != nil {
		return nil, err
	}

	metrics, err := telemetry.New(o.Registerer)
	if err != nil {
		return nil, err
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &prepared{catalog: catalog, metrics: metrics, logger: logger}, nil
}
