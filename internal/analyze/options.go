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

package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"

	"k8s.io/utils/clock"

	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/finding"
)

// Unit is the parsed and type-checked input of one run.
type Unit struct {
	Fset  *token.FileSet
	Files []*ast.File
	Info  *types.Info

	// ReadFile returns the content of a source file. Without it, source text is printed from syntax.
	ReadFile astutil.ReadFileFunc
}

// Options represent configuration options for a run.
type Options struct {
	// Config holds the validated limits of the run.
	Config config.Config

	// Behavior holds behavioral flags.
	Behavior config.BitMask[config.Behavior]

	// Workers bounds the number of files analyzed in parallel. Zero means GOMAXPROCS.
	Workers int

	// Clock is the time source of budgets and pattern timeouts. Nil means the real clock.
	Clock clock.PassiveClock

	// Logger receives debug and degradation messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Config:   config.Default(),
		Behavior: config.DefaultBehavior(),
	}
}

// Result is the outcome of a run.
type Result struct {
	// Findings in report order, including notices.
	Findings []finding.Finding

	// Skipped lists the files that could not be analyzed, in file order.
	Skipped []*MalformedInputError

	// Budget summarizes resource usage and degradation.
	Budget budget.Summary

	// Stats are counters for telemetry.
	Stats Stats
}

// Stats are run counters.
type Stats struct {
	Candidates int
	Suppressed int
	Timeouts   int

	// Paths lists the number of enumerated paths per candidate defect.
	Paths []int
}

func (s *Stats) add(o Stats) {
	s.Candidates += o.Candidates
	s.Suppressed += o.Suppressed
	s.Timeouts += o.Timeouts
	s.Paths = append(s.Paths, o.Paths...)
}
