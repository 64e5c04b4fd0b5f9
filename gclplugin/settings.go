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

package gclplugin

import (
	"time"

	sinkguard "fillmore-labs.com/sinkguard/analyzer"
)

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// MaxCallDepth bounds the call hops followed to find a mitigation.
	MaxCallDepth *int `json:"max-call-depth,omitzero"`
	// TimeBudgetMs is the time budget per package in milliseconds.
	TimeBudgetMs *int `json:"time-budget-ms,omitzero"`
	// SizeBudgetLines is the number of function lines analyzed per package before degrading.
	SizeBudgetLines *int `json:"size-budget-lines,omitzero"`
	// PatternTimeoutMs is the time limit of a single pattern evaluation in milliseconds.
	PatternTimeoutMs *int `json:"pattern-timeout-ms,omitzero"`
	// Patterns are additional pattern declarations.
	Patterns []sinkguard.Pattern `json:"patterns,omitzero"`
	// Overrides deprecate or disable built-in patterns.
	Overrides []sinkguard.Override `json:"overrides,omitzero"`
	// Disabled lists pattern ids to disable.
	Disabled []string `json:"disabled,omitzero"`
	// ReportDeprecated reports matches of deprecated mitigation patterns.
	ReportDeprecated *bool `json:"report-deprecated,omitzero"`
	// Workers bounds the number of files analyzed in parallel.
	Workers *int `json:"workers,omitzero"`
}

// Options converts [Settings] into a list of [sinkguard.Option] for the sinkguard analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []sinkguard.Option {
	var opts []sinkguard.Option

	opts = appendOption(opts, s.MaxCallDepth, sinkguard.WithMaxCallDepth)
	opts = appendOption(opts, s.TimeBudgetMs, millis(sinkguard.WithTimeBudget))
	opts = appendOption(opts, s.SizeBudgetLines, sinkguard.WithSizeBudget)
	opts = appendOption(opts, s.PatternTimeoutMs, millis(sinkguard.WithPatternTimeout))
	opts = appendList(opts, s.Patterns, sinkguard.WithPatterns)
	opts = appendList(opts, s.Overrides, sinkguard.WithOverrides)
	opts = appendList(opts, s.Disabled, sinkguard.WithDisabled)
	opts = appendOption(opts, s.ReportDeprecated, sinkguard.WithReportDeprecated)
	opts = appendOption(opts, s.Workers, sinkguard.WithWorkers)

	return opts
}

// appendOption appends a non-nil setting to a [sinkguard.Option] list.
func appendOption[T any](opts []sinkguard.Option, value *T, constructor func(T) sinkguard.Option) []sinkguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}

// appendList appends a non-empty list setting to a [sinkguard.Option] list.
func appendList[T any](opts []sinkguard.Option, values []T, constructor func(...T) sinkguard.Option) []sinkguard.Option {
	if len(values) == 0 {
		return opts
	}

	return append(opts, constructor(values...))
}

func millis(constructor func(time.Duration) sinkguard.Option) func(int) sinkguard.Option {
	return func(ms int) sinkguard.Option { return constructor(time.Duration(ms) * time.Millisecond) }
}
