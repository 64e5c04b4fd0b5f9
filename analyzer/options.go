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

package analyzer

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/run"
)

type (
	// Config is the complete analyzer configuration, see [WithConfig].
	Config = config.Config

	// Pattern is a user-declared sink or mitigation pattern.
	Pattern = config.Declaration

	// Override deprecates or disables a built-in pattern.
	Override = config.Override
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config { return config.Default() }

// Option configures specific behavior of a [New] sinkguard analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithConfig is an [Option] replacing the complete configuration.
// Options following it adjust the given configuration.
func WithConfig(cfg Config) Option { return configOption{cfg: cfg} }

type configOption struct{ cfg Config }

func (o configOption) apply(r *run.Options) {
	r.Config = o.cfg
}

func (o configOption) LogAttr() slog.Attr {
	return slog.Group("config",
		slog.Bool("enabled", o.cfg.Enabled),
		slog.Int("max-call-depth", o.cfg.MaxCallDepth),
		slog.Int("time-budget-ms", o.cfg.TimeBudgetMs),
		slog.Int("size-budget-lines", o.cfg.SizeBudgetLines),
		slog.Int("pattern-timeout-ms", o.cfg.PatternTimeoutMs),
		slog.Int("patterns", len(o.cfg.Patterns)),
	)
}

// WithMaxCallDepth is an [Option] to configure how many call hops are followed when searching
// for mitigations.
func WithMaxCallDepth(depth int) Option { return maxCallDepthOption{depth: depth} }

type maxCallDepthOption struct{ depth int }

func (o maxCallDepthOption) apply(r *run.Options) {
	r.Config.MaxCallDepth = o.depth
}

func (o maxCallDepthOption) LogAttr() slog.Attr {
	return slog.Int("max-call-depth", o.depth)
}

// WithTimeBudget is an [Option] to configure the wall-clock budget of a package.
func WithTimeBudget(budget time.Duration) Option { return timeBudgetOption{budget: budget} }

type timeBudgetOption struct{ budget time.Duration }

func (o timeBudgetOption) apply(r *run.Options) {
	r.Config.TimeBudgetMs = int(o.budget.Milliseconds())
}

func (o timeBudgetOption) LogAttr() slog.Attr {
	return slog.Duration("time-budget", o.budget)
}

// WithSizeBudget is an [Option] to configure the number of function lines analyzed per package
// before the analysis degrades.
func WithSizeBudget(lines int) Option { return sizeBudgetOption{lines: lines} }

type sizeBudgetOption struct{ lines int }

func (o sizeBudgetOption) apply(r *run.Options) {
	r.Config.SizeBudgetLines = o.lines
}

func (o sizeBudgetOption) LogAttr() slog.Attr {
	return slog.Int("size-budget", o.lines)
}

// WithPatternTimeout is an [Option] to configure the ceiling of a single pattern evaluation.
func WithPatternTimeout(timeout time.Duration) Option { return patternTimeoutOption{timeout: timeout} }

type patternTimeoutOption struct{ timeout time.Duration }

func (o patternTimeoutOption) apply(r *run.Options) {
	r.Config.PatternTimeoutMs = int(o.timeout.Milliseconds())
}

func (o patternTimeoutOption) LogAttr() slog.Attr {
	return slog.Duration("pattern-timeout", o.timeout)
}

// WithPatterns is an [Option] adding user-declared patterns to the built-in catalog.
func WithPatterns(patterns ...Pattern) Option { return patternsOption{patterns: patterns} }

type patternsOption struct{ patterns []Pattern }

func (o patternsOption) apply(r *run.Options) {
	r.Config.Patterns = append(r.Config.Patterns, o.patterns...)
}

func (o patternsOption) LogAttr() slog.Attr {
	ids := make([]string, len(o.patterns))
	for i, p := range o.patterns {
		ids[i] = p.ID
	}

	return slog.Any("patterns", ids)
}

// WithOverrides is an [Option] deprecating or disabling built-in patterns.
func WithOverrides(overrides ...Override) Option { return overridesOption{overrides: overrides} }

type overridesOption struct{ overrides []Override }

func (o overridesOption) apply(r *run.Options) {
	r.Config.Overrides = append(r.Config.Overrides, o.overrides...)
}

func (o overridesOption) LogAttr() slog.Attr {
	ids := make([]string, len(o.overrides))
	for i, ov := range o.overrides {
		ids[i] = ov.ID
	}

	return slog.Any("overrides", ids)
}

// WithDisabled is an [Option] excluding patterns from matching.
func WithDisabled(ids ...string) Option { return disabledOption{ids: ids} }

type disabledOption struct{ ids []string }

func (o disabledOption) apply(r *run.Options) {
	r.Config.Disabled = append(r.Config.Disabled, o.ids...)
}

func (o disabledOption) LogAttr() slog.Attr {
	return slog.Any("disabled", o.ids)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithReportDeprecated is an [Option] to report matches of deprecated mitigation patterns.
func WithReportDeprecated(report bool) Option { return reportDeprecatedOption{report: report} }

type reportDeprecatedOption struct{ report bool }

func (o reportDeprecatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.ReportDeprecated, o.report)
}

func (o reportDeprecatedOption) LogAttr() slog.Attr {
	return slog.Bool("report-deprecated", o.report)
}

// WithWorkers is an [Option] to bound the number of files analyzed in parallel.
func WithWorkers(workers int) Option { return workersOption{workers: workers} }

type workersOption struct{ workers int }

func (o workersOption) apply(r *run.Options) {
	r.Workers = o.workers
}

func (o workersOption) LogAttr() slog.Attr {
	return slog.Int("workers", o.workers)
}

// WithRegisterer is an [Option] to export run metrics.
func WithRegisterer(reg prometheus.Registerer) Option { return registererOption{reg: reg} }

type registererOption struct{ reg prometheus.Registerer }

func (o registererOption) apply(r *run.Options) {
	r.Registerer = o.reg
}

func (o registererOption) LogAttr() slog.Attr {
	return slog.Bool("metrics", o.reg != nil)
}

// WithLogger is an [Option] to receive debug and degradation messages.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *run.Options) {
	r.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
