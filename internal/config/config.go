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

package config

// Behavior represents behavioral options of the analyzer.
type Behavior uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Behavior = 1 << iota

	// ReportDeprecated surfaces matches of deprecated mitigation patterns as a low-confidence signal.
	ReportDeprecated
)

// DefaultBehavior returns the default behavioral flags.
func DefaultBehavior() BitMask[Behavior] {
	return NewBitMask[Behavior]()
}

// Default limits.
const (
	DefaultMaxCallDepth     = 5
	DefaultTimeBudgetMs     = 300_000
	DefaultSizeBudgetLines  = 10_000
	DefaultPatternTimeoutMs = 100
	DefaultWarnThreshold    = 1.0
	DefaultMaxPaths         = 1024
)

// Config is the configuration of one analysis run.
//
// It is supplied by a collaborator (options, flags or plugin settings) and treated as read-only
// for the lifetime of the run.
type Config struct {
	// Enabled switches the analyzer on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxCallDepth bounds the number of call hops followed when searching for mitigations.
	MaxCallDepth int `json:"max-call-depth" validate:"min=1,max=20" yaml:"max-call-depth"`

	// TimeBudgetMs is the wall-clock budget of a run in milliseconds.
	TimeBudgetMs int `json:"time-budget-ms" validate:"min=1" yaml:"time-budget-ms"`

	// SizeBudgetLines is the number of function body lines analyzed before degrading.
	SizeBudgetLines int `json:"size-budget-lines" validate:"min=1" yaml:"size-budget-lines"`

	// PatternTimeoutMs is the ceiling for a single pattern evaluation.
	PatternTimeoutMs int `json:"pattern-timeout-ms" validate:"min=10,max=1000" yaml:"pattern-timeout-ms"`

	// WarnThreshold is the budget fraction at which the run degrades proactively.
	// A value of 1 disables the early warning.
	WarnThreshold float64 `json:"warn-threshold" validate:"gte=0.5,lte=1" yaml:"warn-threshold"`

	// MaxPaths bounds the number of paths enumerated per sink.
	MaxPaths int `json:"max-paths" validate:"min=1,max=65536" yaml:"max-paths"`

	// Patterns are user-declared patterns, added to the built-in catalog.
	Patterns []Declaration `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Overrides deprecate or disable built-in patterns.
	Overrides []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	// Disabled lists pattern ids excluded from matching.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Default returns a [Config] with default limits.
func Default() Config {
	return Config{
		Enabled:          true,
		MaxCallDepth:     DefaultMaxCallDepth,
		TimeBudgetMs:     DefaultTimeBudgetMs,
		SizeBudgetLines:  DefaultSizeBudgetLines,
		PatternTimeoutMs: DefaultPatternTimeoutMs,
		WarnThreshold:    DefaultWarnThreshold,
		MaxPaths:         DefaultMaxPaths,
	}
}

// Validate checks the scalar limits of the configuration.
// Pattern declarations are validated when the catalog is loaded.
func (c *Config) Validate() error {
	return ValidateStruct(c)
}

// Declaration is the declarative form of a pattern, as found in pattern files and plugin settings.
type Declaration struct {
	// ID uniquely identifies the pattern.
	ID string `json:"id" validate:"required" yaml:"id"`

	// Name is a short human-readable name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description explains what the pattern detects or mitigates.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Role is "mitigation" (default) or "sink".
	Role string `json:"role,omitempty" validate:"omitempty,oneof=mitigation sink" yaml:"role,omitempty"`

	// Classes lists the defect classes the pattern relates to.
	Classes []string `json:"classes" validate:"required,min=1,dive,oneof=injection xss null_deref auth_bypass" yaml:"classes"`

	// Kind is "literal", "call" or "regexp".
	Kind string `json:"kind" validate:"required,oneof=literal call regexp" yaml:"kind"`

	// Match is the literal text, call signature or expression to match.
	Match string `json:"match" validate:"required" yaml:"match"`

	// Confidence is "high", "medium" (default) or "low".
	Confidence string `json:"confidence,omitempty" validate:"omitempty,oneof=high medium low" yaml:"confidence,omitempty"`

	// Severity is the default severity of a sink.
	Severity string `json:"severity,omitempty" validate:"omitempty,oneof=critical high error medium warning low info" yaml:"severity,omitempty"`

	// Args lists argument positions of a sink call that must be non-constant. Empty means any argument.
	Args []int `json:"args,omitempty" validate:"dive,min=0" yaml:"args,omitempty"`

	// Deprecated excludes the pattern from matching.
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	// DeprecationReason is required for deprecated patterns.
	DeprecationReason string `json:"deprecation-reason,omitempty" validate:"required_if=Deprecated true" yaml:"deprecation-reason,omitempty"`
}

// Override marks an existing pattern deprecated or disabled.
type Override struct {
	// ID is the pattern to override.
	ID string `json:"id" validate:"required" yaml:"id"`

	// Deprecated marks the pattern deprecated.
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	// Disabled removes the pattern from matching.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Reason is required for every override.
	Reason string `json:"reason" validate:"required" yaml:"reason"`
}
