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

// Package budget tracks run resources and degrades the analysis when they run out.
package budget

import (
	"time"

	"k8s.io/utils/clock"

	"fillmore-labs.com/sinkguard/internal/config"
)

// Reason describes why a run degraded.
type Reason uint8

//go:generate go tool stringer -type Reason -linecomment
const (
	// None means the run is not degraded.
	None Reason = iota // none
	// Time means the time budget was exhausted.
	Time // time budget exhausted
	// Size means the size budget was exhausted.
	Size // size budget exhausted
	// TimeWarning means the time budget reached the warning threshold.
	TimeWarning // time budget warning threshold reached
	// SizeWarning means the size budget reached the warning threshold.
	SizeWarning // size budget warning threshold reached
)

// Limits are the resource ceilings of a run.
type Limits struct {
	Time          time.Duration
	Lines         int
	MaxDepth      int
	WarnThreshold float64
}

// LimitsFromConfig returns the [Limits] of a validated configuration.
func LimitsFromConfig(c *config.Config) Limits {
	return Limits{
		Time:          time.Duration(c.TimeBudgetMs) * time.Millisecond,
		Lines:         c.SizeBudgetLines,
		MaxDepth:      c.MaxCallDepth,
		WarnThreshold: c.WarnThreshold,
	}
}

// DegradedDepth is the effective call depth after degradation.
func DegradedDepth(maxDepth int) int {
	const reduction = 2

	return max(1, maxDepth-reduction)
}

// State is a snapshot of a [Controller].
type State struct {
	Elapsed  time.Duration
	Lines    int
	Depth    int
	Degraded bool
	Reason   Reason
}

// Controller is the budget of a single worker.
//
// It has two states, normal and degraded. The transition is one-way: once degraded, the
// effective call depth is reduced and never increases again.
type Controller struct {
	clock  clock.PassiveClock
	start  time.Time
	limits Limits

	lines    int
	depth    int
	degraded bool
	reason   Reason
}

// NewController creates a [Controller] whose time budget started at start.
func NewController(c clock.PassiveClock, start time.Time, limits Limits) *Controller {
	if c == nil {
		c = clock.RealClock{}
	}

	return &Controller{
		clock:  c,
		start:  start,
		limits: limits,
		depth:  limits.MaxDepth,
	}
}

// AddLines consumes n lines of the size budget.
func (c *Controller) AddLines(n int) {
	if n > 0 {
		c.lines += n
	}
}

// Check evaluates the triggers without consuming budget and reports whether the controller is degraded.
func (c *Controller) Check() bool {
	if c.degraded {
		return true
	}

	if reason := c.trigger(); reason != None {
		c.Degrade(reason)
	}

	return c.degraded
}

func (c *Controller) trigger() Reason {
	elapsed := c.clock.Since(c.start)

	switch {
	case elapsed >= c.limits.Time:
		return Time

	case c.lines >= c.limits.Lines:
		return Size
	}

	if w := c.limits.WarnThreshold; w > 0 && w < 1 {
		switch {
		case float64(elapsed) >= w*float64(c.limits.Time):
			return TimeWarning

		case float64(c.lines) >= w*float64(c.limits.Lines):
			return SizeWarning
		}
	}

	return None
}

// Expired reports whether the time budget is exhausted, degrading the controller when it is.
func (c *Controller) Expired() bool {
	if c.clock.Since(c.start) < c.limits.Time {
		return false
	}

	c.Degrade(Time)

	return true
}

// Degrade switches to degraded mode. It reports whether this call made the transition.
func (c *Controller) Degrade(reason Reason) bool {
	if c.degraded || reason == None {
		return false
	}

	c.degraded, c.reason = true, reason
	c.depth = min(c.depth, DegradedDepth(c.limits.MaxDepth))

	return true
}

// Degraded reports whether the controller is degraded, without evaluating triggers.
func (c *Controller) Degraded() bool {
	return c.degraded
}

// EffectiveDepth is the call depth available to the resolver.
func (c *Controller) EffectiveDepth() int {
	return c.depth
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	return State{
		Elapsed:  c.clock.Since(c.start),
		Lines:    c.lines,
		Depth:    c.depth,
		Degraded: c.degraded,
		Reason:   c.reason,
	}
}
