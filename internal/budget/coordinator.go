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

package budget

import (
	"time"

	"k8s.io/utils/clock"
)

// Usage is reported by a worker after finishing a unit.
type Usage struct {
	Unit  int
	State State
}

// Summary is the run-level outcome collected by a [Coordinator].
type Summary struct {
	// Lines is the total number of lines analyzed.
	Lines int

	// Degraded reports whether any unit degraded.
	Degraded bool

	// Unit is the earliest degraded unit in unit order, State its final state.
	Unit  int
	State State
}

// Coordinator hands out per-unit [Controller]s and merges their usage.
//
// Each unit gets a share of the size budget proportional to its line count, so size-triggered
// degradation does not depend on scheduling. All units share the run's wall-clock deadline.
// When a unit degrades because of time, the coordinator broadcasts the degradation to units
// that have not started yet.
type Coordinator struct {
	clock  clock.PassiveClock
	start  time.Time
	limits Limits
	shares []int

	usage   chan Usage
	degrade chan struct{} // closed to broadcast
	reason  Reason        // written before degrade is closed
	done    chan Summary
}

// NewCoordinator creates a [Coordinator] for units with the given line counts and starts it.
// [Coordinator.Finish] must be called to release it.
func NewCoordinator(c clock.PassiveClock, limits Limits, unitLines []int) *Coordinator {
	if c == nil {
		c = clock.RealClock{}
	}

	co := &Coordinator{
		clock:   c,
		start:   c.Now(),
		limits:  limits,
		shares:  shares(limits.Lines, unitLines),
		usage:   make(chan Usage, len(unitLines)),
		degrade: make(chan struct{}),
		done:    make(chan Summary, 1),
	}

	go co.run(len(unitLines))

	return co
}

// shares divides the size budget proportionally to the unit sizes.
func shares(budget int, unitLines []int) []int {
	total := 0
	for _, l := range unitLines {
		total += l
	}

	s := make([]int, len(unitLines))
	for i, l := range unitLines {
		if total <= budget {
			s[i] = budget
			continue
		}

		s[i] = max(1, int(int64(budget)*int64(l)/int64(total)))
	}

	return s
}

// Share returns the size budget share of a unit.
func (co *Coordinator) Share(unit int) int {
	return co.shares[unit]
}

// Begin returns the controller for a unit about to start.
func (co *Coordinator) Begin(unit int) *Controller {
	limits := co.limits
	limits.Lines = co.shares[unit]

	c := NewController(co.clock, co.start, limits)

	select {
	case <-co.degrade:
		c.Degrade(co.reason)
	default:
	}

	return c
}

// Report sends the final usage of a unit to the coordinator.
func (co *Coordinator) Report(u Usage) {
	co.usage <- u
}

// Finish waits for all reports and returns the run summary.
func (co *Coordinator) Finish() Summary {
	close(co.usage)

	return <-co.done
}

func (co *Coordinator) run(units int) {
	var (
		summary    Summary
		broadcast  bool
		degraded   = make([]bool, units)
		states     = make([]State, units)
		firstState = -1
	)

	for u := range co.usage {
		summary.Lines += u.State.Lines
		states[u.Unit] = u.State

		if !u.State.Degraded {
			continue
		}

		degraded[u.Unit] = true

		if !broadcast && (u.State.Reason == Time || u.State.Reason == TimeWarning) {
			co.reason, broadcast = u.State.Reason, true
			close(co.degrade)
		}
	}

	for i, d := range degraded {
		if d {
			firstState = i
			break
		}
	}

	if firstState >= 0 {
		summary.Degraded = true
		summary.Unit, summary.State = firstState, states[firstState]
	}

	co.done <- summary
}
