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

// Package coverage turns path-level mitigation proof into a severity decision.
package coverage

import (
	"fillmore-labs.com/sinkguard/internal/severity"
)

// Status is the mitigation status of a candidate defect.
type Status uint8

//go:generate go tool stringer -type Status -linecomment
const (
	// None means no path is mitigated.
	None Status = iota // none
	// Partial means some, but not all paths are mitigated.
	Partial // partial
	// Full means every path is mitigated.
	Full // full
)

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the coverage decision for a candidate defect.
type Result struct {
	PathsTotal   int
	PathsCovered int

	// Coverage is PathsCovered / PathsTotal, 0 when there are no paths.
	Coverage float64

	Status     Status
	Downgrade  int
	Suppressed bool
}

// Evaluate applies the downgrade policy:
//
//	coverage = 1       full     suppressed
//	coverage >= 0.75   partial  2 levels
//	coverage >= 0.50   partial  1 level
//	coverage <  0.50   partial or none, no downgrade
//
// Thresholds are compared in integer arithmetic.
func Evaluate(pathsTotal, pathsCovered int) Result {
	pathsTotal = max(pathsTotal, 0)
	pathsCovered = min(max(pathsCovered, 0), pathsTotal)

	r := Result{PathsTotal: pathsTotal, PathsCovered: pathsCovered}

	if pathsTotal == 0 {
		return r
	}

	r.Coverage = float64(pathsCovered) / float64(pathsTotal)

	switch covered, total := int64(pathsCovered), int64(pathsTotal); {
	case covered == total:
		r.Status, r.Suppressed = Full, true

	case 4*covered >= 3*total:
		r.Status, r.Downgrade = Partial, 2

	case 2*covered >= total:
		r.Status, r.Downgrade = Partial, 1

	case covered > 0:
		r.Status = Partial
	}

	return r
}

// Apply returns the severity of a finding with coverage result r.
func Apply(s severity.Severity, r Result) severity.Severity {
	return s.Downgrade(r.Downgrade)
}
