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

package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "fillmore-labs.com/sinkguard/internal/coverage"
	"fillmore-labs.com/sinkguard/internal/severity"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		total, covered int
		status         Status
		downgrade      int
		suppressed     bool
	}{
		{"NoPaths", 0, 0, None, 0, false},
		{"Uncovered", 4, 0, None, 0, false},
		{"OneOfFour", 4, 1, Partial, 0, false},
		{"Half", 4, 2, Partial, 1, false},
		{"ThreeOfFour", 4, 3, Partial, 2, false},
		{"All", 4, 4, Full, 0, true},
		{"Single", 1, 1, Full, 0, true},
		{"TwoOfThree", 3, 2, Partial, 1, false},
		{"OverCovered", 2, 3, Full, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Evaluate(tt.total, tt.covered)

			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.downgrade, r.Downgrade)
			assert.Equal(t, tt.suppressed, r.Suppressed)
			assert.LessOrEqual(t, r.PathsCovered, r.PathsTotal)
		})
	}
}

// TestPolicy checks the downgrade table across the coverage domain.
func TestPolicy(t *testing.T) {
	t.Parallel()

	for total := 1; total <= 400; total++ {
		for covered := 0; covered <= total; covered++ {
			r := Evaluate(total, covered)
			c := float64(covered) / float64(total)

			assert.InDelta(t, c, r.Coverage, 1e-12)

			switch {
			case c == 1:
				if !r.Suppressed || r.Status != Full || r.Downgrade != 0 {
					t.Fatalf("%d/%d: got %+v, want suppressed", covered, total, r)
				}

			case c >= 0.75:
				if r.Suppressed || r.Status != Partial || r.Downgrade != 2 {
					t.Fatalf("%d/%d: got %+v, want downgrade 2", covered, total, r)
				}

			case c >= 0.5:
				if r.Suppressed || r.Status != Partial || r.Downgrade != 1 {
					t.Fatalf("%d/%d: got %+v, want downgrade 1", covered, total, r)
				}

			default:
				if r.Suppressed || r.Downgrade != 0 || (covered == 0) != (r.Status == None) {
					t.Fatalf("%d/%d: got %+v, want no downgrade", covered, total, r)
				}
			}
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	partial := Evaluate(4, 3)

	assert.Equal(t, severity.Low, Apply(severity.High, partial))
	assert.Equal(t, severity.Medium, Apply(severity.Critical, partial))
	assert.Equal(t, severity.Low, Apply(severity.Low, partial))
	assert.Equal(t, severity.High, Apply(severity.High, Evaluate(4, 1)))
	assert.Equal(t, severity.Medium, Apply(severity.High, Evaluate(4, 2)))
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	text, err := Partial.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "partial", string(text))
}
