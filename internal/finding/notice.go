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

package finding

import (
	"fmt"

	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/severity"
)

// Sources of run-level notices.
const (
	SourceDegraded = "sinkguard/degraded"
	SourceSkipped  = "sinkguard/skipped"
)

// Degradation is the informational notice describing a degraded run.
func Degradation(at Location, s budget.State) Finding {
	return Finding{
		ID:       ID(SourceDegraded, "", at),
		Severity: severity.Low,
		Location: at,
		Message: fmt.Sprintf("analysis degraded: %s after %d lines, call depth reduced to %d",
			s.Reason, s.Lines, s.Depth),
		Source: SourceDegraded,
		Metadata: Metadata{
			OriginalSeverity: severity.Low,
			Degraded:         true,
			DegradedReason:   s.Reason.String(),
		},
	}
}

// Skipped is the informational notice for a unit that could not be analyzed.
func Skipped(at Location, err error) Finding {
	return Finding{
		ID:       ID(SourceSkipped, "", at),
		Severity: severity.Low,
		Location: at,
		Message:  fmt.Sprintf("analysis skipped: %v", err),
		Source:   SourceSkipped,
		Metadata: Metadata{OriginalSeverity: severity.Low},
	}
}
