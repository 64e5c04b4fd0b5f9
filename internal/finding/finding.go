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

// Package finding assembles the findings of an analysis run.
package finding

import (
	"cmp"
	"go/token"
	"slices"

	"fillmore-labs.com/sinkguard/internal/coverage"
	"fillmore-labs.com/sinkguard/internal/severity"
)

// Location is a source position.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// Compare orders locations by file, line and column.
func (l Location) Compare(o Location) int {
	return cmp.Or(
		cmp.Compare(l.File, o.File),
		cmp.Compare(l.Line, o.Line),
		cmp.Compare(l.Column, o.Column),
	)
}

// Finding is a single analyzer result.
type Finding struct {
	ID       string            `json:"id"`
	Severity severity.Severity `json:"severity"`
	Class    string            `json:"class,omitempty"`
	Location
	Message  string   `json:"message"`
	Source   string   `json:"source"`
	Metadata Metadata `json:"metadata"`

	// Pos is the position in the analyzed file set, for diagnostics.
	Pos token.Pos `json:"-"`
}

// Metadata is the mitigation provenance of a [Finding].
type Metadata struct {
	MitigationStatus     coverage.Status      `json:"mitigation-status"`
	OriginalSeverity     severity.Severity    `json:"original-severity"`
	PathsCovered         int                  `json:"paths-covered"`
	PathsTotal           int                  `json:"paths-total"`
	PathsTruncated       bool                 `json:"paths-truncated,omitempty"`
	UnprotectedPaths     []string             `json:"unprotected-paths,omitempty"`
	MitigationsDetected  []MitigationInstance `json:"mitigations-detected,omitempty"`
	CrossFileMitigations []MitigationInstance `json:"cross-file-mitigations,omitempty"`
	DeprecatedMatches    []MitigationInstance `json:"deprecated-matches,omitempty"`
	Degraded             bool                 `json:"degraded,omitempty"`
	DegradedReason       string               `json:"degraded-reason,omitempty"`
	PatternTimeouts      []string             `json:"pattern-timeouts,omitempty"`
}

// Compare orders findings by file, line, column and source.
func (f *Finding) Compare(o *Finding) int {
	return cmp.Or(
		f.Location.Compare(o.Location),
		cmp.Compare(f.Source, o.Source),
		cmp.Compare(f.Message, o.Message),
	)
}

// Sort sorts findings in report order.
func Sort(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int { return a.Compare(&b) })
}
