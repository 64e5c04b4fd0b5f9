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
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/coverage"
	"fillmore-labs.com/sinkguard/internal/pattern"
	"fillmore-labs.com/sinkguard/internal/severity"
)

// Defect is a candidate defect at a sink.
type Defect struct {
	Class    pattern.DefectClass
	Source   string // id of the sink pattern
	Sink     string // what is called or dereferenced
	Severity severity.Severity
	Location
}

// Evidence is the result of the mitigation search for a [Defect].
type Evidence struct {
	Unprotected []string
	Truncated   bool
	Mitigations []MitigationInstance
	Deprecated  []MitigationInstance
	Timeouts    []string
}

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://fillmore-labs.com/sinkguard"))

// OmittedPaths describes the paths left out when enumeration was truncated.
// They count as one unprotected path.
const OmittedPaths = "paths beyond the enumeration limit"

// maxListed is the number of unprotected paths spelled out in a message.
const maxListed = 3

// Assemble builds the finding for a defect. It returns false when the defect is fully mitigated.
//
// The result depends only on the arguments: identical inputs yield identical findings.
func Assemble(d Defect, c coverage.Result, ev Evidence, b budget.State) (Finding, bool) {
	if c.Suppressed {
		return Finding{}, false
	}

	mitigations := sorted(ev.Mitigations)

	var crossFunction []MitigationInstance
	for _, m := range mitigations {
		if m.CrossFunction() {
			crossFunction = append(crossFunction, m)
		}
	}

	var timeouts []string
	if len(ev.Timeouts) > 0 {
		timeouts = slices.Clone(ev.Timeouts)
		slices.Sort(timeouts)
		timeouts = slices.Compact(timeouts)
	}

	f := Finding{
		ID:       ID(d.Source, d.Class.String(), d.Location),
		Severity: coverage.Apply(d.Severity, c),
		Class:    d.Class.String(),
		Location: d.Location,
		Message:  message(d, c, ev.Unprotected),
		Source:   d.Source,
		Metadata: Metadata{
			MitigationStatus:     c.Status,
			OriginalSeverity:     d.Severity,
			PathsCovered:         c.PathsCovered,
			PathsTotal:           c.PathsTotal,
			PathsTruncated:       ev.Truncated,
			UnprotectedPaths:     slices.Clone(ev.Unprotected),
			MitigationsDetected:  mitigations,
			CrossFileMitigations: crossFunction,
			DeprecatedMatches:    sorted(ev.Deprecated),
			PatternTimeouts:      timeouts,
		},
	}

	if b.Degraded {
		f.Metadata.Degraded, f.Metadata.DegradedReason = true, b.Reason.String()
	}

	return f, true
}

func sorted(ms []MitigationInstance) []MitigationInstance {
	if len(ms) == 0 {
		return nil
	}

	ms = slices.Clone(ms)
	slices.SortFunc(ms, MitigationInstance.compare)

	return slices.CompactFunc(ms, func(a, b MitigationInstance) bool { return a.compare(b) == 0 })
}

func message(d Defect, c coverage.Result, unprotected []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s:%d: %s in %s, %d of %d paths mitigated",
		filepath.Base(d.File), d.Line, d.Class.Description(), d.Sink, c.PathsCovered, c.PathsTotal)

	if len(unprotected) == 0 {
		return b.String()
	}

	b.WriteString("; unprotected: ")

	for i, u := range unprotected[:min(len(unprotected), maxListed)] {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(u)
	}

	if more := len(unprotected) - maxListed; more > 0 {
		fmt.Fprintf(&b, " and %d more", more)
	}

	return b.String()
}

// ID returns a stable identifier for a finding.
func ID(source, class string, l Location) string {
	key := strings.Join([]string{source, class, l.File, strconv.Itoa(l.Line), strconv.Itoa(l.Column)}, "\x00")

	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// DescribePath returns a human-readable descriptor of a path through the given lines.
func DescribePath(lines []int) string {
	var b strings.Builder

	b.WriteString("lines ")

	for i, l := range lines {
		if i > 0 {
			if l == lines[i-1] {
				continue
			}

			b.WriteString("->")
		}

		b.WriteString(strconv.Itoa(l))
	}

	return b.String()
}
