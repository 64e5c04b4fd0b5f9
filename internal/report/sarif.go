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

package report

import (
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"fillmore-labs.com/sinkguard/internal/finding"
	"fillmore-labs.com/sinkguard/internal/severity"
)

const informationURI = "https://pkg.go.dev/fillmore-labs.com/sinkguard"

// SARIF converts findings to a SARIF 2.1.0 log.
//
// Each finding source becomes a rule. The finding id is the result fingerprint, the mitigation
// metadata is attached as result properties and cross-function mitigations as related locations.
func SARIF(findings []finding.Finding, version string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("can't create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("sinkguard", informationURI)
	if version != "" {
		run.Tool.Driver.WithVersion(version)
	}

	for i := range findings {
		f := &findings[i]

		rule := run.AddRule(f.Source)
		if rule.ShortDescription == nil {
			description := "run notice"
			if f.Class != "" {
				description = f.Class
			}

			rule.WithDescription(description).
				WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(level(f.Metadata.OriginalSeverity)))
		}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(level(f.Severity)).
			WithLocations([]*sarif.Location{location(f.Location)}).
			WithFingerPrints(map[string]any{"sinkguard/v1": f.ID})

		for _, m := range f.Metadata.CrossFileMitigations {
			result.AddRelatedLocation(location(m.Location).
				WithDescriptionText(fmt.Sprintf("%s at call depth %d", m.PatternID, m.DiscoveryDepth)))
		}

		result.AttachPropertyBag(properties(f))

		run.AddResult(result)
	}

	report.AddRun(run)

	return report, nil
}

func location(l finding.Location) *sarif.Location {
	region := sarif.NewRegion().WithStartLine(max(l.Line, 1))
	if l.Column > 0 {
		region.WithStartColumn(l.Column)
	}

	return sarif.NewLocationWithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(l.File)).
			WithRegion(region),
	)
}

func properties(f *finding.Finding) *sarif.PropertyBag {
	md := &f.Metadata

	pb := sarif.NewPropertyBag()
	pb.AddString("severity", f.Severity.String())
	pb.AddString("original-severity", md.OriginalSeverity.String())

	if f.Class == "" {
		if md.Degraded {
			pb.AddString("degraded-reason", md.DegradedReason)
		}

		return pb
	}

	pb.AddString("mitigation-status", md.MitigationStatus.String())
	pb.AddInteger("paths-covered", md.PathsCovered)
	pb.AddInteger("paths-total", md.PathsTotal)

	if md.PathsTruncated {
		pb.AddBoolean("paths-truncated", true)
	}

	if len(md.UnprotectedPaths) > 0 {
		pb.Add("unprotected-paths", md.UnprotectedPaths)
	}

	if len(md.MitigationsDetected) > 0 {
		pb.Add("mitigations-detected", md.MitigationsDetected)
	}

	if len(md.DeprecatedMatches) > 0 {
		pb.Add("deprecated-matches", md.DeprecatedMatches)
	}

	if len(md.PatternTimeouts) > 0 {
		pb.Add("pattern-timeouts", md.PatternTimeouts)
	}

	if md.Degraded {
		pb.AddBoolean("degraded", true)
		pb.AddString("degraded-reason", md.DegradedReason)
	}

	return pb
}

// level maps a severity to a SARIF result level.
func level(s severity.Severity) string {
	switch s {
	case severity.Critical, severity.High:
		return "error"
	case severity.Medium:
		return "warning"
	default:
		return "note"
	}
}
