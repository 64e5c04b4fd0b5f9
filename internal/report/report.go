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

// Package report renders findings as analyzer diagnostics and SARIF logs.
package report

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"runtime/trace"
	"strings"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/sinkguard/internal/finding"
)

// Diagnostics reports findings on the pass.
//
// The category of a diagnostic is the defect class, or the notice kind for run-level notices.
// Mitigations found through function calls are attached as related information, one entry per
// call hop, followed by the unprotected paths.
func Diagnostics(ctx context.Context, p *analysis.Pass, findings []finding.Finding) {
	if len(findings) == 0 {
		return
	}

	defer trace.StartRegion(ctx, "Diagnostics").End()

	files := fileIndex(p)

	for i := range findings {
		f := &findings[i]

		pos := f.Pos
		if !pos.IsValid() {
			pos = files.pos(f.Location)
		}

		if !pos.IsValid() {
			continue
		}

		p.Report(analysis.Diagnostic{
			Pos:      pos,
			Category: category(f),
			Message:  diagnosticMessage(f),
			Related:  related(f, pos, files),
		})
	}
}

func category(f *finding.Finding) string {
	if f.Class != "" {
		return f.Class
	}

	return strings.TrimPrefix(f.Source, "sinkguard/")
}

// diagnosticMessage drops the location prefix of the finding message, the driver prints its own.
func diagnosticMessage(f *finding.Finding) string {
	msg := f.Message
	if f.Line > 0 {
		msg = strings.TrimPrefix(msg, fmt.Sprintf("%s:%d: ", filepath.Base(f.File), f.Line))
	}

	if f.Class == "" {
		return msg
	}

	return fmt.Sprintf("%s (%s)", msg, f.Severity)
}

func related(f *finding.Finding, at token.Pos, files files) []analysis.RelatedInformation {
	var rel []analysis.RelatedInformation

	for _, m := range f.Metadata.CrossFileMitigations {
		for i, hop := range m.CallChain {
			if i == 0 {
				continue // the function containing the sink
			}

			pos := files.pos(finding.Location{File: hop.File, Line: hop.Line})
			if !pos.IsValid() {
				continue
			}

			msg := fmt.Sprintf("via %s", hop.Func)
			if i == len(m.CallChain)-1 {
				msg = fmt.Sprintf("mitigated by %s in %s", m.PatternID, hop.Func)
			}

			rel = append(rel, analysis.RelatedInformation{Pos: pos, Message: msg})
		}
	}

	for _, u := range f.Metadata.UnprotectedPaths {
		rel = append(rel, analysis.RelatedInformation{Pos: at, Message: "unprotected path: " + u})
	}

	return rel
}

// files maps file names to the files of a pass.
type files map[string]*token.File

func fileIndex(p *analysis.Pass) files {
	idx := make(files, len(p.Files))
	for _, f := range p.Files {
		if tf := p.Fset.File(f.Package); tf != nil {
			idx[tf.Name()] = tf
		}
	}

	return idx
}

// pos returns the start of the line of l, or [token.NoPos] when it is not part of the pass.
func (idx files) pos(l finding.Location) token.Pos {
	tf, ok := idx[l.File]
	if !ok || l.Line < 1 || l.Line > tf.LineCount() {
		return token.NoPos
	}

	return tf.LineStart(l.Line)
}
