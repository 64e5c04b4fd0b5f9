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

package analyzer

import (
	"reflect"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/sinkguard/internal/run"
)

// Public API constants for the sinkguard analyzer.
const (
	name = "sinkguard"
	doc  = `sinkguard reports security-sensitive sinks that are not mitigated on every control-flow path`
	url  = "https://pkg.go.dev/fillmore-labs.com/sinkguard"
)

// New creates a new instance of the sinkguard analyzer.
// It allows for programmatic configuration using [Option], which is useful
// for integrating the analyzer into other tools. For command-line use, the
// pre-configured [Analyzer] variable is typically sufficient.
func New(opts ...Option) *analysis.Analyzer {
	r := run.DefaultOptions()
	Options(opts).apply(r)

	a := &analysis.Analyzer{
		Name: name,
		Doc:  doc,
		URL:  url,
		Run:  r.Run,

		ResultType: reflect.TypeFor[*Result](),
	}

	registerFlags(&a.Flags, r)

	return a
}

// Result is the result of the analyzer for a package, holding the findings and their SARIF log.
//
// Analyzers listing sinkguard in their Requires read it from [analysis.Pass.ResultOf].
type Result = run.Result

// Analyzer is a pre-configured *[analysis.Analyzer] for detecting unmitigated sinks.
var Analyzer = New()
