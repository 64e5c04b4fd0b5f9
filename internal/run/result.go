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


package run

import (
	"runtime/debug"
	"sync"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"fillmore-labs.com/sinkguard/internal/finding"
)

// Result is the outcome of a pass, available to analyzers that require sinkguard.
type Result struct {
	// Findings in report order, including degradation and skipped file notices.
	Findings []finding.Finding

	// SARIF holds the findings as a SARIF 2.1.0 log, nil when the analyzer is disabled.
	SARIF *sarif.Report
}

const modulePath = "fillmore-labs.com/sinkguard"

// version is the module version of the analyzer as recorded in the build information.
var version = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	if info.Main.Path == modulePath && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	for _, m := range info.Deps {
		if m.Path == modulePath {
			return m.Version
		}
	}

	return ""
})
