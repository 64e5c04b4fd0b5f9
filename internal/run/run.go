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
	"context"
	"fmt"
	"log/slog"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/sinkguard/internal/analyze"
	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/report"
)

// Run executes the sinkguard analyzer's pipeline on a package.
//
// One pass is one run: budgets are per package and a degraded package gets its own notice.
// The result is a *[Result].
func (o *Options) Run(p *analysis.Pass) (any, error) {
	if !o.Config.Enabled {
		return &Result{}, nil
	}

	pre, err := o.prepare()
	if err != nil {
		return nil, fmt.Errorf("sinkguard: %w", err)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "SinkGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	opts := analyze.Options{
		Config:   o.Config,
		Behavior: o.Behavior,
		Workers:  o.Workers,
		Logger:   pre.logger.With(slog.String("package", p.Pkg.Path())),
	}

	unit := analyze.Unit{
		Fset:     p.Fset,
		Files:    p.Files,
		Info:     p.TypesInfo,
		ReadFile: p.ReadFile,
	}

	res, err := analyze.Run(ctx, unit, pre.catalog, &opts)
	if err != nil {
		if len(p.Files) == 0 {
			return nil, fmt.Errorf("sinkguard: %w", err)
		}

		astutil.InternalError(p, p.Files[0].Name, err)

		return &Result{}, nil
	}

	pre.metrics.Record(&res)

	report.Diagnostics(ctx, p, res.Findings)

	log, err := report.SARIF(res.Findings, version())
	if err != nil {
		return nil, fmt.Errorf("sinkguard: %w", err)
	}

	return &Result{Findings: res.Findings, SARIF: log}, nil
}
