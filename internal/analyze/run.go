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

package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"runtime"
	"runtime/trace"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/finding"
	"fillmore-labs.com/sinkguard/internal/flow/tracker"
	"fillmore-labs.com/sinkguard/internal/pattern"
	"fillmore-labs.com/sinkguard/internal/resolve"
)

// Run analyzes a unit with a compiled catalog.
//
// Files are analyzed in parallel. Malformed files are skipped and reported as notices, an
// error is returned only for failures of the analyzer itself.
func Run(ctx context.Context, u Unit, catalog *pattern.Catalog, opts *Options) (Result, error) {
	defer trace.StartRegion(ctx, "Analyze").End()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	cfg := &opts.Config

	var (
		result   Result
		files    []*ast.File
		current  []astutil.CurrentFile
		rejected = make(map[*ast.File]*MalformedInputError)
	)

	for _, f := range u.Files {
		cf := astutil.NewCurrentFile(u.Fset, f)

		if err := checkFile(u.Fset, f, cf); err != nil {
			rejected[f] = err
			continue
		}

		// Skip generated files
		if cf.Generated() && !opts.Behavior.Enabled(config.IncludeGenerated) {
			continue
		}

		// Skip files with nolint comment
		if f.Doc != nil && astutil.CommentHasNoLint(f.Doc.List[len(f.Doc.List)-1]) {
			continue
		}

		files, current = append(files, f), append(current, cf)
	}

	limits := budget.LimitsFromConfig(cfg)

	logger.LogAttrs(ctx, slog.LevelDebug, "sinkguard run",
		slog.Int("files", len(files)),
		slog.Int("max-call-depth", limits.MaxDepth),
		slog.Duration("time-budget", limits.Time),
		slog.Int("size-budget", limits.Lines),
		slog.Int("patterns", len(catalog.All())),
	)

	matcher := pattern.NewMatcher(clk, time.Duration(cfg.PatternTimeoutMs)*time.Millisecond)
	source := astutil.NewSource(u.Fset, files, u.ReadFile)

	w := &worker{
		pkg: resolve.Package{
			Fset:    u.Fset,
			Info:    u.Info,
			Arena:   resolve.NewArena(u.Fset, u.Info, files),
			Source:  source,
			Catalog: catalog,
			Matcher: matcher,
		},
		maxPaths: cfg.MaxPaths,
		resolve: resolve.Options{
			MaxPaths:         cfg.MaxPaths,
			ReportDeprecated: opts.Behavior.Enabled(config.ReportDeprecated),
		},
		logger: logger,
	}

	w.detector = detector{
		info:    u.Info,
		catalog: catalog,
		matcher: matcher,
		source:  source,
		tracker: tracker.New(u.Info),
	}

	unitLines := make([]int, len(files))
	for i, f := range files {
		unitLines[i] = current[i].Lines(f)
	}

	co := budget.NewCoordinator(clk, limits, unitLines)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			res, err := w.file(gctx, co, i, current[i], f)
			results[i] = res

			return err
		})
	}

	err := g.Wait()
	result.Budget = co.Finish()

	if err != nil {
		return Result{}, err
	}

	next := 0
	for _, f := range u.Files {
		if bad, ok := rejected[f]; ok {
			result.skip(u.Fset, bad)
			continue
		}

		if next >= len(files) || files[next] != f {
			continue // generated or excluded
		}

		res := results[next]
		next++

		if res.skipped != nil {
			result.skip(u.Fset, res.skipped)
			continue
		}

		result.Findings = append(result.Findings, res.findings...)
		result.Stats.add(res.stats)
	}

	if b := result.Budget; b.Degraded {
		at := finding.Location{File: current[b.Unit].Name(), Line: 1}
		result.Findings = append(result.Findings, finding.Degradation(at, b.State))

		logger.LogAttrs(ctx, slog.LevelInfo, "run degraded",
			slog.String("file", at.File),
			slog.String("reason", b.State.Reason.String()),
			slog.Int("lines", b.Lines),
		)
	}

	finding.Sort(result.Findings)

	return result, nil
}

func (r *Result) skip(fset *token.FileSet, err *MalformedInputError) {
	r.Skipped = append(r.Skipped, err)

	at := finding.Location{File: err.File}
	if err.Pos.IsValid() {
		at.Line = fset.PositionFor(err.Pos, false).Line
	}

	f := finding.Skipped(at, err)
	f.Pos = err.Pos
	r.Findings = append(r.Findings, f)
}

// checkFile rejects files without position information or with syntax errors.
func checkFile(fset *token.FileSet, f *ast.File, cf astutil.CurrentFile) *MalformedInputError {
	if !cf.Valid() || !astutil.HasPositions(fset, f) {
		name := "<unknown>"
		if f.Name != nil {
			name = "package " + f.Name.Name
		}

		return &MalformedInputError{File: name, Reason: "missing position information"}
	}

	if bad := astutil.FirstBadNode(f); bad != nil {
		line, column := cf.Position(bad.Pos())

		return &MalformedInputError{
			File:   cf.Name(),
			Pos:    bad.Pos(),
			Reason: fmt.Sprintf("syntax error at %d:%d", line, column),
		}
	}

	return nil
}
