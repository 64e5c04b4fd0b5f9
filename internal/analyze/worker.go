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
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"log/slog"
	"runtime/trace"

	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/coverage"
	"fillmore-labs.com/sinkguard/internal/finding"
	"fillmore-labs.com/sinkguard/internal/flow"
	"fillmore-labs.com/sinkguard/internal/resolve"
)

// worker analyzes single files. Its fields are shared read-only between concurrent files.
type worker struct {
	pkg      resolve.Package
	detector detector
	maxPaths int
	resolve  resolve.Options
	logger   *slog.Logger
}

type fileResult struct {
	findings []finding.Finding
	stats    Stats
	skipped  *MalformedInputError
}

// file analyzes all functions of a file with the budget share of unit.
func (w *worker) file(ctx context.Context, co *budget.Coordinator, unit int, cf astutil.CurrentFile, f *ast.File) (res fileResult, err error) {
	defer trace.StartRegion(ctx, "File").End()

	ctrl := co.Begin(unit)
	defer func() { co.Report(budget.Usage{Unit: unit, State: ctrl.State()}) }()

	defer func() {
		if r := recover(); r != nil {
			res, err = fileResult{}, fmt.Errorf("%s: panic: %v", cf.Name(), r)
		}
	}()

	opts := w.resolve
	opts.Budget = ctrl

	r := resolve.New(ctx, w.pkg, opts)

	for _, decl := range f.Decls {
		fun, ok := decl.(*ast.FuncDecl)
		if !ok || fun.Body == nil {
			continue
		}

		// Skip functions with nolint comment
		if fun.Doc != nil && astutil.CommentHasNoLint(fun.Doc.List[len(fun.Doc.List)-1]) {
			continue
		}

		name := fun.Name.Name
		if obj, ok := w.pkg.Info.Defs[fun.Name].(*types.Func); ok {
			name = resolve.DisplayName(obj)
		}

		ctrl.AddLines(cf.Lines(fun))

		if err = w.function(ctx, ctrl, r, cf, &res, name, fun, fun.Body); err != nil {
			return failed(err)
		}

		// Function literals are separate functions
		lit := 0
		ast.Inspect(fun.Body, func(n ast.Node) bool {
			fl, ok := n.(*ast.FuncLit)
			if !ok || err != nil {
				return err == nil
			}

			lit++
			err = w.function(ctx, ctrl, r, cf, &res, fmt.Sprintf("%s.func%d", name, lit), fl, fl.Body)

			return err == nil
		})

		if err != nil {
			return failed(err)
		}
	}

	return res, nil
}

// failed skips the file on malformed input and fails the run otherwise.
func failed(err error) (fileResult, error) {
	var bad *MalformedInputError
	if errors.As(err, &bad) {
		return fileResult{skipped: bad}, nil
	}

	return fileResult{}, err
}

// function analyzes the candidate defects of a single function body.
// Lines are accounted for by the caller, function literals are part of their declaration.
func (w *worker) function(ctx context.Context, ctrl *budget.Controller, r *resolve.Resolver,
	cf astutil.CurrentFile, res *fileResult, name string, fn ast.Node, body *ast.BlockStmt,
) error {
	candidates := w.detector.candidates(body)
	if len(candidates) == 0 {
		return nil
	}

	g := flow.Func(ctx, w.pkg.Info, fn)
	if err := g.Build(); err != nil {
		return &MalformedInputError{File: cf.Name(), Pos: fn.Pos(), Reason: err.Error()}
	}

	for _, c := range candidates {
		if cf.NoLintComment(c.node.Pos()) {
			continue
		}

		// A dereference that can't follow the assignment of the nil source is not a candidate.
		if c.origin.IsValid() {
			if reachable, ok := g.Reachable(c.origin, c.node.Pos()); ok && !reachable {
				continue
			}
		}

		degraded := ctrl.Degraded()

		f, ok, stats, err := w.defect(ctrl, r, cf, g, name, c)
		if err != nil {
			return err
		}

		res.stats.add(stats)
		if ok {
			res.findings = append(res.findings, f)
		}

		w.checkBudget(ctx, ctrl, cf.Name(), degraded)
	}

	return nil
}

// defect searches mitigations for a single candidate and assembles its finding.
func (w *worker) defect(ctrl *budget.Controller, r *resolve.Resolver, cf astutil.CurrentFile,
	g *flow.Graph, name string, c candidate,
) (finding.Finding, bool, Stats, error) {
	sink := c.node.Pos()

	var (
		paths     []flow.Path
		truncated bool
	)

	if target, ok := g.Block(sink); ok {
		paths, truncated = g.Paths(target, w.maxPaths)
	}

	res, err := r.Cover(g, paths, sink, resolve.Query{
		Class: c.class,
		Var:   c.varName,
		Depth: ctrl.EffectiveDepth(),
		Func:  name,
	})
	if err != nil {
		return finding.Finding{}, false, Stats{}, fmt.Errorf("%s: %w", name, err)
	}

	covered := 0
	var unprotected []string

	blocks := g.Blocks()
	sinkLine, sinkColumn := cf.Position(sink)

	for i, path := range paths {
		if res.Covered[i] {
			covered++
			continue
		}

		lines := make([]int, 0, len(path)+1)
		for _, b := range path {
			line, _ := cf.Position(blocks[b].Start)
			lines = append(lines, line)
		}

		unprotected = append(unprotected, finding.DescribePath(append(lines, sinkLine)))
	}

	// Paths beyond the enumeration limit are not proven mitigated.
	total := len(paths)
	if truncated {
		total++
		unprotected = append(unprotected, finding.OmittedPaths)
	}

	d := finding.Defect{
		Class:    c.class,
		Source:   c.sink.ID,
		Sink:     c.name,
		Severity: c.sink.Severity,
		Location: finding.Location{File: cf.Name(), Line: sinkLine, Column: sinkColumn},
	}

	ev := finding.Evidence{
		Unprotected: unprotected,
		Truncated:   truncated,
		Mitigations: res.Mitigations,
		Deprecated:  res.Deprecated,
		Timeouts:    res.Timeouts,
	}

	cov := coverage.Evaluate(total, covered)

	stats := Stats{Candidates: 1, Timeouts: len(res.Timeouts), Paths: []int{len(paths)}}

	f, ok := finding.Assemble(d, cov, ev, ctrl.State())
	if !ok {
		stats.Suppressed = 1
		return finding.Finding{}, false, stats, nil
	}

	f.Pos = sink

	return f, true, stats, nil
}

// checkBudget evaluates the budget triggers after a defect and logs the transition to degraded mode,
// which may also have happened during the mitigation search.
func (w *worker) checkBudget(ctx context.Context, ctrl *budget.Controller, file string, degraded bool) {
	if degraded || !ctrl.Check() {
		return
	}

	s := ctrl.State()
	w.logger.LogAttrs(ctx, slog.LevelInfo, "analysis degraded",
		slog.String("file", file),
		slog.String("reason", s.Reason.String()),
		slog.Int("lines", s.Lines),
		slog.Int("depth", s.Depth),
	)
}
