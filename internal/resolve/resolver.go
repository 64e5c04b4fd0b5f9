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

package resolve

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/sinkguard/internal/finding"
	"fillmore-labs.com/sinkguard/internal/flow"
	"fillmore-labs.com/sinkguard/internal/flow/graph"
	"fillmore-labs.com/sinkguard/internal/flow/tracker"
	"fillmore-labs.com/sinkguard/internal/pattern"
)

// Source returns the source text of syntax nodes.
type Source interface {
	Text(n ast.Node) string
}

// Package is the immutable, shared input of all resolvers of a run.
type Package struct {
	Fset    *token.FileSet
	Info    *types.Info
	Arena   *Arena
	Source  Source
	Catalog *pattern.Catalog
	Matcher *pattern.Matcher
}

// Options are the search limits of a [Resolver].
type Options struct {
	// MaxPaths bounds the entry to exit paths enumerated per called function.
	MaxPaths int

	// ReportDeprecated collects matches of deprecated patterns.
	ReportDeprecated bool

	// Budget stops the search into called functions once expired. Nil means no limit.
	Budget Budget
}

// Budget bounds the effort of a [Resolver].
type Budget interface {
	// Expired reports whether the time budget is exhausted.
	Expired() bool
}

// Query describes the defect a mitigation is searched for.
type Query struct {
	Class pattern.DefectClass
	Var   string // Bound to ${var} in templates, empty when the defect has no variable
	Depth int    // Number of call hops to follow
	Func  string // Name of the function containing the defect
}

// Result is the mitigation proof for a set of paths.
type Result struct {
	Covered     []bool // Per path
	Mitigations []finding.MitigationInstance
	Deprecated  []finding.MitigationInstance
	Timeouts    []string // Sorted ids of patterns that timed out
}

// Resolver searches mitigations on control-flow paths and, recursively, in called functions.
//
// A Resolver caches graphs and partial results and is not safe for concurrent use.
// Use one Resolver per worker.
type Resolver struct {
	ctx     context.Context //nolint:containedctx
	pkg     Package
	opts    Options
	tracker tracker.Tracker

	graphs map[FuncIndex]*flow.Graph
	nodes  map[ast.Node]nodeInfo
	memo   map[memoKey]outcome
	fmemo  map[funcKey]outcome
	stack  map[FuncIndex]struct{}

	expired bool
}

type nodeInfo struct {
	subject pattern.Subject
	calls   []*ast.CallExpr
}

type memoKey struct {
	node  ast.Node
	class pattern.DefectClass
	name  string
	depth int
}

type funcKey struct {
	fun   FuncIndex
	class pattern.DefectClass
	depth int
}

// proof is a mitigation site and the call chain leading to it.
type proof struct {
	patternID string
	site      finding.Location
	chain     []finding.Hop
}

type outcome struct {
	proofs     []proof
	deprecated []proof
	timeouts   []string
}

// New creates a [Resolver].
func New(ctx context.Context, pkg Package, opts Options) *Resolver {
	return &Resolver{
		ctx:     ctx,
		pkg:     pkg,
		opts:    opts,
		tracker: tracker.New(pkg.Info),
		graphs:  make(map[FuncIndex]*flow.Graph),
		nodes:   make(map[ast.Node]nodeInfo),
		memo:    make(map[memoKey]outcome),
		fmemo:   make(map[funcKey]outcome),
		stack:   make(map[FuncIndex]struct{}),
	}
}

// Cover searches each path of g for a mitigation.
//
// Blocks are searched in path order and a path is covered at its first mitigated node. In the
// last block of a path only nodes starting at or before sink are searched. All mitigations
// of the covering node are reported, as are further mitigations on the rest of the path.
//
// Partial results are memoized even when a call cycle was cut while computing them. A cut only
// removes proofs, so a memoized result never claims a mitigation that does not exist.
func (r *Resolver) Cover(g *flow.Graph, paths []flow.Path, sink token.Pos, q Query) (Result, error) {
	defer trace.StartRegion(r.ctx, "cover").End()

	blocks := g.Blocks()
	res := Result{Covered: make([]bool, len(paths))}

	var proofs, deprecated []proof
	var timeouts []string

	for i, path := range paths {
		o, ok := r.firstProof(q.Func, blocks, path, sink, q.Class, q.Var, q.Depth, true)
		timeouts = append(timeouts, o.timeouts...)
		deprecated = append(deprecated, o.deprecated...)

		if ok {
			res.Covered[i] = true
			proofs = append(proofs, o.proofs...)
		}
	}

	var err error
	if res.Mitigations, err = instances(proofs); err != nil {
		return Result{}, err
	}

	if res.Deprecated, err = instances(deprecated); err != nil {
		return Result{}, err
	}

	if len(timeouts) > 0 {
		slices.Sort(timeouts)
		res.Timeouts = slices.Compact(timeouts)
	}

	return res, nil
}

func instances(proofs []proof) ([]finding.MitigationInstance, error) {
	if len(proofs) == 0 {
		return nil, nil
	}

	result := make([]finding.MitigationInstance, 0, len(proofs))
	for _, p := range proofs {
		m, err := finding.NewMitigationInstance(p.patternID, p.site, p.chain)
		if err != nil {
			return nil, err
		}

		result = append(result, m)
	}

	return result, nil
}

// firstProof searches the nodes of path up to limit for a mitigation. The returned outcome
// holds the proofs of the first mitigated node and the timeouts and deprecated matches seen.
// With all, the search continues past the first mitigated node and adds the proofs of the
// remaining nodes.
func (r *Resolver) firstProof(fn string, blocks []graph.Block, path flow.Path, limit token.Pos,
	class pattern.DefectClass, name string, depth int, all bool,
) (outcome, bool) {
	var (
		result  outcome
		covered bool
	)

	for j, b := range path {
		last := j == len(path)-1

		for _, n := range blocks[b].Nodes {
			if last && limit.IsValid() && n.Pos() > limit {
				break
			}

			o := r.node(fn, n, class, name, depth)
			result.timeouts = append(result.timeouts, o.timeouts...)
			result.deprecated = append(result.deprecated, o.deprecated...)

			if len(o.proofs) == 0 {
				continue
			}

			result.proofs = append(result.proofs, o.proofs...)
			covered = true

			if !all {
				return result, true
			}
		}
	}

	return result, covered
}

// node searches a single node, first for direct mitigations, then in the called functions.
func (r *Resolver) node(fn string, n ast.Node, class pattern.DefectClass, name string, depth int) outcome {
	key := memoKey{node: n, class: class, name: name, depth: depth}
	if o, ok := r.memo[key]; ok {
		return o
	}

	o := r.evaluate(fn, n, class, name, depth)
	r.memo[key] = o

	return o
}

func (r *Resolver) evaluate(fn string, n ast.Node, class pattern.DefectClass, name string, depth int) outcome {
	info := r.nodeInfo(n)
	subject := info.subject
	subject.Var = name

	var o outcome

	for _, p := range r.pkg.Catalog.Mitigations(class) {
		switch e := r.pkg.Matcher.Evaluate(p, subject); {
		case e.TimedOut:
			o.timeouts = append(o.timeouts, p.ID)

		case e.Matched:
			o.proofs = append(o.proofs, r.direct(fn, n, p.ID))
		}
	}

	if r.opts.ReportDeprecated {
		for _, p := range r.pkg.Catalog.Deprecated(class) {
			if e := r.pkg.Matcher.Evaluate(p, subject); e.Matched {
				o.deprecated = append(o.deprecated, r.direct(fn, n, p.ID))
			}
		}
	}

	if len(o.proofs) > 0 || depth <= 0 {
		return o
	}

	for _, call := range info.calls {
		idx, ok := r.pkg.Arena.Lookup(r.tracker.Callee(call))
		if !ok {
			continue
		}

		c := r.callee(idx, class, depth-1)
		o.timeouts = append(o.timeouts, c.timeouts...)

		if len(c.proofs) > 0 {
			hop := r.hop(fn, call.Pos())
			for _, p := range c.proofs {
				o.proofs = append(o.proofs, proof{
					patternID: p.patternID,
					site:      p.site,
					chain:     append([]finding.Hop{hop}, p.chain...),
				})
			}

			break
		}
	}

	return o
}

// callee proves that every returning path of a function is mitigated, searching at most depth
// further call hops. Functions on the current call stack are not mitigated.
func (r *Resolver) callee(idx FuncIndex, class pattern.DefectClass, depth int) outcome {
	key := funcKey{fun: idx, class: class, depth: depth}
	if o, ok := r.fmemo[key]; ok {
		return o
	}

	if _, active := r.stack[idx]; active {
		return outcome{}
	}

	if r.budgetExpired() {
		return outcome{}
	}

	r.stack[idx] = struct{}{}
	o := r.coverFunc(idx, class, depth)
	delete(r.stack, idx)

	r.fmemo[key] = o

	return o
}

func (r *Resolver) coverFunc(idx FuncIndex, class pattern.DefectClass, depth int) outcome {
	fn := r.pkg.Arena.Func(idx)
	g := r.graph(idx)
	if g == nil {
		return outcome{}
	}

	paths, truncated := g.ExitPaths(r.opts.MaxPaths)
	if truncated || len(paths) == 0 {
		return outcome{}
	}

	blocks := g.Blocks()

	var result outcome
	for _, path := range paths {
		o, ok := r.firstProof(fn.Name, blocks, path, token.NoPos, class, "", depth, false)
		result.timeouts = append(result.timeouts, o.timeouts...)

		if !ok {
			return outcome{timeouts: result.timeouts}
		}

		if result.proofs == nil {
			result.proofs = o.proofs[:1]
		}
	}

	return result
}

// budgetExpired reports whether the search into called functions must stop.
func (r *Resolver) budgetExpired() bool {
	if !r.expired && r.opts.Budget != nil {
		r.expired = r.opts.Budget.Expired()
	}

	return r.expired
}

// graph returns the control-flow graph of a called function, nil when it can't be built.
func (r *Resolver) graph(idx FuncIndex) *flow.Graph {
	if g, ok := r.graphs[idx]; ok {
		return g
	}

	g := flow.Func(r.ctx, r.pkg.Info, r.pkg.Arena.Func(idx).Decl)
	if g.Build() != nil {
		g = nil
	}

	r.graphs[idx] = g

	return g
}

func (r *Resolver) nodeInfo(n ast.Node) nodeInfo {
	if info, ok := r.nodes[n]; ok {
		return info
	}

	var info nodeInfo
	info.subject.Text = r.pkg.Source.Text(n)

	ast.Inspect(n, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false

		case *ast.CallExpr:
			info.calls = append(info.calls, n)
			if sig, ok := r.tracker.Signature(n); ok {
				info.subject.Calls = append(info.subject.Calls, sig)
			}
		}

		return true
	})

	r.nodes[n] = info

	return info
}

func (r *Resolver) direct(fn string, n ast.Node, patternID string) proof {
	p := r.pkg.Fset.PositionFor(n.Pos(), false)

	return proof{
		patternID: patternID,
		site:      finding.Location{File: p.Filename, Line: p.Line, Column: p.Column},
		chain:     []finding.Hop{{File: p.Filename, Func: fn, Line: p.Line}},
	}
}

func (r *Resolver) hop(fn string, pos token.Pos) finding.Hop {
	p := r.pkg.Fset.PositionFor(pos, false)

	return finding.Hop{File: p.Filename, Func: fn, Line: p.Line}
}
