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
	"cmp"
	"go/ast"
	"go/token"
	"go/types"
	"slices"

	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/flow/tracker"
	"fillmore-labs.com/sinkguard/internal/pattern"
)

// candidate is a possible defect at a sink.
type candidate struct {
	class   pattern.DefectClass
	sink    *pattern.Pattern
	node    ast.Node // The sink call or dereference
	name    string   // What is called or dereferenced
	varName string   // Bound to ${var}, empty for call sinks
	origin  token.Pos // Assignment of the nil source, invalid for call sinks
}

// nilSource is a local pointer variable assigned from a call that may return nil.
type nilSource struct {
	obj    *types.Var
	sink   *pattern.Pattern
	call   string
	origin token.Pos
	after  token.Pos
}

// detector finds candidate defects in function bodies.
type detector struct {
	info    *types.Info
	catalog *pattern.Catalog
	matcher *pattern.Matcher
	source  *astutil.Source
	tracker tracker.Tracker
}

// candidates returns the candidate defects of a function body in source order.
// Function literals are analyzed separately and skipped.
func (d *detector) candidates(body *ast.BlockStmt) []candidate {
	var (
		result  []candidate
		sources []nilSource
	)

	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false

		case *ast.CallExpr:
			result = d.appendCalls(result, n)

		case *ast.AssignStmt:
			for id, value := range astutil.AssignedValues(n) {
				if s, ok := d.nilSource(id, value, n); ok {
					sources = append(sources, s)
				}
			}

		case *ast.DeclStmt:
			for id, value := range astutil.DeclaredValues(n) {
				if s, ok := d.nilSource(id, value, n); ok {
					sources = append(sources, s)
				}
			}
		}

		return true
	})

	for _, s := range sources {
		if deref := firstDeref(d.info, body, s); deref != nil {
			result = append(result, candidate{
				class:   pattern.NullDeref,
				sink:    s.sink,
				node:    deref,
				name:    s.obj.Name() + " from " + s.call,
				varName: s.obj.Name(),
				origin:  s.origin,
			})
		}
	}

	slices.SortStableFunc(result, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.node.Pos(), b.node.Pos()),
			cmp.Compare(a.class, b.class),
		)
	})

	return result
}

// subject returns the matcher input describing a call: the callee text and its signature.
func (d *detector) subject(call *ast.CallExpr) (pattern.Subject, string) {
	text := d.source.Text(call.Fun)

	s := pattern.Subject{Text: text + "("}
	if sig, ok := d.tracker.Signature(call); ok {
		s.Calls = []string{sig}
		return s, sig
	}

	return s, text
}

// appendCalls appends a candidate for each class with a matching sink pattern.
func (d *detector) appendCalls(result []candidate, call *ast.CallExpr) []candidate {
	subject, name := d.subject(call)

	for class := range pattern.Classes() {
		rule := class.Rule()
		if rule.Deref {
			continue
		}

		for _, p := range d.catalog.Sinks(class) {
			if !d.matcher.Evaluate(p, subject).Matched {
				continue
			}

			if rule.NonConstantArgs && !d.nonConstant(call, p.Args) {
				continue
			}

			result = append(result, candidate{class: class, sink: p, node: call, name: name})

			break
		}
	}

	return result
}

// nonConstant reports whether an argument at one of the positions is not a constant.
// No positions means any argument.
func (d *detector) nonConstant(call *ast.CallExpr, positions []int) bool {
	isVariable := func(arg ast.Expr) bool {
		tv, ok := d.info.Types[arg]
		return !ok || tv.Value == nil
	}

	if len(positions) == 0 {
		return slices.ContainsFunc(call.Args, isVariable)
	}

	for _, i := range positions {
		if i < len(call.Args) && isVariable(call.Args[i]) {
			return true
		}
	}

	return false
}

// nilSource checks whether id is a local pointer variable assigned from a nil-able source call.
func (d *detector) nilSource(id *ast.Ident, value ast.Expr, stmt ast.Stmt) (nilSource, bool) {
	call, ok := ast.Unparen(value).(*ast.CallExpr)
	if !ok {
		return nilSource{}, false
	}

	obj, ok := d.info.Defs[id].(*types.Var)
	if !ok {
		if obj, ok = d.info.Uses[id].(*types.Var); !ok {
			return nilSource{}, false
		}
	}

	if obj.Pkg() != nil && obj.Parent() == obj.Pkg().Scope() {
		return nilSource{}, false // package level
	}

	if _, ok := obj.Type().Underlying().(*types.Pointer); !ok {
		return nilSource{}, false
	}

	subject, name := d.subject(call)
	for _, p := range d.catalog.Sinks(pattern.NullDeref) {
		if d.matcher.Evaluate(p, subject).Matched {
			return nilSource{obj: obj, sink: p, call: name, origin: stmt.Pos(), after: stmt.End()}, true
		}
	}

	return nilSource{}, false
}

// firstDeref returns the first selector or star expression on the source variable after its assignment.
func firstDeref(info *types.Info, body *ast.BlockStmt, s nilSource) ast.Expr {
	var deref ast.Expr

	refers := func(x ast.Expr) bool {
		id, ok := ast.Unparen(x).(*ast.Ident)
		return ok && info.Uses[id] == s.obj
	}

	ast.Inspect(body, func(n ast.Node) bool {
		if deref != nil {
			return false
		}

		switch n := n.(type) {
		case *ast.FuncLit:
			return false

		case *ast.SelectorExpr:
			if n.Pos() >= s.after && refers(n.X) {
				deref = n
			}

		case *ast.StarExpr:
			if n.Pos() >= s.after && refers(n.X) {
				deref = n
			}
		}

		return deref == nil
	})

	return deref
}
