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

package astutil

import (
	"go/ast"
	"go/token"
	"iter"
)

// AssignedValues yields the identifiers of an assignment together with their assigned values.
//
// Multi-value assignments like `v, ok := m[k]` yield the single right hand side for the first identifier only.
func AssignedValues(stmt *ast.AssignStmt) iter.Seq2[*ast.Ident, ast.Expr] {
	return func(yield func(*ast.Ident, ast.Expr) bool) {
		for i, expr := range stmt.Lhs {
			id, ok := expr.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue // blank identifier
			}

			value, ok := valueAt(stmt.Rhs, len(stmt.Lhs), i)
			if !ok {
				continue
			}

			if !yield(id, value) {
				return
			}
		}
	}
}

// DeclaredValues yields the variables of a declaration together with their initial values.
func DeclaredValues(stmt *ast.DeclStmt) iter.Seq2[*ast.Ident, ast.Expr] {
	decl, ok := stmt.Decl.(*ast.GenDecl)
	if !ok || decl.Tok != token.VAR {
		return func(func(*ast.Ident, ast.Expr) bool) {}
	}

	return func(yield func(*ast.Ident, ast.Expr) bool) {
		for _, spec := range decl.Specs {
			vspec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for i, id := range vspec.Names {
				if id.Name == "_" {
					continue // blank identifier
				}

				value, ok := valueAt(vspec.Values, len(vspec.Names), i)
				if !ok {
					continue
				}

				if !yield(id, value) {
					return
				}
			}
		}
	}
}

func valueAt(values []ast.Expr, names, i int) (ast.Expr, bool) {
	switch {
	case len(values) == names:
		return values[i], true

	case len(values) == 1 && i == 0:
		return values[0], true

	default:
		return nil, false
	}
}
