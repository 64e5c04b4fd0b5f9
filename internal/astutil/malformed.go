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
)

// FirstBadNode returns the first node of f the parser could not read, or nil.
func FirstBadNode(f *ast.File) ast.Node {
	var bad ast.Node

	ast.Inspect(f, func(n ast.Node) bool {
		if bad != nil {
			return false
		}

		switch n.(type) {
		case *ast.BadExpr, *ast.BadStmt, *ast.BadDecl:
			bad = n
			return false
		}

		return true
	})

	return bad
}

// HasPositions reports whether f carries position information in fset.
func HasPositions(fset *token.FileSet, f *ast.File) bool {
	return f.FileStart.IsValid() && f.Package.IsValid() && fset.File(f.Package) != nil
}
