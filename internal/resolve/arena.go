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

// Package resolve searches control-flow paths and the functions they call for mitigations.
package resolve

import (
	"go/ast"
	"go/token"
	"go/types"

	"fillmore-labs.com/sinkguard/internal/flow/tracker"
)

// FuncIndex identifies a function in an [Arena].
type FuncIndex int

// Function is a function declaration with a body.
type Function struct {
	Decl *ast.FuncDecl
	Obj  *types.Func
	File string
	Name string // Receiver-qualified name, like "Store.Find"
}

// Arena indexes the functions of a package.
//
// Indices are assigned in file order, then source order. An Arena is immutable after
// construction and safe for concurrent use.
type Arena struct {
	funcs []Function
	byObj map[*types.Func]FuncIndex
}

// NewArena indexes the function declarations of files.
func NewArena(fset *token.FileSet, info *types.Info, files []*ast.File) *Arena {
	a := &Arena{byObj: make(map[*types.Func]FuncIndex)}

	for _, f := range files {
		handle := fset.File(f.FileStart)
		if handle == nil {
			continue
		}

		for _, decl := range f.Decls {
			fun, ok := decl.(*ast.FuncDecl)
			if !ok || fun.Body == nil {
				continue
			}

			obj, ok := info.Defs[fun.Name].(*types.Func)
			if !ok {
				continue
			}

			a.byObj[obj] = FuncIndex(len(a.funcs))
			a.funcs = append(a.funcs, Function{
				Decl: fun,
				Obj:  obj,
				File: handle.Name(),
				Name: DisplayName(obj),
			})
		}
	}

	return a
}

// Len returns the number of indexed functions.
func (a *Arena) Len() int {
	return len(a.funcs)
}

// Func returns the function with index i.
func (a *Arena) Func(i FuncIndex) *Function {
	return &a.funcs[i]
}

// Lookup returns the index of fun. Instantiated generic functions resolve to their origin.
func (a *Arena) Lookup(fun *types.Func) (FuncIndex, bool) {
	if fun == nil {
		return 0, false
	}

	i, ok := a.byObj[fun.Origin()]

	return i, ok
}

// DisplayName returns the receiver-qualified name of fun without package path.
func DisplayName(fun *types.Func) string {
	name := tracker.FuncNameOf(fun)
	if name.Receiver == "" {
		return name.Name
	}

	return name.Receiver + "." + name.Name
}
