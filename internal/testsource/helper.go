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

// Package testsource provides utilities for parsing and analyzing Go source code in tests.
//
// It handles the boilerplate of parsing and type-checking Go source fragments and small
// multi-file packages for the sinkguard engine tests.
package testsource

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ast/edge"
	"golang.org/x/tools/go/ast/inspector"
)

const testpkg = "test"

// File is a named source file of a test package.
type File struct {
	Name, Src string
}

// Package is a parsed and type-checked test package.
type Package struct {
	Fset  *token.FileSet
	Files []*ast.File
	Pkg   *types.Package
	Info  *types.Info
}

// Func returns the declaration of the function or method with the given name.
func (p *Package) Func(tb testing.TB, name string) *ast.FuncDecl {
	tb.Helper()

	for _, f := range p.Files {
		for _, decl := range f.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
				return fn
			}
		}
	}

	tb.Fatalf("Can't find function %s", name)

	return nil
}

// ReadFile returns the source of a file of the package, like [analysis.Pass.ReadFile].
func ReadFile(files ...File) func(string) ([]byte, error) {
	return func(filename string) ([]byte, error) {
		for _, f := range files {
			if f.Name == filename {
				return []byte(f.Src), nil
			}
		}

		return nil, &fileNotFoundError{filename}
	}
}

type fileNotFoundError struct{ name string }

func (e *fileNotFoundError) Error() string { return "file not found: " + e.name }

// Load parses and type-checks complete source files of package `test`.
func Load(tb testing.TB, files ...File) *Package {
	tb.Helper()

	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))

	for _, src := range files {
		f, err := parser.ParseFile(fset, src.Name, src.Src, parser.SkipObjectResolution|parser.ParseComments)
		if err != nil {
			tb.Fatalf("Failed to parse source %s: %v", src.Name, err)
		}

		parsed = append(parsed, f)
	}

	pkg, info := CheckFiles(tb, fset, parsed...)

	return &Package{Fset: fset, Files: parsed, Pkg: pkg, Info: info}
}

// Parse parses a Go source code fragment into an AST.
// The provided source `src` is automatically wrapped in a function body `func _() { ... }`
// within a package `test`. This allows testing statement-level code fragments without
// manually constructing the surrounding package and function scaffolding.
//
// Call [Check] on the result when type information is needed.
func Parse(tb testing.TB, src string) (fset *token.FileSet, f *ast.File, fn *ast.FuncDecl, body inspector.Cursor) {
	tb.Helper()

	const filename = "test.go"

	fset = token.NewFileSet()
	srcFile := wrapSource(src)

	f, err := parser.ParseFile(fset, filename, srcFile, parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	fn, body = firstFuncDecl(f)
	if fn == nil {
		tb.Fatal("Can't find function")
	}

	return fset, f, fn, body
}

// Check performs type checking on the provided AST file.
func Check(tb testing.TB, fset *token.FileSet, f *ast.File) (*types.Package, *types.Info) {
	tb.Helper()

	return CheckFiles(tb, fset, f)
}

// CheckFiles type checks the files of a package and returns its *types.Package and *types.Info.
func CheckFiles(tb testing.TB, fset *token.FileSet, files ...*ast.File) (*types.Package, *types.Info) {
	tb.Helper()

	info := &types.Info{
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Instances: make(map[*ast.Ident]types.Instance),
		Scopes:    make(map[ast.Node]*types.Scope),
	}

	conf := types.Config{Importer: importer.Default()}

	pkg, err := conf.Check(testpkg, fset, files, info)
	if err != nil {
		tb.Fatalf("failed to type Check source: %v", err)
	}

	return pkg, info
}

func wrapSource(src string) *bytes.Buffer {
	const (
		header     = "package " + testpkg + "\n\nfunc _() {\n"
		suffix     = "\n}"
		wrapperLen = len(header) + len(suffix)
	)

	var srcFile bytes.Buffer
	srcFile.Grow(wrapperLen + len(src))

	srcFile.WriteString(header) // ignore error
	srcFile.WriteString(src)    // ignore error
	srcFile.WriteString(suffix) // ignore error

	return &srcFile
}

func firstFuncDecl(f *ast.File) (fn *ast.FuncDecl, body inspector.Cursor) {
	root := inspector.New([]*ast.File{f}).Root()
	for c := range root.Preorder((*ast.FuncDecl)(nil)) {
		fn, body = c.Node().(*ast.FuncDecl), c.ChildAt(edge.FuncDecl_Body, -1)

		return fn, body
	}

	return nil, root
}
