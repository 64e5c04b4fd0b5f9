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


package astutil_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	. "fillmore-labs.com/sinkguard/internal/astutil"
)

const src = `package test

func f(m map[string]int) {
	a, b := 1, 2
	v, ok := m["x"] //nolint:sinkguard
	_, c := 3, 4
	var d, e = a + b, c //nolint:other
	_, _, _, _, _, _ = a, b, v, ok, d, e
}
`

func parse(t *testing.T, src string) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("Can't parse source: %v", err)
	}

	return fset, f
}

func body(f *ast.File) []ast.Stmt {
	return f.Decls[0].(*ast.FuncDecl).Body.List
}

func TestAssignedValues(t *testing.T) {
	t.Parallel()

	_, f := parse(t, src)
	stmts := body(f)

	tests := []struct {
		name  string
		stmt  *ast.AssignStmt
		names []string
	}{
		{"pairs", stmts[0].(*ast.AssignStmt), []string{"a", "b"}},
		{"multi-value", stmts[1].(*ast.AssignStmt), []string{"v"}},
		{"blank", stmts[2].(*ast.AssignStmt), []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var names []string
			for id, value := range AssignedValues(tt.stmt) {
				if value == nil {
					t.Errorf("Got nil value for %s", id.Name)
				}

				names = append(names, id.Name)
			}

			if len(names) != len(tt.names) {
				t.Fatalf("Got identifiers %v, want %v", names, tt.names)
			}

			for i := range names {
				if names[i] != tt.names[i] {
					t.Errorf("Got identifier %s at %d, want %s", names[i], i, tt.names[i])
				}
			}
		})
	}
}

func TestDeclaredValues(t *testing.T) {
	t.Parallel()

	_, f := parse(t, src)
	stmt := body(f)[3].(*ast.DeclStmt)

	var names []string
	for id := range DeclaredValues(stmt) {
		names = append(names, id.Name)
	}

	if len(names) != 2 || names[0] != "d" || names[1] != "e" {
		t.Errorf("Got identifiers %v, want [d e]", names)
	}
}

func TestNoLintComment(t *testing.T) {
	t.Parallel()

	fset, f := parse(t, src)
	stmts := body(f)

	c := NewCurrentFile(fset, f)
	if !c.Valid() {
		t.Fatal("Expected valid file")
	}

	if c.Generated() {
		t.Error("Expected non-generated file")
	}

	if c.NoLintComment(stmts[0].Pos()) {
		t.Error("Expected no nolint comment on first statement")
	}

	if !c.NoLintComment(stmts[1].Pos()) {
		t.Error("Expected nolint comment on second statement")
	}

	if c.NoLintComment(stmts[3].Pos()) {
		t.Error("Expected nolint for another linter to be ignored")
	}

	if got := c.Lines(f.Decls[0]); got != 7 {
		t.Errorf("Got %d lines, want 7", got)
	}
}

func TestCommentHasNoLint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"//nolint:sinkguard", true},
		{"// nolint:gosec,SinkGuard", true},
		{"//nolint:all", true},
		{"//nolint:gosec", false},
		{"// sinkguard", false},
	}

	for _, tt := range tests {
		if got := CommentHasNoLint(&ast.Comment{Text: tt.text}); got != tt.want {
			t.Errorf("CommentHasNoLint(%q) = %t, want %t", tt.text, got, tt.want)
		}
	}
}

func TestSource(t *testing.T) {
	t.Parallel()

	fset, f := parse(t, src)
	stmt := body(f)[0]

	read := func(string) ([]byte, error) { return []byte(src), nil }

	if got, want := NewSource(fset, []*ast.File{f}, read).Text(stmt), "a, b := 1, 2"; got != want {
		t.Errorf("Got source %q, want %q", got, want)
	}

	if got, want := NewSource(fset, []*ast.File{f}, nil).Text(stmt), "a, b := 1, 2"; got != want {
		t.Errorf("Got printed source %q, want %q", got, want)
	}
}

func TestFirstBadNode(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()

	f, _ := parser.ParseFile(fset, "bad.go", "package test\n\nfunc f() { x := }\n", parser.SkipObjectResolution)
	if f == nil {
		t.Fatal("Expected partial file")
	}

	if FirstBadNode(f) == nil {
		t.Error("Expected bad node")
	}

	if !HasPositions(fset, f) {
		t.Error("Expected positions")
	}

	_, good := parse(t, src)
	if FirstBadNode(good) != nil {
		t.Error("Expected no bad node")
	}
}
