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
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// ReadFileFunc reads the content of a source file, like [analysis.Pass.ReadFile].
type ReadFileFunc func(filename string) ([]byte, error)

// Source returns the source text of syntax nodes.
//
// The content of every file is read once when the Source is created and never modified,
// so a Source can be shared by concurrent workers.
type Source struct {
	fset    *token.FileSet
	content map[*token.File][]byte
}

// NewSource reads the content of files. Files that cannot be read are printed from their syntax tree instead.
func NewSource(fset *token.FileSet, files []*ast.File, read ReadFileFunc) *Source {
	content := make(map[*token.File][]byte, len(files))

	for _, f := range files {
		handle := fset.File(f.FileStart)
		if handle == nil || read == nil {
			continue
		}

		data, err := read(handle.Name())
		if err != nil || len(data) != handle.Size() {
			continue
		}

		content[handle] = data
	}

	return &Source{fset: fset, content: content}
}

// Text returns the source text of n.
func (s *Source) Text(n ast.Node) string {
	if handle := s.fset.File(n.Pos()); handle != nil {
		if data, ok := s.content[handle]; ok {
			start, end := handle.Offset(n.Pos()), handle.Offset(n.End())
			if 0 <= start && start <= end && end <= len(data) {
				return string(data[start:end])
			}
		}
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, s.fset, n); err != nil {
		return ""
	}

	return buf.String()
}
