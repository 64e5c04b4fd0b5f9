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

package tracker

import (
	"go/types"
	"strings"
)

// FuncName identifies a function or method independent of its instantiation.
type FuncName struct {
	Path     string // Import path of the package, empty for universe scope
	Receiver string // Receiver type name without pointer, empty for functions
	Name     string
}

// String returns the call signature form "path.Name" or "(path.Receiver).Name".
func (f FuncName) String() string {
	var b strings.Builder

	if f.Receiver != "" {
		b.WriteByte('(')
	}

	if f.Path != "" {
		b.WriteString(f.Path)
		b.WriteByte('.')
	}

	if f.Receiver != "" {
		b.WriteString(f.Receiver)
		b.WriteString(").")
	}

	b.WriteString(f.Name)

	return b.String()
}

// FuncNameOf returns the [FuncName] of a function or method.
// Pointer receivers and aliases are resolved to the named receiver type.
func FuncNameOf(fun *types.Func) FuncName {
	fun = fun.Origin()

	sig, ok := fun.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		var path string
		if pkg := fun.Pkg(); pkg != nil {
			path = pkg.Path()
		}

		return FuncName{Path: path, Name: fun.Name()}
	}

	path, receiver := receiverName(sig.Recv().Type())

	return FuncName{Path: path, Receiver: receiver, Name: fun.Name()}
}

func receiverName(typ types.Type) (path, name string) {
	typ = types.Unalias(typ)
	if ptr, ok := typ.(*types.Pointer); ok {
		typ = types.Unalias(ptr.Elem())
	}

	switch t := typ.(type) {
	case *types.Named:
		obj := t.Origin().Obj()
		if pkg := obj.Pkg(); pkg != nil {
			path = pkg.Path()
		}

		return path, obj.Name()

	case *types.Interface:
		return "", "interface"

	default:
		return "", "<invalid>"
	}
}

// TypeNameOf returns the signature of a type conversion.
func TypeNameOf(tn *types.TypeName) FuncName {
	var path string
	if pkg := tn.Pkg(); pkg != nil {
		path = pkg.Path()
	}

	return FuncName{Path: path, Name: tn.Name()}
}
