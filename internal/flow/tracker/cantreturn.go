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
	"go/ast"
	"go/types"
)

// _knownFuncs are functions that do not return, by call signature.
var _knownFuncs = map[string]struct{}{
	"log.Fatal":   {},
	"log.Fatalf":  {},
	"log.Fatalln": {},
	"log.Panic":   {},
	"log.Panicf":  {},
	"log.Panicln": {},

	"(log.Logger).Fatal":   {},
	"(log.Logger).Fatalf":  {},
	"(log.Logger).Fatalln": {},
	"(log.Logger).Panic":   {},
	"(log.Logger).Panicf":  {},
	"(log.Logger).Panicln": {},

	"os.Exit":        {},
	"syscall.Exit":   {},
	"runtime.Goexit": {},

	"(testing.common).Fatal":   {},
	"(testing.common).Fatalf":  {},
	"(testing.common).FailNow": {},
	"(testing.common).Skip":    {},
	"(testing.common).Skipf":   {},
	"(testing.common).SkipNow": {},

	"(testing.TB).Fatal":   {},
	"(testing.TB).Fatalf":  {},
	"(testing.TB).FailNow": {},
	"(testing.TB).Skip":    {},
	"(testing.TB).Skipf":   {},
	"(testing.TB).SkipNow": {},

	"(github.com/sirupsen/logrus.Entry).Panic":   {},
	"(github.com/sirupsen/logrus.Entry).Panicf":  {},
	"(github.com/sirupsen/logrus.Logger).Exit":   {},
	"(github.com/sirupsen/logrus.Logger).Panic":  {},
	"(github.com/sirupsen/logrus.Logger).Panicf": {},
	"(go.uber.org/zap.Logger).Fatal":             {},
	"(go.uber.org/zap.Logger).Panic":             {},
	"(go.uber.org/zap.SugaredLogger).Fatal":      {},
	"(go.uber.org/zap.SugaredLogger).Fatalf":     {},
	"(go.uber.org/zap.SugaredLogger).Fatalw":     {},
	"(go.uber.org/zap.SugaredLogger).Panic":      {},
	"(go.uber.org/zap.SugaredLogger).Panicf":     {},
	"(go.uber.org/zap.SugaredLogger).Panicw":     {},
	"k8s.io/klog/v2.Exit":                        {},
	"k8s.io/klog/v2.Exitf":                       {},
	"k8s.io/klog/v2.Fatal":                       {},
	"k8s.io/klog/v2.Fatalf":                      {},
}

// CantReturn determines if the given function call expression represents a function that cannot return.
func CantReturn(info *types.Info, n *ast.CallExpr) bool {
	id := calleeIdent(n.Fun)
	if id == nil {
		return false
	}

	switch use := info.Uses[id].(type) {
	case *types.Func:
		_, ok := _knownFuncs[FuncNameOf(use).String()]
		return ok

	case *types.Builtin:
		return use == builtinPanic

	default:
		return false
	}
}

var builtinPanic = types.Universe.Lookup("panic").(*types.Builtin)

// calleeIdent iteratively unwraps an expression to find the identifier naming the callee.
func calleeIdent(ex ast.Expr) *ast.Ident {
	for {
		switch e := ex.(type) {
		case *ast.Ident:
			return e

		case *ast.SelectorExpr:
			return e.Sel

		case *ast.IndexExpr: // Generic function instantiation with a type parameter ("myFunc[T]").
			ex = e.X

		case *ast.IndexListExpr: // Generic function instantiation with multiple type parameters ("myFunc[T, U]").
			ex = e.X

		case *ast.ParenExpr: // Parenthesized expression ("(myFunc)")
			ex = e.X

		default: // Pointer dereference or another function reference.
			return nil
		}
	}
}
