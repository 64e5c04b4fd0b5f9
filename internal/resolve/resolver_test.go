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

package resolve_test

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"fillmore-labs.com/sinkguard/internal/astutil"
	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/flow"
	"fillmore-labs.com/sinkguard/internal/pattern"
	. "fillmore-labs.com/sinkguard/internal/resolve"
	"fillmore-labs.com/sinkguard/internal/testsource"
)

const handlers = `package test

import "strconv"

func sink(s string) {}

func direct(s string) {
	if _, err := strconv.Atoi(s); err != nil {
		return
	}
	sink(s)
}

func partial(s string, b bool) {
	if b {
		strconv.Atoi(s)
	}
	sink(s)
}

func after(s string) {
	sink(s)
	strconv.Atoi(s)
}

func viaHelper(s string) {
	if !check(s) {
		return
	}
	sink(s)
}

func viaSometimes(s string, b bool) {
	if !sometimes(s, b) {
		return
	}
	sink(s)
}

func cyclic(s string) {
	if !ping(s) {
		return
	}
	sink(s)
}

func deep(s string) {
	if !c1(s) {
		return
	}
	sink(s)
}

func legacyCheck(s string) {
	legacy(s)
	sink(s)
}

func twice(s string) {
	strconv.Atoi(s)
	strconv.Atoi(s)
	sink(s)
}
`

const helpers = `package test

import "strconv"

func valid(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func check(s string) bool { return valid(s) }

func sometimes(s string, b bool) bool {
	if b {
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func ping(s string) bool { return pong(s) }

func pong(s string) bool { return ping(s) }

func c1(s string) bool { return c2(s) }

func c2(s string) bool { return c3(s) }

func c3(s string) bool { return c4(s) }

func c4(s string) bool { return c5(s) }

func c5(s string) bool { return c6(s) }

func c6(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func legacy(s string) {}
`

type fixture struct {
	pkg      *testsource.Package
	shared   Package
	resolver *Resolver
}

func newFixture(t *testing.T, timeout time.Duration) fixture {
	t.Helper()

	return load(t, timeout, testsource.File{Name: "handlers.go", Src: handlers}, testsource.File{Name: "helpers.go", Src: helpers})
}

func load(t *testing.T, timeout time.Duration, files ...testsource.File) fixture {
	t.Helper()

	pkg := testsource.Load(t, files...)

	catalog, err := pattern.Load(nil, []config.Declaration{
		{ID: "atoi", Classes: []string{"injection"}, Kind: "call", Match: "strconv.Atoi"},
		{
			ID: "legacy", Classes: []string{"injection"}, Kind: "call", Match: "test.legacy",
			Deprecated: true, DeprecationReason: "does not validate",
		},
	}, nil, nil)
	require.NoError(t, err)

	clock := clocktesting.NewFakePassiveClock(time.Unix(0, 0))

	shared := Package{
		Fset:    pkg.Fset,
		Info:    pkg.Info,
		Arena:   NewArena(pkg.Fset, pkg.Info, pkg.Files),
		Source:  astutil.NewSource(pkg.Fset, pkg.Files, testsource.ReadFile(files...)),
		Catalog: catalog,
		Matcher: pattern.NewMatcher(clock, timeout),
	}

	r := New(t.Context(), shared, Options{MaxPaths: 64, ReportDeprecated: true})

	return fixture{pkg: pkg, shared: shared, resolver: r}
}

// with replaces the resolver of f by a new one with opts.
func (f fixture) with(t *testing.T, opts Options) fixture {
	t.Helper()

	f.resolver = New(t.Context(), f.shared, opts)

	return f
}

func (f fixture) cover(t *testing.T, name string, depth int) Result {
	t.Helper()

	fn := f.pkg.Func(t, name)
	g := flow.Func(t.Context(), f.pkg.Info, fn)

	var sink *ast.CallExpr
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			if id, ok := call.Fun.(*ast.Ident); ok && id.Name == "sink" {
				sink = call
			}
		}

		return sink == nil
	})
	require.NotNil(t, sink)

	target, ok := g.Block(sink.Pos())
	require.True(t, ok)

	paths, truncated := g.Paths(target, 64)
	require.False(t, truncated)
	require.NotEmpty(t, paths)

	res, err := f.resolver.Cover(g, paths, sink.Pos(), Query{Class: pattern.Injection, Depth: depth, Func: name})
	require.NoError(t, err)
	require.Len(t, res.Covered, len(paths))

	return res
}

func covered(res Result) int {
	n := 0

	for _, c := range res.Covered {
		if c {
			n++
		}
	}

	return n
}

func TestCoverLocal(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "direct", 0)
	assert.Equal(t, []bool{true}, res.Covered)
	require.Len(t, res.Mitigations, 1)

	m := res.Mitigations[0]
	assert.Equal(t, "atoi", m.PatternID)
	assert.Equal(t, 0, m.DiscoveryDepth)
	assert.Len(t, m.CallChain, 1)
	assert.Equal(t, "direct", m.CallChain[0].Func)
	assert.Equal(t, "handlers.go", m.File)
	assert.Equal(t, 8, m.Line)
	assert.Empty(t, res.Timeouts)
}

func TestCoverPartial(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "partial", 0)
	assert.Len(t, res.Covered, 2)
	assert.Equal(t, 1, covered(res))
}

func TestCoverAfterSink(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "after", 3)
	assert.Equal(t, []bool{false}, res.Covered)
	assert.Empty(t, res.Mitigations)
}

func TestCoverCrossFunction(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "viaHelper", 1)
	assert.Equal(t, []bool{false}, res.Covered, "valid is two hops away")

	res = f.cover(t, "viaHelper", 2)
	assert.Equal(t, []bool{true}, res.Covered)
	require.Len(t, res.Mitigations, 1)

	m := res.Mitigations[0]
	assert.Equal(t, 2, m.DiscoveryDepth)
	require.Len(t, m.CallChain, m.DiscoveryDepth+1)
	assert.Equal(t, "viaHelper", m.CallChain[0].Func)
	assert.Equal(t, "handlers.go", m.CallChain[0].File)
	assert.Equal(t, "check", m.CallChain[1].Func)
	assert.Equal(t, "valid", m.CallChain[2].Func)
	assert.Equal(t, "helpers.go", m.File)
	assert.Equal(t, 6, m.Line)
}

func TestCoverRequiresAllCalleePaths(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "viaSometimes", 5)
	assert.Equal(t, []bool{false}, res.Covered)
}

func TestCoverCycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "cyclic", 20)
	assert.Equal(t, []bool{false}, res.Covered)
}

func TestCoverMaxDepth(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "deep", 5)
	assert.Equal(t, []bool{false}, res.Covered, "mitigation at depth 6 is out of reach")

	res = f.cover(t, "deep", 6)
	assert.Equal(t, []bool{true}, res.Covered)
	require.Len(t, res.Mitigations, 1)
	assert.Equal(t, 6, res.Mitigations[0].DiscoveryDepth)
	assert.Len(t, res.Mitigations[0].CallChain, 7)
}

func TestCoverDeprecated(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "legacyCheck", 1)
	assert.Equal(t, []bool{false}, res.Covered)
	require.Len(t, res.Deprecated, 1)
	assert.Equal(t, "legacy", res.Deprecated[0].PatternID)
}

func TestCoverTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 0)

	res := f.cover(t, "direct", 0)
	assert.Equal(t, []bool{false}, res.Covered)
	assert.Equal(t, []string{"atoi"}, res.Timeouts)
}

func TestCoverDeterministic(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	first := f.cover(t, "viaHelper", 3)
	second := f.cover(t, "viaHelper", 3)

	assert.Equal(t, first, second)
}

func TestArena(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t,
		testsource.File{Name: "a.go", Src: "package test\n\ntype T struct{}\n\nfunc (*T) M() {}\n"},
		testsource.File{Name: "b.go", Src: "package test\n\nfunc g[P any](p P) {}\n\nfunc h() { g(1) }\n"},
	)

	a := NewArena(pkg.Fset, pkg.Info, pkg.Files)

	require.Equal(t, 3, a.Len())
	assert.Equal(t, "T.M", a.Func(0).Name)
	assert.Equal(t, "a.go", a.Func(0).File)
	assert.Equal(t, "g", a.Func(1).Name)
	assert.Equal(t, "h", a.Func(2).Name)

	h := pkg.Func(t, "h")
	call := h.Body.List[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	id := call.Fun.(*ast.Ident)

	i, ok := a.Lookup(pkg.Info.Uses[id].(*types.Func))
	require.True(t, ok, "instantiated generic resolves to origin")
	assert.Equal(t, FuncIndex(1), i)

	_, ok = a.Lookup(nil)
	assert.False(t, ok)
}

func TestCoverAllMitigationsOnPath(t *testing.T) {
	t.Parallel()

	f := newFixture(t, time.Second)

	res := f.cover(t, "twice", 0)
	assert.Equal(t, []bool{true}, res.Covered)
	require.Len(t, res.Mitigations, 2, "the second check is reported, too")
	assert.Equal(t, "atoi", res.Mitigations[0].PatternID)
	assert.Less(t, res.Mitigations[0].Line, res.Mitigations[1].Line)
}

// expired is a budget that ran out.
type expired struct{ calls int }

func (e *expired) Expired() bool {
	e.calls++

	return true
}

func TestCoverBudgetExpired(t *testing.T) {
	t.Parallel()

	b := &expired{}
	f := newFixture(t, time.Second).with(t, Options{MaxPaths: 64, Budget: b})

	res := f.cover(t, "viaHelper", 5)
	assert.Equal(t, []bool{false}, res.Covered, "called functions are not searched")
	assert.Equal(t, 1, b.calls, "expiry is permanent")

	res = f.cover(t, "direct", 5)
	assert.Equal(t, []bool{true}, res.Covered, "local mitigations are still found")
}

// denseSource returns a package of n functions that each call all the others.
// With mitigated, the last function validates its argument.
func denseSource(n int, mitigated bool) string {
	var b strings.Builder

	b.WriteString("package test\n\n")

	if mitigated {
		b.WriteString("import \"strconv\"\n\n")
	}

	b.WriteString("func sink(s string) {}\n\n")
	b.WriteString("func dense(s string) {\n\tf0(s)\n\tsink(s)\n}\n")

	for i := range n {
		fmt.Fprintf(&b, "\nfunc f%d(s string) bool {\n", i)

		if mitigated && i == n-1 {
			b.WriteString("\tstrconv.Atoi(s)\n")
		}

		for j := range n {
			if j != i {
				fmt.Fprintf(&b, "\tf%d(s)\n", j)
			}
		}

		b.WriteString("\treturn true\n}\n")
	}

	return b.String()
}

func TestCoverDenseCallGraph(t *testing.T) {
	t.Parallel()

	const (
		functions = 14
		maxDepth  = 20
	)

	tests := []struct {
		name      string
		mitigated bool
		covered   bool
	}{
		{"unmitigated", false, false},
		{"mitigated", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := load(t, time.Second, testsource.File{Name: "dense.go", Src: denseSource(functions, tt.mitigated)})

			res := f.cover(t, "dense", maxDepth)
			assert.Equal(t, []bool{tt.covered}, res.Covered)

			for _, m := range res.Mitigations {
				assert.LessOrEqual(t, m.DiscoveryDepth, maxDepth)
				assert.Len(t, m.CallChain, m.DiscoveryDepth+1)
			}
		})
	}
}
