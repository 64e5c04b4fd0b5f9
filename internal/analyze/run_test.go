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

package analyze_test

import (
	"go/ast"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	. "fillmore-labs.com/sinkguard/internal/analyze"
	"fillmore-labs.com/sinkguard/internal/budget"
	"fillmore-labs.com/sinkguard/internal/coverage"
	"fillmore-labs.com/sinkguard/internal/finding"
	"fillmore-labs.com/sinkguard/internal/pattern"
	"fillmore-labs.com/sinkguard/internal/severity"
	"fillmore-labs.com/sinkguard/internal/testsource"
)

const handlers = `package test

import (
	"database/sql"
	"flag"
	"net/url"
	"strconv"
)

func partial(db *sql.DB, id string, a, b bool) {
	if a {
		id = url.QueryEscape(id)
	}
	if b {
		if _, err := strconv.Atoi(id); err != nil {
			return
		}
	}
	db.Query("SELECT * FROM t WHERE id = " + id)
}

func full(db *sql.DB, id string, a, b bool) {
	if a {
		id = url.QueryEscape(id)
	}
	if b {
		id = url.PathEscape(id)
	} else if _, err := strconv.Atoi(id); err != nil {
		return
	}
	db.Query("SELECT * FROM t WHERE id = " + id)
}

func constant(db *sql.DB) {
	db.Query("SELECT 1")
}

func crossPartial(db *sql.DB, id string, a bool) {
	if a {
		if !isNumeric(id) {
			return
		}
	}
	db.Exec("DELETE FROM t WHERE id = " + id)
}

func lookup(name string) string {
	f := flag.Lookup(name)
	return f.Value.String()
}

func lookupChecked(name string) string {
	f := flag.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func ignored(db *sql.DB, id string) {
	db.Query(id) //nolint:sinkguard
}
`

const helpers = `package test

import "strconv"

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
`

var files = []testsource.File{{Name: "handlers.go", Src: handlers}, {Name: "helpers.go", Src: helpers}}

func catalog(t *testing.T) *pattern.Catalog {
	t.Helper()

	c, err := pattern.Load(pattern.Builtin(), nil, nil, nil)
	require.NoError(t, err)

	return c
}

func unit(pkg *testsource.Package, files ...testsource.File) Unit {
	return Unit{Fset: pkg.Fset, Files: pkg.Files, Info: pkg.Info, ReadFile: testsource.ReadFile(files...)}
}

func options(workers int) *Options {
	opts := DefaultOptions()
	opts.Workers = workers
	opts.Clock = clocktesting.NewFakePassiveClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	return opts
}

func bySource(findings []finding.Finding) map[string][]finding.Finding {
	m := make(map[string][]finding.Finding)
	for _, f := range findings {
		m[f.Source] = append(m[f.Source], f)
	}

	return m
}

func TestRun(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(2))
	require.NoError(t, err)

	assert.Empty(t, res.Skipped)
	assert.False(t, res.Budget.Degraded)
	require.Len(t, res.Findings, 3)

	lines := make([]int, 0, len(res.Findings))
	for _, f := range res.Findings {
		assert.Equal(t, "handlers.go", f.File)
		lines = append(lines, f.Line)
	}

	assert.Equal(t, []int{19, 44, 49}, lines, "full, constant, lookupChecked and ignored are not reported")
	assert.Equal(t, 5, res.Stats.Candidates)
	assert.Equal(t, 2, res.Stats.Suppressed)
	assert.Len(t, res.Stats.Paths, res.Stats.Candidates)
}

func TestRunPartial(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)
	require.NotEmpty(t, res.Findings)

	f := res.Findings[0]
	assert.Equal(t, "sql-query", f.Source)
	assert.Equal(t, "injection", f.Class)
	assert.Equal(t, severity.Low, f.Severity)
	assert.Equal(t, severity.High, f.Metadata.OriginalSeverity)
	assert.Equal(t, coverage.Partial, f.Metadata.MitigationStatus)
	assert.Equal(t, 3, f.Metadata.PathsCovered)
	assert.Equal(t, 4, f.Metadata.PathsTotal)
	require.Len(t, f.Metadata.UnprotectedPaths, 1)
	assert.True(t, strings.HasSuffix(f.Metadata.UnprotectedPaths[0], "->19"), f.Metadata.UnprotectedPaths[0])
	assert.NotEmpty(t, f.Metadata.MitigationsDetected)
	assert.Nil(t, f.Metadata.CrossFileMitigations)
	assert.Contains(t, f.Message, "3 of 4 paths mitigated")
}

func TestRunCrossFile(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)

	fs := bySource(res.Findings)["sql-exec"]
	require.Len(t, fs, 1)

	f := fs[0]
	assert.Equal(t, severity.Medium, f.Severity)
	assert.Equal(t, 1, f.Metadata.PathsCovered)
	assert.Equal(t, 2, f.Metadata.PathsTotal)
	require.Len(t, f.Metadata.CrossFileMitigations, 1)

	m := f.Metadata.CrossFileMitigations[0]
	assert.Equal(t, "strconv-atoi", m.PatternID)
	assert.Equal(t, 1, m.DiscoveryDepth)
	assert.Equal(t, []finding.Hop{
		{File: "handlers.go", Func: "crossPartial", Line: 40},
		{File: "helpers.go", Func: "isNumeric", Line: 6},
	}, m.CallChain)
}

func TestRunNilDeref(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)

	fs := bySource(res.Findings)["flag-lookup"]
	require.Len(t, fs, 1, "the checked lookup is suppressed")

	f := fs[0]
	assert.Equal(t, 49, f.Line)
	assert.Equal(t, "null_deref", f.Class)
	assert.Equal(t, coverage.None, f.Metadata.MitigationStatus)
	assert.Contains(t, f.Message, "f from flag.Lookup")
}

func TestRunShallow(t *testing.T) {
	t.Parallel()

	const src = `package test

import (
	"database/sql"
	"strconv"
)

func remove(db *sql.DB, id string) {
	if !checked(id) {
		return
	}
	db.Exec("DELETE FROM t WHERE id = " + id)
}

func checked(s string) bool { return numeric(s) }

func numeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
`

	files := []testsource.File{{Name: "shallow.go", Src: src}}
	pkg := testsource.Load(t, files...)

	opts := options(1)
	opts.Config.MaxCallDepth = 1
	require.NoError(t, opts.Config.Validate())

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), opts)
	require.NoError(t, err)

	fs := bySource(res.Findings)["sql-exec"]
	require.Len(t, fs, 1)
	assert.Equal(t, 0, fs[0].Metadata.PathsCovered, "mitigation two calls away is out of reach")
	assert.Equal(t, severity.High, fs[0].Severity)

	opts = options(1)
	opts.Config.MaxCallDepth = 2

	res, err = Run(t.Context(), unit(pkg, files...), catalog(t), opts)
	require.NoError(t, err)
	assert.Empty(t, bySource(res.Findings)["sql-exec"])
}

func TestRunTruncated(t *testing.T) {
	t.Parallel()

	const src = `package test

import (
	"database/sql"
	"net/url"
)

func escaped(db *sql.DB, id string, a bool) {
	if a {
		id = url.QueryEscape(id)
	} else {
		id = url.PathEscape(id)
	}
	db.Query("SELECT * FROM t WHERE id = " + id)
}
`

	files := []testsource.File{{Name: "truncated.go", Src: src}}
	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)
	assert.Empty(t, res.Findings, "every path is mitigated")

	opts := options(1)
	opts.Config.MaxPaths = 1
	require.NoError(t, opts.Config.Validate())

	res, err = Run(t.Context(), unit(pkg, files...), catalog(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1, "omitted paths are not proven mitigated")

	f := res.Findings[0]
	assert.True(t, f.Metadata.PathsTruncated)
	assert.Equal(t, coverage.Partial, f.Metadata.MitigationStatus)
	assert.Equal(t, 1, f.Metadata.PathsCovered)
	assert.Equal(t, 2, f.Metadata.PathsTotal)
	assert.Equal(t, []string{finding.OmittedPaths}, f.Metadata.UnprotectedPaths)
	assert.Equal(t, 0, res.Stats.Suppressed)
}

func TestRunMitigationsAfterProof(t *testing.T) {
	t.Parallel()

	const src = `package test

import (
	"database/sql"
	"net/url"
)

func twice(db *sql.DB, id string, a bool) {
	if a {
		id = url.QueryEscape(id)
		id = url.PathEscape(id)
	}
	db.Query("SELECT * FROM t WHERE id = " + id)
}
`

	files := []testsource.File{{Name: "twice.go", Src: src}}
	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, 1, f.Metadata.PathsCovered)
	assert.Equal(t, 2, f.Metadata.PathsTotal)

	ids := make([]string, 0, len(f.Metadata.MitigationsDetected))
	for _, m := range f.Metadata.MitigationsDetected {
		ids = append(ids, m.PatternID)
	}

	assert.ElementsMatch(t, []string{"url-query-escape", "url-path-escape"}, ids)
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)
	c := catalog(t)

	first, err := Run(t.Context(), unit(pkg, files...), c, options(1))
	require.NoError(t, err)

	second, err := Run(t.Context(), unit(pkg, files...), c, options(4))
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
}

func TestRunWithoutSource(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	u := unit(pkg, files...)
	u.ReadFile = nil

	withSource, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)

	printed, err := Run(t.Context(), u, catalog(t), options(1))
	require.NoError(t, err)

	assert.Len(t, printed.Findings, len(withSource.Findings))
}

// steppingClock advances by step on every reading.
type steppingClock struct {
	*clocktesting.FakePassiveClock
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	now := c.FakePassiveClock.Now()
	c.SetTime(now.Add(c.step))

	return now
}

func (c *steppingClock) Since(ts time.Time) time.Duration {
	return c.FakePassiveClock.Now().Sub(ts)
}

func TestRunPatternTimeout(t *testing.T) {
	t.Parallel()

	src := `package test

import "database/sql"

func slow(db *sql.DB, id string) {
	_ = "` + strings.Repeat("a", 64*1024) + `"
	db.Query("SELECT * FROM t WHERE id = " + id)
}
`
	slow := testsource.File{Name: "slow.go", Src: src}
	pkg := testsource.Load(t, slow)

	opts := options(1)
	opts.Clock = &steppingClock{
		FakePassiveClock: clocktesting.NewFakePassiveClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		step:             time.Millisecond,
	}
	opts.Config.PatternTimeoutMs = 10

	res, err := Run(t.Context(), unit(pkg, slow), catalog(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, coverage.None, f.Metadata.MitigationStatus)
	assert.Contains(t, f.Metadata.PatternTimeouts, "validate-helper")
	assert.Positive(t, res.Stats.Timeouts)
}

func TestRunDegraded(t *testing.T) {
	t.Parallel()

	pkg := testsource.Load(t, files...)

	opts := options(1)
	opts.Config.SizeBudgetLines = 1

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), opts)
	require.NoError(t, err)

	require.True(t, res.Budget.Degraded)
	assert.Equal(t, budget.Size, res.Budget.State.Reason)

	m := bySource(res.Findings)
	require.Len(t, m[finding.SourceDegraded], 1)

	notice := m[finding.SourceDegraded][0]
	assert.Equal(t, severity.Low, notice.Severity)
	assert.Equal(t, "handlers.go", notice.File)

	for _, f := range m["flag-lookup"] {
		assert.True(t, f.Metadata.Degraded)
		assert.Equal(t, budget.Size.String(), f.Metadata.DegradedReason)
	}
}

func TestRunMalformed(t *testing.T) {
	t.Parallel()

	broken := testsource.File{Name: "broken.go", Src: "package test\n\nfunc broken() {\n}\n"}
	all := append([]testsource.File{broken}, files...)
	pkg := testsource.Load(t, all...)

	fn := pkg.Func(t, "broken")
	fn.Body.List = append(fn.Body.List, &ast.BadStmt{From: fn.Body.Lbrace + 1, To: fn.Body.Lbrace + 2})

	res, err := Run(t.Context(), unit(pkg, all...), catalog(t), options(2))
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0], ErrMalformedInput)
	assert.Equal(t, "broken.go", res.Skipped[0].File)

	m := bySource(res.Findings)
	require.Len(t, m[finding.SourceSkipped], 1)
	assert.Len(t, m["sql-query"], 1, "other files are analyzed")
}

func TestRunUnreachableDeref(t *testing.T) {
	t.Parallel()

	const src = `package test

import "flag"

func elsewhere(name string, b bool) string {
	var f *flag.Flag
	if b {
		f = flag.Lookup(name)
	} else {
		return f.Name
	}
	return ""
}
`

	files := []testsource.File{{Name: "elsewhere.go", Src: src}}
	pkg := testsource.Load(t, files...)

	res, err := Run(t.Context(), unit(pkg, files...), catalog(t), options(1))
	require.NoError(t, err)

	assert.Empty(t, res.Findings, "the dereference can't follow the lookup")
	assert.Zero(t, res.Stats.Candidates)
}
