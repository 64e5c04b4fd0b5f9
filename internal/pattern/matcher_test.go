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

package pattern

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"fillmore-labs.com/sinkguard/internal/config"
)

// steppingClock advances by step on every reading.
type steppingClock struct {
	*clocktesting.FakePassiveClock
	step time.Duration
}

func newSteppingClock(step time.Duration) *steppingClock {
	return &steppingClock{
		FakePassiveClock: clocktesting.NewFakePassiveClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		step:             step,
	}
}

func (c *steppingClock) Now() time.Time {
	now := c.FakePassiveClock.Now()
	c.SetTime(now.Add(c.step))

	return now
}

func (c *steppingClock) Since(ts time.Time) time.Duration {
	return c.FakePassiveClock.Now().Sub(ts)
}

func mustCompile(t *testing.T, d config.Declaration) *Pattern {
	t.Helper()

	if d.ID == "" {
		d.ID = "test"
	}

	if len(d.Classes) == 0 {
		d.Classes = []string{"injection"}
	}

	p, err := compile(d)
	require.NoError(t, err)

	return p
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decl    config.Declaration
		subject Subject
		want    bool
	}{
		{
			name:    "literal",
			decl:    config.Declaration{Kind: "literal", Match: "escape("},
			subject: Subject{Text: "x := escape(y)"},
			want:    true,
		},
		{
			name:    "literal miss",
			decl:    config.Declaration{Kind: "literal", Match: "escape("},
			subject: Subject{Text: "x := y"},
		},
		{
			name:    "pointer receiver",
			decl:    config.Declaration{Kind: "call", Match: "(*database/sql.DB).Query"},
			subject: Subject{Calls: []string{"fmt.Sprintf", "(database/sql.DB).Query"}},
			want:    true,
		},
		{
			name:    "bare name",
			decl:    config.Declaration{Kind: "call", Match: "Authorize"},
			subject: Subject{Calls: []string{"(example.com/auth.Service).Authorize"}},
			want:    true,
		},
		{
			name:    "bare name prefix",
			decl:    config.Declaration{Kind: "call", Match: "Authorize"},
			subject: Subject{Calls: []string{"example.com/auth.MustAuthorize"}},
		},
		{
			name:    "qualified mismatch",
			decl:    config.Declaration{Kind: "call", Match: "html.EscapeString"},
			subject: Subject{Calls: []string{"example.com/html.EscapeString"}},
		},
		{
			name:    "regexp",
			decl:    config.Declaration{Kind: "regexp", Match: `\bcheckAuth\w*\(`},
			subject: Subject{Text: "if !checkAuthToken(r) {"},
			want:    true,
		},
		{
			name:    "template",
			decl:    config.Declaration{Kind: "regexp", Match: `${var}\s*!=\s*nil`},
			subject: Subject{Text: "if p != nil {", Var: "p"},
			want:    true,
		},
		{
			name:    "template word boundary",
			decl:    config.Declaration{Kind: "regexp", Match: `${var}\s*!=\s*nil`},
			subject: Subject{Text: "if pp != nil {", Var: "p"},
		},
		{
			name:    "template without binding",
			decl:    config.Declaration{Kind: "regexp", Match: `${var}\s*!=\s*nil`},
			subject: Subject{Text: "if p != nil {"},
		},
	}

	m := NewMatcher(nil, 100*time.Millisecond)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := mustCompile(t, tt.decl)

			got := m.Evaluate(p, tt.subject)

			assert.Equal(t, tt.want, got.Matched)
			assert.False(t, got.TimedOut)
			assert.Equal(t, "test", got.PatternID)
			assert.Equal(t, len(tt.subject.Text), got.TextLen)
		})
	}
}

func TestEvaluateTimeout(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 200*checkInterval) + "b"
	calls := make([]string, 200*checkInterval)
	for i := range calls {
		calls[i] = "fmt.Sprint"
	}
	calls = append(calls, "html.EscapeString")

	tests := []struct {
		name    string
		decl    config.Declaration
		subject Subject
	}{
		{"regexp", config.Declaration{Kind: "regexp", Match: `a+b`}, Subject{Text: long}},
		{"literal", config.Declaration{Kind: "literal", Match: "ab"}, Subject{Text: long}},
		{"call", config.Declaration{Kind: "call", Match: "html.EscapeString"}, Subject{Calls: calls}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := mustCompile(t, tt.decl)
			m := NewMatcher(newSteppingClock(time.Millisecond), 100*time.Millisecond)

			got := m.Evaluate(p, tt.subject)

			assert.True(t, got.TimedOut)
			assert.False(t, got.Matched, "a timed-out evaluation never matches")
			assert.GreaterOrEqual(t, got.Elapsed, 100*time.Millisecond)
		})
	}
}

func TestEvaluateWithinTimeout(t *testing.T) {
	t.Parallel()

	p := mustCompile(t, config.Declaration{Kind: "regexp", Match: `a+b`})
	m := NewMatcher(newSteppingClock(time.Millisecond), 100*time.Millisecond)

	got := m.Evaluate(p, Subject{Text: strings.Repeat("a", 10*checkInterval) + "b"})

	assert.True(t, got.Matched)
	assert.False(t, got.TimedOut)
}

func TestInstantiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, template, variable, want string
	}{
		{"word", `${var} != nil`, "err", `(?:\berr\b) != nil`},
		{"meta", `${var} != nil`, "a.b", `(?:a\.b) != nil`},
		{"twice", `${var}|${var}`, "x", `(?:\bx\b)|(?:\bx\b)`},
		{"syntax", `${var}`, "x.*(", `(?:x\.\*\()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Instantiate(tt.template, tt.variable))
		})
	}
}

func TestTemplateCannotInject(t *testing.T) {
	t.Parallel()

	p := mustCompile(t, config.Declaration{Kind: "regexp", Match: `${var}\s*!=\s*nil`})
	m := NewMatcher(nil, 100*time.Millisecond)

	got := m.Evaluate(p, Subject{Text: "if q != nil {", Var: ".*"})
	assert.False(t, got.Matched)

	got = m.Evaluate(p, Subject{Text: "if .* != nil {", Var: ".*"})
	assert.True(t, got.Matched)
}

func TestNormalizeSignature(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(database/sql.DB).Query", NormalizeSignature("(*database/sql.DB).Query"))
	assert.Equal(t, "(database/sql.DB).Query", NormalizeSignature(" (database/sql.DB).Query "))
	assert.Equal(t, "html.EscapeString", NormalizeSignature("html.EscapeString"))
}
