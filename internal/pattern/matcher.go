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
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"k8s.io/utils/clock"
)

// Subject is the input of a single pattern evaluation.
type Subject struct {
	// Text is the source text evaluated by literal and regexp patterns.
	Text string

	// Calls are the normalized signatures of the calls in Text, in source order.
	Calls []string

	// Var is the variable name bound to [VarPlaceholder] in templates.
	Var string
}

// EvaluationResult records a single pattern evaluation.
//
// A timed-out evaluation never matched: an unproven mitigation must not suppress a defect.
type EvaluationResult struct {
	PatternID string
	Matched   bool
	TimedOut  bool
	Elapsed   time.Duration
	TextLen   int
}

// Matcher evaluates patterns within a fixed time ceiling.
//
// Evaluation is cooperative: the deadline is checked while the input is consumed, and an
// expired deadline ends the evaluation immediately, without leaving work running.
type Matcher struct {
	clock   clock.PassiveClock
	timeout time.Duration
}

// NewMatcher creates a [Matcher] with the given clock and per-evaluation timeout.
func NewMatcher(c clock.PassiveClock, timeout time.Duration) *Matcher {
	if c == nil {
		c = clock.RealClock{}
	}

	return &Matcher{clock: c, timeout: timeout}
}

// checkInterval is the number of runes or bytes consumed between deadline checks.
const checkInterval = 1024

// Evaluate evaluates p against s.
func (m *Matcher) Evaluate(p *Pattern, s Subject) EvaluationResult {
	start := m.clock.Now()
	d := deadline{clock: m.clock, at: start.Add(m.timeout)}

	var matched bool
	switch p.Kind {
	case Literal:
		matched = d.contains(s.Text, literalText(p.Match, s.Var))

	case Call:
		matched = d.anyCall(p.signature, s.Calls)

	case Regexp:
		if re, ok := p.expression(s.Var); ok {
			r := &deadlineReader{text: s.Text, deadline: &d}
			matched = re.MatchReader(r)
		}
	}

	result := EvaluationResult{
		PatternID: p.ID,
		Elapsed:   m.clock.Since(start),
		TextLen:   len(s.Text),
	}

	if d.expired {
		result.TimedOut = true
		return result
	}

	result.Matched = matched

	return result
}

func literalText(lit, name string) string {
	if name == "" || !strings.Contains(lit, VarPlaceholder) {
		return lit
	}

	return strings.ReplaceAll(lit, VarPlaceholder, name)
}

// deadline tracks the evaluation deadline. Once expired, it stays expired.
type deadline struct {
	clock   clock.PassiveClock
	at      time.Time
	expired bool
}

func (d *deadline) check() bool {
	if !d.expired && !d.clock.Now().Before(d.at) {
		d.expired = true
	}

	return d.expired
}

// contains is [strings.Contains] over chunks, checking the deadline between chunks.
func (d *deadline) contains(text, lit string) bool {
	if lit == "" {
		return false
	}

	overlap := len(lit) - 1
	for start := 0; start < len(text); start += checkInterval {
		if d.check() {
			return false
		}

		end := min(start+checkInterval+overlap, len(text))
		if strings.Contains(text[start:end], lit) {
			return true
		}
	}

	return false
}

func (d *deadline) anyCall(signature string, calls []string) bool {
	for i, call := range calls {
		if i%checkInterval == 0 && d.check() {
			return false
		}

		if matchSignature(signature, call) {
			return true
		}
	}

	return false
}

var errDeadline = errors.New("pattern evaluation deadline exceeded")

// deadlineReader is an [io.RuneReader] over text that reports end of input once the deadline expires.
type deadlineReader struct {
	text     string
	pos      int
	count    int
	deadline *deadline
}

func (r *deadlineReader) ReadRune() (rune, int, error) {
	if r.count%checkInterval == 0 && r.deadline.check() {
		return 0, 0, errDeadline
	}

	if r.pos >= len(r.text) {
		return 0, 0, io.EOF
	}

	r.count++

	c, size := utf8.DecodeRuneInString(r.text[r.pos:])
	r.pos += size

	return c, size, nil
}
