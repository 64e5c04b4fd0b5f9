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
	"regexp"
	"strings"
	"sync"

	"fillmore-labs.com/sinkguard/internal/severity"
)

// VarPlaceholder is replaced in regular expression templates by the escaped name of the variable
// under analysis.
const VarPlaceholder = "${var}"

// Pattern is a compiled, immutable pattern.
type Pattern struct {
	ID          string
	Name        string
	Description string

	Role       Role
	Classes    ClassSet
	Kind       Kind
	Match      string
	Confidence Confidence

	// Severity is the default severity of a sink.
	Severity severity.Severity

	// Args lists argument positions of a sink call that must be non-constant. Empty means any.
	Args []int

	Deprecated        bool
	DeprecationReason string
	Disabled          bool

	// Builtin marks patterns from the embedded catalog.
	Builtin bool

	re        *regexp.Regexp // compiled expression, nil for templates
	templated bool
	templates sync.Map // variable name -> *regexp.Regexp
	signature string   // normalized call signature
}

// Active reports whether the pattern takes part in matching.
func (p *Pattern) Active() bool {
	return !p.Deprecated && !p.Disabled
}

// Templated reports whether the pattern needs a variable binding.
func (p *Pattern) Templated() bool {
	return p.templated
}

// expression returns the compiled regular expression, instantiating templates for name.
func (p *Pattern) expression(name string) (*regexp.Regexp, bool) {
	if !p.templated {
		return p.re, p.re != nil
	}

	if name == "" {
		return nil, false
	}

	if re, ok := p.templates.Load(name); ok {
		return re.(*regexp.Regexp), true
	}

	re, err := regexp.Compile(Instantiate(p.Match, name))
	if err != nil {
		return nil, false
	}

	actual, _ := p.templates.LoadOrStore(name, re)

	return actual.(*regexp.Regexp), true
}

// Instantiate substitutes [VarPlaceholder] in a validated template with a quoted variable name.
// The name is escaped and anchored at word boundaries, so it can never be interpreted as pattern syntax.
func Instantiate(template, name string) string {
	quoted := regexp.QuoteMeta(name)
	if isASCIIWord(name) {
		quoted = `\b` + quoted + `\b`
	}

	return strings.ReplaceAll(template, VarPlaceholder, "(?:"+quoted+")")
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		switch c := s[i]; {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_':
		default:
			return false
		}
	}

	return true
}
