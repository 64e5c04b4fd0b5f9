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
	"fmt"
	"regexp/syntax"
	"unicode"
)

// checkExpression parses expr and rejects shapes known to cause catastrophic backtracking in
// backtracking engines: nested unbounded quantifiers and overlapping alternation under an unbounded
// quantifier. The matcher itself is linear-time; rejecting these keeps pattern files portable.
func checkExpression(expr string) error {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return err
	}

	return checkNode(re, false)
}

func checkNode(re *syntax.Regexp, repeated bool) error {
	switch re.Op {
	case syntax.OpStar, syntax.OpPlus:
		if repeated && canRepeat(re.Sub[0]) {
			return fmt.Errorf("%w: nested unbounded quantifier %q", ErrCatastrophic, re.String())
		}

		return checkNode(re.Sub[0], true)

	case syntax.OpRepeat:
		unbounded := re.Max == -1
		if unbounded && repeated && canRepeat(re.Sub[0]) {
			return fmt.Errorf("%w: nested unbounded quantifier %q", ErrCatastrophic, re.String())
		}

		return checkNode(re.Sub[0], repeated || unbounded)

	case syntax.OpAlternate:
		if repeated && overlapping(re.Sub) {
			return fmt.Errorf("%w: overlapping alternation %q under unbounded quantifier", ErrCatastrophic, re.String())
		}
	}

	for _, sub := range re.Sub {
		if err := checkNode(sub, repeated); err != nil {
			return err
		}
	}

	return nil
}

// canRepeat reports whether re consumes input; empty-width nodes repeated are harmless.
func canRepeat(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText,
		syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return false
	}

	return true
}

func overlapping(alts []*syntax.Regexp) bool {
	firsts := make([]charSet, len(alts))
	for i, alt := range alts {
		firsts[i] = first(alt)
	}

	for i := range firsts {
		for j := i + 1; j < len(firsts); j++ {
			if firsts[i].intersects(firsts[j]) {
				return true
			}
		}
	}

	return false
}

// charSet approximates the set of runes that can start a match.
type charSet struct {
	ranges []rune // pairs of inclusive bounds, as in [syntax.Regexp.Rune] for classes
	any    bool
}

func (c charSet) empty() bool { return !c.any && len(c.ranges) == 0 }

func (c charSet) union(o charSet) charSet {
	if c.any || o.any {
		return charSet{any: true}
	}

	return charSet{ranges: append(append([]rune(nil), c.ranges...), o.ranges...)}
}

func (c charSet) intersects(o charSet) bool {
	if c.empty() || o.empty() {
		return false
	}

	if c.any || o.any {
		return true
	}

	for i := 0; i+1 < len(c.ranges); i += 2 {
		for j := 0; j+1 < len(o.ranges); j += 2 {
			if c.ranges[i] <= o.ranges[j+1] && o.ranges[j] <= c.ranges[i+1] {
				return true
			}
		}
	}

	return false
}

func first(re *syntax.Regexp) charSet {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return charSet{}
		}

		r := re.Rune[0]
		set := charSet{ranges: []rune{r, r}}

		if re.Flags&syntax.FoldCase != 0 {
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				set.ranges = append(set.ranges, f, f)
			}
		}

		return set

	case syntax.OpCharClass:
		return charSet{ranges: re.Rune}

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return charSet{any: true}

	case syntax.OpCapture, syntax.OpPlus:
		return first(re.Sub[0])

	case syntax.OpStar, syntax.OpQuest, syntax.OpRepeat:
		return first(re.Sub[0])

	case syntax.OpConcat:
		var set charSet
		for _, sub := range re.Sub {
			if !canRepeat(sub) {
				continue
			}

			set = set.union(first(sub))
			if !optional(sub) {
				break
			}
		}

		return set

	case syntax.OpAlternate:
		var set charSet
		for _, sub := range re.Sub {
			set = set.union(first(sub))
		}

		return set

	default:
		return charSet{}
	}
}

// optional reports whether re can match the empty string at its start.
func optional(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpStar, syntax.OpQuest, syntax.OpEmptyMatch:
		return true

	case syntax.OpRepeat:
		return re.Min == 0

	case syntax.OpCapture:
		return optional(re.Sub[0])

	default:
		return false
	}
}
