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
	"iter"
	"strings"

	"fillmore-labs.com/sinkguard/internal/config"
)

// DefectClass is a closed set of defect classes.
type DefectClass uint8

//go:generate go tool stringer -type DefectClass,Kind,Role,Confidence -linecomment
const (
	// Injection covers SQL and command injection.
	Injection DefectClass = iota // injection
	// XSS covers cross-site scripting.
	XSS // xss
	// NullDeref covers nil pointer dereferences.
	NullDeref // null_deref
	// AuthBypass covers privileged operations without authorization.
	AuthBypass // auth_bypass

	numClasses = iota
)

// ParseClass returns the [DefectClass] with the given name.
func ParseClass(s string) (DefectClass, error) {
	for c := range DefectClass(numClasses) {
		if c.String() == s {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown defect class %q", s)
}

// Description returns a human-readable description of the defect class.
func (c DefectClass) Description() string {
	switch c {
	case Injection:
		return "possible injection"
	case XSS:
		return "possible cross-site scripting"
	case NullDeref:
		return "possible nil dereference"
	case AuthBypass:
		return "privileged operation without authorization"
	default:
		return "defect"
	}
}

// Rule describes how candidate defects of a class are detected.
type Rule struct {
	// NonConstantArgs requires a sink call with at least one non-constant argument.
	NonConstantArgs bool

	// Deref makes the dereference of a value returned by the sink call the defect.
	Deref bool

	// BindsVar binds the name of the dereferenced variable to ${var}.
	BindsVar bool
}

var rules = [numClasses]Rule{
	Injection:  {NonConstantArgs: true},
	XSS:        {NonConstantArgs: true},
	NullDeref:  {Deref: true, BindsVar: true},
	AuthBypass: {},
}

// Rule returns the detection rule of the class.
func (c DefectClass) Rule() Rule {
	if c >= numClasses {
		return Rule{}
	}

	return rules[c]
}

// Classes yields all defect classes in ascending order.
func Classes() iter.Seq[DefectClass] {
	return func(yield func(DefectClass) bool) {
		for c := range DefectClass(numClasses) {
			if !yield(c) {
				return
			}
		}
	}
}

// ClassSet is a set of defect classes.
type ClassSet struct {
	bits config.BitMask[uint8]
}

// NewClassSet returns a set containing classes.
func NewClassSet(classes ...DefectClass) ClassSet {
	var s ClassSet
	for _, c := range classes {
		s.bits.Enable(1 << c)
	}

	return s
}

// Has reports whether c is in the set.
func (s ClassSet) Has(c DefectClass) bool {
	return s.bits.Enabled(1 << c)
}

// Empty reports whether the set is empty.
func (s ClassSet) Empty() bool {
	return s.bits.Empty()
}

// All yields the classes in the set in ascending order.
func (s ClassSet) All() iter.Seq[DefectClass] {
	return func(yield func(DefectClass) bool) {
		for c := range DefectClass(numClasses) {
			if s.Has(c) && !yield(c) {
				return
			}
		}
	}
}

func (s ClassSet) String() string {
	var b strings.Builder
	for c := range s.All() {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(c.String())
	}

	return b.String()
}
