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
	"regexp"
	"slices"
	"strings"

	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/severity"
)

// Catalog is a validated, read-only set of patterns.
type Catalog struct {
	patterns []*Pattern
	byID     map[string]*Pattern

	active     [numClasses][numRoles][]*Pattern
	deprecated [numClasses][]*Pattern
}

// Load validates and compiles builtin and declared patterns, then applies overrides and disabled ids.
//
// Loading is all-or-nothing: the first invalid declaration fails the load with a [ValidationError]
// naming the offending pattern.
func Load(builtin, declared []config.Declaration, overrides []config.Override, disabled []string) (*Catalog, error) {
	c := &Catalog{
		patterns: make([]*Pattern, 0, len(builtin)+len(declared)),
		byID:     make(map[string]*Pattern, len(builtin)+len(declared)),
	}

	if err := c.add(builtin, true); err != nil {
		return nil, err
	}

	if err := c.add(declared, false); err != nil {
		return nil, err
	}

	for _, o := range overrides {
		if err := config.ValidateStruct(o); err != nil {
			return nil, &ValidationError{PatternID: o.ID, Err: err}
		}

		p, ok := c.byID[o.ID]
		if !ok {
			return nil, &ValidationError{PatternID: o.ID, Err: fmt.Errorf("override: %w", ErrUnknownID)}
		}

		if o.Deprecated {
			p.Deprecated, p.DeprecationReason = true, o.Reason
		}

		if o.Disabled {
			p.Disabled = true
		}
	}

	for _, id := range disabled {
		p, ok := c.byID[id]
		if !ok {
			return nil, &ValidationError{PatternID: id, Err: fmt.Errorf("disable: %w", ErrUnknownID)}
		}

		p.Disabled = true
	}

	c.index()

	return c, nil
}

func (c *Catalog) add(decls []config.Declaration, builtin bool) error {
	for _, d := range decls {
		p, err := compile(d)
		if err != nil {
			return &ValidationError{PatternID: d.ID, Err: err}
		}

		if _, ok := c.byID[p.ID]; ok {
			return &ValidationError{PatternID: p.ID, Err: ErrDuplicateID}
		}

		p.Builtin = builtin
		c.byID[p.ID] = p
		c.patterns = append(c.patterns, p)
	}

	return nil
}

func (c *Catalog) index() {
	for _, p := range c.patterns {
		for class := range p.Classes.All() {
			switch {
			case p.Active():
				c.active[class][p.Role] = append(c.active[class][p.Role], p)

			case p.Deprecated && !p.Disabled && p.Role == Mitigation:
				c.deprecated[class] = append(c.deprecated[class], p)
			}
		}
	}
}

// compile validates a single declaration.
func compile(d config.Declaration) (*Pattern, error) {
	if err := config.ValidateStruct(d); err != nil {
		return nil, err
	}

	kind, err := parseKind(d.Kind)
	if err != nil {
		return nil, err
	}

	role, err := parseRole(d.Role)
	if err != nil {
		return nil, err
	}

	confidence, err := parseConfidence(d.Confidence)
	if err != nil {
		return nil, err
	}

	var classes ClassSet
	for _, name := range d.Classes {
		class, err := ParseClass(name)
		if err != nil {
			return nil, err
		}

		classes = classes.with(class)
	}

	sev := severity.Medium
	if d.Severity != "" {
		if sev, err = severity.Parse(d.Severity); err != nil {
			return nil, err
		}
	}

	p := &Pattern{
		ID:                d.ID,
		Name:              d.Name,
		Description:       d.Description,
		Role:              role,
		Classes:           classes,
		Kind:              kind,
		Match:             d.Match,
		Confidence:        confidence,
		Severity:          sev,
		Args:              slices.Clone(d.Args),
		Deprecated:        d.Deprecated,
		DeprecationReason: d.DeprecationReason,
	}

	switch kind {
	case Call:
		if strings.Contains(d.Match, VarPlaceholder) {
			return nil, fmt.Errorf("call pattern %q can't use %s", d.Match, VarPlaceholder)
		}

		p.signature = NormalizeSignature(d.Match)

	case Regexp:
		p.templated = strings.Contains(d.Match, VarPlaceholder)

		expr := d.Match
		if p.templated {
			if role == Sink {
				return nil, fmt.Errorf("sink pattern can't use %s", VarPlaceholder)
			}

			expr = Instantiate(expr, "v")
		}

		if err := checkExpression(expr); err != nil {
			return nil, err
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}

		if !p.templated {
			p.re = re
		}
	}

	return p, nil
}

func (s ClassSet) with(c DefectClass) ClassSet {
	s.bits.Enable(1 << c)
	return s
}

// Pattern returns the pattern with the given id, including deprecated and disabled ones.
func (c *Catalog) Pattern(id string) (*Pattern, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns all patterns in load order.
func (c *Catalog) All() []*Pattern {
	return slices.Clone(c.patterns)
}

// Sinks returns the active sink patterns of a class.
func (c *Catalog) Sinks(class DefectClass) []*Pattern {
	return c.active[class][Sink]
}

// Mitigations returns the active mitigation patterns of a class.
func (c *Catalog) Mitigations(class DefectClass) []*Pattern {
	return c.active[class][Mitigation]
}

// Deprecated returns the deprecated, not disabled mitigation patterns of a class.
func (c *Catalog) Deprecated(class DefectClass) []*Pattern {
	return c.deprecated[class]
}
