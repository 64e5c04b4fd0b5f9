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

import "fmt"

// Kind selects how a pattern's match text is interpreted.
type Kind uint8

const (
	// Literal matches a substring of the evaluated text.
	Literal Kind = iota // literal
	// Call matches a function-call signature such as "html.EscapeString" or "(*database/sql.DB).Query".
	Call // call
	// Regexp matches an RE2 regular expression against the evaluated text.
	Regexp // regexp
)

// Role distinguishes patterns that neutralize a defect from patterns that detect one.
type Role uint8

const (
	// Mitigation patterns prove a defect is neutralized.
	Mitigation Role = iota // mitigation
	// Sink patterns detect candidate defects.
	Sink // sink

	numRoles = iota
)

// Confidence is the reliability of a pattern.
type Confidence uint8

const (
	// High confidence.
	High Confidence = iota // high
	// Medium confidence.
	Medium // medium
	// Low confidence.
	Low // low
)

func parseKind(s string) (Kind, error) {
	switch s {
	case "literal":
		return Literal, nil
	case "call":
		return Call, nil
	case "regexp":
		return Regexp, nil
	}

	return 0, fmt.Errorf("unknown pattern kind %q", s)
}

func parseRole(s string) (Role, error) {
	switch s {
	case "", "mitigation":
		return Mitigation, nil
	case "sink":
		return Sink, nil
	}

	return 0, fmt.Errorf("unknown pattern role %q", s)
}

func parseConfidence(s string) (Confidence, error) {
	switch s {
	case "high":
		return High, nil
	case "", "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}

	return 0, fmt.Errorf("unknown confidence %q", s)
}
