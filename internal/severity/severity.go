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

// Package severity defines the ordered severity scale of findings.
package severity

import (
	"fmt"
	"strings"
)

// Severity is a finding severity, ordered from lowest to highest.
type Severity uint8

//go:generate go tool stringer -type Severity -linecomment
const (
	// Low is the lowest level, also known as "info".
	Low Severity = iota // low
	// Medium is also known as "warning".
	Medium // medium
	// High is also known as "error".
	High // high
	// Critical is the highest level.
	Critical // critical
)

// Parse returns the [Severity] for a level name or one of its aliases.
func Parse(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical, nil
	case "high", "error":
		return High, nil
	case "medium", "warning":
		return Medium, nil
	case "low", "info":
		return Low, nil
	}

	return Low, fmt.Errorf("unknown severity %q", s)
}

// Downgrade moves the severity down by levels, never below [Low].
func (s Severity) Downgrade(levels int) Severity {
	if levels <= 0 {
		return s
	}

	if levels >= int(s) {
		return Low
	}

	return s - Severity(levels)
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}
