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
	"fmt"
)

// ErrInvalidPattern is wrapped by every [ValidationError].
var ErrInvalidPattern = errors.New("invalid pattern")

// ValidationError identifies the pattern that failed catalog validation.
type ValidationError struct {
	PatternID string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrInvalidPattern, e.PatternID, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

var (
	// ErrDuplicateID is reported for a pattern id declared twice.
	ErrDuplicateID = errors.New("duplicate pattern id")

	// ErrUnknownID is reported for overrides and disabled entries that name no pattern.
	ErrUnknownID = errors.New("unknown pattern id")

	// ErrCatastrophic is reported for expressions with catastrophic-backtracking shapes.
	ErrCatastrophic = errors.New("expression has a catastrophic backtracking shape")
)
