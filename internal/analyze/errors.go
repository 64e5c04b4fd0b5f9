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

package analyze

import (
	"errors"
	"fmt"
	"go/token"
)

// ErrMalformedInput is the sentinel wrapped by [MalformedInputError].
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a file that cannot be analyzed.
// The file is skipped, analysis of the other files continues.
type MalformedInputError struct {
	File   string
	Pos    token.Pos
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.File, ErrMalformedInput, e.Reason)
}

// Unwrap returns [ErrMalformedInput].
func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
