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

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is the sentinel wrapped by every [ConfigError].
var ErrInvalid = errors.New("invalid configuration")

// ConfigError reports a configuration problem detected before analysis starts.
// It is fatal for the whole run.
type ConfigError struct {
	// Field names the offending setting, e.g. "PatternTimeoutMs" or `pattern "sql-atoi"`.
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalid, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalid, e.Err}
}

// Invalid wraps err as a [ConfigError] for field.
func Invalid(field string, err error) error {
	return &ConfigError{Field: field, Err: err}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the validate tags of s and reports the first violation as a [ConfigError].
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return Invalid("config", err)
	}

	fe := errs[0]

	return Invalid(fe.Namespace(), constraintError{tag: fe.Tag(), param: fe.Param(), value: fe.Value()})
}

type constraintError struct {
	tag, param string
	value      any
}

func (e constraintError) Error() string {
	if e.param == "" {
		return fmt.Sprintf("value %v violates %q", e.value, e.tag)
	}

	return fmt.Sprintf("value %v violates %q (%s)", e.value, e.tag, e.param)
}
