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

package analyzer

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/pattern"
)

type boolValue[F any, B boolFlag[F]] struct {
	flags B
	value F
}

type boolFlag[F any] interface {
	comparable
	Set(flag F, value bool)
	Enabled(flag F) bool
}

func newBehaviorValue(flags *config.BitMask[config.Behavior], value config.Behavior) flag.Getter {
	return boolValue[config.Behavior, *config.BitMask[config.Behavior]]{flags: flags, value: value}
}

// Set implements [flag.Value].
func (f boolValue[_, B]) Set(s string) error {
	b, err := parseBool(s)
	if err != nil {
		return err
	}

	f.flags.Set(f.value, b)

	return nil
}

// String implements [flag.Value].
func (f boolValue[_, B]) String() string {
	var null B
	if f.flags == null {
		return "false"
	}

	return strconv.FormatBool(f.flags.Enabled(f.value))
}

// Get implements [flag.Getter].
func (f boolValue[_, B]) Get() any {
	var null B
	if f.flags == null {
		return false
	}

	return f.flags.Enabled(f.value)
}

// IsBoolFlag returns true to indicate that this is a boolean [flag.Value].
func (f boolValue[_, _]) IsBoolFlag() bool { return true }

// parseBool returns the boolean value represented by the string.
func parseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "on", "On":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "off", "Off":
		return false, nil
	}

	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

// millisValue is a duration flag stored as milliseconds.
type millisValue struct{ ms *int }

// Set implements [flag.Value].
func (m millisValue) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*m.ms = int(d.Milliseconds())

	return nil
}

// String implements [flag.Value].
func (m millisValue) String() string {
	if m.ms == nil {
		return "0s"
	}

	return (time.Duration(*m.ms) * time.Millisecond).String()
}

// listValue appends comma separated entries to a list.
type listValue struct{ list *[]string }

// Set implements [flag.Value].
func (l listValue) Set(s string) error {
	for entry := range strings.SplitSeq(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			*l.list = append(*l.list, entry)
		}
	}

	return nil
}

// String implements [flag.Value].
func (l listValue) String() string {
	if l.list == nil {
		return ""
	}

	return strings.Join(*l.list, ",")
}

// fileValue loads a file when the flag is set.
type fileValue struct {
	load func(f *os.File) error
	path *string
}

// Set implements [flag.Value].
func (v fileValue) Set(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := v.load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	*v.path = path

	return nil
}

// String implements [flag.Value].
func (v fileValue) String() string {
	if v.path == nil {
		return ""
	}

	return *v.path
}

func patternsFile(c *config.Config) fileValue {
	return fileValue{
		load: func(f *os.File) error {
			decls, err := pattern.DecodeDeclarations(f)
			if err != nil {
				return err
			}

			c.Patterns = append(c.Patterns, decls...)

			return nil
		},
		path: new(string),
	}
}

func configFile(c *config.Config) fileValue {
	return fileValue{
		load: func(f *os.File) error { return c.Decode(f) },
		path: new(string),
	}
}
