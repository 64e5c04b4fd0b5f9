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
	"io"

	"gopkg.in/yaml.v3"

	"fillmore-labs.com/sinkguard/internal/config"
)

// DecodeDeclarations decodes a YAML sequence of pattern declarations.
// Unknown fields are rejected.
func DecodeDeclarations(r io.Reader) ([]config.Declaration, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var decls []config.Declaration
	if err := dec.Decode(&decls); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("can't decode pattern declarations: %w", err)
	}

	return decls, nil
}
