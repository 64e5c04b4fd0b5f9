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

package finding

import (
	"cmp"
	"errors"
	"fmt"
)

// Hop is one entry of a call chain: the function and the line of the call or mitigation in it.
type Hop struct {
	File string `json:"file"`
	Func string `json:"function"`
	Line int    `json:"line"`
}

// MitigationInstance is a mitigation proven on at least one path.
type MitigationInstance struct {
	PatternID string `json:"pattern-id"`
	Location

	// CallChain starts at the function containing the defect and ends at the mitigation site.
	CallChain []Hop `json:"call-chain"`

	// DiscoveryDepth is the number of call hops, len(CallChain)-1.
	DiscoveryDepth int `json:"discovery-depth"`
}

// ErrEmptyChain is returned for a mitigation without call chain.
var ErrEmptyChain = errors.New("empty call chain")

// NewMitigationInstance creates a [MitigationInstance] whose discovery depth is derived from its
// call chain. The last hop must be the mitigation site.
func NewMitigationInstance(patternID string, site Location, chain []Hop) (MitigationInstance, error) {
	if len(chain) == 0 {
		return MitigationInstance{}, ErrEmptyChain
	}

	if last := chain[len(chain)-1]; last.File != site.File || last.Line != site.Line {
		return MitigationInstance{}, fmt.Errorf("call chain ends at %s:%d, not at mitigation site %s:%d",
			last.File, last.Line, site.File, site.Line)
	}

	return MitigationInstance{
		PatternID:      patternID,
		Location:       site,
		CallChain:      chain,
		DiscoveryDepth: len(chain) - 1,
	}, nil
}

// CrossFunction reports whether the mitigation was found in a called function.
func (m MitigationInstance) CrossFunction() bool {
	return m.DiscoveryDepth > 0
}

func (m MitigationInstance) compare(o MitigationInstance) int {
	return cmp.Or(
		m.Location.Compare(o.Location),
		cmp.Compare(m.PatternID, o.PatternID),
		cmp.Compare(m.DiscoveryDepth, o.DiscoveryDepth),
	)
}
