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

package graph

import (
	"fmt"
	"go/token"

	"fillmore-labs.com/sinkguard/internal/flow/block"
)

// LabelTarget represents the control flow targets for a labeled statement.
// A label can be the target of break, continue, or goto statements.
type LabelTarget struct {
	statement      *block.Block // The labeled statement itself
	breakTarget    *block.Block // Where to jump on 'break label'
	continueTarget *block.Block // Where to jump on 'continue label'
}

// NewLabelTarget creates a new label target for the block of the labeled statement.
// The break and continue targets are set later based on the statement type.
func NewLabelTarget(body *block.Block) *LabelTarget {
	return &LabelTarget{statement: body}
}

// Body returns the block of the labeled statement itself.
func (l *LabelTarget) Body() *block.Block {
	return l.statement
}

// BranchTarget returns the block that a labeled branch statement jumps to.
func (l *LabelTarget) BranchTarget(tok token.Token) *block.Block {
	switch tok {
	case token.BREAK:
		return l.breakTarget

	case token.CONTINUE:
		return l.continueTarget

	case token.GOTO:
		return l.statement

	default:
		panic(fmt.Sprintf("unexpected labeled branch token: %s", tok))
	}
}

// branchTargets holds the innermost targets of unlabeled break, continue and fallthrough statements.
type branchTargets struct {
	breakTarget, continueTarget, fallthroughTarget *block.Block
}

func (s *branchTargets) branchTarget(tok token.Token) *block.Block {
	switch tok {
	case token.BREAK:
		return s.breakTarget

	case token.CONTINUE:
		return s.continueTarget

	case token.FALLTHROUGH:
		return s.fallthroughTarget

	default:
		panic(fmt.Sprintf("unexpected branch token: %s", tok))
	}
}

// push replaces the target selected by tok, returning the previous one for [branchTargets.pop].
func (s *branchTargets) push(tok token.Token, b *block.Block) (old *block.Block) {
	p := s.slot(tok)
	old, *p = *p, b

	return old
}

func (s *branchTargets) pop(tok token.Token, old *block.Block) {
	*s.slot(tok) = old
}

func (s *branchTargets) slot(tok token.Token) **block.Block {
	switch tok {
	case token.BREAK:
		return &s.breakTarget

	case token.CONTINUE:
		return &s.continueTarget

	default:
		return &s.fallthroughTarget
	}
}
