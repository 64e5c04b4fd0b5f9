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

// Package flow builds control-flow graphs of function bodies and enumerates their paths.
package flow

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"fillmore-labs.com/sinkguard/internal/flow/graph"
)

// Graph is the control-flow graph of one function.
type Graph struct {
	// Lazy evaluation: graph construction is deferred until first use
	build func() graph.Graph
	built bool
	cfg   graph.Graph

	// Reusable BFS state to avoid allocations on each reachability check
	seen  []bool // Visited set
	queue []int  // Ring buffer
}

// NewGraph analyzes the control flow of a function body.
func NewGraph(ctx context.Context, info *types.Info, recv *ast.FieldList, typ *ast.FuncType, body *ast.BlockStmt) *Graph {
	build := func() graph.Graph {
		return graph.Build(ctx, info, recv, typ, body)
	}

	return &Graph{build: build}
}

// Func returns the [Graph] of a function declaration or literal.
func Func(ctx context.Context, info *types.Info, fn ast.Node) *Graph {
	switch fn := fn.(type) {
	case *ast.FuncDecl:
		return NewGraph(ctx, info, fn.Recv, fn.Type, fn.Body)

	case *ast.FuncLit:
		return NewGraph(ctx, info, nil, fn.Type, fn.Body)

	default:
		return nil
	}
}

// ErrBuild is returned by [Graph.Build] for function bodies the builder can't handle.
var ErrBuild = errors.New("can't build control-flow graph")

// Build constructs the graph, which otherwise happens on first use. A body containing syntax the
// builder does not expect is reported as [ErrBuild]; the graph must not be used after an error.
func (g *Graph) Build() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBuild, r)
		}
	}()

	g.init()

	return nil
}

func (g *Graph) init() {
	if g.built {
		return
	}

	g.cfg, g.built = g.build(), true

	// Allocate reusable BFS state sized to the number of blocks.
	// These are reset on each reachability check rather than reallocated.
	g.queue = make([]int, len(g.cfg.Blocks))
	g.seen = make([]bool, len(g.cfg.Blocks))
}

// Blocks returns the basic blocks, the entry block first.
func (g *Graph) Blocks() []graph.Block {
	g.init()

	return g.cfg.Blocks
}

// Block returns the index of the block containing pos.
func (g *Graph) Block(pos token.Pos) (int, bool) {
	g.init()

	return g.cfg.IndexOf(pos)
}

// ExitBlock returns the index of the exit block, false when the function never returns.
func (g *Graph) ExitBlock() (int, bool) {
	g.init()

	return g.cfg.Exit, g.cfg.Exit >= 0
}

// Reachable determines if the position `to` is reachable from the position `from`.
func (g *Graph) Reachable(from, to token.Pos) (reachable, ok bool) {
	if g == nil {
		return true, false
	}

	g.init()

	source, ok := g.cfg.IndexOf(from)
	if !ok {
		return true, false
	}

	target, ok := g.cfg.IndexOf(to)
	if !ok {
		return true, false
	}

	// Are we at a later position in the same block?
	if source == target && to >= from {
		return true, true
	}

	return g.reachable(source, target), true
}

// reachable performs a BFS from block source to block target.
func (g *Graph) reachable(source, target int) bool {
	clear(g.seen) // Reset visited set from previous checks

	// We use a ring buffer queue to minimize allocations.
	qTail := g.enqueueSuccessors(source, 0)

	for qHead := 0; qHead < qTail; qHead++ {
		curr := g.queue[qHead]

		if curr == target {
			return true
		}

		qTail = g.enqueueSuccessors(curr, qTail)
	}

	return false
}

// enqueueSuccessors adds unseen successors of block s to the queue.
func (g *Graph) enqueueSuccessors(s, qTail int) int {
	for _, succ := range g.cfg.Blocks[s].Successors {
		if g.seen[succ] {
			continue
		}
		g.seen[succ] = true

		g.queue[qTail] = succ
		qTail++
	}

	return qTail
}
