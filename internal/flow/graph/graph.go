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
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/sinkguard/internal/flow/block"
	"fillmore-labs.com/sinkguard/internal/flow/tracker"
)

// Block is a basic block of a built [Graph].
type Block struct {
	Start, End token.Pos  // The range of the block in the source file.
	Nodes      []ast.Node // Statements and expressions, in evaluation order.
	Successors []int      // Indices of successor blocks.
}

// Compare returns whether the position p is within the block, before or after.
func (b Block) Compare(p token.Pos) int {
	switch {
	case b.End <= p:
		return -1

	case b.Start > p:
		return 1

	default:
		return 0
	}
}

// Graph is the control-flow graph of a single function body.
//
// Blocks are sorted by source position, the entry block has index 0.
// Exit is the index of the block all returning paths end in, or -1 when the function never returns.
type Graph struct {
	Blocks []Block
	Exit   int
}

// Entry is the index of the entry block.
const Entry = 0

// IndexOf returns the index of the block containing pos.
func (g *Graph) IndexOf(pos token.Pos) (int, bool) {
	return slices.BinarySearchFunc(g.Blocks, pos, Block.Compare)
}

// Build constructs the control-flow graph for the given function body.
//
// Loops produce back edges. Calls that can't return end their block without a successor.
func Build(ctx context.Context, info *types.Info, recv *ast.FieldList, typ *ast.FuncType, body *ast.BlockStmt) Graph {
	if body == nil {
		return Graph{Exit: -1}
	}

	defer trace.StartRegion(ctx, "Graph").End()

	blocks, exit := traverseFunc(info, recv, typ, body)

	return buildGraph(blocks, exit)
}

func traverseFunc(info *types.Info, recv *ast.FieldList, typ *ast.FuncType, body *ast.BlockStmt) ([]*block.Block, *block.Block) {
	b := builder{
		labels:  make(map[string]*LabelTarget),
		Tracker: tracker.New(info),
	}

	entry := b.New(typ.Pos()) // function entry
	entry.Reserve(typ.Pos())

	entry.AddFields(recv)
	entry.AddFields(typ.Params)
	entry.AddFields(typ.Results)

	b.exit = b.New(body.Rbrace) // function exit
	b.exit.Reserve(body.Rbrace)

	last := b.appendStmtList(entry, body.List)
	last.Link(b.exit)

	return b.All(), b.exit
}

// buildGraph creates the indexed graph from the CFG blocks, dropping empty blocks.
func buildGraph(blocks []*block.Block, exit *block.Block) Graph {
	// Build index map: maps each block to its position in the sorted slice
	idxMap := make(map[*block.Block]int, len(blocks))
	for i, block := range blocks {
		idxMap[block] = i
	}

	// Reusable set for tracking visited blocks during recursive successor traversal
	seen := make(map[*block.Block]struct{}, len(blocks))

	g := Graph{
		Blocks: make([]Block, len(blocks)),
		Exit:   idxMap[exit],
	}

	for i, block := range blocks {
		successors := make([]int, 0, 2)

		successors = appendSuccessors(successors, block, idxMap, seen)
		g.Blocks[i] = Block{
			Start:      block.Pos,
			End:        block.End,
			Nodes:      block.Nodes,
			Successors: successors,
		}

		clear(seen) // Reset the seen set for the next iteration
	}

	if !g.reachable(g.Exit) {
		g.Exit = -1
	}

	return g
}

// appendSuccessors recursively collects successor block indices.
func appendSuccessors(successors []int, b *block.Block, idxMap map[*block.Block]int, seen map[*block.Block]struct{}) []int {
	for _, succ := range [...]*block.Block{b.Successor1, b.Successor2} {
		if succ == nil {
			continue
		}

		if _, ok := seen[succ]; ok { // prevent infinite recursion
			continue
		}
		seen[succ] = struct{}{}

		idx, ok := idxMap[succ]
		if !ok {
			// This successor is an empty block and was removed from idxMap.
			// Recursively flatten it by including its successors instead.
			successors = appendSuccessors(successors, succ, idxMap, seen)

			continue
		}

		successors = append(successors, idx)
	}

	return successors
}

// reachable reports whether block target is reachable from the entry.
func (g *Graph) reachable(target int) bool {
	seen := make([]bool, len(g.Blocks))
	seen[Entry] = true
	queue := []int{Entry}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == target {
			return true
		}

		for _, succ := range g.Blocks[curr].Successors {
			if !seen[succ] {
				seen[succ] = true
				queue = append(queue, succ)
			}
		}
	}

	return false
}
