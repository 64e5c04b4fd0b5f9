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

package flow

import (
	"fillmore-labs.com/sinkguard/internal/flow/graph"
)

// Path is a sequence of block indices starting at the entry block.
type Path []int

// Paths enumerates the distinct paths from the entry block to the target block.
//
// Every edge is used at most once per path, so each loop is unrolled at most once and the
// result is finite. A path ends at its first arrival at target. At most limit paths are
// returned; truncated reports whether paths were omitted.
func (g *Graph) Paths(target, limit int) (paths []Path, truncated bool) {
	g.init()

	blocks := g.cfg.Blocks
	if target < 0 || target >= len(blocks) || limit <= 0 {
		return nil, false
	}

	if target == graph.Entry {
		return []Path{{graph.Entry}}, false
	}

	if !g.reachable(graph.Entry, target) {
		return nil, false
	}

	e := enumerator{
		blocks:   blocks,
		target:   target,
		limit:    limit,
		canReach: reaching(blocks, target),
		used:     make(map[edge]struct{}),
		steps:    stepLimit(limit, len(blocks)),
	}

	e.walk(graph.Entry, Path{graph.Entry})

	return e.paths, e.truncated
}

// ExitPaths enumerates the paths from the entry block to the exit block.
func (g *Graph) ExitPaths(limit int) (paths []Path, truncated bool) {
	exit, ok := g.ExitBlock()
	if !ok {
		return nil, false
	}

	return g.Paths(exit, limit)
}

type edge struct{ from, to int }

type enumerator struct {
	blocks    []graph.Block
	target    int
	limit     int
	canReach  []bool
	used      map[edge]struct{}
	paths     []Path
	steps     int
	truncated bool
}

// stepLimit bounds the search effort for graphs where most partial paths are dead ends.
func stepLimit(limit, blocks int) int {
	const factor = 16

	return factor * limit * (blocks + 1)
}

// walk extends path from block curr. It returns false when enumeration must stop.
func (e *enumerator) walk(curr int, path Path) bool {
	for _, succ := range e.blocks[curr].Successors {
		if !e.canReach[succ] {
			continue
		}

		ed := edge{curr, succ}
		if _, ok := e.used[ed]; ok {
			continue
		}

		e.steps--
		if e.steps < 0 {
			e.truncated = true
			return false
		}

		next := append(path, succ)

		if succ == e.target {
			if len(e.paths) == e.limit {
				e.truncated = true
				return false
			}

			e.paths = append(e.paths, append(Path(nil), next...))

			continue
		}

		e.used[ed] = struct{}{}
		ok := e.walk(succ, next)
		delete(e.used, ed)

		if !ok {
			return false
		}
	}

	return true
}

// reaching returns the set of blocks from which target can be reached.
func reaching(blocks []graph.Block, target int) []bool {
	preds := make([][]int, len(blocks))
	for i, b := range blocks {
		for _, succ := range b.Successors {
			preds[succ] = append(preds[succ], i)
		}
	}

	canReach := make([]bool, len(blocks))
	canReach[target] = true

	queue := []int{target}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, pred := range preds[curr] {
			if !canReach[pred] {
				canReach[pred] = true
				queue = append(queue, pred)
			}
		}
	}

	return canReach
}
