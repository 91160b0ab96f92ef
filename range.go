// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package commitgraph

import (
	"context"
	"iter"
)

// RangeStream yields every changeset simultaneously a descendant of start
// and an ancestor of end, ascending by generation. If start is not an
// ancestor of end, the stream is empty. end == start yields exactly
// {start}.
func (g *CommitGraph) RangeStream(ctx context.Context, start, end ChangesetId) iter.Seq2[ChangesetId, error] {
	return func(yield func(ChangesetId, error) bool) {
		startEdges, err := g.fetchEdgesRequired(ctx, start)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		startGen := startEdges.Node.Generation

		if start == end {
			yield(start, nil)
			return
		}

		// Phase 1: downward discovery from end, recording a reverse
		// (parent -> children) map so phase 2 can walk back up.
		f := g.newFrontier()
		endEdges, err := g.fetchEdgesRequired(ctx, end)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		f.Insert(end, uint64(endEdges.Node.Generation))

		childMap := make(map[ChangesetId][]ChangesetNode)
		reachedStart := false

		for !f.IsEmpty() {
			if err := ctx.Err(); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			gen, ids, ok := f.PopLast()
			if !ok {
				break
			}
			for _, id := range ids {
				if id == start {
					reachedStart = true
				}
			}
			if Generation(gen) <= startGen {
				continue
			}
			edges, err := g.fetchManyEdges(ctx, ids, PrefetchForP1LinearTraversal)
			if err != nil {
				yield(ChangesetId{}, err)
				return
			}
			for _, id := range ids {
				e, ok := edges[id]
				if !ok {
					yield(ChangesetId{}, missingChangesetErr(id))
					return
				}
				for _, parent := range e.Parents {
					childMap[parent.CsID] = append(childMap[parent.CsID], ChangesetNode{CsID: id, Generation: Generation(gen)})
					f.Insert(parent.CsID, uint64(parent.Generation))
				}
			}
		}

		if !reachedStart {
			return
		}

		// Phase 2: upward emission from start, following childMap.
		upwards := g.newFrontier()
		upwards.Insert(start, uint64(startGen))
		emitted := make(map[ChangesetId]struct{})
		for !upwards.IsEmpty() {
			if err := ctx.Err(); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			_, ids, ok := upwards.PopFirst()
			if !ok {
				break
			}
			for _, id := range ids {
				if _, dup := emitted[id]; dup {
					continue
				}
				emitted[id] = struct{}{}
				if !yield(id, nil) {
					return
				}
				for _, child := range childMap[id] {
					upwards.Insert(child.CsID, uint64(child.Generation))
				}
			}
		}
	}
}

// Range materializes RangeStream into a slice.
func (g *CommitGraph) Range(ctx context.Context, start, end ChangesetId) ([]ChangesetId, error) {
	var out []ChangesetId
	for id, err := range g.RangeStream(ctx, start, end) {
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
