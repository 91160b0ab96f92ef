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
	"sort"

	"github.com/erigontech/commitgraph/internal/genmath"
)

// AncestorsSlice is one generation-bounded chunk returned by SliceAncestors:
// every id in Changesets has generation in [Start, Start+size).
type AncestorsSlice struct {
	Start      uint64
	Changesets []ChangesetId
}

// NeedsProcessing is a user-supplied predicate returning, from a candidate
// set, the subset still requiring processing. It encodes checkpoint state
// external to the engine; a node it drops is neither emitted nor expanded
// further.
type NeedsProcessing func(ctx context.Context, candidates []ChangesetId) ([]ChangesetId, error)

// SliceAncestors partitions the ancestor set of heads into ascending
// generation windows of width sliceSize, one call to needsProcessing per
// generation wave. Window boundaries fall at 1, 1+S, 1+2S, ….
func (g *CommitGraph) SliceAncestors(ctx context.Context, heads []ChangesetId, needsProcessing NeedsProcessing, sliceSize uint64) ([]AncestorsSlice, error) {
	if sliceSize == 0 {
		return nil, invariantErr("slice_ancestors: sliceSize must be positive")
	}

	f, err := g.frontierOf(ctx, heads)
	if err != nil {
		return nil, err
	}
	if f.IsEmpty() {
		return nil, nil
	}

	windows := make(map[uint64][]ChangesetId)
	for !f.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen, ids, ok := f.PopLast()
		if !ok {
			break
		}
		needed, err := needsProcessing(ctx, ids)
		if err != nil {
			return nil, err
		}
		neededSet := make(map[ChangesetId]struct{}, len(needed))
		for _, id := range needed {
			neededSet[id] = struct{}{}
		}

		windowIndex := genmath.CeilDiv(gen, sliceSize)
		windowStart := (windowIndex-1)*sliceSize + 1
		var toExpand []ChangesetId
		for _, id := range ids {
			if _, ok := neededSet[id]; !ok {
				continue
			}
			windows[windowStart] = append(windows[windowStart], id)
			toExpand = append(toExpand, id)
		}
		if len(toExpand) == 0 {
			continue
		}

		edges, err := g.fetchManyEdges(ctx, toExpand, PrefetchForP1LinearTraversal)
		if err != nil {
			return nil, err
		}
		for _, id := range toExpand {
			e, ok := edges[id]
			if !ok {
				return nil, missingChangesetErr(id)
			}
			for _, parent := range e.Parents {
				f.Insert(parent.CsID, uint64(parent.Generation))
			}
		}
	}

	starts := make([]uint64, 0, len(windows))
	for start := range windows {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]AncestorsSlice, len(starts))
	for i, start := range starts {
		out[i] = AncestorsSlice{Start: start, Changesets: windows[start]}
	}
	return out, nil
}
