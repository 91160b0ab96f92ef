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

// AncestorsDifferenceStreamWith streams every changeset reachable from heads
// that does not satisfy monotonicPrune, in descending generation order,
// without materializing the whole result. The heads frontier is lowered one
// generation-wave at a time, and anything draining out of it that the prune
// predicate doesn't match is emitted immediately.
func (g *CommitGraph) AncestorsDifferenceStreamWith(ctx context.Context, heads []ChangesetId, monotonicPrune Predicate) iter.Seq2[ChangesetId, error] {
	return func(yield func(ChangesetId, error) bool) {
		if monotonicPrune == nil {
			monotonicPrune = AlwaysFalse
		}
		f, err := g.frontierOf(ctx, heads)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		seen := make(map[ChangesetId]struct{}, len(heads))

		for !f.IsEmpty() {
			if err := ctx.Err(); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			gen, ids, ok := f.PopLast()
			if !ok {
				break
			}
			var toExpand []ChangesetId
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				matched, err := monotonicPrune.Matches(ctx, id, Generation(gen))
				if err != nil {
					yield(ChangesetId{}, err)
					return
				}
				if matched {
					// monotonicPrune matches its own ancestors too, so there
					// is nothing further to discover down this path.
					continue
				}
				toExpand = append(toExpand, id)
				if !yield(id, nil) {
					return
				}
			}
			edges, err := g.fetchManyEdges(ctx, toExpand, PrefetchForP1LinearTraversal)
			if err != nil {
				yield(ChangesetId{}, err)
				return
			}
			for _, id := range toExpand {
				e, ok := edges[id]
				if !ok {
					yield(ChangesetId{}, missingChangesetErr(id))
					return
				}
				for _, parent := range e.Parents {
					f.Insert(parent.CsID, uint64(parent.Generation))
				}
			}
		}
	}
}

// AncestorsDifferenceStream streams ancestors(heads) \ ancestors(common),
// with no predicate pruning. An empty common streams all of ancestors(heads).
func (g *CommitGraph) AncestorsDifferenceStream(ctx context.Context, heads []ChangesetId, common []ChangesetId) iter.Seq2[ChangesetId, error] {
	if len(common) == 0 {
		return g.ancestorsStream(ctx, heads)
	}
	return g.ancestorsDifferenceStream(ctx, heads, common)
}

// ancestorsStream streams every ancestor of heads (no exclusion set).
func (g *CommitGraph) ancestorsStream(ctx context.Context, heads []ChangesetId) iter.Seq2[ChangesetId, error] {
	return func(yield func(ChangesetId, error) bool) {
		f, err := g.frontierOf(ctx, heads)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		seen := make(map[ChangesetId]struct{}, len(heads))
		for !f.IsEmpty() {
			if err := ctx.Err(); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			_, ids, ok := f.PopLast()
			if !ok {
				break
			}
			edges, err := g.fetchManyEdges(ctx, ids, PrefetchForP1LinearTraversal)
			if err != nil {
				yield(ChangesetId{}, err)
				return
			}
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if !yield(id, nil) {
					return
				}
				e, ok := edges[id]
				if !ok {
					yield(ChangesetId{}, missingChangesetErr(id))
					return
				}
				for _, parent := range e.Parents {
					f.Insert(parent.CsID, uint64(parent.Generation))
				}
			}
		}
	}
}

// ancestorsDifferenceStream streams ancestors(heads) \ ancestors(common):
// heads' frontier is lowered wave by wave while common's frontier excludes
// anything it also reaches at the same generation.
func (g *CommitGraph) ancestorsDifferenceStream(ctx context.Context, heads []ChangesetId, common []ChangesetId) iter.Seq2[ChangesetId, error] {
	return func(yield func(ChangesetId, error) bool) {
		headsFrontier, err := g.frontierOf(ctx, heads)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		commonFrontier, err := g.frontierOf(ctx, common)
		if err != nil {
			yield(ChangesetId{}, err)
			return
		}
		excluded := make(map[ChangesetId]struct{})
		seen := make(map[ChangesetId]struct{}, len(heads))

		for !headsFrontier.IsEmpty() {
			if err := ctx.Err(); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			headGen, _, ok := headsFrontier.LastKeyValue()
			if !ok {
				break
			}
			// Lower common up to (and including) headGen so exclusions at
			// this generation are known before we decide what to emit.
			if err := g.lowerFrontier(ctx, commonFrontier, Generation(headGen)); err != nil {
				yield(ChangesetId{}, err)
				return
			}
			if cGen, cIDs, ok := commonFrontier.LastKeyValue(); ok && cGen == headGen {
				for _, id := range cIDs {
					excluded[id] = struct{}{}
				}
			}

			_, ids, ok := headsFrontier.PopLast()
			if !ok {
				break
			}
			var toExpand []ChangesetId
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if _, ex := excluded[id]; ex {
					continue
				}
				toExpand = append(toExpand, id)
				if !yield(id, nil) {
					return
				}
			}
			edges, err := g.fetchManyEdges(ctx, toExpand, PrefetchForP1LinearTraversal)
			if err != nil {
				yield(ChangesetId{}, err)
				return
			}
			for _, id := range toExpand {
				e, ok := edges[id]
				if !ok {
					yield(ChangesetId{}, missingChangesetErr(id))
					return
				}
				for _, parent := range e.Parents {
					headsFrontier.Insert(parent.CsID, uint64(parent.Generation))
				}
			}
		}
	}
}

// AncestorsDifference materializes AncestorsDifferenceStream into a slice.
func (g *CommitGraph) AncestorsDifference(ctx context.Context, heads []ChangesetId, common []ChangesetId) ([]ChangesetId, error) {
	var out []ChangesetId
	for id, err := range g.AncestorsDifferenceStream(ctx, heads, common) {
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// AncestorsDifferenceWith materializes AncestorsDifferenceStreamWith.
func (g *CommitGraph) AncestorsDifferenceWith(ctx context.Context, heads []ChangesetId, monotonicPrune Predicate) ([]ChangesetId, error) {
	var out []ChangesetId
	for id, err := range g.AncestorsDifferenceStreamWith(ctx, heads, monotonicPrune) {
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
