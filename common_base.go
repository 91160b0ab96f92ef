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

import "context"

// CommonBase returns the greatest common ancestors of u and v: the
// highest-generation nodes that are ancestors of both, sorted ascending by
// ChangesetId. Empty if u and v share no ancestors.
//
// The loop alternates a cheap skip-tree jump (when safe) with a one-bucket
// lowering fallback. A jump is safe only when, after lowering both frontiers
// to the skip ancestor's generation, they remain disjoint — an overlap at
// some intermediate generation could hide a higher-generation common
// ancestor the jump would have skipped.
func (g *CommitGraph) CommonBase(ctx context.Context, u, v ChangesetId) ([]ChangesetId, error) {
	U, err := g.singleFrontier(ctx, u)
	if err != nil {
		return nil, err
	}
	V, err := g.singleFrontier(ctx, v)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if U.IsEmpty() {
			return nil, nil
		}
		gen, topIDs, ok := U.LastKeyValue()
		if !ok {
			return nil, nil
		}
		if err := g.lowerFrontier(ctx, V, Generation(gen)); err != nil {
			return nil, err
		}
		if x := U.HighestGenerationIntersection(V); len(x) > 0 {
			return SortChangesetIds(x), nil
		}

		if len(topIDs) == 0 {
			return nil, nil
		}
		edges, err := g.fetchEdgesRequired(ctx, topIDs[0])
		if err != nil {
			return nil, err
		}
		if edges.SkipTreeSkewAncestor == nil {
			skipJumpsTotal.WithLabelValues("no_skip_pointer").Inc()
			if err := g.lowerFrontierHighestGeneration(ctx, U); err != nil {
				return nil, err
			}
			continue
		}

		skewGen := edges.SkipTreeSkewAncestor.Generation
		Uprime := U.Clone()
		Vprime := V.Clone()
		if err := g.lowerFrontier(ctx, Uprime, skewGen); err != nil {
			return nil, err
		}
		if err := g.lowerFrontier(ctx, Vprime, skewGen); err != nil {
			return nil, err
		}

		if !Uprime.IsDisjoint(Vprime) {
			skipJumpsTotal.WithLabelValues("unsafe_overlap").Inc()
			if err := g.lowerFrontierHighestGeneration(ctx, U); err != nil {
				return nil, err
			}
			continue
		}

		// If the two frontiers share an id at mismatched generation keys
		// after an otherwise-disjoint jump, the graph violates the
		// generation invariant. Assert rather than silently miscompute.
		if gid, gu, gv, same := sharedIDMismatchedGeneration(Uprime, Vprime); same {
			return nil, invariantErr("common_base: %s present in both frontiers at mismatched generations %d/%d after skip jump", gid, gu, gv)
		}

		skipJumpsTotal.WithLabelValues("taken").Inc()
		U, V = Uprime, Vprime
	}
}

// sharedIDMismatchedGeneration is a defensive check: IsDisjoint already
// checks same-generation overlap, so any remaining structural inconsistency
// would show up as the same id occupying different generation buckets
// across the two frontiers. With correctly implemented Storage this never
// fires.
func sharedIDMismatchedGeneration(u, v *changesetFrontier) (id ChangesetId, genU, genV uint64, found bool) {
	vGens := make(map[ChangesetId]uint64)
	for k, gen := range v.All() {
		vGens[k] = gen
	}
	for k, gen := range u.All() {
		if vg, ok := vGens[k]; ok && vg != gen {
			return k, gen, vg, true
		}
	}
	return ChangesetId{}, 0, 0, false
}
