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

package commitgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/erigontech/commitgraph"
	"github.com/erigontech/commitgraph/storage/memory"
)

// randomDAG builds a random forest-of-merges DAG: each new node picks 0-2
// already-inserted nodes as parents, biased toward recent nodes so the graph
// stays reasonably "tall" rather than degenerating into a wide forest of
// roots every time.
func randomDAG(t *rapid.T, ctx context.Context, g *commitgraph.CommitGraph) []commitgraph.ChangesetId {
	n := rapid.IntRange(1, 40).Draw(t, "n")
	ids := make([]commitgraph.ChangesetId, 0, n)

	for i := 0; i < n; i++ {
		var id commitgraph.ChangesetId
		id[0] = byte(i + 1)

		var parents commitgraph.ChangesetParents
		if len(ids) > 0 {
			numParents := rapid.IntRange(0, 2).Draw(t, "numParents")
			window := len(ids)
			if window > 5 {
				window = 5
			}
			seen := make(map[int]bool)
			for p := 0; p < numParents && p < len(ids); p++ {
				idx := len(ids) - 1 - rapid.IntRange(0, window-1).Draw(t, "parentIdx")
				if idx < 0 || seen[idx] {
					continue
				}
				seen[idx] = true
				parents = append(parents, ids[idx])
			}
		}

		inserted, err := g.Add(ctx, id, parents)
		require.NoError(t, err)
		require.True(t, inserted)
		ids = append(ids, id)
	}
	return ids
}

func TestPropertyIsAncestorReflexiveAndAntisymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		for _, id := range ids {
			ok, err := g.IsAncestor(ctx, id, id)
			require.NoError(t, err)
			require.True(t, ok, "is_ancestor(c, c) must hold")
		}

		a := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "a")]
		b := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "b")]
		aAncB, err := g.IsAncestor(ctx, a, b)
		require.NoError(t, err)
		bAncA, err := g.IsAncestor(ctx, b, a)
		require.NoError(t, err)
		if aAncB && bAncA {
			require.Equal(t, a, b)
		}
	})
}

func TestPropertyParentGenerationStrictlyLess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		for _, id := range ids {
			parents, err := g.ChangesetParents(ctx, id)
			require.NoError(t, err)
			childGen, err := g.ChangesetGeneration(ctx, id)
			require.NoError(t, err)
			for _, p := range parents {
				parentGen, err := g.ChangesetGeneration(ctx, p)
				require.NoError(t, err)
				require.Less(t, uint64(parentGen), uint64(childGen))

				ok, err := g.IsAncestor(ctx, p, id)
				require.NoError(t, err)
				require.True(t, ok)
			}
		}
	})
}

func TestPropertyAncestorsDifferenceSelfIsEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		h := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "h")]
		diff, err := g.AncestorsDifference(ctx, []commitgraph.ChangesetId{h}, []commitgraph.ChangesetId{h})
		require.NoError(t, err)
		require.Empty(t, diff)
	})
}

func TestPropertyAncestorsDifferenceAgainstEmptyIsFullAncestorSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		h := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "h")]
		diff, err := g.AncestorsDifference(ctx, []commitgraph.ChangesetId{h}, nil)
		require.NoError(t, err)

		for _, x := range diff {
			ok, err := g.IsAncestor(ctx, x, h)
			require.NoError(t, err)
			require.True(t, ok)
		}
		for _, id := range ids {
			ok, err := g.IsAncestor(ctx, id, h)
			require.NoError(t, err)
			if ok {
				require.Contains(t, diff, id)
			}
		}
	})
}

func TestPropertyCommonBaseSortedUniqueAndAncestral(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		u := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "u")]
		v := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "v")]
		base, err := g.CommonBase(ctx, u, v)
		require.NoError(t, err)

		seen := make(map[commitgraph.ChangesetId]bool)
		for i, c := range base {
			require.False(t, seen[c], "common_base must be unique")
			seen[c] = true
			if i > 0 {
				require.True(t, base[i-1].Less(c), "common_base must be sorted ascending")
			}
			okU, err := g.IsAncestor(ctx, c, u)
			require.NoError(t, err)
			okV, err := g.IsAncestor(ctx, c, v)
			require.NoError(t, err)
			require.True(t, okU && okV)
		}
	})
}

func TestPropertyRangeStreamRequiresAncestry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		g := commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil)
		ids := randomDAG(t, ctx, g)

		start := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "start")]
		end := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "end")]

		startIsAncestor, err := g.IsAncestor(ctx, start, end)
		require.NoError(t, err)

		r, err := g.Range(ctx, start, end)
		require.NoError(t, err)

		if !startIsAncestor {
			require.Empty(t, r)
			return
		}
		require.NotEmpty(t, r)
		for _, x := range r {
			okStart, err := g.IsAncestor(ctx, start, x)
			require.NoError(t, err)
			okEnd, err := g.IsAncestor(ctx, x, end)
			require.NoError(t, err)
			require.True(t, okStart && okEnd)
		}
	})
}
