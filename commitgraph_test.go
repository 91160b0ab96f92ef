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
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/commitgraph"
	"github.com/erigontech/commitgraph/storage/memory"
)

// testGraph wraps a CommitGraph over an in-memory Store and a convenience
// id allocator so scenarios can be written in terms of short names like "A",
// "B", "C" instead of raw 32-byte hashes.
type testGraph struct {
	t     *testing.T
	ctx   context.Context
	g     *commitgraph.CommitGraph
	ids   map[string]commitgraph.ChangesetId
	names map[commitgraph.ChangesetId]string
}

func newTestGraph(t *testing.T) *testGraph {
	return &testGraph{
		t:     t,
		ctx:   context.Background(),
		g:     commitgraph.New(memory.New(), commitgraph.DefaultConfig(), nil),
		ids:   make(map[string]commitgraph.ChangesetId),
		names: make(map[commitgraph.ChangesetId]string),
	}
}

func (tg *testGraph) id(name string) commitgraph.ChangesetId {
	if id, ok := tg.ids[name]; ok {
		return id
	}
	var id commitgraph.ChangesetId
	id[0] = byte(len(tg.ids) + 1)
	copy(id[1:], name)
	tg.ids[name] = id
	tg.names[id] = name
	return id
}

func (tg *testGraph) add(name string, parents ...string) {
	var parentIDs commitgraph.ChangesetParents
	for _, p := range parents {
		parentIDs = append(parentIDs, tg.id(p))
	}
	inserted, err := tg.g.Add(tg.ctx, tg.id(name), parentIDs)
	require.NoError(tg.t, err)
	require.True(tg.t, inserted)
}

func (tg *testGraph) namesOf(ids []commitgraph.ChangesetId) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tg.names[id]
	}
	sort.Strings(out)
	return out
}

func TestLinearChain_S1(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("B", "A")
	tg.add("C", "B")

	ok, err := tg.g.IsAncestor(tg.ctx, tg.id("A"), tg.id("C"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = tg.g.IsAncestor(tg.ctx, tg.id("C"), tg.id("A"))
	require.NoError(t, err)
	require.False(t, ok)

	diff, err := tg.g.AncestorsDifference(tg.ctx, []commitgraph.ChangesetId{tg.id("C")}, []commitgraph.ChangesetId{tg.id("A")})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"B", "C"}, tg.namesOf(diff))

	base, err := tg.g.CommonBase(tg.ctx, tg.id("B"), tg.id("C"))
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, tg.namesOf(base))

	r, err := tg.g.Range(tg.ctx, tg.id("A"), tg.id("C"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"A", "B", "C"}, tg.namesOf(r))
}

func TestDiamond_S2(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("B", "A")
	tg.add("C", "A")
	tg.add("D", "B", "C")

	base, err := tg.g.CommonBase(tg.ctx, tg.id("B"), tg.id("C"))
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, tg.namesOf(base))

	ok, err := tg.g.IsAncestor(tg.ctx, tg.id("A"), tg.id("D"))
	require.NoError(t, err)
	require.True(t, ok)

	diff, err := tg.g.AncestorsDifference(tg.ctx, []commitgraph.ChangesetId{tg.id("D")}, []commitgraph.ChangesetId{tg.id("B")})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"C", "D"}, tg.namesOf(diff))

	r, err := tg.g.Range(tg.ctx, tg.id("A"), tg.id("D"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"A", "B", "C", "D"}, tg.namesOf(r))
}

func TestUnrelatedRoots_S3(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("X")
	tg.add("B", "A")

	base, err := tg.g.CommonBase(tg.ctx, tg.id("B"), tg.id("X"))
	require.NoError(t, err)
	require.Empty(t, base)

	diff, err := tg.g.AncestorsDifference(tg.ctx, []commitgraph.ChangesetId{tg.id("B")}, []commitgraph.ChangesetId{tg.id("X")})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"A", "B"}, tg.namesOf(diff))

	r, err := tg.g.Range(tg.ctx, tg.id("X"), tg.id("B"))
	require.NoError(t, err)
	require.Empty(t, r)
}

func TestSlicing_S4(t *testing.T) {
	names := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "C10"}
	tg := newTestGraph(t)
	tg.add(names[0])
	for i := 1; i < len(names); i++ {
		tg.add(names[i], names[i-1])
	}

	identity := func(ctx context.Context, candidates []commitgraph.ChangesetId) ([]commitgraph.ChangesetId, error) {
		return candidates, nil
	}

	slices, err := tg.g.SliceAncestors(tg.ctx, []commitgraph.ChangesetId{tg.id("C10")}, identity, 3)
	require.NoError(t, err)
	require.Len(t, slices, 4)

	wantStarts := []uint64{1, 4, 7, 10}
	wantMembers := [][]string{
		{"C1", "C2", "C3"},
		{"C4", "C5", "C6"},
		{"C7", "C8", "C9"},
		{"C10"},
	}
	for i, slice := range slices {
		require.Equal(t, wantStarts[i], slice.Start)
		require.ElementsMatch(t, wantMembers[i], tg.namesOf(slice.Changesets))
	}
}

func TestMonotoneProperty_S5(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("B", "A")
	tg.add("C", "B")
	tg.add("D", "C")

	pred := commitgraph.GenerationAtMost(2)
	frontier, err := tg.g.AncestorsFrontierWith(tg.ctx, []commitgraph.ChangesetId{tg.id("D")}, pred)
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, tg.namesOf(frontier))

	diff, err := tg.g.AncestorsDifferenceWith(tg.ctx, []commitgraph.ChangesetId{tg.id("D")}, pred)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"C", "D"}, tg.namesOf(diff))
}

func TestAddIdempotence_S6(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")

	inserted, err := tg.g.Add(tg.ctx, tg.id("X"), commitgraph.ChangesetParents{tg.id("A")})
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = tg.g.Add(tg.ctx, tg.id("X"), commitgraph.ChangesetParents{tg.id("A")})
	require.NoError(t, err)
	require.False(t, inserted)

	genA, err := tg.g.ChangesetGeneration(tg.ctx, tg.id("A"))
	require.NoError(t, err)
	genX, err := tg.g.ChangesetGeneration(tg.ctx, tg.id("X"))
	require.NoError(t, err)
	require.Equal(t, genA+1, genX)
}

func TestIsAncestorReflexive(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	ok, err := tg.g.IsAncestor(tg.ctx, tg.id("A"), tg.id("A"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMissingChangesetIsError(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	_, err := tg.g.ChangesetGeneration(tg.ctx, tg.id("ghost"))
	require.ErrorIs(t, err, commitgraph.ErrMissingChangeset)
}

func TestChangesetChildren(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("B", "A")
	tg.add("C", "A")

	children, err := tg.g.ChangesetChildren(tg.ctx, tg.id("A"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"B", "C"}, tg.namesOf(children))
}

func TestFindByPrefix(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	id := tg.id("A")

	res, err := tg.g.FindByPrefix(tg.ctx, id.String()[:4], 10)
	require.NoError(t, err)
	require.Equal(t, commitgraph.Single, res.Kind)
	require.Equal(t, []commitgraph.ChangesetId{id}, res.IDs)

	res, err = tg.g.FindByPrefix(tg.ctx, "ffffffff", 10)
	require.NoError(t, err)
	require.Equal(t, commitgraph.NoMatch, res.Kind)
}

func TestCountAncestors(t *testing.T) {
	tg := newTestGraph(t)
	tg.add("A")
	tg.add("B", "A")
	tg.add("C", "B")

	n, err := tg.g.CountAncestors(tg.ctx, []commitgraph.ChangesetId{tg.id("C")})
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
}
