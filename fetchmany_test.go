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

	"github.com/erigontech/commitgraph"
	"github.com/erigontech/commitgraph/storage/memory"
)

func TestFetchManyEdgesConcurrently(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	g := commitgraph.New(store, commitgraph.DefaultConfig(), nil)

	var a, b, c commitgraph.ChangesetId
	a[0], b[0], c[0] = 1, 2, 3
	_, err := g.Add(ctx, a, nil)
	require.NoError(t, err)
	_, err = g.Add(ctx, b, commitgraph.ChangesetParents{a})
	require.NoError(t, err)
	_, err = g.Add(ctx, c, commitgraph.ChangesetParents{b})
	require.NoError(t, err)

	var ghost commitgraph.ChangesetId
	ghost[0] = 0xff

	got, err := commitgraph.FetchManyEdgesConcurrently(ctx, store, []commitgraph.ChangesetId{a, b, c, ghost}, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Contains(t, got, a)
	require.Contains(t, got, b)
	require.Contains(t, got, c)
	require.NotContains(t, got, ghost)
	require.Equal(t, commitgraph.Generation(2), got[b].Node.Generation)
}
