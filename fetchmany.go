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

	"github.com/erigontech/commitgraph/internal/concurrent"
)

// FetchManyEdgesConcurrently implements Storage.FetchManyEdges in terms of
// repeated FetchEdges calls, fanned out with bounded concurrency. It is
// meant to be embedded by a Storage backend whose underlying transport has
// no native batch-fetch endpoint; backends that can batch natively should
// not use this and should implement FetchManyEdges directly instead.
func FetchManyEdgesConcurrently(ctx context.Context, storage Storage, ids []ChangesetId, concurrency int) (map[ChangesetId]ChangesetEdges, error) {
	type fetchResult struct {
		edges ChangesetEdges
		ok    bool
	}
	results, err := concurrent.FetchMany(ctx, ids, concurrency, func(ctx context.Context, id ChangesetId) (fetchResult, error) {
		edges, ok, err := storage.FetchEdges(ctx, id)
		return fetchResult{edges: edges, ok: ok}, err
	})
	if err != nil {
		return nil, err
	}
	out := make(map[ChangesetId]ChangesetEdges, len(ids))
	for i, id := range ids {
		if results[i].ok {
			out[id] = results[i].edges
		}
	}
	return out, nil
}
