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

// Package concurrent provides a small bounded fan-out helper used to turn a
// Storage backend that only exposes single-id fetches into something that
// behaves like FetchManyEdges, without the caller hand-rolling a semaphore.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchMany calls fetchOne(ctx, ids[i]) for every i concurrently, bounded by
// concurrency in flight at once, and returns the results in input order.
// The first error cancels the remaining in-flight calls (via the errgroup's
// derived context) and is returned.
func FetchMany[ID any, T any](ctx context.Context, ids []ID, concurrency int, fetchOne func(context.Context, ID) (T, error)) ([]T, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	out := make([]T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			v, err := fetchOne(gctx, id)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
