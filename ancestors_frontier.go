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

// AncestorsFrontierWith returns the frontier of ancestors of heads satisfying
// pred: the maximal-generation nodes (one per DAG path) for which pred
// holds. It lowers frontier(heads) one wave at a time via lowerFrontierStep,
// accumulating every emitted node, until the frontier is drained. Order is
// unspecified.
func (g *CommitGraph) AncestorsFrontierWith(ctx context.Context, heads []ChangesetId, pred Predicate) ([]ChangesetId, error) {
	f, err := g.frontierOf(ctx, heads)
	if err != nil {
		return nil, err
	}

	var out []ChangesetId
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emitted, drained, err := g.lowerFrontierStep(ctx, f, pred, PrefetchNone)
		if err != nil {
			return nil, err
		}
		out = append(out, emitted...)
		if drained {
			return out, nil
		}
	}
}
