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

	"go.uber.org/zap"

	"github.com/erigontech/commitgraph/internal/genmath"
)

// Add inserts a new changeset with the given parents, returning true if it
// was newly inserted and false if it already existed. Every parent must
// already be present; a missing parent is an error.
func (g *CommitGraph) Add(ctx context.Context, csID ChangesetId, parents ChangesetParents) (bool, error) {
	parentEdges, err := g.fetchManyEdgesRequired(ctx, []ChangesetId(parents), PrefetchNone)
	if err != nil {
		return false, err
	}

	resolvedParents := make([]ChangesetNode, len(parents))
	var maxParentGen Generation
	for i, pid := range parents {
		e := parentEdges[pid]
		resolvedParents[i] = e.Node
		if e.Node.Generation > maxParentGen {
			maxParentGen = e.Node.Generation
		}
	}

	var gen Generation
	if len(parents) == 0 {
		gen = 1
	} else {
		sum, overflow := genmath.SafeAdd(uint64(maxParentGen), 1)
		if overflow {
			return false, invariantErr("generation overflow computing generation for %s", csID)
		}
		gen = Generation(sum)
	}

	edges := ChangesetEdges{
		Node:    ChangesetNode{CsID: csID, Generation: gen},
		Parents: resolvedParents,
	}
	if p1, ok := edges.P1(); ok {
		edges.SkipTreeSkewAncestor = computeSkewAncestor(gen, p1, parentEdges[p1.CsID])
	}

	inserted, err := g.storage.Add(ctx, edges)
	if err != nil {
		return false, storageErr("add", err)
	}
	if inserted {
		g.cache.Add(csID, edges)
		g.logDebug("added changeset", zap.Stringer("id", csID), zap.Uint64("generation", uint64(gen)), zap.Int("parents", len(parents)))
	}
	return inserted, nil
}
