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

// IsAncestor reports whether ancestor is reachable from descendant by
// following parent edges (a changeset is considered its own ancestor). It
// lowers a single-node frontier seeded at descendant down to ancestor's
// generation, then checks membership at that generation.
func (g *CommitGraph) IsAncestor(ctx context.Context, ancestor, descendant ChangesetId) (bool, error) {
	ancestorEdges, err := g.fetchEdgesRequired(ctx, ancestor)
	if err != nil {
		return false, err
	}
	if ancestor == descendant {
		return true, nil
	}

	descendantEdges, err := g.fetchEdgesRequired(ctx, descendant)
	if err != nil {
		return false, err
	}
	targetGen := ancestorEdges.Node.Generation
	if descendantEdges.Node.Generation < targetGen {
		return false, nil
	}

	f := g.newFrontier()
	f.Insert(descendant, uint64(descendantEdges.Node.Generation))
	if err := g.lowerFrontier(ctx, f, targetGen); err != nil {
		return false, err
	}
	return f.HighestGenerationContains(ancestor, uint64(targetGen)), nil
}
