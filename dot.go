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
	"fmt"

	"github.com/emicklei/dot"
)

// DumpAncestorsDOT renders ancestors(heads) as a Graphviz graph: useful when
// debugging a traversal gone wrong in a test or a REPL, never on a hot path.
func (g *CommitGraph) DumpAncestorsDOT(ctx context.Context, heads []ChangesetId) (string, error) {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "BT")
	nodes := make(map[ChangesetId]dot.Node)

	nodeFor := func(id ChangesetId, gen Generation) dot.Node {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := graph.Node(id.String()[:12]).Attr("label", fmt.Sprintf("%s\\ngen=%d", id.String()[:12], gen))
		nodes[id] = n
		return n
	}

	for id, err := range g.ancestorsStream(ctx, heads) {
		if err != nil {
			return "", err
		}
		edges, err := g.fetchEdgesRequired(ctx, id)
		if err != nil {
			return "", err
		}
		child := nodeFor(id, edges.Node.Generation)
		for _, parent := range edges.Parents {
			parentNode := nodeFor(parent.CsID, parent.Generation)
			graph.Edge(child, parentNode)
		}
	}
	return graph.String(), nil
}
