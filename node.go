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

import "fmt"

// Generation is the length of the longest root-to-node path, in edges, plus
// one. Roots have generation 1; every non-root's generation is strictly
// greater than the maximum of its parents' generations.
type Generation uint64

// ChangesetNode pairs an id with its generation.
type ChangesetNode struct {
	CsID       ChangesetId
	Generation Generation
}

func (n ChangesetNode) String() string {
	return fmt.Sprintf("%s@%d", n.CsID, n.Generation)
}

// ChangesetParents is the ordered list of a changeset's parent ids. The
// first entry (p1) is a traversal hint only; it carries no extra DAG
// semantics. Length 0 means root, 1 means a normal commit, 2+ means merge.
type ChangesetParents []ChangesetId

// ChangesetEdges is the per-changeset record fetched and stored atomically.
type ChangesetEdges struct {
	Node ChangesetNode
	// Parents holds the resolved ChangesetNode (id + generation) for each
	// parent, in ChangesetParents order.
	Parents []ChangesetNode
	// SkipTreeSkewAncestor is a strict first-parent-spine ancestor used to
	// skip multiple lowering rounds at once. Add sets it for every non-root
	// changeset; it is nil only for roots.
	SkipTreeSkewAncestor *ChangesetNode
}

// P1 returns the first parent, if any.
func (e ChangesetEdges) P1() (ChangesetNode, bool) {
	if len(e.Parents) == 0 {
		return ChangesetNode{}, false
	}
	return e.Parents[0], true
}

// IsRoot reports whether this changeset has no parents.
func (e ChangesetEdges) IsRoot() bool {
	return len(e.Parents) == 0
}
