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

// computeSkewAncestor builds c's skip pointer from p1's own skip pointer.
// If p1's existing skip span (p1 to skew(p1), in generations) is exactly as
// long as the step from p1 to c, c inherits skew(p1), covering twice that
// step with one pointer. Otherwise c's skip pointer is just p1. The result
// is therefore always p1 or skew(p1): on a linear first-parent chain (each
// generation one more than p1's) the pointer alternates between one and two
// generations back, so jump distances do not grow geometrically and a long
// spine still needs a number of skip jumps linear in its length. Either way
// the skip pointer always has strictly smaller generation than c and is
// reachable by walking first-parent pointers.
func computeSkewAncestor(gen Generation, p1 ChangesetNode, p1Edges ChangesetEdges) *ChangesetNode {
	if skew := p1Edges.SkipTreeSkewAncestor; skew != nil {
		existingSpan := p1.Generation - skew.Generation
		newSpan := gen - p1.Generation
		if existingSpan == newSpan {
			doubled := *skew
			return &doubled
		}
	}
	reset := p1
	return &reset
}
