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

// Prefetch is a hint passed to batch Storage calls. Storage MAY ignore it;
// correctness never depends on it, only throughput.
type Prefetch int

const (
	// PrefetchNone requests exactly the ids asked for, nothing more. Used
	// for one-shot lookups: initial frontier construction and Add's parent
	// lookup.
	PrefetchNone Prefetch = iota
	// PrefetchForP1LinearTraversal hints that the caller is about to walk
	// first-parent ancestry repeatedly and that the backend may usefully
	// warm a linear strand of upcoming first-parent ancestors.
	PrefetchForP1LinearTraversal
)

func (p Prefetch) String() string {
	if p == PrefetchForP1LinearTraversal {
		return "for_p1_linear_traversal"
	}
	return "none"
}

// FindByPrefixResult is the outcome of resolving a hex id prefix.
type FindByPrefixResult struct {
	// Kind discriminates NoMatch / Single / Multiple / TooMany.
	Kind FindByPrefixKind
	// IDs holds the matches for Single, Multiple and TooMany (truncated to
	// the caller's limit in the TooMany case).
	IDs []ChangesetId
}

type FindByPrefixKind int

const (
	NoMatch FindByPrefixKind = iota
	Single
	Multiple
	TooMany
)

// Storage is the pluggable persistence capability the core relies on. It is
// a capability set, not an implementation: the persistent store itself is
// supplied by the caller. Implementations must be safe for concurrent use —
// the handle is shared and long-lived across queries.
type Storage interface {
	// FetchEdges returns the edge record for id, or ok=false if absent.
	FetchEdges(ctx context.Context, id ChangesetId) (edges ChangesetEdges, ok bool, err error)

	// FetchEdgesRequired is FetchEdges but treats a missing id as an error
	// (ErrMissingChangeset).
	FetchEdgesRequired(ctx context.Context, id ChangesetId) (ChangesetEdges, error)

	// FetchManyEdges batch-fetches edges for ids. Missing ids are simply
	// absent from the result map. prefetch is an optional hint (see
	// Prefetch).
	FetchManyEdges(ctx context.Context, ids []ChangesetId, prefetch Prefetch) (map[ChangesetId]ChangesetEdges, error)

	// FetchManyEdgesRequired is FetchManyEdges but errors
	// (ErrMissingChangeset) if any id is absent.
	FetchManyEdgesRequired(ctx context.Context, ids []ChangesetId, prefetch Prefetch) (map[ChangesetId]ChangesetEdges, error)

	// Add persists edges, returning false if edges.Node.CsID already
	// exists. Storage MAY error if the existing record does not match.
	Add(ctx context.Context, edges ChangesetEdges) (inserted bool, err error)

	// FindByPrefix resolves a (partial) hex-encoded id prefix, returning at
	// most limit matches before reporting TooMany.
	FindByPrefix(ctx context.Context, prefix string, limit int) (FindByPrefixResult, error)

	// FetchChildren returns the known children of id. Order is unspecified
	// but stable per call; it may be empty even for a real changeset if no
	// child has been added yet.
	FetchChildren(ctx context.Context, id ChangesetId) ([]ChangesetId, error)
}
