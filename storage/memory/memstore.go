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

// Package memory is a reference Storage implementation backed by process
// memory. It exists for tests and small embedded graphs; it is not meant to
// scale to the "tens to hundreds of millions of nodes" the engine is
// designed for (that is the job of a real persistent backend, which this
// package deliberately is not — see commitgraph.Storage).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/erigontech/commitgraph"
)

// Store is a map-backed, mutex-protected commitgraph.Storage. The zero value
// is not usable; construct with New.
type Store struct {
	mu sync.RWMutex
	// edges holds every inserted record, keyed by id.
	edges map[commitgraph.ChangesetId]commitgraph.ChangesetEdges
	// children is the reverse adjacency populated as edges are added.
	children map[commitgraph.ChangesetId][]commitgraph.ChangesetId
	// hexOrder is kept sorted so FindByPrefix can binary-search instead of
	// scanning every key on every call.
	hexOrder []commitgraph.ChangesetId
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		edges:    make(map[commitgraph.ChangesetId]commitgraph.ChangesetEdges),
		children: make(map[commitgraph.ChangesetId][]commitgraph.ChangesetId),
	}
}

func (s *Store) FetchEdges(_ context.Context, id commitgraph.ChangesetId) (commitgraph.ChangesetEdges, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[id]
	return e, ok, nil
}

func (s *Store) FetchEdgesRequired(ctx context.Context, id commitgraph.ChangesetId) (commitgraph.ChangesetEdges, error) {
	e, ok, err := s.FetchEdges(ctx, id)
	if err != nil {
		return commitgraph.ChangesetEdges{}, err
	}
	if !ok {
		return commitgraph.ChangesetEdges{}, commitgraph.ErrMissingChangeset
	}
	return e, nil
}

func (s *Store) FetchManyEdges(_ context.Context, ids []commitgraph.ChangesetId, _ commitgraph.Prefetch) (map[commitgraph.ChangesetId]commitgraph.ChangesetEdges, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[commitgraph.ChangesetId]commitgraph.ChangesetEdges, len(ids))
	for _, id := range ids {
		if e, ok := s.edges[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (s *Store) FetchManyEdgesRequired(ctx context.Context, ids []commitgraph.ChangesetId, prefetch commitgraph.Prefetch) (map[commitgraph.ChangesetId]commitgraph.ChangesetEdges, error) {
	out, err := s.FetchManyEdges(ctx, ids, prefetch)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, commitgraph.ErrMissingChangeset
		}
	}
	return out, nil
}

// Add inserts edges, returning false if its id is already present.
func (s *Store) Add(_ context.Context, edges commitgraph.ChangesetEdges) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := edges.Node.CsID
	if _, exists := s.edges[id]; exists {
		return false, nil
	}
	s.edges[id] = edges

	i := sort.Search(len(s.hexOrder), func(i int) bool { return !s.hexOrder[i].Less(id) })
	s.hexOrder = append(s.hexOrder, commitgraph.ChangesetId{})
	copy(s.hexOrder[i+1:], s.hexOrder[i:])
	s.hexOrder[i] = id

	for _, parent := range edges.Parents {
		s.children[parent.CsID] = append(s.children[parent.CsID], id)
	}
	return true, nil
}

// FindByPrefix resolves a hex prefix by binary-searching the sorted id
// index. limit <= 0 means unbounded.
func (s *Store) FindByPrefix(_ context.Context, prefix string, limit int) (commitgraph.FindByPrefixResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(prefix)
	start := sort.Search(len(s.hexOrder), func(i int) bool {
		return s.hexOrder[i].String() >= lower
	})

	var matches []commitgraph.ChangesetId
	for i := start; i < len(s.hexOrder); i++ {
		hex := s.hexOrder[i].String()
		if !strings.HasPrefix(hex, lower) {
			break
		}
		matches = append(matches, s.hexOrder[i])
		if limit > 0 && len(matches) > limit {
			return commitgraph.FindByPrefixResult{Kind: commitgraph.TooMany, IDs: matches[:limit]}, nil
		}
	}

	switch len(matches) {
	case 0:
		return commitgraph.FindByPrefixResult{Kind: commitgraph.NoMatch}, nil
	case 1:
		return commitgraph.FindByPrefixResult{Kind: commitgraph.Single, IDs: matches}, nil
	default:
		return commitgraph.FindByPrefixResult{Kind: commitgraph.Multiple, IDs: matches}, nil
	}
}

func (s *Store) FetchChildren(_ context.Context, id commitgraph.ChangesetId) ([]commitgraph.ChangesetId, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	children := s.children[id]
	out := make([]commitgraph.ChangesetId, len(children))
	copy(out, children)
	return out, nil
}
