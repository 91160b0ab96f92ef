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

// Package intern assigns dense, process-local uint32 ids to 32-byte
// changeset ids so that per-generation frontier buckets can be represented
// as roaring bitmaps instead of maps keyed by [32]byte. This is what lets a
// single query's frontier stay compact even when the underlying DAG has
// hundreds of millions of nodes.
//
// A Table is scoped to one *commitgraph.CommitGraph (shared across queries,
// never across separate graphs) so that dense ids stay comparable between
// the frontiers of concurrently running queries.
package intern

import "sync"

// ID is a dense, process-local identifier. It has no meaning outside the
// Table that produced it.
type ID = uint32

// Table interns a comparable key (in this module, a 32-byte ChangesetId)
// into a dense ID and back.
type Table[K comparable] struct {
	mu    sync.RWMutex
	byKey map[K]ID
	byID  []K
}

// New returns an empty interning table.
func New[K comparable]() *Table[K] {
	return &Table[K]{
		byKey: make(map[K]ID),
	}
}

// Intern returns the dense id for key, assigning a new one if key was never
// seen before.
func (t *Table[K]) Intern(key K) ID {
	t.mu.RLock()
	if id, ok := t.byKey[key]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, key)
	t.byKey[key] = id
	return id
}

// Lookup returns the dense id for key without assigning one, and whether
// key had been interned before.
func (t *Table[K]) Lookup(key K) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byKey[key]
	return id, ok
}

// Key resolves a dense id back to its original key. Panics if id was never
// assigned by this table, which would indicate a caller bug (ids never leak
// across tables).
func (t *Table[K]) Key(id ID) K {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byID[id]
}

// Len returns the number of interned keys.
func (t *Table[K]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}
