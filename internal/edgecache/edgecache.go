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

// Package edgecache caches ChangesetEdges by id in front of a Storage
// backend, backed by an adaptive replacement cache (ARC) so that hot,
// frequently re-walked strands of first-parent history (the common case
// under PrefetchForP1LinearTraversal) stay resident without a fixed-recency
// LRU evicting them under a scan-heavy workload.
//
// Changesets are immutable once added, so there is no invalidation story:
// a cached edge record is valid forever once observed.
package edgecache

import (
	lru "github.com/hashicorp/golang-lru/arc/v2"
)

// Cache is a generic ARC-backed cache from key K to value V, kept generic
// so it can front any (ChangesetId -> ChangesetEdges) shaped Storage
// decorator without this package depending on the root module (which would
// create an import cycle, since the root package is this package's only
// caller).
type Cache[K comparable, V any] struct {
	arc *lru.ARCCache[K, V]
}

// New returns a cache holding up to size entries. size <= 0 disables
// caching: Get always misses and Add is a no-op, which lets callers wire a
// Config-driven size of 0 straight through without a branch.
func New[K comparable, V any](size int) *Cache[K, V] {
	if size <= 0 {
		return &Cache[K, V]{}
	}
	arc, err := lru.NewARC[K, V](size)
	if err != nil {
		// Only possible failure is size <= 0, already excluded above.
		panic(err)
	}
	return &Cache[K, V]{arc: arc}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c.arc == nil {
		var zero V
		return zero, false
	}
	return c.arc.Get(key)
}

func (c *Cache[K, V]) Add(key K, value V) {
	if c.arc == nil {
		return
	}
	c.arc.Add(key, value)
}

func (c *Cache[K, V]) Len() int {
	if c.arc == nil {
		return 0
	}
	return c.arc.Len()
}
