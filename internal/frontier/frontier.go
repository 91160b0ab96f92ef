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

// Package frontier implements a generation-bucketed multiset of changesets.
// Buckets are ordered by generation in a google/btree B-tree (giving
// PopLast/PopFirst/LastKeyValue in O(log G), G = number of distinct
// generations touched), and each bucket's id set is a roaring bitmap over
// dense ids handed out by an intern.Table, which is what keeps a frontier
// cheap even when it temporarily holds a wide merge fan-in.
package frontier

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/btree"

	"github.com/erigontech/commitgraph/internal/intern"
)

const btreeDegree = 32

type bucket struct {
	gen uint64
	ids *roaring.Bitmap
}

func lessBucket(a, b bucket) bool { return a.gen < b.gen }

// Frontier is a generation-bucketed set of K-typed keys. It is not safe for
// concurrent use: a frontier is exclusively owned by the query that built
// it.
type Frontier[K comparable] struct {
	interner *intern.Table[K]
	tree     *btree.BTreeG[bucket]
}

// New returns an empty frontier sharing interner with its caller's graph.
func New[K comparable](interner *intern.Table[K]) *Frontier[K] {
	return &Frontier[K]{
		interner: interner,
		tree:     btree.NewG(btreeDegree, lessBucket),
	}
}

// NewSingle returns a frontier containing exactly one (key, gen) pair.
func NewSingle[K comparable](interner *intern.Table[K], key K, gen uint64) *Frontier[K] {
	f := New(interner)
	f.Insert(key, gen)
	return f
}

// Insert adds key under the gen bucket, creating the bucket if absent.
func (f *Frontier[K]) Insert(key K, gen uint64) {
	id := f.interner.Intern(key)
	b, found := f.tree.Get(bucket{gen: gen})
	if !found {
		b = bucket{gen: gen, ids: roaring.New()}
		b.ids.Add(id)
		f.tree.ReplaceOrInsert(b)
		return
	}
	b.ids.Add(id)
}

func (f *Frontier[K]) resolve(ids *roaring.Bitmap) []K {
	out := make([]K, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		out = append(out, f.interner.Key(it.Next()))
	}
	return out
}

// PopLast removes and returns the highest-generation bucket.
func (f *Frontier[K]) PopLast() (gen uint64, keys []K, ok bool) {
	b, found := f.tree.DeleteMax()
	if !found {
		return 0, nil, false
	}
	return b.gen, f.resolve(b.ids), true
}

// PopFirst removes and returns the lowest-generation bucket.
func (f *Frontier[K]) PopFirst() (gen uint64, keys []K, ok bool) {
	b, found := f.tree.DeleteMin()
	if !found {
		return 0, nil, false
	}
	return b.gen, f.resolve(b.ids), true
}

// LastKeyValue peeks at the highest-generation bucket without removing it.
func (f *Frontier[K]) LastKeyValue() (gen uint64, keys []K, ok bool) {
	b, found := f.tree.Max()
	if !found {
		return 0, nil, false
	}
	return b.gen, f.resolve(b.ids), true
}

// IsEmpty reports whether the frontier has no buckets.
func (f *Frontier[K]) IsEmpty() bool {
	return f.tree.Len() == 0
}

// Len returns the number of distinct generation buckets currently held.
func (f *Frontier[K]) Len() int {
	return f.tree.Len()
}

// Changesets flattens every bucket into a single slice (order unspecified).
func (f *Frontier[K]) Changesets() []K {
	out := make([]K, 0)
	f.tree.Ascend(func(b bucket) bool {
		out = append(out, f.resolve(b.ids)...)
		return true
	})
	return out
}

// All iterates every (key, generation) pair held by the frontier.
func (f *Frontier[K]) All() iter.Seq2[K, uint64] {
	return func(yield func(K, uint64) bool) {
		cont := true
		f.tree.Ascend(func(b bucket) bool {
			it := b.ids.Iterator()
			for it.HasNext() {
				if !yield(f.interner.Key(it.Next()), b.gen) {
					cont = false
					return false
				}
			}
			return true
		})
		_ = cont
	}
}

// ChangesetsInRange drains every bucket whose generation falls within
// [lo, hi) and returns the union of their keys. The drained buckets are
// removed from the frontier.
func (f *Frontier[K]) ChangesetsInRange(lo, hi uint64) []K {
	var gens []uint64
	f.tree.AscendRange(bucket{gen: lo}, bucket{gen: hi}, func(b bucket) bool {
		gens = append(gens, b.gen)
		return true
	})
	out := make([]K, 0)
	for _, g := range gens {
		b, found := f.tree.Delete(bucket{gen: g})
		if found {
			out = append(out, f.resolve(b.ids)...)
		}
	}
	return out
}

// HighestGenerationContains reports whether the bucket keyed by targetGen
// exists and contains key.
func (f *Frontier[K]) HighestGenerationContains(key K, targetGen uint64) bool {
	b, found := f.tree.Get(bucket{gen: targetGen})
	if !found {
		return false
	}
	id, known := f.interner.Lookup(key)
	if !known {
		return false
	}
	return b.ids.Contains(id)
}

// HighestGenerationIntersection intersects self's top bucket with other's
// top bucket, but only when both top generations are equal; otherwise it
// returns nil.
func (f *Frontier[K]) HighestGenerationIntersection(other *Frontier[K]) []K {
	selfTop, foundSelf := f.tree.Max()
	otherTop, foundOther := other.tree.Max()
	if !foundSelf || !foundOther || selfTop.gen != otherTop.gen {
		return nil
	}
	inter := roaring.And(selfTop.ids, otherTop.ids)
	if inter.IsEmpty() {
		return nil
	}
	return f.resolve(inter)
}

// IsDisjoint reports whether no key appears in both frontiers under the
// same generation key.
func (f *Frontier[K]) IsDisjoint(other *Frontier[K]) bool {
	disjoint := true
	f.tree.Ascend(func(b bucket) bool {
		ob, found := other.tree.Get(bucket{gen: b.gen})
		if !found {
			return true
		}
		if b.ids.Intersects(ob.ids) {
			disjoint = false
			return false
		}
		return true
	})
	return disjoint
}

// Clone performs a deep copy of the bucket structure (the interner itself
// is shared, since dense ids are stable for the graph's lifetime).
func (f *Frontier[K]) Clone() *Frontier[K] {
	clone := New(f.interner)
	f.tree.Ascend(func(b bucket) bool {
		clone.tree.ReplaceOrInsert(bucket{gen: b.gen, ids: b.ids.Clone()})
		return true
	})
	return clone
}
