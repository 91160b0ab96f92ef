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

// Predicate is a monotonic property of a changeset: P(c) must imply P(p) for
// every parent p of c. lowerFrontierStep (and AncestorsFrontierWith, built
// on it) and AncestorsDifferenceStreamWith depend on this contract for
// correctness; it is not verified at runtime.
//
// Predicate is an interface rather than a bare func so that cheap,
// allocation-free cases (Always, GenerationAtMost) avoid boxing a closure on
// hot lowering paths.
type Predicate interface {
	Matches(ctx context.Context, id ChangesetId, gen Generation) (bool, error)
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(ctx context.Context, id ChangesetId, gen Generation) (bool, error)

func (f PredicateFunc) Matches(ctx context.Context, id ChangesetId, gen Generation) (bool, error) {
	return f(ctx, id, gen)
}

type alwaysPredicate struct{ result bool }

func (a alwaysPredicate) Matches(context.Context, ChangesetId, Generation) (bool, error) {
	return a.result, nil
}

// AlwaysFalse never matches; AncestorsDifferenceStreamWith uses it in place
// of a nil predicate, so that nothing is pruned.
var AlwaysFalse Predicate = alwaysPredicate{result: false}

// AlwaysTrue matches every changeset.
var AlwaysTrue Predicate = alwaysPredicate{result: true}

// GenerationAtMost matches changesets whose generation is <= max. It is
// monotonic: if c's generation is <= max then so is every parent's (parent
// generations are strictly smaller).
type GenerationAtMost Generation

func (g GenerationAtMost) Matches(_ context.Context, _ ChangesetId, gen Generation) (bool, error) {
	return gen <= Generation(g), nil
}
