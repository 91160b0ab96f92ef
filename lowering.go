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
	"time"

	"go.uber.org/zap"

	"github.com/erigontech/commitgraph/internal/frontier"
)

// changesetFrontier is this package's instantiation of the generic
// internal/frontier type over ChangesetId.
type changesetFrontier = frontier.Frontier[ChangesetId]

func (g *CommitGraph) newFrontier() *changesetFrontier {
	return frontier.New(g.interner)
}

// fetchEdges is Storage.FetchEdges with the edge cache consulted first.
func (g *CommitGraph) fetchEdges(ctx context.Context, id ChangesetId) (ChangesetEdges, bool, error) {
	if edges, ok := g.cache.Get(id); ok {
		return edges, true, nil
	}
	timer := newStorageTimer("fetch_edges")
	defer timer()
	edges, ok, err := g.storage.FetchEdges(ctx, id)
	if err != nil {
		return ChangesetEdges{}, false, storageErr("fetch_edges", err)
	}
	if ok {
		g.cache.Add(id, edges)
	}
	return edges, ok, nil
}

func (g *CommitGraph) fetchEdgesRequired(ctx context.Context, id ChangesetId) (ChangesetEdges, error) {
	edges, ok, err := g.fetchEdges(ctx, id)
	if err != nil {
		return ChangesetEdges{}, err
	}
	if !ok {
		return ChangesetEdges{}, missingChangesetErr(id)
	}
	return edges, nil
}

// fetchManyEdges batch-fetches ids, serving cache hits locally and asking
// Storage only for the misses.
func (g *CommitGraph) fetchManyEdges(ctx context.Context, ids []ChangesetId, prefetch Prefetch) (map[ChangesetId]ChangesetEdges, error) {
	out := make(map[ChangesetId]ChangesetEdges, len(ids))
	var misses []ChangesetId
	for _, id := range ids {
		if edges, ok := g.cache.Get(id); ok {
			out[id] = edges
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}
	timer := newStorageTimer("fetch_many_edges")
	defer timer()
	fetched, err := g.storage.FetchManyEdges(ctx, misses, prefetch)
	if err != nil {
		return nil, storageErr("fetch_many_edges", err)
	}
	for id, edges := range fetched {
		out[id] = edges
		g.cache.Add(id, edges)
	}
	return out, nil
}

func (g *CommitGraph) fetchManyEdgesRequired(ctx context.Context, ids []ChangesetId, prefetch Prefetch) (map[ChangesetId]ChangesetEdges, error) {
	edges, err := g.fetchManyEdges(ctx, ids, prefetch)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := edges[id]; !ok {
			return nil, missingChangesetErr(id)
		}
	}
	return edges, nil
}

// singleFrontier fetches id's edges and returns Frontier{id.generation: {id}}.
// Fails if id is missing.
func (g *CommitGraph) singleFrontier(ctx context.Context, id ChangesetId) (*changesetFrontier, error) {
	edges, err := g.fetchEdgesRequired(ctx, id)
	if err != nil {
		return nil, err
	}
	return frontier.NewSingle(g.interner, id, uint64(edges.Node.Generation)), nil
}

// frontierOf batch-fetches edges for all ids (Prefetch::None) and assembles
// a frontier. Missing ids are errors: heads are required to exist.
func (g *CommitGraph) frontierOf(ctx context.Context, ids []ChangesetId) (*changesetFrontier, error) {
	edges, err := g.fetchManyEdgesRequired(ctx, ids, PrefetchNone)
	if err != nil {
		return nil, err
	}
	f := g.newFrontier()
	for _, id := range ids {
		f.Insert(id, uint64(edges[id].Node.Generation))
	}
	return f, nil
}

// lowerFrontier mutates f so every id in it has generation <= targetGen,
// preserving the set of ancestors reachable from the original frontier at
// that generation level.
func (g *CommitGraph) lowerFrontier(ctx context.Context, f *changesetFrontier, targetGen Generation) error {
	for {
		gen, ids, ok := f.LastKeyValue()
		if !ok || Generation(gen) <= targetGen {
			return nil
		}
		_, ids, _ = f.PopLast()
		loweringWavesTotal.Inc()
		frontierPeakBuckets.Observe(float64(f.Len() + 1))

		edges, err := g.fetchManyEdges(ctx, ids, PrefetchForP1LinearTraversal)
		if err != nil {
			return err
		}
		for _, id := range ids {
			e, ok := edges[id]
			if !ok {
				return missingChangesetErr(id)
			}
			for _, parent := range e.Parents {
				if parent.Generation >= Generation(gen) {
					return invariantErr("parent %s generation %d not less than child generation %d", parent.CsID, parent.Generation, gen)
				}
				f.Insert(parent.CsID, uint64(parent.Generation))
			}
		}
	}
}

// lowerFrontierHighestGeneration pops only the topmost bucket and
// re-inserts its nodes' parents by generation.
func (g *CommitGraph) lowerFrontierHighestGeneration(ctx context.Context, f *changesetFrontier) error {
	gen, ids, ok := f.PopLast()
	if !ok {
		return nil
	}
	loweringWavesTotal.Inc()
	edges, err := g.fetchManyEdges(ctx, ids, PrefetchForP1LinearTraversal)
	if err != nil {
		return err
	}
	for _, id := range ids {
		e, ok := edges[id]
		if !ok {
			return missingChangesetErr(id)
		}
		for _, parent := range e.Parents {
			if parent.Generation >= Generation(gen) {
				return invariantErr("parent %s generation %d not less than child generation %d", parent.CsID, parent.Generation, gen)
			}
			f.Insert(parent.CsID, uint64(parent.Generation))
		}
	}
	return nil
}

// lowerFrontierStep performs one wave of lowering gated by a monotonic
// predicate: any popped node satisfying pred is emitted and its parents are
// not expanded (monotonicity guarantees its ancestors also satisfy pred).
// Returns drained=true once the frontier has nothing left to pop.
func (g *CommitGraph) lowerFrontierStep(ctx context.Context, f *changesetFrontier, pred Predicate, prefetch Prefetch) (emitted []ChangesetId, drained bool, err error) {
	gen, ids, ok := f.PopLast()
	if !ok {
		return nil, true, nil
	}
	loweringWavesTotal.Inc()

	var toExpand []ChangesetId
	for _, id := range ids {
		matched, err := pred.Matches(ctx, id, Generation(gen))
		if err != nil {
			return nil, false, err
		}
		if matched {
			emitted = append(emitted, id)
			continue
		}
		toExpand = append(toExpand, id)
	}
	if len(toExpand) == 0 {
		return emitted, false, nil
	}

	edges, err := g.fetchManyEdges(ctx, toExpand, prefetch)
	if err != nil {
		return nil, false, err
	}
	for _, id := range toExpand {
		e, ok := edges[id]
		if !ok {
			return nil, false, missingChangesetErr(id)
		}
		for _, parent := range e.Parents {
			f.Insert(parent.CsID, uint64(parent.Generation))
		}
	}
	return emitted, false, nil
}

func (g *CommitGraph) logDebug(msg string, fields ...zap.Field) {
	g.log.Debug(msg, fields...)
}

// newStorageTimer starts a latency timer for a named storage operation;
// the returned func records the observation when called (usually deferred).
func newStorageTimer(op string) func() {
	start := time.Now()
	return func() {
		storageFetchSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
