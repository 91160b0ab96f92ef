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

// Package commitgraph is an in-memory, queryable layer over a pluggable
// persistent store holding the DAG of all changesets ("commits") in a
// source-control repository. It answers structural questions — ancestry,
// parents, generation numbers, set-difference of history, common ancestors,
// ranges and generation-bounded slicing — without owning the changesets
// themselves; see Storage.
package commitgraph

import (
	"context"

	"go.uber.org/zap"

	"github.com/erigontech/commitgraph/internal/edgecache"
	"github.com/erigontech/commitgraph/internal/intern"
)

// CommitGraph is the public façade: a Storage handle plus the in-process
// indices (id interning table, edge cache) every query built on top of it
// shares. It holds no per-query state; frontiers are built and discarded by
// each call.
type CommitGraph struct {
	storage Storage
	cfg     Config
	log     *zap.Logger

	interner *intern.Table[ChangesetId]
	cache    *edgecache.Cache[ChangesetId, ChangesetEdges]
}

// New returns a CommitGraph backed by storage. A nil logger installs a
// no-op logger (library consumers opt into logging explicitly, matching the
// rest of this package's ambient-stack choices).
func New(storage Storage, cfg Config, logger *zap.Logger) *CommitGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitGraph{
		storage:  storage,
		cfg:      cfg,
		log:      logger,
		interner: intern.New[ChangesetId](),
		cache:    edgecache.New[ChangesetId, ChangesetEdges](cfg.EdgeCacheSize),
	}
}

// Exists reports whether id is present in the graph.
func (g *CommitGraph) Exists(ctx context.Context, id ChangesetId) (bool, error) {
	_, ok, err := g.fetchEdges(ctx, id)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ChangesetParents returns id's parent ids in order, or ErrMissingChangeset
// if id is unknown.
func (g *CommitGraph) ChangesetParents(ctx context.Context, id ChangesetId) (ChangesetParents, error) {
	edges, err := g.fetchEdgesRequired(ctx, id)
	if err != nil {
		return nil, err
	}
	parents := make(ChangesetParents, len(edges.Parents))
	for i, p := range edges.Parents {
		parents[i] = p.CsID
	}
	return parents, nil
}

// ChangesetGeneration returns id's generation, or ErrMissingChangeset if id
// is unknown.
func (g *CommitGraph) ChangesetGeneration(ctx context.Context, id ChangesetId) (Generation, error) {
	edges, err := g.fetchEdgesRequired(ctx, id)
	if err != nil {
		return 0, err
	}
	return edges.Node.Generation, nil
}

// ChangesetChildren delegates to Storage.FetchChildren.
func (g *CommitGraph) ChangesetChildren(ctx context.Context, id ChangesetId) ([]ChangesetId, error) {
	children, err := g.storage.FetchChildren(ctx, id)
	if err != nil {
		return nil, storageErr("fetch_children", err)
	}
	return children, nil
}

// FindByPrefix delegates to Storage.FindByPrefix.
func (g *CommitGraph) FindByPrefix(ctx context.Context, prefix string, limit int) (FindByPrefixResult, error) {
	res, err := g.storage.FindByPrefix(ctx, prefix, limit)
	if err != nil {
		return FindByPrefixResult{}, storageErr("find_by_prefix", err)
	}
	return res, nil
}

// CountAncestors streams ancestors(heads) and returns their count. It is a
// thin reduction over AncestorsDifferenceStream for callers that only need
// the size of an ancestor set and not its members.
func (g *CommitGraph) CountAncestors(ctx context.Context, heads []ChangesetId) (uint64, error) {
	var n uint64
	for id, err := range g.AncestorsDifferenceStream(ctx, heads, nil) {
		if err != nil {
			return n, err
		}
		_ = id
		n++
	}
	return n, nil
}
