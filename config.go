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
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds the operational knobs for a CommitGraph. None of it affects
// query semantics; it only trades memory for fewer round trips to Storage.
type Config struct {
	// EdgeCacheSize is the number of ChangesetEdges records the in-process
	// edge cache (internal/edgecache) keeps resident. 0 disables caching.
	EdgeCacheSize int `toml:"edge_cache_size"`

	// FetchConcurrency is the in-flight bound a backend with no native batch
	// fetch can pass to FetchManyEdgesConcurrently (the errgroup-based
	// fallback). That function takes the bound as an argument; CommitGraph
	// does not read this field.
	FetchConcurrency int `toml:"fetch_concurrency"`

	// DefaultSliceSize is a slice size for SliceAncestors callers that have
	// no explicit one. SliceAncestors does not read this field and rejects a
	// sliceSize of 0.
	DefaultSliceSize uint64 `toml:"default_slice_size"`
}

// DefaultConfig returns sane defaults for a single-process, moderately
// sized repository.
func DefaultConfig() Config {
	return Config{
		EdgeCacheSize:    1 << 16,
		FetchConcurrency: 16,
		DefaultSliceSize: 10_000,
	}
}

// LoadConfig reads a TOML-encoded Config from path, filling in
// DefaultConfig for any zero-valued field left unset by the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "commitgraph: reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "commitgraph: parsing config %s", path)
	}
	return cfg, nil
}
