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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are package-level (like erigon's own instrumentation) so that
// every CommitGraph sharing a process registers against the same
// collectors; per-instance metrics would be meaningless noise for a library
// whose callers typically hold one graph per process.
var (
	loweringWavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "commitgraph",
		Name:      "lowering_waves_total",
		Help:      "Number of frontier-lowering waves executed across all queries.",
	})

	skipJumpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commitgraph",
		Name:      "common_base_skip_jumps_total",
		Help:      "Skip-tree jumps attempted by CommonBase, partitioned by outcome.",
	}, []string{"outcome"})

	frontierPeakBuckets = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "commitgraph",
		Name:      "frontier_peak_buckets",
		Help:      "Number of distinct generation buckets in a frontier at each lowerFrontier wave.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	})

	storageFetchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "commitgraph",
		Name:      "storage_fetch_seconds",
		Help:      "Latency of Storage edge fetches that miss the edge cache.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)
