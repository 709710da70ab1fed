// Copyright (c) 2025, Tilefort Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package layer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Configuration load metrics
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilefort_registry_loads_total",
			Help: "Total number of configuration loads by outcome",
		},
		[]string{"status"},
	)

	loadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tilefort_registry_load_duration_seconds",
			Help:    "Duration of configuration loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	layersCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tilefort_registry_layers",
			Help: "Number of layers in the most recently published mapping",
		},
	)

	// Lookup metrics
	lookupMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tilefort_registry_lookup_misses_total",
			Help: "Total number of lookups for unknown layer names",
		},
	)

	// Per-source failure metrics, labeled by the load stage that failed
	sourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tilefort_registry_source_failures_total",
			Help: "Total number of non-fatal per-source failures during loads",
		},
		[]string{"stage"},
	)

	// Merge rule metrics
	mergesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tilefort_registry_merges_total",
			Help: "Total number of same-name layer merges",
		},
	)
	mergeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tilefort_registry_merge_failures_total",
			Help: "Total number of failed same-name layer merges",
		},
	)
)
