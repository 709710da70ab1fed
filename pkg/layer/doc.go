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

// Package layer provides the layer registry at the heart of the tile server:
// it resolves layer names to their live configuration on every tile request
// while configuration is loaded asynchronously and mutated concurrently by
// administrative operations.
//
// # Lifecycle
//
// Constructing a Registry immediately schedules a background configuration
// load on a single worker goroutine. Every public operation first waits on
// the outstanding load (the load barrier), so callers observe either a
// fully built mapping or a ConfigurationError, never a partial one:
//
//	reg := layer.New(grid.NewBroker(), sources)
//	defer reg.Close()
//
//	l, err := reg.Get(ctx, "roads")
//	if layer.IsUnknownLayer(err) {
//	    // not found; recoverable
//	}
//
// ReInit discards the current mapping reference and schedules a fresh load
// producing an entirely new mapping; in-flight lookups keep the snapshot
// they already hold.
//
// # Merge policy
//
// When several sources contribute a layer with the same name, the first
// occurrence wins the map slot and later occurrences are merged into it in
// source-list order via Layer.MergeFrom. The existing object stays in
// place, so components already holding it see the merged configuration.
//
// # Concurrency
//
// The published mapping is an immutable snapshot behind an atomic pointer:
// reads never lock, and every change (load publication or an Add, Update,
// or Remove) is a copy-on-write followed by a single pointer swap. Mutating
// operations serialize under one mutex. During Update and Remove the
// registry additionally holds the affected layer's own lock for the moment
// of eviction, preventing new tile operations from starting against a
// layer that is leaving the registry.
package layer
