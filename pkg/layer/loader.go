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
	"context"
	"fmt"
	"log/slog"
	"time"
)

// loadTask is a one-shot unit of work that builds a brand-new layer mapping
// from all configuration sources and publishes it with a single swap. It
// completes exactly once: either successfully, or by failing every caller
// blocked on the barrier.
type loadTask struct {
	reg    *Registry
	delay  time.Duration
	reload bool

	done chan struct{}
	err  error
}

// fail completes the task with an error without running it.
func (t *loadTask) fail(err error) {
	t.err = err
	close(t.done)
}

// run executes the load. Per-source problems are logged and skipped; only
// an interruption during the startup delay fails the task outright.
func (t *loadTask) run(ctx context.Context) {
	defer close(t.done)

	if t.delay > 0 {
		slog.Info("delaying configuration load", "delay", t.delay)
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			t.err = fmt.Errorf("configuration load interrupted: %w", ctx.Err())
			loadsTotal.WithLabelValues("failure").Inc()
			return
		}
	}

	start := time.Now()
	layers := t.reg.buildLayerSet(ctx, t.reload)

	t.reg.mu.Lock()
	t.reg.publish(layers)
	t.reg.mu.Unlock()

	layersCurrent.Set(float64(len(layers)))
	loadDuration.Observe(time.Since(start).Seconds())
	loadsTotal.WithLabelValues("success").Inc()
	slog.Info("configuration load complete",
		"layers", len(layers),
		"sources", len(t.reg.sources),
		"reload", t.reload,
		"duration", time.Since(start),
	)
}

// buildLayerSet consumes every source in list order and assembles a fresh
// mapping. A source that cannot report its identifier contributes nothing;
// any other per-source or per-layer failure skips only the affected part.
func (r *Registry) buildLayerSet(ctx context.Context, reload bool) map[string]Layer {
	layers := make(map[string]Layer)

	for _, src := range r.sources {
		ident, err := src.Identifier()
		if err != nil {
			slog.Error("failed to resolve source identifier", "error", err)
			sourceFailures.WithLabelValues("identifier").Inc()
			continue
		}

		srcLayers, err := src.Layers(ctx, reload)
		if err != nil {
			slog.Error("failed to load layers from source", "source", ident, "error", err)
			sourceFailures.WithLabelValues("layers").Inc()
		}

		if len(srcLayers) == 0 {
			slog.Debug("source contained no layers", "source", ident)
		}

		for _, l := range srcLayers {
			if l == nil {
				slog.Error("source returned a nil layer", "source", ident)
				continue
			}

			slog.Debug("adding layer", "name", l.Name(), "source", ident)
			if err := l.Initialize(r.grids); err != nil {
				slog.Error("layer initialization failed",
					"name", l.Name(), "source", ident, "error", err)
				sourceFailures.WithLabelValues("initialize").Inc()
				continue
			}

			mergeInto(layers, l)
		}

		r.captureServiceInformation(src, ident)
	}

	return layers
}

// captureServiceInformation records the first non-nil service metadata seen
// across sources. Retrieval failures are logged, never fatal.
func (r *Registry) captureServiceInformation(src Source, ident string) {
	if r.serviceInfo.Load() != nil {
		return
	}

	si, err := src.ServiceInformation()
	if err != nil {
		slog.Error("error reading service information", "source", ident, "error", err)
		sourceFailures.WithLabelValues("service_information").Inc()
		return
	}
	if si != nil {
		r.serviceInfo.CompareAndSwap(nil, si)
	}
}
