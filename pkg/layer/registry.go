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
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tilefort/tilefort/pkg/grid"
)

// DefaultStartupDelay is how long the first configuration load waits before
// reading any source, giving dependent subsystems time to finish their own
// initialization. Reloads triggered by ReInit never wait.
const DefaultStartupDelay = 2 * time.Second

// layerSet is one published generation of the name to Layer mapping.
// A set is never mutated after publication; edits clone it and swap.
type layerSet struct {
	layers map[string]Layer
}

// Registry resolves layer names to their live configuration. Construction
// immediately schedules a background configuration load; every public
// operation first waits for the outstanding load to finish, so no caller
// ever observes a partially built mapping.
//
// Lookups are lock-free snapshot reads and may run concurrently. Add,
// Update, and Remove serialize against each other and against load
// publication.
type Registry struct {
	grids   *grid.Broker
	sources []Source

	startupDelay time.Duration

	// current is the published mapping, replaced by a single pointer swap
	// on every load and on every copy-on-write mutation.
	current atomic.Pointer[layerSet]

	// mu serializes mutating operations and snapshot publication.
	mu sync.Mutex

	// serviceInfo holds the first non-nil service metadata seen across
	// sources; once set it is never replaced.
	serviceInfo atomic.Pointer[ServiceInformation]

	// taskMu guards the currently tracked load task and the closed flag.
	taskMu sync.Mutex
	task   *loadTask
	closed bool

	queue  chan *loadTask
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Registry.
type Option func(*Registry)

// WithStartupDelay overrides the delay applied to the initial load.
// A zero or negative delay starts the load immediately.
func WithStartupDelay(d time.Duration) Option {
	return func(r *Registry) {
		r.startupDelay = d
	}
}

// New creates a Registry over the given grid broker and configuration
// sources and schedules the initial load on a single background worker.
// Call Close to release the worker when the registry is no longer needed.
func New(grids *grid.Broker, sources []Source, opts ...Option) *Registry {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Registry{
		grids:        grids,
		sources:      sources,
		startupDelay: DefaultStartupDelay,
		queue:        make(chan *loadTask, 4),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.worker()
	r.schedule(r.startupDelay, false)

	return r
}

// Close stops the background worker. Any load still sleeping in its startup
// delay fails, surfacing ErrRegistryClosed to callers blocked on the
// barrier. A load already reading sources is allowed to finish.
func (r *Registry) Close() error {
	r.taskMu.Lock()
	r.closed = true
	r.taskMu.Unlock()

	r.cancel()
	r.wg.Wait()
	return nil
}

// Get returns the layer registered under name. It waits for the outstanding
// configuration load first; a failed load surfaces as a ConfigurationError,
// an absent name as an UnknownLayerError.
func (r *Registry) Get(ctx context.Context, name string) (Layer, error) {
	if err := r.barrier(ctx); err != nil {
		return nil, err
	}

	l, ok := r.snapshot()[name]
	if !ok {
		lookupMisses.Inc()
		return nil, &UnknownLayerError{Name: name}
	}
	return l, nil
}

// Layers returns the current name to Layer mapping after waiting for the
// outstanding load. Each layer was initialized once at load time; consumers
// needing re-initialization after later mutations must do so themselves.
func (r *Registry) Layers(ctx context.Context) (map[string]Layer, error) {
	if err := r.barrier(ctx); err != nil {
		return nil, err
	}
	return maps.Clone(r.snapshot()), nil
}

// Add inserts a layer into the current mapping using the merge rule: if a
// layer with the same name exists, the new configuration is merged into the
// existing object in place. No layer lock is taken; nothing is being
// evicted.
func (r *Registry) Add(ctx context.Context, l Layer) error {
	if err := r.barrier(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.cloneCurrent()
	mergeInto(next, l)
	r.publish(next)
	return nil
}

// Update replaces the layer with the same name, if any, and inserts the new
// one unconditionally. The old layer's lock is held only for the moment of
// its removal. Configuration-management callers may push an update for a
// layer the registry has never seen; that is not an error.
func (r *Registry) Update(ctx context.Context, l Layer) error {
	if err := r.barrier(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := l.Name()
	if old, ok := r.snapshot()[name]; ok {
		r.evict(name, old)
	}

	next := r.cloneCurrent()
	next[name] = l
	r.publish(next)
	return nil
}

// Remove deletes the named layer from the current mapping, holding the
// layer's lock for the moment of removal. Removing an absent name is a
// silent no-op.
func (r *Registry) Remove(ctx context.Context, name string) error {
	if err := r.barrier(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.snapshot()[name]; ok {
		r.evict(name, old)
	}
	return nil
}

// ReInit schedules a fresh configuration load, letting the current layer
// set go free rather than locking it in place: callers queued on existing
// layers should not end up waiting on objects that may not exist after the
// reload. ReInit does not wait for the new load; Get and Layers block on it
// as usual.
func (r *Registry) ReInit(ctx context.Context) error {
	if err := r.barrier(ctx); err != nil {
		return err
	}
	if !r.schedule(0, true) {
		return &ConfigurationError{Err: ErrRegistryClosed}
	}
	return nil
}

// ServiceInformation returns the cached service metadata, or nil if no
// source has supplied any yet. It never triggers a load.
func (r *Registry) ServiceInformation() *ServiceInformation {
	return r.serviceInfo.Load()
}

// barrier waits for the currently tracked load task. A failed task is
// reported to every waiting caller as a ConfigurationError.
func (r *Registry) barrier(ctx context.Context) error {
	r.taskMu.Lock()
	t := r.task
	r.taskMu.Unlock()

	if t == nil {
		return nil
	}

	select {
	case <-t.done:
		if t.err != nil {
			return &ConfigurationError{Err: t.err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule tracks and enqueues a new load task. It reports false if the
// registry has been closed.
func (r *Registry) schedule(delay time.Duration, reload bool) bool {
	r.taskMu.Lock()
	defer r.taskMu.Unlock()

	if r.closed {
		return false
	}

	t := &loadTask{
		reg:    r,
		delay:  delay,
		reload: reload,
		done:   make(chan struct{}),
	}
	r.task = t
	r.queue <- t
	return true
}

// worker executes load tasks strictly one at a time in submission order.
func (r *Registry) worker() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case t := <-r.queue:
			t.run(r.ctx)
		}
	}
}

// drain fails any tasks still queued at shutdown so their barrier waiters
// are released.
func (r *Registry) drain() {
	for {
		select {
		case t := <-r.queue:
			t.fail(ErrRegistryClosed)
		default:
			return
		}
	}
}

// snapshot returns the currently published mapping without cloning.
// The returned map must not be modified.
func (r *Registry) snapshot() map[string]Layer {
	if st := r.current.Load(); st != nil {
		return st.layers
	}
	return nil
}

// cloneCurrent returns a mutable copy of the current mapping.
// Callers must hold r.mu.
func (r *Registry) cloneCurrent() map[string]Layer {
	next := maps.Clone(r.snapshot())
	if next == nil {
		next = make(map[string]Layer)
	}
	return next
}

// publish swaps in a new generation of the mapping. Callers must hold r.mu.
func (r *Registry) publish(layers map[string]Layer) {
	r.current.Store(&layerSet{layers: layers})
}

// evict removes the named entry while holding the layer's own lock, so no
// tile operation starts against a layer that is simultaneously leaving the
// registry. In-flight operations that already borrowed the layer are not
// waited for. Callers must hold r.mu.
func (r *Registry) evict(name string, old Layer) {
	old.AcquireLock()
	defer old.ReleaseLock()

	next := r.cloneCurrent()
	delete(next, name)
	r.publish(next)
}

// mergeInto applies the merge rule shared by Add and the load task: a layer
// whose name already exists is merged into the existing object, which stays
// in place so borrowed references remain valid and now reflect the merged
// configuration. A merge failure is recorded but never removes the existing
// entry. A new name is inserted directly.
func mergeInto(layers map[string]Layer, l Layer) {
	existing, ok := layers[l.Name()]
	if !ok {
		layers[l.Name()] = l
		return
	}

	mergesTotal.Inc()
	if err := existing.MergeFrom(l); err != nil {
		mergeFailures.Inc()
		slog.Error("failed to merge layer configuration", "name", l.Name(), "error", err)
	}
}
