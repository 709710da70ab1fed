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

package config

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/layer"
)

// DefaultFormat is the tile format assigned to layers that declare none.
const DefaultFormat = "image/png"

// TileLayer is a configuration-backed layer definition. The exported fields
// are populated by the JSON/YAML decoders; everything below the mutex is
// runtime state owned by the registry lifecycle.
type TileLayer struct {
	LayerName string            `json:"name" yaml:"name"`
	Title     string            `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract  string            `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	GridSets  []string          `json:"gridSets,omitempty" yaml:"gridSets,omitempty"`
	Formats   []string          `json:"formats,omitempty" yaml:"formats,omitempty"`
	Styles    []string          `json:"styles,omitempty" yaml:"styles,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	mu          sync.Mutex
	initialized bool
	resolved    map[string]*grid.GridSet
}

var _ layer.Layer = (*TileLayer)(nil)

// Name returns the unique identifier the registry keys this layer under.
func (l *TileLayer) Name() string {
	return l.LayerName
}

// Initialize applies defaults and resolves the layer's grid-set names
// against the broker. It is idempotent; a merge that introduces new grid
// sets marks the layer for re-resolution on the next call.
func (l *TileLayer) Initialize(grids *grid.Broker) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.LayerName == "" {
		return fmt.Errorf("layer has no name")
	}
	if l.initialized {
		return nil
	}

	if len(l.GridSets) == 0 {
		l.GridSets = []string{grid.WorldEPSG4326, grid.WorldEPSG3857}
	}
	if len(l.Formats) == 0 {
		l.Formats = []string{DefaultFormat}
	}

	resolved := make(map[string]*grid.GridSet, len(l.GridSets))
	for _, name := range l.GridSets {
		gs, err := grids.Get(name)
		if err != nil {
			return fmt.Errorf("layer %q: %w", l.LayerName, err)
		}
		resolved[name] = gs
	}

	l.resolved = resolved
	l.initialized = true
	return nil
}

// AcquireLock takes the layer's exclusive lock.
func (l *TileLayer) AcquireLock() {
	l.mu.Lock()
}

// ReleaseLock releases the lock taken by AcquireLock.
func (l *TileLayer) ReleaseLock() {
	l.mu.Unlock()
}

// MergeFrom folds another definition of the same layer into this one.
// Scalar fields keep the existing value unless it is empty, list fields are
// unioned preserving order, and metadata keys are added without overwriting.
// Newly introduced grid sets invalidate the resolved state so the next
// Initialize picks them up.
func (l *TileLayer) MergeFrom(other layer.Layer) error {
	o, ok := other.(*TileLayer)
	if !ok {
		return fmt.Errorf("cannot merge layer of type %T into %q", other, l.LayerName)
	}
	if o.LayerName != l.LayerName {
		return fmt.Errorf("cannot merge layer %q into %q", o.LayerName, l.LayerName)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Title == "" {
		l.Title = o.Title
	}
	if l.Abstract == "" {
		l.Abstract = o.Abstract
	}

	if appendMissing(&l.GridSets, o.GridSets) {
		// Carry over the other layer's resolved grid sets when it has them,
		// otherwise re-resolve on the next Initialize.
		for name, gs := range o.resolved {
			if _, ok := l.resolved[name]; !ok {
				if l.resolved == nil {
					l.resolved = make(map[string]*grid.GridSet)
				}
				l.resolved[name] = gs
			}
		}
		for _, name := range l.GridSets {
			if _, ok := l.resolved[name]; !ok {
				l.initialized = false
				break
			}
		}
	}
	appendMissing(&l.Formats, o.Formats)
	appendMissing(&l.Styles, o.Styles)

	if len(o.Metadata) > 0 {
		if l.Metadata == nil {
			l.Metadata = make(map[string]string, len(o.Metadata))
		}
		for k, v := range o.Metadata {
			if _, exists := l.Metadata[k]; !exists {
				l.Metadata[k] = v
			}
		}
	}
	return nil
}

// GridSet returns the resolved grid set for the given name, or an error if
// the layer does not serve it.
func (l *TileLayer) GridSet(name string) (*grid.GridSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	gs, ok := l.resolved[name]
	if !ok {
		return nil, fmt.Errorf("layer %q does not serve grid set %q", l.LayerName, name)
	}
	return gs, nil
}

// Describe returns a display-oriented view of the layer for API and CLI output.
func (l *TileLayer) Describe() LayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	return LayerInfo{
		Name:     l.LayerName,
		Title:    l.Title,
		Abstract: l.Abstract,
		GridSets: slices.Clone(l.GridSets),
		Formats:  slices.Clone(l.Formats),
		Styles:   slices.Clone(l.Styles),
		Metadata: maps.Clone(l.Metadata),
	}
}

// clone returns a detached copy of the configured fields. Runtime state is
// not carried over; the copy starts uninitialized.
func (l *TileLayer) clone() *TileLayer {
	return &TileLayer{
		LayerName: l.LayerName,
		Title:     l.Title,
		Abstract:  l.Abstract,
		GridSets:  slices.Clone(l.GridSets),
		Formats:   slices.Clone(l.Formats),
		Styles:    slices.Clone(l.Styles),
		Metadata:  maps.Clone(l.Metadata),
	}
}

// LayerInfo is the serializable description of a layer.
type LayerInfo struct {
	Name     string            `json:"name" yaml:"name"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract string            `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	GridSets []string          `json:"gridSets" yaml:"gridSets"`
	Formats  []string          `json:"formats" yaml:"formats"`
	Styles   []string          `json:"styles,omitempty" yaml:"styles,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// appendMissing appends the values not already present in dst, preserving
// order, and reports whether anything was added.
func appendMissing(dst *[]string, src []string) bool {
	added := false
	for _, v := range src {
		if !slices.Contains(*dst, v) {
			*dst = append(*dst, v)
			added = true
		}
	}
	return added
}
