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
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tilefort/tilefort/pkg/defaults"
	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/layer"
	"github.com/tilefort/tilefort/pkg/serializer"
	"github.com/tilefort/tilefort/pkg/version"
)

// documentCacheKey is the single key used in the per-source parse cache.
const documentCacheKey = "document"

// Document is the root of a tilefort configuration file.
type Document struct {
	Version  string                    `json:"version,omitempty" yaml:"version,omitempty"`
	Service  *layer.ServiceInformation `json:"service,omitempty" yaml:"service,omitempty"`
	GridSets []*grid.GridSet           `json:"gridSets,omitempty" yaml:"gridSets,omitempty"`
	Layers   []*TileLayer              `json:"layers" yaml:"layers"`
}

// SupportedVersion is the newest configuration document version this build
// understands.
var SupportedVersion = version.Version{Major: 1, Precision: 1}

// Validate checks the document for structural problems: an unsupported
// version, unnamed layers, and duplicate layer or grid-set names.
func (d *Document) Validate() error {
	if d.Version != "" {
		v, err := version.Parse(d.Version)
		if err != nil {
			return fmt.Errorf("invalid document version %q: %w", d.Version, err)
		}
		if v.Compare(SupportedVersion) > 0 {
			return fmt.Errorf("document version %s is newer than supported %s", v, SupportedVersion)
		}
	}

	seen := make(map[string]bool, len(d.Layers))
	for i, l := range d.Layers {
		if l == nil {
			return fmt.Errorf("layer %d is empty", i)
		}
		if l.LayerName == "" {
			return fmt.Errorf("layer %d has no name", i)
		}
		if seen[l.LayerName] {
			return fmt.Errorf("duplicate layer name %q", l.LayerName)
		}
		seen[l.LayerName] = true
	}

	grids := make(map[string]bool, len(d.GridSets))
	for i, gs := range d.GridSets {
		if gs == nil || gs.Name == "" {
			return fmt.Errorf("grid set %d has no name", i)
		}
		if grids[gs.Name] {
			return fmt.Errorf("duplicate grid set name %q", gs.Name)
		}
		grids[gs.Name] = true
	}
	return nil
}

// FileSource reads layer definitions from a JSON or YAML file on disk.
// Parsed documents are cached; a reload bypasses and refreshes the cache.
//
// Every Layers call returns detached copies of the parsed layers, so the
// registry can merge and mutate them without polluting the cache.
type FileSource struct {
	path  string
	grids *grid.Broker
	cache *gocache.Cache
}

var _ layer.Source = (*FileSource)(nil)

// NewFileSource creates a FileSource for the given configuration file path.
// Grid sets defined in the document are registered with the broker on every
// parse.
func NewFileSource(path string, grids *grid.Broker) *FileSource {
	return &FileSource{
		path:  path,
		grids: grids,
		cache: gocache.New(defaults.ConfigCacheTTL, 2*defaults.ConfigCacheTTL),
	}
}

// Identifier returns the absolute path of the configuration file.
func (s *FileSource) Identifier() (string, error) {
	if s.path == "" {
		return "", fmt.Errorf("configuration file path is empty")
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path, nil
	}
	return abs, nil
}

// Layers parses the configuration file and returns its layer definitions.
func (s *FileSource) Layers(ctx context.Context, reload bool) ([]layer.Layer, error) {
	doc, err := s.document(ctx, reload)
	if err != nil {
		return nil, err
	}

	layers := make([]layer.Layer, 0, len(doc.Layers))
	for _, l := range doc.Layers {
		layers = append(layers, l.clone())
	}
	return layers, nil
}

// ServiceInformation returns the service metadata from the configuration
// file, or nil if the document declares none.
func (s *FileSource) ServiceInformation() (*layer.ServiceInformation, error) {
	doc, err := s.document(context.Background(), false)
	if err != nil {
		return nil, err
	}
	return doc.Service, nil
}

// document returns the parsed configuration, from cache unless reload is set.
func (s *FileSource) document(_ context.Context, reload bool) (*Document, error) {
	if !reload {
		if cached, ok := s.cache.Get(documentCacheKey); ok {
			return cached.(*Document), nil
		}
	}

	doc, err := serializer.FromFile[Document](s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %q: %w", s.path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", s.path, err)
	}

	s.registerGridSets(doc)
	s.cache.SetDefault(documentCacheKey, doc)

	slog.Debug("parsed configuration file",
		"path", s.path,
		"layers", len(doc.Layers),
		"gridSets", len(doc.GridSets),
		"reload", reload,
	)
	return doc, nil
}

func (s *FileSource) registerGridSets(doc *Document) {
	if s.grids == nil {
		return
	}
	for _, gs := range doc.GridSets {
		s.grids.Put(gs)
	}
}
