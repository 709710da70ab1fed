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
	"bytes"
	"context"
	"fmt"
	"log/slog"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tilefort/tilefort/pkg/defaults"
	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/layer"
	"github.com/tilefort/tilefort/pkg/serializer"
)

// HTTPSource reads layer definitions from a JSON or YAML document served
// over HTTP(S). The format is detected from the URL path extension.
// Fetched documents are cached; a reload bypasses and refreshes the cache.
type HTTPSource struct {
	url    string
	grids  *grid.Broker
	reader *serializer.HttpReader
	cache  *gocache.Cache
}

var _ layer.Source = (*HTTPSource)(nil)

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHttpReader replaces the default HTTP reader, e.g. to tune timeouts.
func WithHttpReader(r *serializer.HttpReader) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.reader = r
	}
}

// NewHTTPSource creates an HTTPSource for the given configuration URL.
func NewHTTPSource(url string, grids *grid.Broker, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		url:   url,
		grids: grids,
		cache: gocache.New(defaults.ConfigCacheTTL, 2*defaults.ConfigCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reader == nil {
		s.reader = serializer.NewHttpReader()
	}
	return s
}

// Identifier returns the configuration URL.
func (s *HTTPSource) Identifier() (string, error) {
	if s.url == "" {
		return "", fmt.Errorf("configuration url is empty")
	}
	return s.url, nil
}

// Layers fetches the remote configuration and returns its layer definitions.
func (s *HTTPSource) Layers(ctx context.Context, reload bool) ([]layer.Layer, error) {
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

// ServiceInformation returns the service metadata from the remote
// configuration, or nil if the document declares none.
func (s *HTTPSource) ServiceInformation() (*layer.ServiceInformation, error) {
	doc, err := s.document(context.Background(), false)
	if err != nil {
		return nil, err
	}
	return doc.Service, nil
}

func (s *HTTPSource) document(ctx context.Context, reload bool) (*Document, error) {
	if !reload {
		if cached, ok := s.cache.Get(documentCacheKey); ok {
			return cached.(*Document), nil
		}
	}

	data, err := s.reader.ReadWithContext(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch configuration %q: %w", s.url, err)
	}

	format := serializer.FormatFromPath(s.url)
	r, err := serializer.NewReader(format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %q: %w", s.url, err)
	}

	var doc Document
	if err := r.Deserialize(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %q: %w", s.url, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", s.url, err)
	}

	if s.grids != nil {
		for _, gs := range doc.GridSets {
			s.grids.Put(gs)
		}
	}
	s.cache.SetDefault(documentCacheKey, &doc)

	slog.Debug("fetched remote configuration",
		"url", s.url,
		"layers", len(doc.Layers),
		"reload", reload,
	)
	return &doc, nil
}
