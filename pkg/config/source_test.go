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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefort/tilefort/pkg/grid"
)

const testConfigYAML = `
version: "1"
service:
  title: City Maps
  provider:
    name: City GIS
gridSets:
  - name: city-local
    srs: EPSG:2180
    extent: [144000, 140000, 877000, 910000]
    resolutions: [700, 350, 175]
    tileSize: 256
layers:
  - name: roads
    title: Road network
    gridSets: [city-local]
    formats: [image/png, image/jpeg]
  - name: parks
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileSourceLayers(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	broker := grid.NewBroker()
	src := NewFileSource(path, broker)

	layers, err := src.Layers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "roads", layers[0].Name())
	assert.Equal(t, "parks", layers[1].Name())

	// Custom grid sets from the document are registered with the broker.
	gs, err := broker.Get("city-local")
	require.NoError(t, err)
	assert.Equal(t, "EPSG:2180", gs.SRS)
	assert.Equal(t, 3, gs.Levels())
}

func TestFileSourceReturnsDetachedLayers(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	src := NewFileSource(path, grid.NewBroker())
	ctx := context.Background()

	first, err := src.Layers(ctx, false)
	require.NoError(t, err)
	second, err := src.Layers(ctx, false)
	require.NoError(t, err)

	assert.NotSame(t, first[0], second[0], "each call returns fresh layer objects")
}

func TestFileSourceCachesUntilReload(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	src := NewFileSource(path, grid.NewBroker())
	ctx := context.Background()

	layers, err := src.Layers(ctx, false)
	require.NoError(t, err)
	require.Len(t, layers, 2)

	require.NoError(t, os.WriteFile(path, []byte("layers:\n  - name: rivers\n"), 0600))

	layers, err = src.Layers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, layers, 2, "cached document is served without reload")

	layers, err = src.Layers(ctx, true)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "rivers", layers[0].Name())
}

func TestFileSourceServiceInformation(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	src := NewFileSource(path, grid.NewBroker())

	si, err := src.ServiceInformation()
	require.NoError(t, err)
	require.NotNil(t, si)
	assert.Equal(t, "City Maps", si.Title)
	require.NotNil(t, si.Provider)
	assert.Equal(t, "City GIS", si.Provider.Name)
}

func TestFileSourceInvalidDocument(t *testing.T) {
	path := writeTestConfig(t, "layers:\n  - name: roads\n  - name: roads\n")
	src := NewFileSource(path, grid.NewBroker())

	_, err := src.Layers(context.Background(), false)
	assert.ErrorContains(t, err, "duplicate layer name")
}

func TestFileSourceIdentifier(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	src := NewFileSource(path, grid.NewBroker())

	id, err := src.Identifier()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(id))

	_, err = NewFileSource("", grid.NewBroker()).Identifier()
	assert.Error(t, err)
}

func TestHTTPSourceLayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testConfigYAML))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/layers.yaml", grid.NewBroker())

	layers, err := src.Layers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "roads", layers[0].Name())

	si, err := src.ServiceInformation()
	require.NoError(t, err)
	require.NotNil(t, si)
	assert.Equal(t, "City Maps", si.Title)
}

func TestHTTPSourceFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/layers.yaml", grid.NewBroker())
	_, err := src.Layers(context.Background(), false)
	assert.Error(t, err)
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{
			name: "valid",
			doc: Document{
				Layers:   []*TileLayer{{LayerName: "roads"}},
				GridSets: []*grid.GridSet{{Name: "custom"}},
			},
		},
		{
			name:    "unnamed layer",
			doc:     Document{Layers: []*TileLayer{{}}},
			wantErr: "has no name",
		},
		{
			name:    "duplicate layer",
			doc:     Document{Layers: []*TileLayer{{LayerName: "roads"}, {LayerName: "roads"}}},
			wantErr: "duplicate layer name",
		},
		{
			name:    "duplicate grid set",
			doc:     Document{GridSets: []*grid.GridSet{{Name: "g"}, {Name: "g"}}},
			wantErr: "duplicate grid set name",
		},
		{
			name:    "unsupported version",
			doc:     Document{Version: "2.0"},
			wantErr: "newer than supported",
		},
		{
			name:    "malformed version",
			doc:     Document{Version: "one"},
			wantErr: "invalid document version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)
	doc, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Layers, 2)
}

func TestValidateFileUnknownGridSet(t *testing.T) {
	path := writeTestConfig(t, "layers:\n  - name: roads\n    gridSets: [no-such-grid]\n")
	_, err := ValidateFile(path)
	assert.ErrorContains(t, err, "unknown grid set")
}
