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

package server

import (
	"context"
	"net/http"
	"sort"

	"github.com/tilefort/tilefort/pkg/config"
	"github.com/tilefort/tilefort/pkg/defaults"
	"github.com/tilefort/tilefort/pkg/layer"
	"github.com/tilefort/tilefort/pkg/serializer"
)

// describer is implemented by layers that can render a display view of
// themselves. Layers without it are listed by name only.
type describer interface {
	Describe() config.LayerInfo
}

func describeLayer(l layer.Layer) config.LayerInfo {
	if d, ok := l.(describer); ok {
		return d.Describe()
	}
	return config.LayerInfo{Name: l.Name()}
}

// LayersResponse is the body of GET /v1/layers.
type LayersResponse struct {
	Count  int                `json:"count"`
	Layers []config.LayerInfo `json:"layers"`
}

// handleLayers handles GET /v1/layers. The response is sorted by layer name.
func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.LayerHandlerTimeout)
	defer cancel()

	layers, err := s.registry.Layers(ctx)
	if err != nil {
		writeRegistryError(w, r, err)
		return
	}

	infos := make([]config.LayerInfo, 0, len(layers))
	for _, l := range layers {
		infos = append(infos, describeLayer(l))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	serializer.RespondJSON(w, http.StatusOK, LayersResponse{
		Count:  len(infos),
		Layers: infos,
	})
}

// handleLayerGet handles GET /v1/layers/{name}.
func (s *Server) handleLayerGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.LayerHandlerTimeout)
	defer cancel()

	l, err := s.registry.Get(ctx, r.PathValue("name"))
	if err != nil {
		writeRegistryError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, describeLayer(l))
}

// handleLayerDelete handles DELETE /v1/layers/{name}. Removing an absent
// layer succeeds, matching the registry's idempotent remove.
func (s *Server) handleLayerDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.LayerHandlerTimeout)
	defer cancel()

	if err := s.registry.Remove(ctx, r.PathValue("name")); err != nil {
		writeRegistryError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleReload handles POST /v1/reload. The reload is scheduled and then
// awaited, so a 200 means the new configuration is live.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ReloadHandlerTimeout)
	defer cancel()

	if err := s.registry.ReInit(ctx); err != nil {
		writeRegistryError(w, r, err)
		return
	}

	layers, err := s.registry.Layers(ctx)
	if err != nil {
		writeRegistryError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}{
		Status: "reloaded",
		Count:  len(layers),
	})
}

// handleService handles GET /v1/service.
func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	si := s.registry.ServiceInformation()
	if si == nil {
		WriteError(w, r, http.StatusNotFound, ErrCodeInvalidRequest,
			"no service information configured", false, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, si)
}
