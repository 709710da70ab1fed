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

package grid

import (
	"fmt"
	"sort"
	"sync"
)

// Well-known grid set names registered by default in every Broker.
const (
	WorldEPSG4326 = "world-epsg4326"
	WorldEPSG3857 = "world-epsg3857"
)

// DefaultTileSize is the tile edge length in pixels used by the built-in grid sets.
const DefaultTileSize = 256

// GridSet describes a tiling scheme: a spatial reference system, the extent
// it covers, and the resolution of each zoom level.
type GridSet struct {
	// Name uniquely identifies the grid set within a Broker.
	Name string `json:"name" yaml:"name"`

	// SRS is the spatial reference system code, e.g. "EPSG:4326".
	SRS string `json:"srs" yaml:"srs"`

	// Extent is the bounding box covered by the grid set,
	// ordered minx, miny, maxx, maxy in SRS units.
	Extent [4]float64 `json:"extent" yaml:"extent"`

	// Resolutions holds the per-zoom-level resolution in SRS units per pixel,
	// ordered from the coarsest level to the finest.
	Resolutions []float64 `json:"resolutions" yaml:"resolutions"`

	// TileSize is the tile edge length in pixels.
	TileSize int `json:"tileSize" yaml:"tileSize"`
}

// Levels returns the number of zoom levels in the grid set.
func (g *GridSet) Levels() int {
	return len(g.Resolutions)
}

// Broker is the shared registry of grid sets that layers resolve their
// tiling schemes against during initialization. It is safe for concurrent use.
type Broker struct {
	mu       sync.RWMutex
	gridSets map[string]*GridSet
}

// NewBroker creates a Broker pre-populated with the world EPSG:4326 and
// EPSG:3857 grid sets.
func NewBroker() *Broker {
	b := &Broker{
		gridSets: make(map[string]*GridSet),
	}
	b.Put(worldEPSG4326())
	b.Put(worldEPSG3857())
	return b
}

// Get returns the grid set registered under the given name.
func (b *Broker) Get(name string) (*GridSet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	gs, ok := b.gridSets[name]
	if !ok {
		return nil, fmt.Errorf("unknown grid set %q", name)
	}
	return gs, nil
}

// Put registers a grid set, replacing any previous grid set with the same name.
func (b *Broker) Put(gs *GridSet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gridSets[gs.Name] = gs
}

// Names returns the sorted names of all registered grid sets.
func (b *Broker) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.gridSets))
	for name := range b.gridSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func worldEPSG4326() *GridSet {
	return &GridSet{
		Name:        WorldEPSG4326,
		SRS:         "EPSG:4326",
		Extent:      [4]float64{-180, -90, 180, 90},
		Resolutions: geodeticResolutions(22),
		TileSize:    DefaultTileSize,
	}
}

func worldEPSG3857() *GridSet {
	const worldExtent = 20037508.342789244
	return &GridSet{
		Name:        WorldEPSG3857,
		SRS:         "EPSG:3857",
		Extent:      [4]float64{-worldExtent, -worldExtent, worldExtent, worldExtent},
		Resolutions: mercatorResolutions(22),
		TileSize:    DefaultTileSize,
	}
}

// geodeticResolutions computes the resolution pyramid for the unprojected
// world grid, starting from two tiles across at level zero.
func geodeticResolutions(levels int) []float64 {
	res := make([]float64, levels)
	r := 180.0 / DefaultTileSize
	for i := range res {
		res[i] = r
		r /= 2
	}
	return res
}

// mercatorResolutions computes the resolution pyramid for the spherical
// mercator grid, starting from one tile covering the world at level zero.
func mercatorResolutions(levels int) []float64 {
	res := make([]float64, levels)
	r := 2 * 20037508.342789244 / DefaultTileSize
	for i := range res {
		res[i] = r
		r /= 2
	}
	return res
}
