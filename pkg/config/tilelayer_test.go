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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefort/tilefort/pkg/grid"
)

func TestTileLayerInitializeAppliesDefaults(t *testing.T) {
	l := &TileLayer{LayerName: "roads"}
	require.NoError(t, l.Initialize(grid.NewBroker()))

	assert.Equal(t, []string{grid.WorldEPSG4326, grid.WorldEPSG3857}, l.GridSets)
	assert.Equal(t, []string{DefaultFormat}, l.Formats)

	gs, err := l.GridSet(grid.WorldEPSG3857)
	require.NoError(t, err)
	assert.Equal(t, "EPSG:3857", gs.SRS)
}

func TestTileLayerInitializeUnknownGridSet(t *testing.T) {
	l := &TileLayer{LayerName: "roads", GridSets: []string{"no-such-grid"}}
	assert.Error(t, l.Initialize(grid.NewBroker()))
}

func TestTileLayerInitializeRequiresName(t *testing.T) {
	l := &TileLayer{}
	assert.Error(t, l.Initialize(grid.NewBroker()))
}

func TestTileLayerInitializeIsIdempotent(t *testing.T) {
	l := &TileLayer{LayerName: "roads"}
	broker := grid.NewBroker()
	require.NoError(t, l.Initialize(broker))
	require.NoError(t, l.Initialize(broker))
	assert.Equal(t, []string{DefaultFormat}, l.Formats)
}

func TestTileLayerMergeFrom(t *testing.T) {
	broker := grid.NewBroker()

	a := &TileLayer{
		LayerName: "roads",
		Formats:   []string{"image/png"},
		GridSets:  []string{grid.WorldEPSG4326},
		Metadata:  map[string]string{"owner": "gis"},
	}
	require.NoError(t, a.Initialize(broker))

	b := &TileLayer{
		LayerName: "roads",
		Title:     "Road network",
		Formats:   []string{"image/png", "image/jpeg"},
		GridSets:  []string{grid.WorldEPSG3857},
		Styles:    []string{"night"},
		Metadata:  map[string]string{"owner": "ops", "tier": "gold"},
	}
	require.NoError(t, b.Initialize(broker))

	require.NoError(t, a.MergeFrom(b))

	assert.Equal(t, "Road network", a.Title, "empty scalar is filled from the other layer")
	assert.Equal(t, []string{"image/png", "image/jpeg"}, a.Formats)
	assert.Equal(t, []string{grid.WorldEPSG4326, grid.WorldEPSG3857}, a.GridSets)
	assert.Equal(t, []string{"night"}, a.Styles)
	assert.Equal(t, "gis", a.Metadata["owner"], "existing metadata keys are kept")
	assert.Equal(t, "gold", a.Metadata["tier"])

	// Grid sets brought in by the merge are usable without re-initializing.
	_, err := a.GridSet(grid.WorldEPSG3857)
	assert.NoError(t, err)
}

func TestTileLayerMergeFromNameMismatch(t *testing.T) {
	a := &TileLayer{LayerName: "roads"}
	b := &TileLayer{LayerName: "parks"}
	assert.Error(t, a.MergeFrom(b))
}

func TestTileLayerDescribeIsDetached(t *testing.T) {
	l := &TileLayer{LayerName: "roads", Formats: []string{"image/png"}}
	info := l.Describe()
	info.Formats[0] = "mutated"
	assert.Equal(t, "image/png", l.Formats[0])
}

func TestTileLayerLockPairExcludes(t *testing.T) {
	l := &TileLayer{LayerName: "roads"}
	l.AcquireLock()
	released := make(chan struct{})
	go func() {
		l.AcquireLock()
		l.ReleaseLock()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("second acquire succeeded while lock was held")
	default:
	}

	l.ReleaseLock()
	<-released
}
