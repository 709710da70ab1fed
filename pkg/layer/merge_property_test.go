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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tilefort/tilefort/pkg/grid"
)

// TestMergePolicyProperty verifies that for any sequence of sources, the
// loaded mapping holds exactly one entry per distinct layer name, that the
// first occurrence of a name owns the map slot, and that every later
// occurrence is merged into it in source-list order.
func TestMergePolicyProperty(t *testing.T) {
	nameGen := rapid.SampledFrom([]string{"roads", "parks", "rivers", "rail", "landuse"})

	rapid.Check(t, func(rt *rapid.T) {
		numSources := rapid.IntRange(1, 4).Draw(rt, "numSources")

		var (
			sources []Source
			supply  []*fakeLayer // every layer in global supply order
		)
		for i := 0; i < numSources; i++ {
			numLayers := rapid.IntRange(0, 5).Draw(rt, fmt.Sprintf("numLayers%d", i))
			layers := make([]Layer, 0, numLayers)
			for j := 0; j < numLayers; j++ {
				name := nameGen.Draw(rt, fmt.Sprintf("name%d_%d", i, j))
				l := newFakeLayer(name, fmt.Sprintf("s%d#%d", i, j))
				layers = append(layers, l)
				supply = append(supply, l)
			}
			sources = append(sources, sourceOf(fmt.Sprintf("source-%d", i), layers...))
		}

		r := New(grid.NewBroker(), sources, WithStartupDelay(0))
		defer r.Close()

		got, err := r.Layers(context.Background())
		require.NoError(rt, err)

		// Model: first occurrence wins the slot, later ones merge in order.
		first := make(map[string]*fakeLayer)
		merged := make(map[string][]string)
		for _, l := range supply {
			if _, ok := first[l.name]; !ok {
				first[l.name] = l
				continue
			}
			merged[l.name] = append(merged[l.name], l.tag)
		}

		require.Len(rt, got, len(first), "exactly one entry per distinct name")
		for name, want := range first {
			assert.Same(rt, Layer(want), got[name])
			assert.Equal(rt, merged[name], want.mergedTags)
		}
	})
}
