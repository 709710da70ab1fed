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

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefort/tilefort/pkg/config"
	"github.com/tilefort/tilefort/pkg/grid"
)

func TestBuildSources(t *testing.T) {
	grids := grid.NewBroker()
	sources, filePaths := buildSources([]string{
		"/etc/tilefort/layers.yaml",
		"https://example.com/layers.json",
		"./local.yml",
	}, grids)

	require.Len(t, sources, 3)
	assert.IsType(t, &config.FileSource{}, sources[0])
	assert.IsType(t, &config.HTTPSource{}, sources[1])
	assert.IsType(t, &config.FileSource{}, sources[2])

	// Only local files are candidates for watching.
	assert.Equal(t, []string{"/etc/tilefort/layers.yaml", "./local.yml"}, filePaths)
}

func TestServeRequiresConfig(t *testing.T) {
	err := Serve(Options{})
	assert.Error(t, err)
}
