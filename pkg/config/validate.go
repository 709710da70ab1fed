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

	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/serializer"
)

// ValidateFile parses and fully validates a configuration file: structural
// checks plus initializing every layer against a broker that carries both
// the built-in grid sets and those the document defines. Returns the parsed
// document on success.
func ValidateFile(path string) (*Document, error) {
	doc, err := serializer.FromFile[Document](path)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
	}

	grids := grid.NewBroker()
	for _, gs := range doc.GridSets {
		grids.Put(gs)
	}

	for _, l := range doc.Layers {
		if err := l.clone().Initialize(grids); err != nil {
			return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
		}
	}
	return doc, nil
}
