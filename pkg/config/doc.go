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

// Package config supplies layer definitions to the registry from
// configuration documents.
//
// A document is a JSON or YAML file (or URL) with optional service
// metadata, optional custom grid sets, and a list of tile layers:
//
//	service:
//	  title: City Maps
//	layers:
//	  - name: roads
//	    gridSets: [world-epsg3857]
//	    formats: [image/png]
//
// FileSource and HTTPSource implement the registry's Source interface;
// both cache the parsed document and bypass the cache on reload. Watcher
// turns filesystem changes into debounced reload signals, and ValidateFile
// checks a document without starting anything.
package config
