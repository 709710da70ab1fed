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

// Package grid provides the shared grid-set registry that tile layers
// resolve their tiling schemes against.
//
// A Broker holds named GridSet definitions and ships with the two
// world-covering defaults every tile server needs: EPSG:4326 (geodetic)
// and EPSG:3857 (spherical mercator). Configuration sources may register
// additional grid sets before layers are initialized.
package grid
