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

// Package server exposes the layer registry over HTTP.
//
// The API surface:
//
//	GET    /v1/layers         list registered layers
//	GET    /v1/layers/{name}  describe one layer
//	DELETE /v1/layers/{name}  remove a layer from the running registry
//	POST   /v1/reload         reload configuration from all sources
//	GET    /v1/service        service metadata
//	GET    /health            liveness
//	GET    /ready             readiness (false until the first load publishes)
//	GET    /metrics           Prometheus metrics
//
// API endpoints are wrapped in the standard middleware chain: metrics,
// request ID, panic recovery, rate limiting, and request logging. Registry
// errors map to HTTP statuses: unknown layer is 404, configuration failure
// is 503.
package server
