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

// Package api wires the layer registry into a running daemon.
//
// This package is a thin composition layer: it builds configuration sources
// from paths or URLs, starts the registry from pkg/layer, serves the HTTP
// API from pkg/server, and optionally watches file sources for changes.
// Lifecycle concerns (signals, readiness, systemd notification, graceful
// shutdown) live here so the server and registry packages stay reusable.
//
// # Usage
//
//	if err := api.Serve(api.Options{
//	    ConfigPaths:  []string{"/etc/tilefort/layers.yaml"},
//	    Watch:        true,
//	    StartupDelay: -1, // registry default
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// The server is configured via environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SHUTDOWN_TIMEOUT_SECONDS: Graceful shutdown budget
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/tilefort/tilefort/pkg/api.version=1.0.0'"
package api
