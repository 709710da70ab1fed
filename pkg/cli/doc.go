/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the tilefort command line interface.
//
// Commands:
//
//	serve    - run the registry daemon with the HTTP API
//	layers   - list the merged layer set a configuration yields
//	grids    - list the available grid sets
//	validate - check configuration files without starting anything
//
// The CLI shares the registry, configuration, and serialization packages
// with the daemon, so what "layers" prints is exactly what "serve" would
// register.
package cli
