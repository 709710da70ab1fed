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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"github.com/tilefort/tilefort/pkg/config"
	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/layer"
	"github.com/tilefort/tilefort/pkg/logging"
	"github.com/tilefort/tilefort/pkg/server"
)

const (
	name           = "tilefortd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/tilefort/tilefort/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options configures the daemon.
type Options struct {
	// ConfigPaths are the layer configuration sources, file paths or
	// HTTP(S) URLs, consumed in order.
	ConfigPaths []string

	// Watch enables filesystem watching of file sources; a change triggers
	// a registry reload.
	Watch bool

	// StartupDelay overrides the registry's initial load delay when
	// non-negative.
	StartupDelay time.Duration
}

// Serve starts the registry and the HTTP API server and blocks until
// shutdown. It configures logging, wires the configuration sources into the
// registry, and handles graceful shutdown on SIGINT/SIGTERM.
func Serve(opts Options) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"configs", opts.ConfigPaths,
	)

	if len(opts.ConfigPaths) == 0 {
		return fmt.Errorf("no configuration sources given")
	}

	grids := grid.NewBroker()
	sources, filePaths := buildSources(opts.ConfigPaths, grids)

	var regOpts []layer.Option
	if opts.StartupDelay >= 0 {
		regOpts = append(regOpts, layer.WithStartupDelay(opts.StartupDelay))
	}
	reg := layer.New(grids, sources, regOpts...)
	defer reg.Close()

	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	s := server.New(cfg, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Start(gctx)
	})

	// Flip readiness once the first load has published.
	g.Go(func() error {
		if _, err := reg.Layers(gctx); err != nil {
			slog.Warn("initial configuration load failed", "error", err)
			return nil
		}
		s.SetReady(true)
		if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			slog.Warn("systemd notify failed", "error", err)
		} else if sent {
			slog.Debug("notified systemd of readiness")
		}
		return nil
	})

	if opts.Watch {
		for _, path := range filePaths {
			g.Go(func() error {
				return watchAndReload(gctx, reg, path)
			})
		}
	}

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// buildSources turns each path into a file or HTTP source and returns the
// subset of paths that are local files, for watching.
func buildSources(paths []string, grids *grid.Broker) ([]layer.Source, []string) {
	sources := make([]layer.Source, 0, len(paths))
	var filePaths []string
	for _, p := range paths {
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			sources = append(sources, config.NewHTTPSource(p, grids))
			continue
		}
		sources = append(sources, config.NewFileSource(p, grids))
		filePaths = append(filePaths, p)
	}
	return sources, filePaths
}

// watchAndReload reloads the registry whenever the configuration file
// changes, until the context is canceled.
func watchAndReload(ctx context.Context, reg *layer.Registry, path string) error {
	w, err := config.NewWatcher(path, 0)
	if err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			slog.Info("configuration changed, reloading", "path", path)
			if err := reg.ReInit(ctx); err != nil {
				slog.Error("reload failed", "error", err, "path", path)
			}
		}
	}
}
