/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tilefort/tilefort/pkg/api"
	"github.com/tilefort/tilefort/pkg/layer"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the layer registry daemon",
		Description: `Start the registry with the given configuration sources and serve the
HTTP API until interrupted.

The first configuration load happens in the background after a short
startup delay; API lookups that arrive earlier block until it finishes.
With --watch, changes to file sources trigger a reload that replaces the
whole layer mapping atomically.

# Examples

Serve a single configuration file:
  tilefort serve --config /etc/tilefort/layers.yaml

Serve several sources, reloading on file changes:
  tilefort serve -c base.yaml -c https://config.example.com/extra.json --watch

Skip the startup delay (useful in development):
  tilefort serve -c layers.yaml --startup-delay 0`,
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload when a configuration file changes",
			},
			&cli.DurationFlag{
				Name:  "startup-delay",
				Value: layer.DefaultStartupDelay,
				Usage: "Delay before the initial configuration load",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.Serve(api.Options{
				ConfigPaths:  cmd.StringSlice("config"),
				Watch:        cmd.Bool("watch"),
				StartupDelay: cmd.Duration("startup-delay"),
			})
		},
	}
}
