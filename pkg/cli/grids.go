/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/tilefort/tilefort/pkg/config"
	"github.com/tilefort/tilefort/pkg/grid"
	"github.com/tilefort/tilefort/pkg/serializer"
)

func gridsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "grids",
		EnableShellCompletion: true,
		Usage:                 "List the available grid sets",
		Description: `Print the built-in grid sets plus any defined by the given
configuration sources.

# Examples

List the built-in grid sets:
  tilefort grids

Include grid sets from a configuration file:
  tilefort grids --config layers.yaml --format yaml`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Layer configuration source whose grid sets to include (can be repeated)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			grids := grid.NewBroker()
			for _, path := range cmd.StringSlice("config") {
				doc, err := config.ValidateFile(path)
				if err != nil {
					return err
				}
				for _, gs := range doc.GridSets {
					grids.Put(gs)
				}
			}

			sets := make([]*grid.GridSet, 0)
			for _, n := range grids.Names() {
				gs, err := grids.Get(n)
				if err != nil {
					continue
				}
				sets = append(sets, gs)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(serializer.Closer); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			return ser.Serialize(ctx, sets)
		},
	}
}
