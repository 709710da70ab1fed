/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tilefort/tilefort/pkg/logging"
	"github.com/tilefort/tilefort/pkg/serializer"
)

const (
	name           = "tilefort"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Shared flags across commands.
var (
	configFlag = &cli.StringSliceFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "Layer configuration source, a file path or HTTP(S) URL (can be repeated; sources are consumed in order)",
		Sources:  cli.EnvVars("TILEFORT_CONFIG"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (defaults to stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(serializer.FormatTable),
		Usage:   fmt.Sprintf("Output format, one of: %v", serializer.SupportedFormats()),
	}
)

// parseOutputFormat reads and validates the format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Tile layer registry tooling",
		Description: `tilefort manages the layer registry at the heart of a tile-caching
map server: layer definitions are read from one or more configuration
sources, merged by name in source order, and served over an HTTP API.

serve    - run the registry daemon with the HTTP API
layers   - list the layers a configuration yields
grids    - list the available grid sets
validate - check configuration files without starting anything`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			layersCmd(),
			gridsCmd(),
			validateCmd(),
		},
	}
}

// Execute runs the CLI. It is called by main and exits non-zero on error.
func Execute() {
	if err := rootCmd().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
