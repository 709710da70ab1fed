/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/tilefort/tilefort/pkg/config"
	"github.com/tilefort/tilefort/pkg/serializer"
)

// ValidationResult reports the outcome of validating one configuration file.
type ValidationResult struct {
	Source string `json:"source" yaml:"source"`
	Status string `json:"status" yaml:"status"`
	Layers int    `json:"layers" yaml:"layers"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Check configuration files without starting anything",
		Description: `Parse each configuration file, check it structurally (every layer
named, no duplicate layer or grid-set names), and initialize every layer
against the grid sets the document provides plus the built-in ones.

The command exits non-zero if any file fails validation, which makes it
usable as a pre-deploy gate in CI.

# Examples

Validate one file:
  tilefort validate --config layers.yaml

Validate several files and emit the report as JSON:
  tilefort validate -c base.yaml -c override.yaml --format json`,
		Flags: []cli.Flag{
			configFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			var (
				results []ValidationResult
				failed  int
			)
			for _, path := range cmd.StringSlice("config") {
				res := ValidationResult{Source: path, Status: "valid"}
				doc, err := config.ValidateFile(path)
				if err != nil {
					res.Status = "invalid"
					res.Error = err.Error()
					failed++
				} else {
					res.Layers = len(doc.Layers)
				}
				results = append(results, res)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(serializer.Closer); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			if err := ser.Serialize(ctx, results); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d configuration file(s) failed validation", failed)
			}
			return nil
		},
	}
}
