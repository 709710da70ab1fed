/*
Copyright © 2025 Tilefort Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tilefort/tilefort/pkg/serializer"
)

const testLayersYAML = `
layers:
  - name: roads
    title: Road network
    formats: [image/png]
  - name: parks
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{name: "json", format: "json", want: serializer.FormatJSON},
		{name: "yaml", format: "yaml", want: serializer.FormatYAML},
		{name: "table", format: "table", want: serializer.FormatTable},
		{name: "unknown", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
					} else {
						require.NoError(t, err)
						assert.Equal(t, tt.want, got)
					}
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestLoadLayerInfos(t *testing.T) {
	path := writeConfig(t, testLayersYAML)

	infos, err := loadLayerInfos(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "parks", infos[0].Name)
	assert.Equal(t, "roads", infos[1].Name)
	assert.Equal(t, "Road network", infos[1].Title)
}

func TestLoadLayerInfosMergesSources(t *testing.T) {
	base := writeConfig(t, "layers:\n  - name: roads\n    formats: [image/png]\n")
	extra := writeConfig(t, "layers:\n  - name: roads\n    formats: [image/jpeg]\n")

	infos, err := loadLayerInfos(context.Background(), []string{base, extra})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.ElementsMatch(t, []string{"image/png", "image/jpeg"}, infos[0].Formats)
}

func TestValidateCommand(t *testing.T) {
	good := writeConfig(t, testLayersYAML)
	out := filepath.Join(t.TempDir(), "report.json")

	err := rootCmd().Run(context.Background(),
		[]string{"tilefort", "validate", "-c", good, "-f", "json", "-o", out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valid"`)
}

func TestValidateCommandFails(t *testing.T) {
	bad := writeConfig(t, "layers:\n  - name: roads\n  - name: roads\n")

	err := rootCmd().Run(context.Background(),
		[]string{"tilefort", "validate", "-c", bad, "-f", "json", "-o", filepath.Join(t.TempDir(), "r.json")})
	assert.Error(t, err)
}

func TestLayersCommandJSONOutput(t *testing.T) {
	path := writeConfig(t, testLayersYAML)
	out := filepath.Join(t.TempDir(), "layers.json")

	err := rootCmd().Run(context.Background(),
		[]string{"tilefort", "layers", "-c", path, "-f", "json", "-o", out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"roads"`)
	assert.Contains(t, string(data), `"parks"`)
}

func TestGridsCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grids.json")

	err := rootCmd().Run(context.Background(),
		[]string{"tilefort", "grids", "-f", "json", "-o", out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "world-epsg4326")
	assert.Contains(t, string(data), "world-epsg3857")
}
