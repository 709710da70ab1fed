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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name    string   `json:"name" yaml:"name"`
	Formats []string `json:"formats" yaml:"formats"`
}

func TestWriterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatJSON, buf)

	require.NoError(t, w.Serialize(context.Background(), testDoc{Name: "roads", Formats: []string{"image/png"}}))

	var got testDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "roads", got.Name)
	assert.Equal(t, []string{"image/png"}, got.Formats)
}

func TestWriterYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatYAML, buf)

	require.NoError(t, w.Serialize(context.Background(), testDoc{Name: "parks"}))
	assert.Contains(t, buf.String(), "name: parks")
}

func TestWriterTable(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatTable, buf)

	require.NoError(t, w.Serialize(context.Background(), testDoc{Name: "roads", Formats: []string{"image/png", "image/jpeg"}}))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "roads")
	assert.Contains(t, out, "Formats.[0]")
	assert.Contains(t, out, "image/jpeg")
}

func TestWriterTableEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(FormatTable, buf)

	require.NoError(t, w.Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>", strings.TrimSpace(buf.String()))
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(Format("xml"), buf)

	require.NoError(t, w.Serialize(context.Background(), testDoc{Name: "roads"}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"layers.json", FormatJSON},
		{"layers.yaml", FormatYAML},
		{"layers.YML", FormatYAML},
		{"layers.txt", FormatTable},
		{"layers", FormatJSON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromPath(tt.path), tt.path)
	}
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
}

func TestNewFileWriterOrStdoutFallsBackOnEmptyPath(t *testing.T) {
	s := NewFileWriterOrStdout(FormatJSON, "  ")
	w, ok := s.(*Writer)
	require.True(t, ok)
	assert.Nil(t, w.closer)
	assert.NoError(t, w.Close())
}
