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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderJSON(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`{"name":"roads"}`))
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "roads", got.Name)
}

func TestReaderYAML(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("name: parks\nformats:\n  - image/png\n"))
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "parks", got.Name)
	assert.Equal(t, []string{"image/png"}, got.Formats)
}

func TestReaderRejectsTableFormat(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
}

func TestReaderCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"roads"}`), 0600))

	r, err := NewFileReader(FormatJSON, path)
	require.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())

	var nilReader *Reader
	assert.NoError(t, nilReader.Close())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: rivers\n"), 0600))

	got, err := FromFile[testDoc](path)
	require.NoError(t, err)
	assert.Equal(t, "rivers", got.Name)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile[testDoc](filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
