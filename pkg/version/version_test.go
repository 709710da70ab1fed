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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1", want: Version{Major: 1, Precision: 1}},
		{in: "1.2", want: Version{Major: 1, Minor: 2, Precision: 2}},
		{in: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3, Precision: 3}},
		{in: "v2.0", want: Version{Major: 2, Precision: 2}},
		{in: "", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "1.x", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "1.2", "1.2.3"} {
		v, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}

func TestCompare(t *testing.T) {
	v12, _ := Parse("1.2")
	v123, _ := Parse("1.2.3")
	v130, _ := Parse("1.3.0")
	v2, _ := Parse("2")

	assert.Equal(t, 0, v12.Compare(v123), "comparison stops at the lower precision")
	assert.Equal(t, -1, v123.Compare(v130))
	assert.Equal(t, 1, v2.Compare(v123))
	assert.Equal(t, 0, v123.Compare(v123))
}
