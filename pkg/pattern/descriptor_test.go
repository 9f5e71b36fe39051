// Copyright 2025 walteh LLC
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

package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    bool
		wantAnchor Anchor
		wantLayout string
	}{
		{
			name:       "default_suffix",
			raw:        DefaultFormat,
			wantAnchor: AnchorSuffix,
			wantLayout: "2006-01-02_15-04-05",
		},
		{
			name:       "prefix",
			raw:        "yyyyMMdd*",
			wantAnchor: AnchorPrefix,
			wantLayout: "20060102",
		},
		{
			name:       "twelve_hour_clock",
			raw:        "*dd.MM.yy hh-mm tt",
			wantAnchor: AnchorSuffix,
			wantLayout: "02.01.06 03-04 PM",
		},
		{
			name:       "surrounding_space_trimmed",
			raw:        "  *yyyy-MM-dd ",
			wantAnchor: AnchorSuffix,
			wantLayout: "2006-01-02",
		},
		{name: "no_wildcard", raw: "yyyy-MM-dd", wantErr: true},
		{name: "both_wildcards", raw: "*yyyy-MM-dd*", wantErr: true},
		{name: "only_wildcard", raw: "*", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "inner_wildcard", raw: "*yyyy*MM-dd", wantErr: true},
		{name: "unknown_token", raw: "*yyyy-MMM-dd", wantErr: true},
		{name: "literal_letter", raw: "*yyyy-MM-ddT", wantErr: true},
		{name: "literal_digit", raw: "*20yy-MM-dd", wantErr: true},
		{name: "time_only", raw: "*HH-mm-ss", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDescriptor(tt.raw)
			if tt.wantErr {
				require.Error(t, err, "ParseDescriptor should fail")
				assert.True(t, errors.Is(err, ErrInvalidDescriptor), "error should wrap ErrInvalidDescriptor")
				return
			}

			require.NoError(t, err, "ParseDescriptor should succeed")
			assert.Equal(t, tt.wantAnchor, d.Anchor, "anchor should match")
			assert.Equal(t, tt.wantLayout, d.layout, "layout should match")
			assert.Len(t, d.layout, len(d.Template), "layout and template should have the same width")
		})
	}
}

func TestParseDescriptors(t *testing.T) {
	ds, err := ParseDescriptors([]string{"*yyyy-MM-dd_HH-mm-ss", "yyyyMMdd*"})
	require.NoError(t, err, "ParseDescriptors should succeed")
	require.Len(t, ds, 2, "should keep both descriptors")
	assert.Equal(t, AnchorSuffix, ds[0].Anchor, "order should be kept")
	assert.Equal(t, AnchorPrefix, ds[1].Anchor, "order should be kept")

	_, err = ParseDescriptors([]string{"*yyyy-MM-dd", "yyyy-MM-dd"})
	assert.True(t, errors.Is(err, ErrInvalidDescriptor), "one bad descriptor should fail the list")

	_, err = ParseDescriptors(nil)
	assert.True(t, errors.Is(err, ErrInvalidDescriptor), "an empty list should fail")
}

func TestMustParseDescriptor(t *testing.T) {
	assert.NotPanics(t, func() { MustParseDescriptor(DefaultFormat) }, "default format should parse")
	assert.Panics(t, func() { MustParseDescriptor("yyyy") }, "missing wildcard should panic")
}
