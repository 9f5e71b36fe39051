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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Wildcard marks the end of a descriptor that is not part of the date.
const Wildcard = "*"

// DefaultFormat matches names like "clip_2019-08-14_22-29-18.mp4".
const DefaultFormat = Wildcard + "yyyy-MM-dd_HH-mm-ss"

// ErrInvalidDescriptor is returned for descriptors without exactly one wildcard end
// or with an unusable template.
var ErrInvalidDescriptor = errors.New("invalid date format descriptor")

// 🎯 Anchor tells which end of a filename stem holds the date
type Anchor int

const (
	AnchorPrefix Anchor = iota + 1 // date leads the stem: "yyyy-MM-dd*"
	AnchorSuffix                   // date trails the stem: "*yyyy-MM-dd"
)

func (a Anchor) String() string {
	switch a {
	case AnchorPrefix:
		return "prefix"
	case AnchorSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// 📐 Descriptor is a parsed date format with its anchor
type Descriptor struct {
	Raw      string // as written by the operator
	Template string // Raw without the wildcard
	Anchor   Anchor
	layout   string
}

// 🏭 ParseDescriptor validates a raw descriptor such as "*yyyy-MM-dd_HH-mm-ss".
func ParseDescriptor(raw string) (Descriptor, error) {
	raw = strings.TrimSpace(raw)

	leading := strings.HasPrefix(raw, Wildcard)
	trailing := strings.HasSuffix(raw, Wildcard)

	var anchor Anchor
	switch {
	case raw == Wildcard || (leading && trailing):
		return Descriptor{}, errors.Errorf("%w: %q has a wildcard on both ends", ErrInvalidDescriptor, raw)
	case leading:
		anchor = AnchorSuffix
	case trailing:
		anchor = AnchorPrefix
	default:
		return Descriptor{}, errors.Errorf("%w: %q has no wildcard on either end", ErrInvalidDescriptor, raw)
	}

	template := strings.TrimSuffix(strings.TrimPrefix(raw, Wildcard), Wildcard)
	if strings.Contains(template, Wildcard) {
		return Descriptor{}, errors.Errorf("%w: %q has a wildcard inside the date", ErrInvalidDescriptor, raw)
	}

	layout, err := toLayout(template)
	if err != nil {
		return Descriptor{}, errors.Errorf("%w: %q: %w", ErrInvalidDescriptor, raw, err)
	}

	return Descriptor{
		Raw:      raw,
		Template: template,
		Anchor:   anchor,
		layout:   layout,
	}, nil
}

// 📚 ParseDescriptors parses an ordered list, failing on the first invalid entry.
// The order is kept: it decides which descriptor wins during classification.
func ParseDescriptors(raws []string) ([]Descriptor, error) {
	if len(raws) == 0 {
		return nil, errors.Errorf("%w: no date formats given", ErrInvalidDescriptor)
	}

	out := make([]Descriptor, 0, len(raws))
	for _, raw := range raws {
		d, err := ParseDescriptor(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// MustParseDescriptor is ParseDescriptor for literals known to be valid.
func MustParseDescriptor(raw string) Descriptor {
	d, err := ParseDescriptor(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Descriptor) String() string {
	return d.Raw
}
