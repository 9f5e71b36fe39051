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
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// 📄 Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// 🔍 TryExtractDate parses the date found at the anchored end of stem.
//
// Stray dots around the stem (as in "clip_2019-08-14_22-29-18..mp4") are
// trimmed first. A stem shorter than the template, or text that does not
// parse, is reported as no match. The time of day is discarded.
func TryExtractDate(stem string, d Descriptor) (time.Time, bool) {
	stem = strings.Trim(stem, ".")

	n := len(d.Template)
	if n == 0 || len(stem) < n {
		return time.Time{}, false
	}

	var text string
	switch d.Anchor {
	case AnchorPrefix:
		text = stem[:n]
	case AnchorSuffix:
		text = stem[len(stem)-n:]
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(d.layout, text)
	if err != nil {
		return time.Time{}, false
	}

	return Day(t), true
}

// 📅 Day truncates t to its calendar date, expressed at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify returns the date of the first descriptor that matches stem.
func Classify(stem string, descriptors []Descriptor) (time.Time, bool) {
	for _, d := range descriptors {
		if date, ok := TryExtractDate(stem, d); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

// 🏷️ Classifier tries an ordered list of descriptors, first match wins
type Classifier struct {
	descriptors []Descriptor
}

// NewClassifier keeps the given order.
func NewClassifier(descriptors ...Descriptor) *Classifier {
	return &Classifier{descriptors: descriptors}
}

// Descriptors returns the descriptors in match order.
func (c *Classifier) Descriptors() []Descriptor {
	return c.descriptors
}

// 🎯 Classify is the package-level Classify plus a debug diagnostic once every
// descriptor has missed.
func (c *Classifier) Classify(ctx context.Context, stem string) (time.Time, bool) {
	date, ok := Classify(stem, c.descriptors)
	if !ok {
		raws := make([]string, 0, len(c.descriptors))
		for _, d := range c.descriptors {
			raws = append(raws, d.Raw)
		}
		zerolog.Ctx(ctx).Debug().
			Str("stem", stem).
			Strs("formats", raws).
			Msg("no date format matched")
	}
	return date, ok
}
