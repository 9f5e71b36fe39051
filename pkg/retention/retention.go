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

// Package retention decides which classified files fall inside the action
// window and groups them by calendar date.
package retention

import (
	"context"
	"sort"
	"time"

	"github.com/walteh/archivist/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// DefaultRetentionDays is how many days stay in the source by default.
const DefaultRetentionDays = 15

// Unbounded disables the max-age bound.
const Unbounded = -1

// ⏳ Window is the eligibility window relative to Today
type Window struct {
	Today         time.Time // truncated to its date
	RetentionDays int       // files dated on or after Today-RetentionDays stay put
	MaxDays       int       // files dated before Today-MaxDays are left alone; Unbounded disables
}

// Validate checks the bounds of the window.
func (w Window) Validate() error {
	if w.RetentionDays < 0 {
		return errors.Errorf("retention days must not be negative, got %d", w.RetentionDays)
	}
	if w.MaxDays != Unbounded && w.MaxDays < w.RetentionDays {
		return errors.Errorf("max days (%d) must be at least retention days (%d)", w.MaxDays, w.RetentionDays)
	}
	return nil
}

// Threshold is the first date that is retained.
func (w Window) Threshold() time.Time {
	return pattern.Day(w.Today).AddDate(0, 0, -w.RetentionDays)
}

// Floor is the oldest date that may be acted upon. ok is false when unbounded.
func (w Window) Floor() (floor time.Time, ok bool) {
	if w.MaxDays == Unbounded {
		return time.Time{}, false
	}
	return pattern.Day(w.Today).AddDate(0, 0, -w.MaxDays), true
}

// 🎯 Eligible reports whether a file dated date should be acted upon.
func (w Window) Eligible(date time.Time) bool {
	if !date.Before(w.Threshold()) {
		return false
	}
	if floor, ok := w.Floor(); ok && date.Before(floor) {
		return false
	}
	return true
}

// 📦 Groups maps a calendar date to the files carrying it
type Groups map[time.Time][]string

// Dates returns the group keys, oldest first.
func (g Groups) Dates() []time.Time {
	dates := make([]time.Time, 0, len(g))
	for d := range g {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Len is the number of files across all groups.
func (g Groups) Len() int {
	n := 0
	for _, files := range g {
		n += len(files)
	}
	return n
}

// 📊 Result is the outcome of FilterAndGroup
type Result struct {
	Groups       Groups
	Seen         int // every candidate handed in
	Eligible     int
	Unclassified int
	Min          time.Time // oldest eligible date, zero when nothing is eligible
	Max          time.Time // newest eligible date, zero when nothing is eligible
}

// ClassifyFunc extracts the date of a filename stem.
type ClassifyFunc func(ctx context.Context, stem string) (time.Time, bool)

// 🔄 FilterAndGroup classifies each file by its stem and keeps the ones inside
// the window, grouped by exact date. Every file counts toward Seen.
func FilterAndGroup(ctx context.Context, files []string, classify ClassifyFunc, w Window) Result {
	res := Result{
		Groups: Groups{},
		Seen:   len(files),
	}

	for _, file := range files {
		date, ok := classify(ctx, pattern.Stem(file))
		if !ok {
			res.Unclassified++
			continue
		}
		date = pattern.Day(date)
		if !w.Eligible(date) {
			continue
		}

		res.Groups[date] = append(res.Groups[date], file)
		res.Eligible++

		if res.Min.IsZero() || date.Before(res.Min) {
			res.Min = date
		}
		if res.Max.IsZero() || date.After(res.Max) {
			res.Max = date
		}
	}

	return res
}
