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

package operation

import (
	"context"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/archivist/pkg/pattern"
	"github.com/walteh/archivist/pkg/retention"
	"gitlab.com/tozd/go/errors"
)

// DateDirLayout names the per-day destination directories.
const DateDirLayout = "2006-01-02"

// 📝 FileEvent describes one processed file
type FileEvent struct {
	Unit    string
	Mode    Mode
	Demo    bool
	Date    time.Time
	Source  string
	Dest    string // empty in delete mode
	Current int    // 1-based position within the unit
	Total   int    // candidates seen in the unit
	Err     error
}

// Percent is Current relative to Total, rounded to two decimals.
func (e FileEvent) Percent() float64 {
	if e.Total == 0 {
		return 0
	}
	return math.Round(float64(e.Current)*10000/float64(e.Total)) / 100
}

// 📣 Reporter receives progress for human-facing output. The structured
// audit log is written regardless of the reporter.
type Reporter interface {
	StartUnit(ctx context.Context, unit string, res retention.Result)
	FileAction(ctx context.Context, ev FileEvent)
	EndUnit(ctx context.Context, unit string, stats Stats)
	Summary(ctx context.Context, stats Stats, err error)
}

type nopReporter struct{}

func (nopReporter) StartUnit(context.Context, string, retention.Result) {}
func (nopReporter) FileAction(context.Context, FileEvent)               {}
func (nopReporter) EndUnit(context.Context, string, Stats)              {}
func (nopReporter) Summary(context.Context, Stats, error)               {}

// DestinationDir is DestinationRoot/<unit>/<yyyy-MM-dd>.
func DestinationDir(root, unit string, date time.Time) string {
	return filepath.Join(root, unit, date.Format(DateDirLayout))
}

// DestinationName drops trailing dots from the stem, so "clip..mp4" lands as "clip.mp4".
func DestinationName(path string) string {
	return strings.TrimRight(pattern.Stem(path), ".") + filepath.Ext(path)
}

// ⚙️ Executor applies the action to grouped files of one unit
type Executor struct {
	applier         Applier
	mode            Mode
	destinationRoot string
	reporter        Reporter
}

// NewExecutor returns an executor; a nil reporter discards progress.
func NewExecutor(applier Applier, mode Mode, destinationRoot string, reporter Reporter) *Executor {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Executor{
		applier:         applier,
		mode:            mode,
		destinationRoot: destinationRoot,
		reporter:        reporter,
	}
}

// 🏃 Execute processes groups oldest first and files in path order. seen is
// the unit's candidate count and drives the progress percentage.
//
// The first failure stops the unit; the stats gathered so far are returned
// with the error.
func (e *Executor) Execute(ctx context.Context, unit string, groups retention.Groups, seen int) (Stats, error) {
	logger := zerolog.Ctx(ctx)

	stats := Stats{
		Seen:     seen,
		Eligible: groups.Len(),
	}

	current := 0
	for _, date := range groups.Dates() {
		files := append([]string(nil), groups[date]...)
		sort.Strings(files)

		var dir string
		if e.mode == ModeArchive {
			dir = DestinationDir(e.destinationRoot, unit, date)
			if err := e.applier.MkdirAll(ctx, dir); err != nil {
				return stats, errors.Errorf("preparing %s: %w", dir, err)
			}
		}

		for _, file := range files {
			current++
			stats.Attempted++

			ev := FileEvent{
				Unit:    unit,
				Mode:    e.mode,
				Demo:    e.applier.Demo(),
				Date:    date,
				Source:  file,
				Current: current,
				Total:   seen,
			}

			ev.Err = e.apply(ctx, dir, &ev)
			e.log(logger, ev)
			e.reporter.FileAction(ctx, ev)

			if ev.Err != nil {
				return stats, ev.Err
			}
			stats.Succeeded++
		}
	}

	return stats, nil
}

func (e *Executor) apply(ctx context.Context, dir string, ev *FileEvent) error {
	switch e.mode {
	case ModeArchive:
		ev.Dest = filepath.Join(dir, DestinationName(ev.Source))
		if filepath.Clean(ev.Source) == filepath.Clean(ev.Dest) {
			return nil
		}
		return e.applier.Move(ctx, ev.Source, ev.Dest)
	case ModeDelete:
		return e.applier.Remove(ctx, ev.Source)
	default:
		return errors.Errorf("%w: unsupported mode %d", ErrInvalidJob, e.mode)
	}
}

func (e *Executor) log(logger *zerolog.Logger, ev FileEvent) {
	event := logger.Info()
	if ev.Err != nil {
		event = logger.Error().Err(ev.Err)
	}

	event = event.
		Str("file", filepath.Base(ev.Source)).
		Str("date", ev.Date.Format(DateDirLayout)).
		Int("current", ev.Current).
		Int("total", ev.Total).
		Float64("progress", ev.Percent()).
		Bool("demo", ev.Demo)
	if ev.Dest != "" {
		event = event.Str("dest", ev.Dest)
	}

	switch ev.Mode {
	case ModeArchive:
		event.Msg("moving file")
	default:
		event.Msg("removing file")
	}
}
