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
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/archivist/pkg/pattern"
	"github.com/walteh/archivist/pkg/retention"
	"github.com/walteh/archivist/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// 📋 Job is everything one run needs
type Job struct {
	Name          string
	Mode          Mode
	Source        string
	Destination   string // unused in delete mode
	Extensions    string // regular expression over the extension, leading dot included
	RetentionDays int
	MaxDays       int      // retention.Unbounded for all history
	Formats       []string // raw descriptors, tried in order
	Recurse       bool
	Demo          bool
	Exclude       []string // doublestar globs relative to each unit
}

// DefaultJob returns a job with every setting at its default.
func DefaultJob() Job {
	return Job{
		Name:          "default",
		Mode:          ModeArchive,
		Extensions:    scan.DefaultExtensions,
		RetentionDays: retention.DefaultRetentionDays,
		MaxDays:       retention.Unbounded,
		Formats:       []string{pattern.DefaultFormat},
	}
}

// 🔧 Options configures a Runner
type Options struct {
	Fs       afero.Fs         // defaults to the OS filesystem
	Reporter Reporter         // optional human-facing progress
	Now      func() time.Time // defaults to time.Now
}

// 🏃 Runner validates jobs and drives scanner, filter and executor
type Runner struct {
	fs       afero.Fs
	reporter Reporter
	now      func() time.Time
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) *Runner {
	r := &Runner{
		fs:       opts.Fs,
		reporter: opts.Reporter,
		now:      opts.Now,
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.reporter == nil {
		r.reporter = nopReporter{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// plan is a validated job
type plan struct {
	classifier *pattern.Classifier
	scanner    *scan.Scanner
	window     retention.Window
	executor   *Executor
}

// prepare validates the job without touching the filesystem beyond stat calls
func (r *Runner) prepare(job Job) (*plan, error) {
	descriptors, err := pattern.ParseDescriptors(job.Formats)
	if err != nil {
		return nil, errors.Errorf("parsing date formats: %w", err)
	}

	window := retention.Window{
		Today:         pattern.Day(r.now()),
		RetentionDays: job.RetentionDays,
		MaxDays:       job.MaxDays,
	}
	if err := window.Validate(); err != nil {
		return nil, errors.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.Mode != ModeArchive && job.Mode != ModeDelete {
		return nil, errors.Errorf("%w: unsupported mode %d", ErrInvalidJob, job.Mode)
	}

	var skip []string
	if job.Mode == ModeArchive && job.Destination != "" {
		skip = append(skip, job.Destination)
	}

	scanner, err := scan.New(r.fs, scan.Options{
		Recurse:    job.Recurse,
		Extensions: job.Extensions,
		Exclude:    job.Exclude,
		Skip:       skip,
	})
	if err != nil {
		return nil, errors.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.Source == "" {
		return nil, errors.Errorf("%w: source is required", ErrRootNotFound)
	}
	if ok, _ := afero.DirExists(r.fs, job.Source); !ok {
		return nil, errors.Errorf("%w: source dir %s does not exist", ErrRootNotFound, job.Source)
	}
	if job.Mode == ModeArchive {
		if job.Destination == "" {
			return nil, errors.Errorf("%w: destination is required in archive mode", ErrRootNotFound)
		}
		if ok, _ := afero.DirExists(r.fs, job.Destination); !ok {
			return nil, errors.Errorf("%w: destination dir %s does not exist", ErrRootNotFound, job.Destination)
		}
		if filepath.Clean(job.Destination) == filepath.Clean(job.Source) {
			return nil, errors.Errorf("%w: destination %s is the source root", ErrInvalidJob, job.Destination)
		}
	}

	return &plan{
		classifier: pattern.NewClassifier(descriptors...),
		scanner:    scanner,
		window:     window,
		executor:   NewExecutor(NewApplier(r.fs, job.Demo), job.Mode, job.Destination, r.reporter),
	}, nil
}

// 🎯 Run executes one job. Units are processed one after another; the first
// failure aborts the run. The summary is logged on every path, including
// rejected jobs.
func (r *Runner) Run(ctx context.Context, job Job) (stats Stats, err error) {
	logger := zerolog.Ctx(ctx).With().
		Str("job", job.Name).
		Str("run_id", uuid.NewString()).
		Str("mode", job.Mode.String()).
		Bool("demo", job.Demo).
		Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		event := logger.Info()
		if err != nil {
			event = logger.Error().Err(err).Int("exit_code", ExitCode(err))
		}
		event.
			Int("seen", stats.Seen).
			Int("eligible", stats.Eligible).
			Int("attempted", stats.Attempted).
			Int("succeeded", stats.Succeeded).
			Msg("run finished")
		r.reporter.Summary(ctx, stats, err)
	}()

	p, err := r.prepare(job)
	if err != nil {
		return stats, err
	}

	logger.Info().
		Str("source", job.Source).
		Str("destination", job.Destination).
		Int("retention_days", job.RetentionDays).
		Int("max_days", job.MaxDays).
		Strs("formats", job.Formats).
		Msg("run started")

	units, err := p.scanner.Scan(ctx, job.Source)
	if err != nil {
		return stats, errors.Errorf("scanning %s: %w", job.Source, err)
	}

	for _, unit := range units {
		unitLogger := logger.With().Str("unit", unit.Name).Logger()
		unitCtx := unitLogger.WithContext(ctx)

		res := retention.FilterAndGroup(unitCtx, unit.Files, p.classifier.Classify, p.window)

		event := unitLogger.Info().
			Int("seen", res.Seen).
			Int("eligible", res.Eligible).
			Int("unclassified", res.Unclassified)
		if res.Eligible > 0 {
			event = event.
				Str("min_date", res.Min.Format(DateDirLayout)).
				Str("max_date", res.Max.Format(DateDirLayout))
		}
		event.Msg("unit classified")

		r.reporter.StartUnit(unitCtx, unit.Name, res)
		unitStats, err := p.executor.Execute(unitCtx, unit.Name, res.Groups, res.Seen)
		stats.Add(unitStats)
		r.reporter.EndUnit(unitCtx, unit.Name, unitStats)

		if err != nil {
			return stats, errors.Errorf("processing unit %s: %w", unit.Name, err)
		}
	}

	return stats, nil
}

// 📚 RunAll runs jobs in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) (Stats, error) {
	var total Stats
	for _, job := range jobs {
		stats, err := r.Run(ctx, job)
		total.Add(stats)
		if err != nil {
			return total, errors.Errorf("job %s: %w", job.Name, err)
		}
	}
	return total, nil
}

// Run executes job on fs without a console reporter.
func Run(ctx context.Context, fs afero.Fs, job Job) (Stats, error) {
	return NewRunner(Options{Fs: fs}).Run(ctx, job)
}
