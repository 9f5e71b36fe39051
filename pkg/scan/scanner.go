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

// Package scan discovers candidate files below a source root, one unit per
// immediate subdirectory.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions matches any extension, including none.
const DefaultExtensions = ".*"

// 📂 Unit is an immediate subdirectory of the source root and the files it holds
type Unit struct {
	Name  string   // directory name, reused as the destination subtree name
	Path  string   // full path of the directory
	Files []string // candidate file paths, sorted
}

// 🔧 Options configures a Scanner
type Options struct {
	Recurse    bool     // descend below the unit directory
	Extensions string   // regular expression matched against filepath.Ext, "" means DefaultExtensions
	Exclude    []string // doublestar globs relative to the unit directory
	Skip       []string // directories never scanned, such as an archive root below the source
}

// 🔍 Scanner enumerates units and their candidate files
type Scanner struct {
	fs      afero.Fs
	opts    Options
	extRe   *regexp.Regexp
	exclude []string
	skip    map[string]bool
}

// 🏭 New validates the options and returns a scanner reading from fs.
func New(fs afero.Fs, opts Options) (*Scanner, error) {
	if fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}

	expr := opts.Extensions
	if expr == "" {
		expr = DefaultExtensions
	}
	extRe, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling extension filter %q: %w", expr, err)
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	skip := map[string]bool{}
	for _, dir := range opts.Skip {
		if dir != "" {
			skip[filepath.Clean(dir)] = true
		}
	}

	return &Scanner{
		fs:      fs,
		opts:    opts,
		extRe:   extRe,
		exclude: opts.Exclude,
		skip:    skip,
	}, nil
}

// 📋 Scan lists the units under root in name order. Files lying directly in
// root do not belong to any unit and are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Unit, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := afero.ReadDir(s.fs, root)
	if err != nil {
		return nil, errors.Errorf("reading source root %s: %w", root, err)
	}

	var units []Unit
	for _, entry := range entries {
		if !entry.IsDir() {
			logger.Debug().Str("file", entry.Name()).Msg("skipping file outside of any unit")
			continue
		}

		unit := Unit{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		}
		if s.skip[filepath.Clean(unit.Path)] {
			logger.Debug().Str("dir", unit.Path).Msg("skipping archive directory")
			continue
		}

		files, err := s.files(ctx, unit.Path)
		if err != nil {
			return nil, errors.Errorf("scanning %s: %w", unit.Path, err)
		}
		unit.Files = files

		units = append(units, unit)
	}

	return units, nil
}

// files returns the candidate files of a single unit directory
func (s *Scanner) files(ctx context.Context, dir string) ([]string, error) {
	var files []string

	if !s.opts.Recurse {
		entries, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			return nil, errors.Errorf("reading directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if s.accept(ctx, dir, path) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	err := afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && s.skip[filepath.Clean(path)] {
				zerolog.Ctx(ctx).Debug().Str("dir", path).Msg("skipping archive directory")
				return filepath.SkipDir
			}
			return nil
		}
		if s.accept(ctx, dir, path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// accept applies the extension filter and the exclude globs
func (s *Scanner) accept(ctx context.Context, dir, path string) bool {
	if !s.extRe.MatchString(filepath.Ext(path)) {
		return false
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("file", path).Str("pattern", pattern).Msg("file excluded by pattern")
			return false
		}
	}

	return true
}
