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
	"io"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🛠️ Applier performs the filesystem side of an action. The live applier
// mutates the filesystem, the demo applier only reports what it would do.
// Both return nil for the same inputs so counts never differ between them.
type Applier interface {
	MkdirAll(ctx context.Context, dir string) error
	Move(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, path string) error
	Demo() bool
}

// NewApplier returns the demo applier when demo is set.
func NewApplier(fs afero.Fs, demo bool) Applier {
	if demo {
		return &demoApplier{fs: fs}
	}
	return &liveApplier{fs: fs}
}

type liveApplier struct {
	fs afero.Fs
}

func (a *liveApplier) Demo() bool { return false }

func (a *liveApplier) MkdirAll(ctx context.Context, dir string) error {
	if exists, err := afero.DirExists(a.fs, dir); err == nil && exists {
		return nil
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("creating folder")
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Move renames src to dst, replacing dst when it exists. Renames that cross a
// device boundary fall back to copy and remove.
func (a *liveApplier) Move(ctx context.Context, src, dst string) error {
	if _, err := a.fs.Stat(dst); err == nil {
		zerolog.Ctx(ctx).Debug().Str("dest", dst).Msg("overwriting existing file")
		if err := a.fs.Remove(dst); err != nil {
			return errors.Errorf("removing existing %s: %w", dst, err)
		}
	}

	err := a.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return errors.Errorf("moving %s to %s: %w", src, dst, err)
	}

	zerolog.Ctx(ctx).Debug().Str("file", src).Str("dest", dst).Msg("rename crosses devices, copying")
	if err := copyFile(a.fs, src, dst); err != nil {
		return errors.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := a.fs.Remove(src); err != nil {
		return errors.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

func (a *liveApplier) Remove(ctx context.Context, path string) error {
	if err := a.fs.Remove(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

type demoApplier struct {
	fs afero.Fs
}

func (a *demoApplier) Demo() bool { return true }

func (a *demoApplier) MkdirAll(ctx context.Context, dir string) error {
	if exists, err := afero.DirExists(a.fs, dir); err == nil && exists {
		return nil
	}
	zerolog.Ctx(ctx).Info().Str("dir", dir).Bool("demo", true).Msg("would create folder")
	return nil
}

func (a *demoApplier) Move(ctx context.Context, src, dst string) error {
	zerolog.Ctx(ctx).Debug().Str("file", src).Str("dest", dst).Bool("demo", true).Msg("would move file")
	return nil
}

func (a *demoApplier) Remove(ctx context.Context, path string) error {
	zerolog.Ctx(ctx).Debug().Str("file", path).Bool("demo", true).Msg("would remove file")
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return errors.Is(linkErr.Err, syscall.EXDEV)
}

// copyFile copies content, mode and modification time of src to dst
func copyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return fs.Chtimes(dst, info.ModTime(), info.ModTime())
}
