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

package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures the structured logger
type Options struct {
	Debug   bool
	Console io.Writer // human readable zerolog output, defaults to stderr
	File    string    // optional path; JSON lines are appended to it
	Now     func() time.Time
}

// DateToken in Options.File is replaced by the current day, giving one log
// file per day: "archivist-{date}.log" becomes "archivist-2024-05-01.log".
const DateToken = "{date}"

// FileName resolves DateToken in path against now.
func FileName(path string, now time.Time) string {
	return strings.ReplaceAll(path, DateToken, now.Format("2006-01-02"))
}

// 🏗️ Setup builds the zerolog logger. The returned closer releases the log
// file, if any, and is never nil.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console}}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		path := FileName(opts.File, now())

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, errors.Errorf("opening log file %s: %w", path, err)
		}
		writers = append(writers, f)
		closer = f
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
