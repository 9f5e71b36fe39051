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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/archivist/pkg/operation"
	"github.com/walteh/archivist/pkg/retention"
	"github.com/walteh/archivist/pkg/status"
)

// 🎯 Logger prints a human view of a run to the console and mirrors each
// message into zerolog. It implements operation.Reporter.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

var _ operation.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📂 StartUnit prints the unit header with its eligible date range
func (l *Logger) StartUnit(ctx context.Context, unit string, res retention.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dates := color.New(color.Faint).Sprint("nothing eligible")
	if res.Eligible > 0 {
		dates = color.New(color.FgYellow).Sprintf("%s → %s",
			res.Min.Format(operation.DateDirLayout),
			res.Max.Format(operation.DateDirLayout))
	}

	fmt.Fprintf(l.console, "%s %s %s %d/%d eligible %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(unit),
		color.New(color.Faint).Sprint("•"),
		res.Eligible, res.Seen,
		color.New(color.Faint).Sprint("•"),
		dates)
}

// 📝 FileAction prints one processed file
func (l *Logger) FileAction(ctx context.Context, ev operation.FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := l.formatter.FormatFileOperation(ev)
	if ev.Err != nil {
		line = color.New(color.FgRed).Sprint(line)
	}
	fmt.Fprintf(l.console, "    %s\n", line)
}

// 📝 EndUnit closes the current unit
func (l *Logger) EndUnit(ctx context.Context, unit string, stats operation.Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Debug().
		Str("unit", unit).
		Int("succeeded", stats.Succeeded).
		Int("attempted", stats.Attempted).
		Msg("unit complete")
}

// 📊 Summary prints the run totals, also for failed runs
func (l *Logger) Summary(ctx context.Context, stats operation.Stats, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, l.formatter.FormatSummary(stats, err))
	if err != nil {
		fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(l.formatter.FormatError(err)))
	}
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("archivist")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
