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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/operation"
)

const (
	oldClip = "/src/CamA/clip_2023-01-01_10-00-00.mp4"
	newClip = "/src/CamA/clip_2023-06-19_10-00-00.mp4"
	oldLog  = "/logs/app/2023-01-02.log"
)

// syncBuffer lets a test read output while a command is still writing it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	fs     afero.Fs
	stdout *syncBuffer
	stderr *syncBuffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/src/CamA", "/dest", "/logs/app", "/etc"} {
		require.NoError(t, fs.MkdirAll(dir, 0o755), "creating %s", dir)
	}
	for _, file := range []string{oldClip, newClip, oldLog} {
		require.NoError(t, afero.WriteFile(fs, file, []byte(file), 0o644), "writing %s", file)
	}
	return &harness{fs: fs, stdout: &syncBuffer{}, stderr: &syncBuffer{}}
}

func (h *harness) run(ctx context.Context, args ...string) int {
	return run(ctx, args, &opts.RootOpts{
		Fs:     h.fs,
		Now:    func() time.Time { return time.Date(2023, 6, 20, 12, 0, 0, 0, time.UTC) },
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
}

func (h *harness) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(h.fs, path)
	require.NoError(t, err, "stat %s", path)
	return ok
}

func TestArchiveCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(context.Background(), "archive", "-s", "/src", "-d", "/dest", "-r", "30", "-e", `\.mp4`)
	require.Equal(t, operation.ExitOK, code, "archive should succeed: %s", h.stderr.String())

	assert.False(t, h.exists(t, oldClip), "old clip should leave the source")
	assert.True(t, h.exists(t, "/dest/CamA/2023-01-01/clip_2023-01-01_10-00-00.mp4"), "old clip should be archived by date")
	assert.True(t, h.exists(t, newClip), "recent clip should stay")
	assert.Contains(t, h.stdout.String(), "CamA", "console should name the unit")
}

func TestArchiveDemoCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(context.Background(), "archive", "-s", "/src", "-d", "/dest", "--demo")
	require.Equal(t, operation.ExitOK, code, "demo archive should succeed")

	assert.True(t, h.exists(t, oldClip), "demo should not move files")
	assert.False(t, h.exists(t, "/dest/CamA"), "demo should not create directories")
}

func TestPurgeCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(context.Background(), "purge", "-s", "/logs", "-f", "yyyy-MM-dd*")
	require.Equal(t, operation.ExitOK, code, "purge should succeed")

	assert.False(t, h.exists(t, oldLog), "old log should be deleted")
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "bad date format", args: []string{"purge", "-s", "/logs", "-f", "yyyy-MM-dd"}, want: operation.ExitInvalidFormat},
		{name: "unsupported token", args: []string{"purge", "-s", "/logs", "-f", "*yyyy-QQ"}, want: operation.ExitInvalidFormat},
		{name: "missing source", args: []string{"purge", "-s", "/nope"}, want: operation.ExitInvalidArgs},
		{name: "source not given", args: []string{"purge"}, want: operation.ExitInvalidArgs},
		{name: "missing destination", args: []string{"archive", "-s", "/src", "-d", "/nope"}, want: operation.ExitInvalidArgs},
		{name: "max days below retention", args: []string{"purge", "-s", "/logs", "-r", "10", "-m", "5"}, want: operation.ExitInvalidArgs},
		{name: "bad extension regex", args: []string{"purge", "-s", "/logs", "-e", "("}, want: operation.ExitInvalidArgs},
		{name: "unknown flag", args: []string{"purge", "--bogus"}, want: operation.ExitInvalidArgs},
		{name: "bad flag value", args: []string{"purge", "-s", "/logs", "-r", "ten"}, want: operation.ExitInvalidArgs},
		{name: "unexpected argument", args: []string{"purge", "-s", "/logs", "extra"}, want: operation.ExitInvalidArgs},
		{name: "unknown command", args: []string{"shred"}, want: operation.ExitInvalidArgs},
		{name: "missing config", args: []string{"run", "-c", "/etc/missing.hcl"}, want: operation.ExitInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code := h.run(context.Background(), tt.args...)
			assert.Equal(t, tt.want, code, "exit code for %v", tt.args)
			assert.True(t, h.exists(t, oldClip), "nothing should be archived")
			assert.True(t, h.exists(t, oldLog), "nothing should be purged")
		})
	}
}

const runConfig = `
jobs:
  - name: cams
    source: /src
    destination: /dest
    retention_days: 30
  - name: logs
    mode: purge
    source: /logs
    formats: ["yyyy-MM-dd*"]
    schedule: "@daily"
`

func TestRunCommand(t *testing.T) {
	t.Run("all jobs", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(runConfig), 0o644), "writing config")

		code := h.run(context.Background(), "run", "-c", "/etc/jobs.yaml")
		require.Equal(t, operation.ExitOK, code, "run should succeed: %s", h.stderr.String())

		assert.True(t, h.exists(t, "/dest/CamA/2023-01-01/clip_2023-01-01_10-00-00.mp4"), "cams job should archive")
		assert.False(t, h.exists(t, oldLog), "logs job should purge")
	})

	t.Run("selected job", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(runConfig), 0o644), "writing config")

		code := h.run(context.Background(), "run", "-c", "/etc/jobs.yaml", "--job", "logs")
		require.Equal(t, operation.ExitOK, code, "run should succeed")

		assert.True(t, h.exists(t, oldClip), "cams job should not run")
		assert.False(t, h.exists(t, oldLog), "logs job should purge")
	})

	t.Run("forced demo", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(runConfig), 0o644), "writing config")

		code := h.run(context.Background(), "run", "-c", "/etc/jobs.yaml", "--demo")
		require.Equal(t, operation.ExitOK, code, "run should succeed")

		assert.True(t, h.exists(t, oldClip), "demo should not archive")
		assert.True(t, h.exists(t, oldLog), "demo should not purge")
	})

	t.Run("unknown job", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(runConfig), 0o644), "writing config")

		code := h.run(context.Background(), "run", "-c", "/etc/jobs.yaml", "--job", "nope")
		assert.Equal(t, operation.ExitInvalidArgs, code, "unknown job should be an argument error")
	})
}

func TestScheduleCommand(t *testing.T) {
	t.Run("runs now and stops when cancelled", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(runConfig), 0o644), "writing config")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan int, 1)
		go func() {
			done <- h.run(ctx, "schedule", "-c", "/etc/jobs.yaml", "--now")
		}()

		require.Eventually(t, func() bool {
			ok, _ := afero.Exists(h.fs, oldLog)
			return !ok
		}, 5*time.Second, 10*time.Millisecond, "scheduled job should run immediately")
		cancel()

		select {
		case code := <-done:
			assert.Equal(t, operation.ExitOK, code, "schedule should exit cleanly")
		case <-time.After(5 * time.Second):
			t.Fatal("schedule did not stop after cancel")
		}
		assert.True(t, h.exists(t, oldClip), "unscheduled job should not run")
		assert.Contains(t, h.stdout.String(), "logs finished: 1/1 files", "completed run should be reported")
		assert.Contains(t, h.stdout.String(), "scheduler stopped", "shutdown should be reported")
	})

	t.Run("failed initial run keeps scheduling", func(t *testing.T) {
		h := newHarness(t)
		cfg := "jobs:\n  - name: gone\n    mode: purge\n    source: /missing\n    schedule: \"@daily\"\n"
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(cfg), 0o644), "writing config")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan int, 1)
		go func() {
			done <- h.run(ctx, "schedule", "-c", "/etc/jobs.yaml", "--now")
		}()

		require.Eventually(t, func() bool {
			return strings.Contains(h.stdout.String(), "initial run of gone failed")
		}, 5*time.Second, 10*time.Millisecond, "failed initial run should be warned about")
		cancel()

		select {
		case code := <-done:
			assert.Equal(t, operation.ExitOK, code, "a failed run should not stop the scheduler")
		case <-time.After(5 * time.Second):
			t.Fatal("schedule did not stop after cancel")
		}
		assert.Contains(t, h.stdout.String(), "gone failed after 0/0 files", "run failure should be reported")
	})

	t.Run("no scheduled jobs", func(t *testing.T) {
		h := newHarness(t)
		cfg := "jobs:\n  - name: cams\n    source: /src\n    destination: /dest\n"
		require.NoError(t, afero.WriteFile(h.fs, "/etc/jobs.yaml", []byte(cfg), 0o644), "writing config")

		code := h.run(context.Background(), "schedule", "-c", "/etc/jobs.yaml")
		assert.Equal(t, operation.ExitInvalidArgs, code, "config without schedules should be rejected")
	})
}

func TestLogFile(t *testing.T) {
	h := newHarness(t)
	logFile := filepath.Join(t.TempDir(), "archivist.jsonl")

	code := h.run(context.Background(), "--log-file", logFile, "archive", "-s", "/src", "-d", "/dest")
	require.Equal(t, operation.ExitOK, code, "archive should succeed")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err, "reading log file")
	assert.Contains(t, string(data), `"message":"run finished"`, "summary should be logged as JSON")
	assert.Contains(t, string(data), `"run_id":`, "runs should carry an id")
}

func TestDailyLogFile(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	code := h.run(context.Background(), "--log-file", filepath.Join(dir, "archivist-{date}.jsonl"), "purge", "-s", "/logs", "-f", "yyyy-MM-dd*")
	require.Equal(t, operation.ExitOK, code, "purge should succeed")

	data, err := os.ReadFile(filepath.Join(dir, "archivist-2023-06-20.jsonl"))
	require.NoError(t, err, "log file should be named after the run day")
	assert.Contains(t, string(data), `"message":"run finished"`, "summary should be logged")
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(context.Background(), "version")
	require.Equal(t, operation.ExitOK, code, "version should succeed")
	assert.Contains(t, h.stdout.String(), "archivist version info", "version banner should be printed")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion(&VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Modified:  true,
	})
	assert.Contains(t, out, "Version:   v1.2.3", "version line")
	assert.Contains(t, out, "abc123 (modified)", "modified marker")
	assert.Contains(t, out, "linux/amd64", "platform line")
}
