package status

import (
	"errors"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/archivist/pkg/operation"
)

func TestFormatProgress(t *testing.T) {
	f := NewDefaultFileFormatter()

	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "third", current: 1, total: 3, want: "1/3 (33.33%)"},
		{name: "done", current: 4, total: 4, want: "4/4 (100.00%)"},
		{name: "empty", current: 0, total: 0, want: "0/0 (0.00%)"},
		{name: "zero_total_with_progress", current: 2, total: 0, want: "2/0 (100.00%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatProgress(tt.current, tt.total), "progress should match")
		})
	}
}

func TestFormatFileOperation(t *testing.T) {
	f := NewDefaultFileFormatter()

	tests := []struct {
		name string
		ev   operation.FileEvent
		want string
	}{
		{
			name: "moved",
			ev: operation.FileEvent{
				Mode:    operation.ModeArchive,
				Source:  "/src/CamA/clip.mp4",
				Dest:    "/dest/CamA/2023-01-01/clip.mp4",
				Current: 1,
				Total:   2,
			},
			want: "📦 Moved clip.mp4 to /dest/CamA/2023-01-01  -  1/2 (50.00%)",
		},
		{
			name: "removed_demo",
			ev: operation.FileEvent{
				Mode:    operation.ModeDelete,
				Demo:    true,
				Source:  "/src/CamA/clip.mp4",
				Current: 2,
				Total:   2,
			},
			want: "🗑️  (demo) Removed clip.mp4  -  2/2 (100.00%)",
		},
		{
			name: "failed",
			ev: operation.FileEvent{
				Mode:    operation.ModeDelete,
				Source:  "/src/CamA/clip.mp4",
				Current: 1,
				Total:   4,
				Err:     errors.New("permission denied"),
			},
			want: "❌ Failed clip.mp4  -  1/4 (25.00%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatFileOperation(tt.ev), "line should match")
		})
	}
}

func TestFormatSummary(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	f := NewDefaultFileFormatter()

	out := f.FormatSummary(operation.Stats{Seen: 10, Eligible: 4, Attempted: 4, Succeeded: 4}, nil)
	assert.Contains(t, out, "succeeded", "header should be rendered")
	assert.Contains(t, out, "10", "seen count should be rendered")
	assert.Contains(t, out, "ok", "result should be rendered")

	out = f.FormatSummary(operation.Stats{Attempted: 1}, errors.New("boom"))
	assert.Contains(t, out, "failed (exit 10)", "failure should carry the exit code")
}

func TestFormatError(t *testing.T) {
	f := NewDefaultFileFormatter()
	assert.Empty(t, f.FormatError(nil), "nil error formats to nothing")
	assert.Equal(t, "❌ Error: boom", f.FormatError(errors.New("boom")), "error should be prefixed")
}
