package status

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/archivist/pkg/operation"
)

// FileFormatter defines how file actions, progress and summaries are rendered
type FileFormatter interface {
	// FormatFileOperation formats a single file action
	FormatFileOperation(ev operation.FileEvent) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatSummary renders the run totals
	FormatSummary(stats operation.Stats, err error) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file action with emojis
func (f *DefaultFileFormatter) FormatFileOperation(ev operation.FileEvent) string {
	name := filepath.Base(ev.Source)
	progress := f.FormatProgress(ev.Current, ev.Total)

	prefix := ""
	if ev.Demo {
		prefix = "(demo) "
	}

	switch {
	case ev.Err != nil:
		return fmt.Sprintf("❌ %sFailed %s  -  %s", prefix, name, progress)
	case ev.Mode == operation.ModeDelete:
		return fmt.Sprintf("🗑️  %sRemoved %s  -  %s", prefix, name, progress)
	default:
		return fmt.Sprintf("📦 %sMoved %s to %s  -  %s", prefix, name, filepath.Dir(ev.Dest), progress)
	}
}

// FormatProgress formats a progress message with a two decimal percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	return fmt.Sprintf("%d/%d (%.2f%%)", current, total, percentage)
}

// FormatSummary renders the totals as a table
func (f *DefaultFileFormatter) FormatSummary(stats operation.Stats, err error) string {
	result := "ok"
	if err != nil {
		result = "failed (exit " + strconv.Itoa(operation.ExitCode(err)) + ")"
	}

	data := pterm.TableData{
		{"seen", "eligible", "attempted", "succeeded", "result"},
		{
			strconv.Itoa(stats.Seen),
			strconv.Itoa(stats.Eligible),
			strconv.Itoa(stats.Attempted),
			strconv.Itoa(stats.Succeeded),
			result,
		},
	}

	out, rerr := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if rerr != nil {
		return fmt.Sprintf("attempted %d, succeeded %d, %s", stats.Attempted, stats.Succeeded, result)
	}
	return out
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
