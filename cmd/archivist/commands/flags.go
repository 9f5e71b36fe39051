package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/pkg/operation"
	"github.com/walteh/archivist/pkg/pattern"
	"github.com/walteh/archivist/pkg/retention"
	"github.com/walteh/archivist/pkg/scan"
)

// jobFlags are the per-job flags shared by archive and purge
type jobFlags struct {
	name        string
	source      string
	destination string
	extensions  string
	retention   int
	maxDays     int
	formats     []string
	recurse     bool
	demo        bool
	exclude     []string
}

func (f *jobFlags) bind(cmd *cobra.Command, withDestination bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "cli", "job name used in logs")
	flags.StringVarP(&f.source, "source", "s", "", "source root; each subdirectory is a unit")
	if withDestination {
		flags.StringVarP(&f.destination, "destination", "d", "", "archive root")
	}
	flags.StringVarP(&f.extensions, "extensions", "e", scan.DefaultExtensions, "regular expression matched against file extensions")
	flags.IntVarP(&f.retention, "retention", "r", retention.DefaultRetentionDays, "keep files newer than this many days")
	flags.IntVarP(&f.maxDays, "max-days", "m", retention.Unbounded, "ignore files older than this many days (-1 for no limit)")
	flags.StringArrayVarP(&f.formats, "format", "f", []string{pattern.DefaultFormat}, "date format descriptor, repeatable, first match wins")
	flags.BoolVar(&f.recurse, "recurse", false, "include files in nested directories of each unit")
	flags.BoolVar(&f.demo, "demo", false, "log actions without touching any file")
	flags.StringArrayVarP(&f.exclude, "exclude", "x", nil, "glob of files to skip, relative to the unit, repeatable")
}

func (f *jobFlags) job(mode operation.Mode) operation.Job {
	return operation.Job{
		Name:          f.name,
		Mode:          mode,
		Source:        f.source,
		Destination:   f.destination,
		Extensions:    f.extensions,
		RetentionDays: f.retention,
		MaxDays:       f.maxDays,
		Formats:       f.formats,
		Recurse:       f.recurse,
		Demo:          f.demo,
		Exclude:       f.exclude,
	}
}
