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
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/cmd/archivist/commands"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/log"
	"github.com/walteh/archivist/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd wires the shared flags and every subcommand
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archivist",
		Short: "Archive or purge dated files by retention window",
		Long: `archivist scans each subdirectory of a source root, reads the date
embedded in every file name and either moves files past the retention
period into a per-day archive tree or deletes them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.Errorf("%w: unknown command %q", operation.ErrInvalidJob, args[0])
			}
			return cmd.Help()
		},
	}

	addRootFlags(cmd, o)
	cmd.SetFlagErrorFunc(commands.FlagError)
	cmd.SetOut(o.Stdout)
	cmd.SetErr(o.Stderr)

	cmd.AddCommand(
		commands.NewArchiveCmd(o),
		commands.NewPurgeCmd(o),
		commands.NewRunCmd(o),
		commands.NewScheduleCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "", "also append JSON logs to this file; {date} in the name starts a new file each day")
}

// setupLogging builds the zerolog logger and the console reporter from flags
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) error {
	zlog, closer, err := log.Setup(log.Options{
		Debug:   o.Debug,
		Console: o.Stderr,
		File:    o.LogFile,
		Now:     o.Now,
	})
	if err != nil {
		return errors.Errorf("setting up logging: %w", err)
	}
	o.Closer = closer

	console := log.New(o.Stdout, zlog)
	o.Console = console

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, console)
	cmd.SetContext(ctx)

	return nil
}
