package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/operation"
)

// NewArchiveCmd creates the archive command
func NewArchiveCmd(opts *opts.RootOpts) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move dated files into a per-day archive tree",
		Long: `Archive moves files older than the retention period into
DESTINATION/<unit>/<yyyy-MM-dd>/, where <unit> is the subdirectory of
SOURCE the file was found in and the date comes from the file name.`,
		Example: `  archivist archive -s /srv/cams -d /mnt/archive -e '\.mp4' -r 30
  archivist archive -s /srv/cams -d /mnt/archive -f '*yyyy-MM-dd' -f 'yyyyMMdd*' --demo`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.Runner().Run(cmd.Context(), flags.job(operation.ModeArchive))
			return err
		},
	}

	flags.bind(cmd, true)
	return cmd
}
