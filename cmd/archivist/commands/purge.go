package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/operation"
)

// NewPurgeCmd creates the purge command
func NewPurgeCmd(opts *opts.RootOpts) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:     "purge",
		Aliases: []string{"delete"},
		Short:   "Delete dated files older than the retention period",
		Example: `  archivist purge -s /var/log/app -e '\.log' -r 7 -f 'yyyy-MM-dd*'`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.Runner().Run(cmd.Context(), flags.job(operation.ModeDelete))
			return err
		},
	}

	flags.bind(cmd, false)
	return cmd
}
