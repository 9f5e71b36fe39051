package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// noArgs rejects positional arguments as an invalid job
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Errorf("%w: unexpected arguments %q for %s", operation.ErrInvalidJob, args, cmd.CommandPath())
	}
	return nil
}

// FlagError marks flag parsing failures as invalid arguments
func FlagError(cmd *cobra.Command, err error) error {
	return errors.Errorf("%w: %w", operation.ErrInvalidJob, err)
}
