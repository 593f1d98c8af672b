package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/broomtools/broom/cmd/config"
	"github.com/broomtools/broom/pkg/service"
)

// NewUndoCmd builds the undo command.
func NewUndoCmd(logger *logrus.Logger) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "undo [directory]",
		Short: "Reverse the last organization in a directory",
		Long: `Reverse the last organization applied to a directory.

The undo log written by 'broom organize' is replayed in reverse,
moving every item back to where it was and removing category
directories that ended up empty. After an undo the log rotates into a
redo log, so 'broom redo' can re-apply the organization.

Examples:
  broom undo ~/Downloads
  broom undo ~/Downloads -y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDir(args[0])
			if err != nil {
				return err
			}

			settings := cmdconfig.LoadSettings()
			trail := openTrail(settings, logger)
			if trail != nil {
				defer trail.Close()
			}

			svc := service.New(settings, nil, trail, logger, cmd.OutOrStdout())
			return svc.Undo(root, yes, askYesNo(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
