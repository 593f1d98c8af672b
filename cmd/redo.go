package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/broomtools/broom/cmd/config"
	"github.com/broomtools/broom/pkg/service"
)

// NewRedoCmd builds the redo command.
func NewRedoCmd(logger *logrus.Logger) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "redo [directory]",
		Short: "Re-apply the last undone organization in a directory",
		Long: `Re-apply the organization that the last 'broom undo' reversed.

The redo log is replayed in its original order and then rotates back
into an undo log, so the operation stays reversible. A fresh
'broom organize' run replaces any pending redo.

Examples:
  broom redo ~/Downloads
  broom redo ~/Downloads -y`,
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
			return svc.Redo(root, yes, askYesNo(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
