package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/broomtools/broom/cmd/config"
	"github.com/broomtools/broom/pkg/models"
	"github.com/broomtools/broom/pkg/ollama"
	"github.com/broomtools/broom/pkg/service"
)

// NewOrganizeCmd builds the organize command.
func NewOrganizeCmd(logger *logrus.Logger) *cobra.Command {
	var (
		mode      string
		recursive bool
		dryRun    bool
		yes       bool
		stream    bool
		model     string
	)

	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Organize a directory with an AI-proposed grouping plan",
		Long: `Organize the files or folders of a directory.

broom indexes the directory, asks the configured Ollama model for a
grouping plan, shows the plan, and after confirmation applies it as
filesystem moves. Every apply writes an undo log into the directory
so the run can be reversed with 'broom undo'.

Examples:
  # Organize the files of ~/Downloads
  broom organize ~/Downloads

  # Group top-level folders instead of files
  broom organize ~/Projects --mode folders

  # Include files in subdirectories
  broom organize ~/Downloads --recursive

  # Preview only, move nothing
  broom organize ~/Downloads --dry-run

  # Watch the model's response arrive
  broom organize ~/Downloads --stream

  # Skip the confirmation prompt
  broom organize ~/Downloads -y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDir(args[0])
			if err != nil {
				return err
			}

			organizeMode := models.Mode(mode)
			if organizeMode != models.ModeFiles && organizeMode != models.ModeFolders {
				return fmt.Errorf("invalid mode %q: must be 'files' or 'folders'", mode)
			}
			if stream && organizeMode == models.ModeFiles {
				fmt.Fprintln(os.Stderr, "⚠️  Streaming for files is sequential and does not run concurrently.")
			}

			settings := cmdconfig.LoadSettings()
			if model != "" {
				settings.Model = model
			}

			client := ollama.NewClient(settings.Endpoint, settings.Model, settings.RequestTimeout, logger)
			trail := openTrail(settings, logger)
			if trail != nil {
				defer trail.Close()
			}

			svc := service.New(settings, client, trail, logger, cmd.OutOrStdout())
			return svc.Organize(cmd.Context(), root, service.OrganizeOptions{
				Mode:        organizeMode,
				Recursive:   recursive,
				DryRun:      dryRun,
				AutoConfirm: yes,
				Stream:      stream,
				Confirm:     askYesNo(cmd.InOrStdin(), cmd.OutOrStdout()),
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(models.ModeFiles), "Organize 'files' or group 'folders'")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Organize files in all subdirectories (files mode only)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without moving anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation and execute the plan")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream the AI's response in real time")
	cmd.Flags().StringVar(&model, "model", "", "Override the configured Ollama model")

	return cmd
}
