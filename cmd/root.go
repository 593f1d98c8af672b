// Package cmd implements the broom command line interface. Commands
// are thin: they resolve settings, build the service, and translate
// flags into service options.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/broomtools/broom/cmd/config"
)

// NewRootCmd assembles the broom command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	rootCmd := &cobra.Command{
		Use:           "broom",
		Short:         "An AI-powered file and folder organizer",
		Long:          "broom asks a local Ollama model how to group the files or folders\nof a directory, shows the proposed plan, applies it as filesystem\nmoves, and can undo or redo the last apply.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmdconfig.InitConfig()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmdconfig.AddGlobalFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		NewOrganizeCmd(logger),
		NewUndoCmd(logger),
		NewRedoCmd(logger),
		NewHistoryCmd(logger),
		NewConfigCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}
