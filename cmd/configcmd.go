package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cmdconfig "github.com/broomtools/broom/cmd/config"
	"github.com/broomtools/broom/pkg/models"
)

// NewConfigCmd builds the config command with its init and show
// subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage broom's configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cmdconfig.Path()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists at %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			data, err := yaml.Marshal(models.DefaultSettings())
			if err != nil {
				return fmt.Errorf("encode defaults: %w", err)
			}
			header := "# broom configuration.\n# Every key can also be set via a BROOM_* environment variable.\n"
			if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cmdconfig.LoadSettings())
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
