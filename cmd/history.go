package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cmdconfig "github.com/broomtools/broom/cmd/config"
)

// NewHistoryCmd builds the history command, which lists past runs
// from the audit database.
func NewHistoryCmd(logger *logrus.Logger) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past organize, undo, and redo runs",
		Long: `List the most recent broom runs recorded in the audit database.

The audit trail is bookkeeping only; it does not affect what can be
undone or redone (that is decided per directory by the undo/redo
log files).

Examples:
  broom history
  broom history --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := cmdconfig.LoadSettings()
			trail := openTrail(settings, logger)
			if trail == nil {
				return fmt.Errorf("audit trail unavailable")
			}
			defer trail.Close()

			runs, err := trail.List(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tOP\tMODE\tMOVED\tDIRECTORY")
			for _, run := range runs {
				mode := run.Mode
				if mode == "" {
					mode = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					run.Op, mode, run.Moved, run.Root)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
