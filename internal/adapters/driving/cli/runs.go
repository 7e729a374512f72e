package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past sync runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sync runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one sync run and the changes it detected",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to show (0 for all)")
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("runs: %w", errNotConfigured)
	}

	runs, err := history.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tTOTAL\tNEW\tUPDATED\tUNCHANGED\tERRORS\tSOURCE")
	for _, r := range runs {
		c := r.Counters
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, statusLabel(r.Status), formatTimestamp(r.StartedAt),
			c.Total, c.New, c.Updated, c.Unchanged, c.Errors, r.SourceRef)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("runs: %w", errNotConfigured)
	}

	run, err := history.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	c := run.Counters
	cmd.Printf("Run:       %s\n", run.ID)
	cmd.Printf("Source:    %s\n", run.SourceRef)
	cmd.Printf("Status:    %s\n", statusLabel(run.Status))
	cmd.Printf("Started:   %s\n", formatTimestamp(run.StartedAt))
	if run.FinishedAt != nil {
		cmd.Printf("Finished:  %s (%s)\n", formatTimestamp(*run.FinishedAt), run.Duration())
	}
	cmd.Printf("Records:   %d total, %d new, %d updated, %d unchanged, %d errors\n",
		c.Total, c.New, c.Updated, c.Unchanged, c.Errors)
	if run.ErrorMessage != "" {
		cmd.Printf("Error:     %s\n", run.ErrorMessage)
	}

	changes, err := history.RunChanges(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	cmd.Printf("\nChanges (%d):\n", len(changes))
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, ch := range changes {
		fmt.Fprintf(w, "  %s\t%s\t%s\t->\t%s\n",
			ch.Key(), ch.Field, formatValue(ch.OldValue), formatValue(ch.NewValue))
	}
	return w.Flush()
}
