package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

var changesCmd = &cobra.Command{
	Use:   "changes <permit-num> <revision-num>",
	Short: "Show the change history of one permit revision",
	Args:  cobra.ExactArgs(2),
	RunE:  runChanges,
}

func init() {
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("changes: %w", errNotConfigured)
	}

	key := domain.NaturalKey{PermitNum: args[0], RevisionNum: args[1]}
	changes, err := history.Changes(cmd.Context(), key)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		cmd.Printf("No changes recorded for %s.\n", key)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DETECTED\tFIELD\tOLD\tNEW\tRUN")
	for _, c := range changes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			formatTimestamp(c.DetectedAt), c.Field, formatValue(c.OldValue), formatValue(c.NewValue), c.RunID)
	}
	return w.Flush()
}
