package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasonbrettpreston/buildo-sub002/internal/normalisers/builder"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <name>",
	Short: "Show the dedup key of a builder name",
	Long: `Prints the normalised dedup key of a contractor name and whether the
name carries a corporate suffix. Arguments are joined with spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	cmd.Printf("Key:          %q\n", builder.Normalize(name))
	cmd.Printf("Incorporated: %t\n", builder.IsIncorporated(name))
	return nil
}
