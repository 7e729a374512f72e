package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasonbrettpreston/buildo-sub002/internal/classification"
)

var classifyListTags bool

var classifyCmd = &cobra.Command{
	Use:   "classify [tag...]",
	Short: "Map permit scope tags to product groups",
	Long: `Prints the sorted union of product groups for the given scope tags.

Tags may carry a structured prefix ("new:kitchen") and multi-unit variants
("houseplex-4-unit") resolve to their base tag. Unknown tags are reported
and contribute nothing.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyListTags, "list", false, "list every known tag")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifyListTags {
		for _, tag := range classification.Tags() {
			cmd.Println(tag)
		}
		return nil
	}
	if len(args) == 0 {
		return cmd.Usage()
	}

	var unknown []string
	for _, tag := range args {
		if !classification.Known(tag) {
			unknown = append(unknown, tag)
		}
	}
	if len(unknown) > 0 {
		cmd.PrintErrf("Unknown tags: %s\n", strings.Join(unknown, ", "))
	}

	for _, group := range classification.LookupProducts(args) {
		cmd.Println(group)
	}
	return nil
}
