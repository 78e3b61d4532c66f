package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/versealign/internal/prose"
)

var paragraphsSkip int
var paragraphsEntries bool

var paragraphsCmd = &cobra.Command{
	Use:   "paragraphs <file>",
	Short: "Print the paragraphs parsed from a prose canto as JSON",
	Long: `Parse a prose canto file and print the paragraphs the aligner would
consume, or with --entries every text section with its annotations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read prose: %w", err)
		}
		canto := prose.Parse(string(data))

		var v any = canto.Paragraphs(paragraphsSkip)
		if paragraphsEntries {
			v = canto.Entries
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	},
}

func init() {
	paragraphsCmd.Flags().IntVar(&paragraphsSkip, "skip", 1, "Leading entries to skip (the canto summary)")
	paragraphsCmd.Flags().BoolVar(&paragraphsEntries, "entries", false, "Print parsed entries with annotations instead of paragraphs")
	rootCmd.AddCommand(paragraphsCmd)
}
