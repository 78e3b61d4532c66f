package cmd

import (
	"github.com/spf13/cobra"
)

var resumeFlags runFlags

var resumeCmd = &cobra.Command{
	Use:   "resume <canto>",
	Short: "Continue an interrupted or abandoned alignment",
	Long: `Continue the alignment of a canto from its checkpoint. Blocks already
finalized are kept; an abandoned block is retried with the current settings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execRun(cmd, &resumeFlags, args[0], true)
	},
}

func init() {
	resumeFlags.bind(resumeCmd.Flags())
	rootCmd.AddCommand(resumeCmd)
}
