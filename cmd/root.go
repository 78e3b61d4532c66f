package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/versealign/internal/config"
	"github.com/itsmostafa/versealign/internal/version"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "versealign",
	Short: "Align Dante's verse lines with Norton's prose translation",
	Long: `versealign cuts a prose translation of the Commedia into spans that each
match a group of contiguous verse lines of the Italian text.

An oracle (a local Ollama model by default) proposes a reference sentence
for each group of lines, picks the matching span of the remaining prose and
judges it. Blocks grow over enjambed lines until the span is complete.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "versealign.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug events to stderr")

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String() + "\n")
}

// loadSettings reads the configuration file and applies the global flags.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Console = true
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
