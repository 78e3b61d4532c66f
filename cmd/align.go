package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/itsmostafa/versealign/internal/config"
	"github.com/itsmostafa/versealign/internal/runner"
)

// runFlags override configuration values for align and resume. Only flags
// set on the command line take effect.
type runFlags struct {
	cantica            string
	verseDir           string
	proseDir           string
	outputDir          string
	model              string
	temperature        float64
	think              bool
	maxLines           int
	maxRetries         int
	allowParagraphSpan bool
	probeRatio         bool
}

func (f *runFlags) bind(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVar(&f.cantica, "cantica", d.Corpus.Cantica, "Cantica to align (inferno, purgatorio, paradiso)")
	fs.StringVar(&f.verseDir, "verse", d.Corpus.VerseDir, "Directory of tokenized verse files")
	fs.StringVar(&f.proseDir, "prose", d.Corpus.ProseDir, "Directory of prose translation files")
	fs.StringVarP(&f.outputDir, "output", "o", d.Corpus.OutputDir, "Directory for alignments, logs and checkpoints")
	fs.StringVarP(&f.model, "model", "m", d.Oracle.Model, "Oracle model as provider:name (ollama, openai, gemini, script); env VERSEALIGN_MODEL")
	fs.Float64Var(&f.temperature, "temperature", d.Oracle.Temperature, "Sampling temperature of the oracle")
	fs.BoolVar(&f.think, "think", false, "Let the model reason before answering")
	fs.IntVar(&f.maxLines, "max-lines", d.Alignment.MaxLines, "Maximum verse lines to align (0 = whole canto)")
	fs.IntVar(&f.maxRetries, "max-retries", d.Alignment.MaxRetries, "Validation attempts per block size before abandoning")
	fs.BoolVar(&f.allowParagraphSpan, "allow-paragraph-span", false, "Let a block continue into the next paragraph")
	fs.BoolVar(&f.probeRatio, "probe-ratio", false, "Ask the oracle about spans rejected as too long and flag accepted ones for review")
}

func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("cantica", func() { cfg.Corpus.Cantica = f.cantica })
	set("verse", func() { cfg.Corpus.VerseDir = f.verseDir })
	set("prose", func() { cfg.Corpus.ProseDir = f.proseDir })
	set("output", func() { cfg.Corpus.OutputDir = f.outputDir })
	set("model", func() { cfg.Oracle.Model = f.model })
	set("temperature", func() { cfg.Oracle.Temperature = f.temperature })
	set("think", func() { cfg.Oracle.Think = f.think })
	set("max-lines", func() { cfg.Alignment.MaxLines = f.maxLines })
	set("max-retries", func() { cfg.Alignment.MaxRetries = f.maxRetries })
	set("allow-paragraph-span", func() { cfg.Alignment.AllowParagraphSpan = f.allowParagraphSpan })
	set("probe-ratio", func() { cfg.Alignment.ProbeRatioConflicts = f.probeRatio })
}

// execRun resolves settings and the canto argument, then runs the aligner.
func execRun(cmd *cobra.Command, f *runFlags, arg string, resume bool) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	f.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	canto, err := cfg.ParseCanto(arg)
	if err != nil {
		return err
	}

	_, err = runner.Run(cmd.Context(), runner.Config{
		Settings: cfg,
		Canto:    canto,
		Resume:   resume,
		Output:   cmd.OutOrStdout(),
	})
	return err
}

var alignFlags runFlags

var alignCmd = &cobra.Command{
	Use:   "align <canto>",
	Short: "Align one canto from the beginning",
	Long: `Align the verse lines of one canto with its prose translation.

The canto is given as a number or a roman numeral (3 or III). Results are
written to the output directory as canto_NN.txt (verse and prose blocks),
canto_NN_detailed.txt and canto_NN_prose.txt, next to a run log and a
checkpoint that "versealign resume" continues from.`,
	Example: `  versealign align 1
  versealign align XXXIV --max-lines 0 --model gemini:gemini-2.5-flash
  versealign align 3 --model script:testdata/canto3.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execRun(cmd, &alignFlags, args[0], false)
	},
}

func init() {
	alignFlags.bind(alignCmd.Flags())
	rootCmd.AddCommand(alignCmd)
}
