// Package config holds the run configuration of versealign, loaded from
// YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/oracle"
)

// Canticas are the three parts of the Commedia with their canto counts.
var Canticas = map[string]int{
	"inferno":    34,
	"purgatorio": 33,
	"paradiso":   33,
}

// Config holds all versealign configuration.
type Config struct {
	Oracle    OracleConfig    `yaml:"oracle"`
	Alignment AlignmentConfig `yaml:"alignment"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// OracleConfig selects the model answering alignment questions.
type OracleConfig struct {
	Model         string  `yaml:"model"`
	Temperature   float64 `yaml:"temperature"`
	Think         bool    `yaml:"think"`
	Timeout       string  `yaml:"timeout"`
	MaxRetries    int     `yaml:"max_retries"`
	ParseRetries  int     `yaml:"parse_retries"`
	OllamaHost    string  `yaml:"ollama_host,omitempty"`
	OpenAIBaseURL string  `yaml:"openai_base_url,omitempty"`

	// Keys come from the environment only.
	OpenAIKey string `yaml:"-"`
	GeminiKey string `yaml:"-"`
}

// AlignmentConfig tunes the boundary search.
type AlignmentConfig struct {
	MaxRetries          int     `yaml:"max_retries"`
	MaxRatio            float64 `yaml:"max_ratio"`
	ExtractWindow       int     `yaml:"extract_window"`
	MaxLines            int     `yaml:"max_lines"`
	SkipParagraphs      int     `yaml:"skip_paragraphs"`
	AllowParagraphSpan  bool    `yaml:"allow_paragraph_span"`
	ProbeRatioConflicts bool    `yaml:"probe_ratio_conflicts"`
}

// CorpusConfig locates input and output files.
type CorpusConfig struct {
	Cantica   string `yaml:"cantica"`
	VerseDir  string `yaml:"verse_dir"`
	ProseDir  string `yaml:"prose_dir"`
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig configures the run log.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    bool   `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Default returns the default configuration.
func Default() *Config {
	a := align.DefaultConfig()
	return &Config{
		Oracle: OracleConfig{
			Model:        oracle.DefaultModel,
			Temperature:  0.3,
			Timeout:      "120s",
			MaxRetries:   3,
			ParseRetries: 2,
		},
		Alignment: AlignmentConfig{
			MaxRetries:     a.MaxRetries,
			MaxRatio:       a.MaxRatio,
			ExtractWindow:  a.ExtractWindow,
			MaxLines:       20,
			SkipParagraphs: 1,
		},
		Corpus: CorpusConfig{
			Cantica:   "inferno",
			VerseDir:  "tokenize",
			ProseDir:  "en-norton",
			OutputDir: filepath.Join("alignment", "output"),
		},
		Logging: LoggingConfig{
			Level: "debug",
			File:  true,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if model := os.Getenv("VERSEALIGN_MODEL"); model != "" {
		c.Oracle.Model = model
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Oracle.OllamaHost = host
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Oracle.OpenAIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Oracle.GeminiKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Oracle.GeminiKey = key
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, _, err := oracle.ParseModel(c.Oracle.Model); err != nil {
		return fmt.Errorf("invalid oracle model: %w", err)
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		return fmt.Errorf("invalid oracle temperature: %g (valid: 0 to 2)", c.Oracle.Temperature)
	}
	if _, err := c.Oracle.TimeoutDuration(); err != nil {
		return err
	}
	if err := c.AlignConfig().Validate(); err != nil {
		return err
	}
	if c.Alignment.MaxLines < 0 {
		return fmt.Errorf("invalid max lines: %d", c.Alignment.MaxLines)
	}
	if c.Alignment.SkipParagraphs < 0 {
		return fmt.Errorf("invalid skip paragraphs: %d", c.Alignment.SkipParagraphs)
	}
	if _, ok := Canticas[c.Corpus.Cantica]; !ok {
		names := make([]string, 0, len(Canticas))
		for name := range Canticas {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Errorf("invalid cantica: %s (valid: %v)", c.Corpus.Cantica, names)
	}
	return nil
}

// TimeoutDuration parses the oracle request timeout.
func (o OracleConfig) TimeoutDuration() (time.Duration, error) {
	if o.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(o.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid oracle timeout %q: %w", o.Timeout, err)
	}
	return d, nil
}

// AlignConfig returns the settings for the aligner.
func (c *Config) AlignConfig() align.Config {
	return align.Config{
		MaxRetries:          c.Alignment.MaxRetries,
		MaxRatio:            c.Alignment.MaxRatio,
		ExtractWindow:       c.Alignment.ExtractWindow,
		AllowParagraphSpan:  c.Alignment.AllowParagraphSpan,
		ProbeRatioConflicts: c.Alignment.ProbeRatioConflicts,
	}
}

// OracleSettings returns the settings for oracle.New.
func (c *Config) OracleSettings(logger *zap.Logger) oracle.Settings {
	timeout, _ := c.Oracle.TimeoutDuration()
	return oracle.Settings{
		Model:         c.Oracle.Model,
		Temperature:   c.Oracle.Temperature,
		Think:         c.Oracle.Think,
		OllamaHost:    c.Oracle.OllamaHost,
		OpenAIBaseURL: c.Oracle.OpenAIBaseURL,
		OpenAIKey:     c.Oracle.OpenAIKey,
		GeminiKey:     c.Oracle.GeminiKey,
		Timeout:       timeout,
		MaxRetries:    c.Oracle.MaxRetries,
		ParseRetries:  c.Oracle.ParseRetries,
		Logger:        logger,
	}
}

// CantoCount returns the number of cantos in the configured cantica.
func (c *Config) CantoCount() int {
	return Canticas[c.Corpus.Cantica]
}

// VersePath returns the tokenized verse file of canto n.
func (c CorpusConfig) VersePath(n int) string {
	return filepath.Join(c.VerseDir, c.Cantica, fmt.Sprintf("%02d.txt", n))
}

// ProsePath returns the prose translation file of canto n.
func (c CorpusConfig) ProsePath(n int) string {
	return filepath.Join(c.ProseDir, c.Cantica, fmt.Sprintf("%02d.txt", n))
}

// OutputPath returns canto n's output file with the given suffix, e.g.
// OutputPath(1, "_detailed.txt") is "canto_01_detailed.txt" in OutputDir.
func (c CorpusConfig) OutputPath(n int, suffix string) string {
	return filepath.Join(c.OutputDir, fmt.Sprintf("canto_%02d%s", n, suffix))
}
