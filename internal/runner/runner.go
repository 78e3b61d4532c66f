// Package runner executes the alignment of one canto end to end: it loads
// the corpus, restores or starts a checkpoint, drives the aligner and writes
// the result files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/config"
	"github.com/itsmostafa/versealign/internal/logging"
	"github.com/itsmostafa/versealign/internal/oracle"
	"github.com/itsmostafa/versealign/internal/prose"
	"github.com/itsmostafa/versealign/internal/report"
	"github.com/itsmostafa/versealign/internal/state"
	"github.com/itsmostafa/versealign/internal/verse"
)

// ErrNoSession is returned when resuming a canto that has no checkpoint.
var ErrNoSession = errors.New("no saved session")

// Config holds the runner configuration.
type Config struct {
	Settings *config.Config
	Canto    int
	Resume   bool
	Output   io.Writer

	// Oracle overrides the oracle built from Settings.
	Oracle oracle.Oracle
	// Logger overrides the logger built from Settings.
	Logger *zap.Logger
}

// Outcome is what a run leaves behind.
type Outcome struct {
	Session *state.Session
	Files   []string
}

// Run aligns one canto. The returned Outcome is non-nil whenever a
// session was opened, even if the alignment stopped early.
func Run(ctx context.Context, cfg Config) (*Outcome, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	s := cfg.Settings
	if s == nil {
		s = config.Default()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = newLogger(s, cfg.Canto)
		if err != nil {
			return nil, err
		}
		defer func() { _ = logger.Sync() }()
	}
	logger = logger.With(zap.String("cantica", s.Corpus.Cantica), zap.Int("canto", cfg.Canto))

	lines, paras, err := loadCorpus(s, cfg.Canto)
	if err != nil {
		return nil, err
	}

	store := state.NewStore(state.Dir(s.Corpus.OutputDir, cfg.Canto))
	session, err := openSession(store, s, cfg)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Session: session}

	if session.Done {
		logger.Info("session already complete", zap.String("session", session.ID))
		report.FormatSummary(cfg.Output, report.Summary{Result: sessionResult(session)})
		return out, nil
	}

	o := cfg.Oracle
	if o == nil {
		if o, err = oracle.New(ctx, s.OracleSettings(logger)); err != nil {
			return out, err
		}
	}

	numbered := 0
	for _, b := range session.Blocks {
		if b.Complete() {
			numbered++
		}
	}
	aligner, err := align.New(o, o, s.AlignConfig(),
		align.WithLogger(logger),
		align.WithObserver(func(b align.Block) {
			numbered++
			report.FormatBlock(cfg.Output, numbered, b)
			if err := store.AppendEvent(state.EventFor(numbered, b)); err != nil {
				logger.Warn("failed to record block", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return out, err
	}

	report.FormatHeader(cfg.Output, report.Header{
		Cantica:    s.Corpus.Cantica,
		Canto:      cfg.Canto,
		Model:      s.Oracle.Model,
		Lines:      len(lines),
		Paragraphs: len(paras),
		Resumed:    cfg.Resume,
	})
	logger.Info("alignment started",
		zap.String("session", session.ID),
		zap.String("model", s.Oracle.Model),
		zap.Float64("temperature", s.Oracle.Temperature),
		zap.Bool("think", s.Oracle.Think),
		zap.Int("line", session.Next.Line),
		zap.Int("offset", session.Next.Offset))

	res, runErr := aligner.AlignFrom(ctx, lines, paras, session.Next)
	session.Apply(res, runErr)
	if err := store.Save(session); err != nil {
		return out, errors.Join(runErr, err)
	}

	files, err := writeReports(s, cfg.Canto, session.Blocks)
	out.Files = files
	if err != nil {
		return out, errors.Join(runErr, err)
	}

	report.FormatSummary(cfg.Output, report.Summary{Result: sessionResult(session), Files: files, Err: runErr})
	if runErr != nil {
		logger.Error("alignment stopped", zap.Error(runErr))
		return out, runErr
	}
	logger.Info("alignment complete", zap.Int("blocks", len(session.Blocks)))
	return out, nil
}

func newLogger(s *config.Config, canto int) (*zap.Logger, error) {
	opts := logging.Options{Level: s.Logging.Level, Console: s.Logging.Console}
	if s.Logging.File {
		opts.File = s.Corpus.OutputPath(canto, ".log")
	}
	return logging.New(opts)
}

func loadCorpus(s *config.Config, canto int) ([]verse.Line, []prose.Paragraph, error) {
	lines, err := verse.Load(s.Corpus.VersePath(canto))
	if err != nil {
		return nil, nil, err
	}
	if max := s.Alignment.MaxLines; max > 0 && len(lines) > max {
		lines = lines[:max]
	}

	text, err := os.ReadFile(s.Corpus.ProsePath(canto))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read prose: %w", err)
	}
	paras := prose.Parse(string(text)).Paragraphs(s.Alignment.SkipParagraphs)
	if len(paras) == 0 {
		return nil, nil, fmt.Errorf("no paragraphs to align in %s", s.Corpus.ProsePath(canto))
	}
	return lines, paras, nil
}

func openSession(store *state.Store, s *config.Config, cfg Config) (*state.Session, error) {
	if !cfg.Resume {
		return store.Init(s.Corpus.Cantica, cfg.Canto, s.Oracle.Model)
	}
	if !store.Exists() {
		return nil, fmt.Errorf("%w for %s canto %d", ErrNoSession, s.Corpus.Cantica, cfg.Canto)
	}
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	if session.Canto != cfg.Canto || session.Cantica != s.Corpus.Cantica {
		return nil, fmt.Errorf("saved session is for %s canto %d", session.Cantica, session.Canto)
	}
	return session, nil
}

func sessionResult(s *state.Session) *align.Result {
	return &align.Result{Blocks: s.Blocks, Next: s.Next, Done: s.Done}
}

// writeReports writes the aligned, detailed and prose-only renderings.
func writeReports(s *config.Config, canto int, blocks []align.Block) ([]string, error) {
	if err := os.MkdirAll(s.Corpus.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	outputs := []struct {
		suffix string
		body   string
	}{
		{".txt", report.Aligned(blocks)},
		{"_detailed.txt", report.Detailed(blocks)},
		{"_prose.txt", report.Prose(blocks)},
	}
	var files []string
	for _, o := range outputs {
		path := s.Corpus.OutputPath(canto, o.suffix)
		if err := os.WriteFile(path, []byte(o.body), 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		files = append(files, path)
	}
	return files, nil
}
