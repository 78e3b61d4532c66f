package align

import "fmt"

// Config holds the tunables of one alignment run. It is passed to New by
// value so concurrent runs never share settings.
type Config struct {
	// MaxRetries is the number of validation attempts allowed per block size.
	MaxRetries int

	// MaxRatio bounds candidate words per verse token before a span is
	// rejected as too long without asking the oracle.
	MaxRatio float64

	// ExtractWindow limits how many runes of remaining text are sent to the
	// oracle for extraction. Zero sends the whole remainder.
	ExtractWindow int

	// AllowParagraphSpan lets a block continue into the next paragraph.
	AllowParagraphSpan bool

	// ProbeRatioConflicts consults the oracle even when the length guard
	// fires, recording accepted-but-too-long spans as ambiguous.
	ProbeRatioConflicts bool
}

// DefaultConfig returns the settings used for the Norton alignment.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		MaxRatio:      1.8,
		ExtractWindow: 500,
	}
}

// Validate checks that the config can drive a run.
func (c Config) Validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: max retries must be at least 1, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.MaxRatio <= 0 {
		return fmt.Errorf("%w: max ratio must be positive, got %g", ErrInvalidConfig, c.MaxRatio)
	}
	if c.ExtractWindow < 0 {
		return fmt.Errorf("%w: extract window must not be negative, got %d", ErrInvalidConfig, c.ExtractWindow)
	}
	return nil
}
