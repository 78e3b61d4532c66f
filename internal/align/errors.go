package align

import (
	"errors"
	"fmt"
)

var (
	// ErrOracleUnavailable wraps transport or service failures of the
	// oracle, including empty translations. It is never retried here.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrRetryBudgetExhausted means a block failed validation MaxRetries
	// times at its current size.
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

	// ErrVerseExhausted means a block needed to grow past the last verse line.
	ErrVerseExhausted = errors.New("no verse lines left to grow block")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid alignment config")

	// ErrInvalidPosition means a resume position lies outside the inputs.
	ErrInvalidPosition = errors.New("invalid resume position")
)

// AbandonedError reports the block that stopped a run and where to resume.
type AbandonedError struct {
	Block    Block
	Position Position
	Cause    error
}

func (e *AbandonedError) Error() string {
	return fmt.Sprintf("block for lines %s abandoned in paragraph %d after %d attempts: %v",
		e.Block.Range(), e.Block.Paragraph, e.Block.Provenance.Attempts, e.Cause)
}

func (e *AbandonedError) Unwrap() error {
	return e.Cause
}

// oracleError wraps err from oracle operation op so that it matches
// ErrOracleUnavailable.
func oracleError(op string, err error) error {
	if errors.Is(err, ErrOracleUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrOracleUnavailable, err)
}
