package warmup

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid warm-up config")

// Config holds configuration for a warm-up run.
type Config struct {
	// BatchSize is the number of messages embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of messages)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      64,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be at least 1", ErrInvalidConfig)
	case c.ReportInterval < 1:
		return fmt.Errorf("%w: report interval must be at least 1", ErrInvalidConfig)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: max retries must be at least 1", ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", ErrInvalidConfig)
	}
	return nil
}
