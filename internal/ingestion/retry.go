package ingestion

import (
	"fmt"
	"time"

	"github.com/axisproperty/dealengine/internal/logging"
)

// RetryConfig drives exponential back-off retry for source fetches that
// fail transiently (timeouts, rate limit rejections from the source
// itself).
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *logging.Logger
}

// Do executes fn, retrying on error with exponential back-off up to
// MaxAttempts times.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("ingestion: %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
