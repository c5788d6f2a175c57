package extract

import (
	"context"
	"time"

	"github.com/ytget/tubeloader/internal/logging"
)

// Retry defaults
const (
	DefaultRetries = 1
	DefaultBackoff = 2 * time.Second
)

// retrying retries failed stream downloads.
type retrying struct {
	Extractor
	retries int
	backoff time.Duration
	logger  *logging.Logger
}

// WithRetry wraps e so Fetch is attempted up to retries+1 times.
func WithRetry(e Extractor, retries int, backoff time.Duration, logger *logging.Logger) Extractor {
	if retries <= 0 {
		return e
	}
	return &retrying{Extractor: e, retries: retries, backoff: backoff, logger: logger}
}

// Fetch attempts download with retry logic
func (r *retrying) Fetch(ctx context.Context, url, selector, dest string, onProgress func(Progress)) error {
	log := r.logger.OrDefault()
	var lastErr error

	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(r.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			log.Info("retrying download", "selector", selector, "attempt", attempt+1)
		}

		err := r.Extractor.Fetch(ctx, url, selector, dest, onProgress)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("download attempt failed", "selector", selector, "attempt", attempt+1, "err", err)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}
