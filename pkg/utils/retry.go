// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package utils provides utility functions for the group collections service.
package utils

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryConfig describes how an operation is retried.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Retryable reports whether a failed attempt is worth repeating.
	// A nil Retryable retries every error.
	Retryable func(error) bool
	// Jitter adds up to a quarter of the delay so parallel publishers spread out.
	Jitter bool
}

// NewRetryConfig creates a RetryConfig that retries every error
func NewRetryConfig(maxAttempts int, baseDelay, maxDelay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
}

// WithRetryable returns a copy of c that only repeats errors accepted by retryable
func (c RetryConfig) WithRetryable(retryable func(error) bool) RetryConfig {
	c.Retryable = retryable
	return c
}

// WithJitter returns a copy of c with jittered delays
func (c RetryConfig) WithJitter() RetryConfig {
	c.Jitter = true
	return c
}

// backoff returns baseDelay * 2^(attempt-1), capped at MaxDelay.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := time.Duration(1<<uint(attempt-1)) * c.BaseDelay
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	if c.Jitter && delay >= 4 {
		delay += rand.N(delay / 4)
	}
	return delay
}

func (c RetryConfig) shouldRetry(err error) bool {
	return c.Retryable == nil || c.Retryable(err)
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with an error
// the config does not retry, the attempts run out or ctx is done. operation
// names the work in the logs.
func RetryWithExponentialBackoff(ctx context.Context, config RetryConfig, operation string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.backoff(attempt)

			slog.WarnContext(ctx, "retrying operation",
				"operation", operation,
				"attempt", attempt+1,
				"total_attempts", config.MaxAttempts,
				"retry_delay_ms", delay.Milliseconds(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s: retry cancelled: %w", operation, ctx.Err())
			}
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "retry succeeded",
					"operation", operation,
					"attempt", attempt+1,
				)
			}
			return nil
		}

		lastErr = err
		if !config.shouldRetry(err) {
			slog.ErrorContext(ctx, "operation failed with a permanent error",
				"operation", operation,
				"attempt", attempt+1,
				"error", err,
			)
			return fmt.Errorf("%s: %w", operation, err)
		}

		slog.ErrorContext(ctx, "operation attempt failed",
			"operation", operation,
			"attempt", attempt+1,
			"total_attempts", config.MaxAttempts,
			"error", err,
		)
	}

	return fmt.Errorf("%s: failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}
