// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import "time"

// Config holds the transport and retry settings of a Client.
type Config struct {
	// Timeout bounds a single attempt, including reading the body.
	Timeout time.Duration
	// MaxRetries is the number of attempts made after the first one. Zero disables retries.
	MaxRetries int
	// RetryDelay is the wait before the first retry.
	RetryDelay time.Duration
	// RetryBackoff doubles RetryDelay on every further retry.
	RetryBackoff bool
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
	// MaxBodyBytes caps how much of a response body is read. Zero means no limit.
	MaxBodyBytes int64
}

// DefaultConfig returns a Config with retries enabled.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   1 * time.Second,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}
}

// NoRetryConfig returns a Config making exactly one attempt bounded by timeout.
func NoRetryConfig(timeout time.Duration) Config {
	return Config{
		Timeout:    timeout,
		MaxRetries: 0,
		MaxDelay:   30 * time.Second,
	}
}
