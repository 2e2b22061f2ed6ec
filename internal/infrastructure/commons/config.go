// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package commons

import (
	"os"
	"time"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// Config holds the configuration for the Commons client
type Config struct {
	// Timeout bounds each metadata and avatar request
	Timeout time.Duration

	// MaxAvatarBytes caps the size of a downloaded avatar
	MaxAvatarBytes int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:        constants.CommonsRequestTimeout,
		MaxAvatarBytes: 5 << 20,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if timeoutStr := os.Getenv("COMMONS_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	return config
}
