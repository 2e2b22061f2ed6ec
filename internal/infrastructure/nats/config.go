// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// Config holds the NATS connection settings
type Config struct {
	URL           string
	Timeout       time.Duration
	MaxReconnect  int
	ReconnectWait time.Duration
}

// DefaultConfig returns the settings used when no environment overrides are present
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
	}
}

// NewConfigFromEnv reads NATS_URL, NATS_TIMEOUT, NATS_MAX_RECONNECT and NATS_RECONNECT_WAIT
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()

	if v := os.Getenv(constants.EnvNATSURL); v != "" {
		config.URL = v
	}

	if v := os.Getenv("NATS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS timeout duration %s: %w", v, err)
		}
		config.Timeout = d
	}

	if v := os.Getenv("NATS_MAX_RECONNECT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS max reconnect value %s: %w", v, err)
		}
		config.MaxReconnect = n
	}

	if v := os.Getenv("NATS_RECONNECT_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS reconnect wait duration %s: %w", v, err)
		}
		config.ReconnectWait = d
	}

	return config, nil
}
