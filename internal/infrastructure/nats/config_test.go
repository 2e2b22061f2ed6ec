// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		expected  Config
		expectErr bool
	}{
		{
			name:     "defaults",
			env:      map[string]string{},
			expected: DefaultConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"NATS_URL":            "nats://nats.internal:4222",
				"NATS_TIMEOUT":        "3s",
				"NATS_MAX_RECONNECT":  "10",
				"NATS_RECONNECT_WAIT": "500ms",
			},
			expected: Config{
				URL:           "nats://nats.internal:4222",
				Timeout:       3 * time.Second,
				MaxReconnect:  10,
				ReconnectWait: 500 * time.Millisecond,
			},
		},
		{
			name:      "bad timeout",
			env:       map[string]string{"NATS_TIMEOUT": "soon"},
			expectErr: true,
		},
		{
			name:      "bad max reconnect",
			env:       map[string]string{"NATS_MAX_RECONNECT": "many"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"NATS_URL", "NATS_TIMEOUT", "NATS_MAX_RECONNECT", "NATS_RECONNECT_WAIT"} {
				t.Setenv(key, tt.env[key])
			}

			config, err := NewConfigFromEnv()
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}
