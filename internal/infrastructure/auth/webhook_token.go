// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// WebhookPrincipal is returned for callers holding the shared webhook token
const WebhookPrincipal = "remote-idp"

// WebhookTokenAuth checks the shared secret remote IdPs present to the webhook.
// With no secret configured every caller is let through.
type WebhookTokenAuth struct {
	token []byte
}

// ParsePrincipal compares token with the configured secret in constant time
func (w *WebhookTokenAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if len(w.token) == 0 {
		return WebhookPrincipal, nil
	}
	if token == "" {
		return "", errors.NewUnauthorized("missing webhook token")
	}
	if subtle.ConstantTimeCompare([]byte(token), w.token) != 1 {
		logger.WarnContext(ctx, "webhook called with a wrong token")
		return "", errors.NewUnauthorized("invalid webhook token")
	}
	return WebhookPrincipal, nil
}

// NewWebhookTokenAuth creates the webhook authenticator
func NewWebhookTokenAuth(token string) port.Authenticator {
	return &WebhookTokenAuth{token: []byte(token)}
}
