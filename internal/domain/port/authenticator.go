// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"log/slog"
)

// Authenticator turns a bearer token into a principal
type Authenticator interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}
