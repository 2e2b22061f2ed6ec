// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// CommonsGroupFetcher reads group data from a Commons instance
type CommonsGroupFetcher interface {
	// GetGroup fetches the metadata served at groupURL using the bearer token.
	// Failures map to RequestTimeout, ServiceUnavailable, NotFound or Unprocessable.
	GetGroup(ctx context.Context, groupURL, token string) (*model.CommonsGroup, error)
	// GetAvatar downloads the group avatar image.
	GetAvatar(ctx context.Context, avatarURL string) (*model.Avatar, error)
}
