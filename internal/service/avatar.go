// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// updateAvatar copies the group avatar into the collection logo. Failures are
// logged and never reach the caller.
func (o *groupCollectionsOrchestrator) updateAvatar(ctx context.Context, slug, avatarURL string) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.CommonsRequestTimeout)
	defer cancel()

	start := time.Now()
	avatar, err := o.commons.GetAvatar(fetchCtx, avatarURL)
	if err != nil {
		slog.ErrorContext(ctx, "could not fetch group avatar, continuing without a logo",
			"error", err,
			"slug", slug,
			"avatar_url", avatarURL,
			"duration", time.Since(start),
		)
		return false
	}

	if len(avatar.Data) == 0 {
		slog.WarnContext(ctx, "group avatar is empty, continuing without a logo",
			"slug", slug,
			"avatar_url", avatarURL,
		)
		return false
	}

	if err := o.directory.UpdateLogo(ctx, slug, avatar); err != nil {
		slog.ErrorContext(ctx, "could not store collection logo",
			"error", err,
			"slug", slug,
		)
		return false
	}

	slog.DebugContext(ctx, "collection logo stored",
		"slug", slug,
		"content_type", avatar.ContentType,
		"size", len(avatar.Data),
	)
	return true
}
