// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// UserIdentityReader resolves remote identities to local users
type UserIdentityReader interface {
	// GetUserIdentity returns errors.NotFound for identities without a local user.
	GetUserIdentity(ctx context.Context, query model.UserIdentityQuery) (*model.UserIdentity, error)
}
