// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// RoleStore finds or creates permission roles by name
type RoleStore interface {
	// FindOrCreateRole is idempotent: concurrent callers for one name get the same role.
	FindOrCreateRole(ctx context.Context, name string) (*model.Role, error)
}
