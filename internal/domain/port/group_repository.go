// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// GroupRepository accesses the legacy groups table
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}
