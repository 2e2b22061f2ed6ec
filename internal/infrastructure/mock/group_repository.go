// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// MockGroupRepository is an in-memory legacy groups table
type MockGroupRepository struct {
	mock *MockRepository
}

// NewMockGroupRepository creates a groups table backed by mock
func NewMockGroupRepository(mock *MockRepository) port.GroupRepository {
	return &MockGroupRepository{mock: mock}
}

// Create inserts a row, enforcing the unique name and slug columns
func (r *MockGroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	r.mock.mu.Lock()
	defer r.mock.mu.Unlock()

	if err := r.mock.errorFor(OpGroups, group.Slug); err != nil {
		return nil, err
	}

	for _, g := range r.mock.groups {
		if g.GroupName == group.GroupName || g.Slug == group.Slug {
			return nil, errors.NewConflict(fmt.Sprintf("group %s already exists", group.GroupName))
		}
	}

	row := *group
	row.ID = int64(len(r.mock.groups) + 1)
	r.mock.groups = append(r.mock.groups, &row)

	out := row
	return &out, nil
}

// GetBySlug returns the row holding slug
func (r *MockGroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	r.mock.mu.RLock()
	defer r.mock.mu.RUnlock()

	for _, g := range r.mock.groups {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, errors.NewNotFound(fmt.Sprintf("group %s not found", slug))
}

// List returns every row ordered by id
func (r *MockGroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	r.mock.mu.RLock()
	defer r.mock.mu.RUnlock()

	if err := r.mock.errorFor(OpGroups, AnyKey); err != nil {
		return nil, err
	}

	out := make([]*model.Group, 0, len(r.mock.groups))
	for _, g := range r.mock.groups {
		row := *g
		out = append(out, &row)
	}
	return out, nil
}
