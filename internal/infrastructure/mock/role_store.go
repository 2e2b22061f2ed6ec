// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"time"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
)

// MockRoleStore is an in-memory role store
type MockRoleStore struct {
	mock *MockRepository
}

// NewMockRoleStore creates a role store backed by mock
func NewMockRoleStore(mock *MockRepository) port.RoleStore {
	return &MockRoleStore{mock: mock}
}

// FindOrCreateRole returns the named role, creating it on first use
func (s *MockRoleStore) FindOrCreateRole(ctx context.Context, name string) (*model.Role, error) {
	s.mock.mu.Lock()
	defer s.mock.mu.Unlock()

	if err := s.mock.errorFor(OpFindOrCreateRole, name); err != nil {
		return nil, err
	}

	if role, ok := s.mock.roles[name]; ok {
		return role, nil
	}

	role := &model.Role{Name: name, CreatedAt: time.Now()}
	s.mock.roles[name] = role
	return role, nil
}
