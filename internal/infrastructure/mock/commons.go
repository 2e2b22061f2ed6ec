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

// MockCommonsGroupFetcher serves Commons groups registered with AddCommonsGroup
type MockCommonsGroupFetcher struct {
	mock *MockRepository
}

// NewMockCommonsGroupFetcher creates a Commons client backed by mock
func NewMockCommonsGroupFetcher(mock *MockRepository) port.CommonsGroupFetcher {
	return &MockCommonsGroupFetcher{mock: mock}
}

// GetGroup returns the group registered for groupURL
func (f *MockCommonsGroupFetcher) GetGroup(ctx context.Context, groupURL, token string) (*model.CommonsGroup, error) {
	f.mock.mu.RLock()
	defer f.mock.mu.RUnlock()

	if err := f.mock.errorFor(OpGetGroup, groupURL); err != nil {
		return nil, err
	}

	group, ok := f.mock.commonsGroups[groupURL]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no such group at %s", groupURL))
	}
	g := *group
	g.UploadRoles = append([]string(nil), group.UploadRoles...)
	g.ModerateRoles = append([]string(nil), group.ModerateRoles...)
	return &g, nil
}

// GetAvatar returns the avatar registered for avatarURL
func (f *MockCommonsGroupFetcher) GetAvatar(ctx context.Context, avatarURL string) (*model.Avatar, error) {
	f.mock.mu.RLock()
	defer f.mock.mu.RUnlock()

	if err := f.mock.errorFor(OpGetAvatar, avatarURL); err != nil {
		return nil, err
	}

	avatar, ok := f.mock.avatars[avatarURL]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("provided avatar was not found at %s", avatarURL))
	}
	return avatar, nil
}
