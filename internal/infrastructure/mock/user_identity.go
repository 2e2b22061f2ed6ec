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

// MockUserIdentityReader resolves identities registered with AddUserIdentity
type MockUserIdentityReader struct {
	mock *MockRepository
}

// NewMockUserIdentityReader creates an identity reader backed by mock
func NewMockUserIdentityReader(mock *MockRepository) port.UserIdentityReader {
	return &MockUserIdentityReader{mock: mock}
}

// GetUserIdentity returns the registered identity or NotFound
func (r *MockUserIdentityReader) GetUserIdentity(ctx context.Context, query model.UserIdentityQuery) (*model.UserIdentity, error) {
	r.mock.mu.RLock()
	defer r.mock.mu.RUnlock()

	if err := r.mock.errorFor(OpGetUserIdentity, query.ID); err != nil {
		return nil, err
	}

	identity, ok := r.mock.userIdentities[identityKey(query.Method, query.ID)]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("unknown user %s for %s", query.ID, query.Method))
	}
	return identity, nil
}
