// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// MockGroupsMetadataRepository is an in-memory group metadata store
type MockGroupsMetadataRepository struct {
	mock *MockRepository
}

// NewMockGroupsMetadataRepository creates a metadata store backed by mock
func NewMockGroupsMetadataRepository(mock *MockRepository) port.GroupsMetadataRepository {
	return &MockGroupsMetadataRepository{mock: mock}
}

// GetGroupsMetadata returns the record and its revision
func (r *MockGroupsMetadataRepository) GetGroupsMetadata(ctx context.Context, id string) (*model.GroupMetadata, uint64, error) {
	r.mock.mu.RLock()
	defer r.mock.mu.RUnlock()

	if err := r.mock.errorFor(OpGroupsMetadata, id); err != nil {
		return nil, 0, err
	}

	record, ok := r.mock.groupsMetadata[id]
	if !ok {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("groups metadata %s not found", id))
	}
	out := *record
	return &out, r.mock.groupsMetadataRevisions[id], nil
}

// GetGroupsMetadataByGroupID returns the live record for groupID
func (r *MockGroupsMetadataRepository) GetGroupsMetadataByGroupID(ctx context.Context, groupID string) (*model.GroupMetadata, uint64, error) {
	r.mock.mu.RLock()
	defer r.mock.mu.RUnlock()

	if err := r.mock.errorFor(OpGroupsMetadata, groupID); err != nil {
		return nil, 0, err
	}

	id, ok := r.liveIDForGroup(groupID)
	if !ok {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("no groups metadata for group %s", groupID))
	}
	out := *r.mock.groupsMetadata[id]
	return &out, r.mock.groupsMetadataRevisions[id], nil
}

// liveIDForGroup must be called with the lock held
func (r *MockGroupsMetadataRepository) liveIDForGroup(groupID string) (string, bool) {
	for id, record := range r.mock.groupsMetadata {
		if !record.IsDeleted && record.Metadata.GroupID == groupID {
			return id, true
		}
	}
	return "", false
}

// CreateGroupsMetadata stores a new record
func (r *MockGroupsMetadataRepository) CreateGroupsMetadata(ctx context.Context, record *model.GroupMetadata) (*model.GroupMetadata, uint64, error) {
	r.mock.mu.Lock()
	defer r.mock.mu.Unlock()

	if err := r.mock.errorFor(OpGroupsMetadata, record.Metadata.GroupID); err != nil {
		return nil, 0, err
	}

	if _, exists := r.liveIDForGroup(record.Metadata.GroupID); exists {
		return nil, 0, errors.NewConflict(fmt.Sprintf("groups metadata for group %s already exists", record.Metadata.GroupID))
	}

	now := time.Now()
	stored := *record
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.IsDeleted = false
	stored.Revision = 1

	r.mock.groupsMetadata[stored.ID] = &stored
	r.mock.groupsMetadataRevisions[stored.ID] = 1

	out := stored
	return &out, 1, nil
}

// UpdateGroupsMetadata replaces a record if revision matches
func (r *MockGroupsMetadataRepository) UpdateGroupsMetadata(ctx context.Context, record *model.GroupMetadata, revision uint64) (*model.GroupMetadata, uint64, error) {
	r.mock.mu.Lock()
	defer r.mock.mu.Unlock()

	if err := r.mock.errorFor(OpGroupsMetadata, record.ID); err != nil {
		return nil, 0, err
	}

	current, ok := r.mock.groupsMetadataRevisions[record.ID]
	if !ok {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("groups metadata %s not found", record.ID))
	}
	if current != revision {
		return nil, 0, errors.NewConflict(fmt.Sprintf("groups metadata %s was modified", record.ID))
	}

	stored := *record
	stored.UpdatedAt = time.Now()
	stored.Revision = current + 1

	r.mock.groupsMetadata[stored.ID] = &stored
	r.mock.groupsMetadataRevisions[stored.ID] = stored.Revision

	out := stored
	return &out, stored.Revision, nil
}

// DeleteGroupsMetadata soft deletes a record if revision matches
func (r *MockGroupsMetadataRepository) DeleteGroupsMetadata(ctx context.Context, id string, revision uint64) error {
	r.mock.mu.Lock()
	defer r.mock.mu.Unlock()

	if err := r.mock.errorFor(OpGroupsMetadata, id); err != nil {
		return err
	}

	record, ok := r.mock.groupsMetadata[id]
	if !ok {
		return errors.NewNotFound(fmt.Sprintf("groups metadata %s not found", id))
	}
	if r.mock.groupsMetadataRevisions[id] != revision {
		return errors.NewConflict(fmt.Sprintf("groups metadata %s was modified", id))
	}

	record.IsDeleted = true
	record.UpdatedAt = time.Now()
	record.Revision = revision + 1
	r.mock.groupsMetadataRevisions[id] = record.Revision
	return nil
}
