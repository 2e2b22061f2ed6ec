// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// GroupsMetadataService manages group metadata records
type GroupsMetadataService interface {
	Create(ctx context.Context, record *model.GroupMetadata) (*model.GroupMetadata, uint64, error)
	Get(ctx context.Context, id string) (*model.GroupMetadata, uint64, error)
	GetByGroupID(ctx context.Context, groupID string) (*model.GroupMetadata, uint64, error)
	// Update replaces the record. A zero expectedRevision skips the precondition.
	Update(ctx context.Context, id string, record *model.GroupMetadata, expectedRevision uint64) (*model.GroupMetadata, uint64, error)
	// Delete soft deletes the record. A zero expectedRevision skips the precondition.
	Delete(ctx context.Context, id string, expectedRevision uint64) error
}

// groupsMetadataOrchestratorOption defines a function type for setting options
type groupsMetadataOrchestratorOption func(*groupsMetadataOrchestrator)

// WithGroupsMetadataRepository sets the record storage
func WithGroupsMetadataRepository(repo port.GroupsMetadataRepository) groupsMetadataOrchestratorOption {
	return func(o *groupsMetadataOrchestrator) {
		o.repo = repo
	}
}

type groupsMetadataOrchestrator struct {
	repo port.GroupsMetadataRepository
}

// NewGroupsMetadataOrchestrator creates the groups metadata orchestrator
func NewGroupsMetadataOrchestrator(opts ...groupsMetadataOrchestratorOption) GroupsMetadataService {
	o := &groupsMetadataOrchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *groupsMetadataOrchestrator) Create(ctx context.Context, record *model.GroupMetadata) (*model.GroupMetadata, uint64, error) {
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, 0, err
	}

	created, revision, err := o.repo.CreateGroupsMetadata(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create groups metadata",
			"error", err,
			"group_id", record.Metadata.GroupID,
		)
		return nil, 0, err
	}

	slog.InfoContext(ctx, "groups metadata created",
		"id", created.ID,
		"group_id", created.Metadata.GroupID,
	)
	return created, revision, nil
}

func (o *groupsMetadataOrchestrator) Get(ctx context.Context, id string) (*model.GroupMetadata, uint64, error) {
	record, revision, err := o.repo.GetGroupsMetadata(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if record.IsDeleted {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("groups metadata %s not found", id))
	}
	return record, revision, nil
}

func (o *groupsMetadataOrchestrator) GetByGroupID(ctx context.Context, groupID string) (*model.GroupMetadata, uint64, error) {
	if groupID == "" {
		return nil, 0, errors.NewValidation("group_id is required")
	}
	return o.repo.GetGroupsMetadataByGroupID(ctx, groupID)
}

func (o *groupsMetadataOrchestrator) Update(ctx context.Context, id string, record *model.GroupMetadata, expectedRevision uint64) (*model.GroupMetadata, uint64, error) {
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, 0, err
	}

	existing, revision, err := o.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if expectedRevision != 0 && expectedRevision != revision {
		return nil, 0, errors.NewConflict(fmt.Sprintf("groups metadata %s was modified, expected revision %d but found %d", id, expectedRevision, revision))
	}
	if existing.Metadata.GroupID != record.Metadata.GroupID {
		return nil, 0, errors.NewValidation("metadata.group_id cannot be changed")
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	record.IsDeleted = false

	updated, newRevision, err := o.repo.UpdateGroupsMetadata(ctx, record, revision)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update groups metadata",
			"error", err,
			"id", id,
		)
		return nil, 0, err
	}
	return updated, newRevision, nil
}

func (o *groupsMetadataOrchestrator) Delete(ctx context.Context, id string, expectedRevision uint64) error {
	_, revision, err := o.Get(ctx, id)
	if err != nil {
		return err
	}
	if expectedRevision != 0 && expectedRevision != revision {
		return errors.NewConflict(fmt.Sprintf("groups metadata %s was modified, expected revision %d but found %d", id, expectedRevision, revision))
	}

	if err := o.repo.DeleteGroupsMetadata(ctx, id, revision); err != nil {
		slog.ErrorContext(ctx, "failed to delete groups metadata",
			"error", err,
			"id", id,
		)
		return err
	}

	slog.InfoContext(ctx, "groups metadata deleted", "id", id)
	return nil
}
