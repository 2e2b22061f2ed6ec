// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

type groupsMetadataStore struct {
	storage
}

// GetGroupsMetadata retrieves a record by id and returns its revision
func (s *groupsMetadataStore) GetGroupsMetadata(ctx context.Context, id string) (*model.GroupMetadata, uint64, error) {
	slog.DebugContext(ctx, "nats storage: getting groups metadata", "id", id)

	record := &model.GroupMetadata{}
	rev, err := s.get(ctx, constants.KVBucketNameGroupsMetadata, id, record)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, errs.NewNotFound(fmt.Sprintf("groups metadata %s not found", id))
		}
		var validation errs.Validation
		if errors.As(err, &validation) {
			return nil, 0, err
		}
		slog.ErrorContext(ctx, "failed to get groups metadata", "error", err, "id", id)
		return nil, 0, errs.NewServiceUnavailable("failed to get groups metadata", err)
	}
	record.Revision = rev
	return record, rev, nil
}

// GetGroupsMetadataByGroupID follows the group_id lookup key
func (s *groupsMetadataStore) GetGroupsMetadataByGroupID(ctx context.Context, groupID string) (*model.GroupMetadata, uint64, error) {
	id, _, err := s.getString(ctx, constants.KVBucketNameGroupsMetadata, groupIDLookupKey(groupID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, errs.NewNotFound(fmt.Sprintf("no groups metadata for group %s", groupID))
		}
		slog.ErrorContext(ctx, "failed to get groups metadata lookup", "error", err, "group_id", groupID)
		return nil, 0, errs.NewServiceUnavailable("failed to get groups metadata", err)
	}

	record, rev, err := s.GetGroupsMetadata(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if record.IsDeleted {
		return nil, 0, errs.NewNotFound(fmt.Sprintf("no groups metadata for group %s", groupID))
	}
	return record, rev, nil
}

// CreateGroupsMetadata claims the group_id lookup key and stores the record
func (s *groupsMetadataStore) CreateGroupsMetadata(ctx context.Context, record *model.GroupMetadata) (*model.GroupMetadata, uint64, error) {
	now := time.Now().UTC()
	stored := *record
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.IsDeleted = false

	if err := s.claimGroupID(ctx, stored.Metadata.GroupID, stored.ID); err != nil {
		return nil, 0, err
	}

	rev, err := s.create(ctx, constants.KVBucketNameGroupsMetadata, stored.ID, &stored)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create groups metadata", "error", err, "group_id", stored.Metadata.GroupID)
		if errDelete := s.delete(ctx, constants.KVBucketNameGroupsMetadata, groupIDLookupKey(stored.Metadata.GroupID), 0); errDelete != nil {
			slog.ErrorContext(ctx, "failed to release group_id lookup", "error", errDelete)
		}
		return nil, 0, errs.NewServiceUnavailable("failed to create groups metadata", err)
	}
	stored.Revision = rev

	return &stored, rev, nil
}

// claimGroupID points the lookup key at id. A key left behind by a deleted
// record is taken over.
func (s *groupsMetadataStore) claimGroupID(ctx context.Context, groupID, id string) error {
	lookupKey := groupIDLookupKey(groupID)

	_, err := s.create(ctx, constants.KVBucketNameGroupsMetadata, lookupKey, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrKeyExists) {
		return errs.NewServiceUnavailable("failed to claim group_id", err)
	}

	existingID, lookupRev, err := s.getString(ctx, constants.KVBucketNameGroupsMetadata, lookupKey)
	if err != nil {
		return errs.NewServiceUnavailable("failed to read group_id lookup", err)
	}
	existing, _, err := s.GetGroupsMetadata(ctx, existingID)
	if err == nil && !existing.IsDeleted {
		return errs.NewConflict(fmt.Sprintf("groups metadata for group %s already exists", groupID))
	}

	if _, err := s.update(ctx, constants.KVBucketNameGroupsMetadata, lookupKey, id, lookupRev); err != nil {
		if isRevisionMismatch(err) {
			return errs.NewConflict(fmt.Sprintf("groups metadata for group %s was created concurrently", groupID), err)
		}
		return errs.NewServiceUnavailable("failed to claim group_id", err)
	}
	return nil
}

// UpdateGroupsMetadata replaces the record if revision matches
func (s *groupsMetadataStore) UpdateGroupsMetadata(ctx context.Context, record *model.GroupMetadata, revision uint64) (*model.GroupMetadata, uint64, error) {
	stored := *record
	stored.UpdatedAt = time.Now().UTC()

	rev, err := s.update(ctx, constants.KVBucketNameGroupsMetadata, stored.ID, &stored, revision)
	if err != nil {
		if isRevisionMismatch(err) {
			return nil, 0, errs.NewConflict(fmt.Sprintf("groups metadata %s was modified", stored.ID), err)
		}
		slog.ErrorContext(ctx, "failed to update groups metadata", "error", err, "id", stored.ID)
		return nil, 0, errs.NewServiceUnavailable("failed to update groups metadata", err)
	}
	stored.Revision = rev

	return &stored, rev, nil
}

// DeleteGroupsMetadata flags the record deleted and frees its group_id
func (s *groupsMetadataStore) DeleteGroupsMetadata(ctx context.Context, id string, revision uint64) error {
	record, _, err := s.GetGroupsMetadata(ctx, id)
	if err != nil {
		return err
	}

	record.IsDeleted = true
	record.UpdatedAt = time.Now().UTC()
	if _, err := s.update(ctx, constants.KVBucketNameGroupsMetadata, id, record, revision); err != nil {
		if isRevisionMismatch(err) {
			return errs.NewConflict(fmt.Sprintf("groups metadata %s was modified", id), err)
		}
		slog.ErrorContext(ctx, "failed to delete groups metadata", "error", err, "id", id)
		return errs.NewServiceUnavailable("failed to delete groups metadata", err)
	}

	if err := s.delete(ctx, constants.KVBucketNameGroupsMetadata, groupIDLookupKey(record.Metadata.GroupID), 0); err != nil {
		slog.WarnContext(ctx, "failed to release group_id lookup, a later create will take it over",
			"error", err,
			"group_id", record.Metadata.GroupID,
		)
	}
	return nil
}

// NewGroupsMetadataStore creates a metadata store on the groups metadata bucket
func NewGroupsMetadataStore(client *NATSClient) port.GroupsMetadataRepository {
	return &groupsMetadataStore{storage{client: client}}
}
