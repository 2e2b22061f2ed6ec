// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// GroupsMetadataReader defines read operations on group metadata records
type GroupsMetadataReader interface {
	// GetGroupsMetadata returns the record and its revision for use as an ETag
	GetGroupsMetadata(ctx context.Context, id string) (*model.GroupMetadata, uint64, error)
	// GetGroupsMetadataByGroupID returns the live record for a remote group id
	GetGroupsMetadataByGroupID(ctx context.Context, groupID string) (*model.GroupMetadata, uint64, error)
}

// GroupsMetadataWriter defines write operations on group metadata records
type GroupsMetadataWriter interface {
	// CreateGroupsMetadata stores a new record, keeping group_id unique among live records
	CreateGroupsMetadata(ctx context.Context, record *model.GroupMetadata) (*model.GroupMetadata, uint64, error)
	// UpdateGroupsMetadata replaces the record if revision still matches
	UpdateGroupsMetadata(ctx context.Context, record *model.GroupMetadata, revision uint64) (*model.GroupMetadata, uint64, error)
	// DeleteGroupsMetadata soft deletes the record if revision still matches
	DeleteGroupsMetadata(ctx context.Context, id string, revision uint64) error
}

// GroupsMetadataRepository combines reads and writes
type GroupsMetadataRepository interface {
	GroupsMetadataReader
	GroupsMetadataWriter
}
