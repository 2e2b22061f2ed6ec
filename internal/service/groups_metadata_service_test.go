// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

func sampleGroupMetadata(groupID string) *model.GroupMetadata {
	hasCommunity := true
	return &model.GroupMetadata{
		Access: model.GroupMetadataAccess{
			GroupPrivacy:     "public",
			CommunityPrivacy: "public",
			CanUpload:        []string{"members"},
			CanAccept:        []string{"moderators", "administrators"},
		},
		Metadata: model.GroupMetadataInfo{
			GroupID:      groupID,
			GroupName:    " Panda Studies ",
			GroupURL:     "https://commons.test/groups/panda-studies",
			HasCommunity: &hasCommunity,
		},
		InvenioRoles: model.GroupInvenioRoles{
			Administrator: "knowledgeCommons---12|administrator",
			Moderator:     "knowledgeCommons---12|moderator",
			Member:        "knowledgeCommons---12|member",
		},
	}
}

func TestGroupsMetadataOrchestratorCreate(t *testing.T) {
	ctx := context.Background()
	mockRepo := mock.NewMockRepository()
	svc := NewGroupsMetadataOrchestrator(WithGroupsMetadataRepository(mock.NewMockGroupsMetadataRepository(mockRepo)))

	tests := []struct {
		name      string
		record    func() *model.GroupMetadata
		setupMock func()
		errorType error
	}{
		{
			name:      "creates record",
			record:    func() *model.GroupMetadata { return sampleGroupMetadata("panda-studies") },
			setupMock: func() {},
		},
		{
			name: "uppercase group id",
			record: func() *model.GroupMetadata {
				return sampleGroupMetadata("Panda-Studies")
			},
			setupMock: func() {},
			errorType: errs.Validation{},
		},
		{
			name: "missing has_community",
			record: func() *model.GroupMetadata {
				r := sampleGroupMetadata("panda-studies")
				r.Metadata.HasCommunity = nil
				return r
			},
			setupMock: func() {},
			errorType: errs.Validation{},
		},
		{
			name:   "group already has a record",
			record: func() *model.GroupMetadata { return sampleGroupMetadata("panda-studies") },
			setupMock: func() {
				_, _, err := mock.NewMockGroupsMetadataRepository(mockRepo).CreateGroupsMetadata(ctx, sampleGroupMetadata("panda-studies"))
				require.NoError(t, err)
			},
			errorType: errs.Conflict{},
		},
		{
			name:   "storage failure",
			record: func() *model.GroupMetadata { return sampleGroupMetadata("panda-studies") },
			setupMock: func() {
				mockRepo.SetError(mock.OpGroupsMetadata, mock.AnyKey, errs.NewServiceUnavailable("kv down"))
			},
			errorType: errs.ServiceUnavailable{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ClearAll()
			tt.setupMock()

			created, revision, err := svc.Create(ctx, tt.record())
			if tt.errorType != nil {
				require.Error(t, err)
				assert.IsType(t, tt.errorType, err)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Panda Studies", created.Metadata.GroupName)
			assert.Equal(t, uint64(1), revision)
		})
	}

	mockRepo.ClearAll()
}

func TestGroupsMetadataOrchestratorLifecycle(t *testing.T) {
	ctx := context.Background()
	mockRepo := mock.NewMockRepository()
	mockRepo.ClearAll()
	defer mockRepo.ClearAll()
	svc := NewGroupsMetadataOrchestrator(WithGroupsMetadataRepository(mock.NewMockGroupsMetadataRepository(mockRepo)))

	created, revision, err := svc.Create(ctx, sampleGroupMetadata("panda-studies"))
	require.NoError(t, err)

	got, gotRevision, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, revision, gotRevision)
	assert.Equal(t, "panda-studies", got.Metadata.GroupID)

	byGroup, _, err := svc.GetByGroupID(ctx, "panda-studies")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byGroup.ID)

	_, _, err = svc.GetByGroupID(ctx, "")
	assert.IsType(t, errs.Validation{}, err)

	t.Run("update with stale revision", func(t *testing.T) {
		_, _, err := svc.Update(ctx, created.ID, sampleGroupMetadata("panda-studies"), revision+5)
		assert.IsType(t, errs.Conflict{}, err)
	})

	t.Run("update cannot move the record to another group", func(t *testing.T) {
		_, _, err := svc.Update(ctx, created.ID, sampleGroupMetadata("bamboo-lovers"), revision)
		assert.IsType(t, errs.Validation{}, err)
	})

	t.Run("update with matching revision", func(t *testing.T) {
		record := sampleGroupMetadata("panda-studies")
		record.Metadata.GroupDescription = "We study pandas"
		updated, newRevision, err := svc.Update(ctx, created.ID, record, revision)
		require.NoError(t, err)
		assert.Equal(t, revision+1, newRevision)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "We study pandas", updated.Metadata.GroupDescription)
		revision = newRevision
	})

	t.Run("update without precondition", func(t *testing.T) {
		_, newRevision, err := svc.Update(ctx, created.ID, sampleGroupMetadata("panda-studies"), 0)
		require.NoError(t, err)
		revision = newRevision
	})

	t.Run("delete with stale revision", func(t *testing.T) {
		err := svc.Delete(ctx, created.ID, revision-1)
		assert.IsType(t, errs.Conflict{}, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, created.ID, revision))

		_, _, err := svc.Get(ctx, created.ID)
		assert.IsType(t, errs.NotFound{}, err)

		_, _, err = svc.GetByGroupID(ctx, "panda-studies")
		assert.IsType(t, errs.NotFound{}, err)

		err = svc.Delete(ctx, created.ID, 0)
		assert.IsType(t, errs.NotFound{}, err)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, _, err := svc.Get(ctx, "missing")
		assert.IsType(t, errs.NotFound{}, err)
	})
}
