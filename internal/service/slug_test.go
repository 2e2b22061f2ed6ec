// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

func TestMakeBaseGroupSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Panda Studies", "panda-studies"},
		{"diacritics", "Café Société", "cafe-societe"},
		{"punctuation removed", "Économie & Société!", "economie--societe"},
		{"apostrophe and underscore", "naïve_user's group", "naive_users-group"},
		{"sharp s", "Straße", "strasse"},
		{"ligature folded", "Ｐanda ﬁles", "panda-files"},
		{"cyrillic transliterated", "Исследования", "issledovaniia"},
		{"cjk transliterated", "日本語 group", "ribenyu-group"},
		{"truncated", strings.Repeat("a", 150), strings.Repeat("a", 100)},
		{"nothing usable", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MakeBaseGroupSlug(tt.input))
		})
	}
}

func commonsCollection(slug, groupID string, deleted bool) *model.Collection {
	return &model.Collection{
		Slug:      slug,
		IsDeleted: deleted,
		CustomFields: model.CommonsCustomFields{
			CommonsInstance: testInstance,
			CommonsGroupID:  groupID,
		},
	}
}

func TestResolveGroupSlug(t *testing.T) {
	ctx := context.Background()
	mockRepo := mock.NewMockRepository()
	directory := mock.NewMockCollectionDirectory(mockRepo)

	tests := []struct {
		name          string
		groupName     string
		setupMock     func()
		expectedSlug  string
		expectedDel   []string
		expectedError error
	}{
		{
			name:         "free base slug",
			groupName:    "Panda Studies",
			setupMock:    func() {},
			expectedSlug: "panda-studies",
			expectedDel:  []string{},
		},
		{
			name:      "base held by another group",
			groupName: "Panda Studies",
			setupMock: func() {
				mockRepo.AddCollection(commonsCollection("panda-studies", "99", false))
			},
			expectedSlug: "panda-studies-1",
			expectedDel:  []string{},
		},
		{
			name:      "deleted collections of the same group are reported",
			groupName: "Panda Studies",
			setupMock: func() {
				mockRepo.AddCollection(commonsCollection("panda-studies", "12", true))
				mockRepo.AddCollection(commonsCollection("panda-studies-1", "99", false))
				mockRepo.AddCollection(commonsCollection("panda-studies-2", "12", true))
			},
			expectedSlug: "panda-studies-3",
			expectedDel:  []string{"panda-studies", "panda-studies-2"},
		},
		{
			name:      "active collection of the same group",
			groupName: "Panda Studies",
			setupMock: func() {
				mockRepo.AddCollection(commonsCollection("panda-studies", "12", true))
				mockRepo.AddCollection(commonsCollection("panda-studies-1", "12", false))
			},
			expectedError: errs.Conflict{},
		},
		{
			name:      "attempts exhausted",
			groupName: "Panda Studies",
			setupMock: func() {
				mockRepo.AddCollection(commonsCollection("panda-studies", "99", false))
				for i := 1; i < constants.MaxSlugAttempts; i++ {
					mockRepo.AddCollection(commonsCollection(fmt.Sprintf("panda-studies-%d", i), "99", false))
				}
			},
			expectedError: errs.Conflict{},
		},
		{
			name:      "directory failure",
			groupName: "Panda Studies",
			setupMock: func() {
				mockRepo.SetError(mock.OpGetCollection, "panda-studies", errs.NewServiceUnavailable("kv unavailable"))
			},
			expectedError: errs.ServiceUnavailable{},
		},
		{
			name:          "name without usable characters",
			groupName:     "???",
			setupMock:     func() {},
			expectedError: errs.Validation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ClearAll()
			tt.setupMock()

			resolution, err := ResolveGroupSlug(ctx, directory, "12", tt.groupName, testInstance)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.IsType(t, tt.expectedError, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSlug, resolution.FreshSlug)
			assert.Equal(t, tt.expectedDel, resolution.DeletedSlugs)
		})
	}

	mockRepo.ClearAll()
}
