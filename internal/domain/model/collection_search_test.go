// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

func TestCollectionSearch_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		search    CollectionSearch
		expectErr bool
		expected  CollectionSearch
	}{
		{
			name:   "defaults",
			search: CollectionSearch{},
			expected: CollectionSearch{
				Page:  constants.SearchDefaultPage,
				Size:  constants.SearchDefaultSize,
				Sort:  constants.SortTitle,
				Order: constants.OrderAsc,
			},
		},
		{
			name:   "explicit values kept",
			search: CollectionSearch{Page: 3, Size: 4, Sort: constants.SortUpdated, Order: constants.OrderDesc},
			expected: CollectionSearch{
				Page:  3,
				Size:  4,
				Sort:  constants.SortUpdated,
				Order: constants.OrderDesc,
			},
		},
		{name: "negative page", search: CollectionSearch{Page: -1}, expectErr: true},
		{name: "size below minimum", search: CollectionSearch{Size: 3}, expectErr: true},
		{name: "size above maximum", search: CollectionSearch{Size: 1001}, expectErr: true},
		{name: "unknown sort", search: CollectionSearch{Sort: "newest"}, expectErr: true},
		{name: "unknown order", search: CollectionSearch{Order: "sideways"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.search
			err := s.Normalize()
			if tt.expectErr {
				require.Error(t, err)
				assert.IsType(t, errors.Validation{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestCollectionSearch_Matches(t *testing.T) {
	active := &Collection{CustomFields: CommonsCustomFields{CommonsInstance: "knowledgeCommons", CommonsGroupID: "12"}}
	deleted := &Collection{IsDeleted: true, CustomFields: CommonsCustomFields{CommonsInstance: "knowledgeCommons", CommonsGroupID: "12"}}
	plain := &Collection{}

	tests := []struct {
		name       string
		search     CollectionSearch
		collection *Collection
		expected   bool
	}{
		{"no filters", CollectionSearch{}, active, true},
		{"instance filter matches", CollectionSearch{CommonsInstance: "knowledgeCommons"}, active, true},
		{"instance filter rejects", CollectionSearch{CommonsInstance: "msuCommons"}, active, false},
		{"group filter rejects", CollectionSearch{CommonsGroupID: "13"}, active, false},
		{"deleted hidden by default", CollectionSearch{}, deleted, false},
		{"deleted included on request", CollectionSearch{IncludeDeleted: true}, deleted, true},
		{"non commons collection never matches", CollectionSearch{}, plain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.search.Matches(tt.collection))
		})
	}
}

func TestCollectionSearch_Paginate(t *testing.T) {
	now := time.Now()
	build := func() []*Collection {
		return []*Collection{
			{Slug: "b", Metadata: CollectionMetadata{Title: "Bees"}, CreatedAt: now.Add(2 * time.Hour)},
			{Slug: "a", Metadata: CollectionMetadata{Title: "ants"}, CreatedAt: now.Add(3 * time.Hour)},
			{Slug: "d", Metadata: CollectionMetadata{Title: "Dogs"}, CreatedAt: now},
			{Slug: "c", Metadata: CollectionMetadata{Title: "cats"}, CreatedAt: now.Add(time.Hour)},
			{Slug: "e", Metadata: CollectionMetadata{Title: "Eels"}, CreatedAt: now.Add(4 * time.Hour)},
		}
	}

	slugs := func(r *CollectionSearchResult) []string {
		out := make([]string, 0, len(r.Hits))
		for _, h := range r.Hits {
			out = append(out, h.Slug)
		}
		return out
	}

	t.Run("title ascending first page", func(t *testing.T) {
		s := CollectionSearch{Size: 4}
		require.NoError(t, s.Normalize())
		r := s.Paginate(build())
		assert.Equal(t, 5, r.Total)
		assert.Equal(t, []string{"a", "b", "c", "d"}, slugs(r))
		assert.Equal(t, constants.SortTitle, r.SortBy)
	})

	t.Run("title ascending second page", func(t *testing.T) {
		s := CollectionSearch{Size: 4, Page: 2}
		require.NoError(t, s.Normalize())
		r := s.Paginate(build())
		assert.Equal(t, []string{"e"}, slugs(r))
	})

	t.Run("created descending", func(t *testing.T) {
		s := CollectionSearch{Size: 4, Sort: constants.SortCreated, Order: constants.OrderDesc}
		require.NoError(t, s.Normalize())
		r := s.Paginate(build())
		assert.Equal(t, []string{"e", "a", "b", "c"}, slugs(r))
	})

	t.Run("page past the end", func(t *testing.T) {
		s := CollectionSearch{Size: 4, Page: 9}
		require.NoError(t, s.Normalize())
		r := s.Paginate(build())
		assert.Equal(t, 5, r.Total)
		assert.Empty(t, r.Hits)
	})
}
