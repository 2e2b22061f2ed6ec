// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// CollectionSearch holds the filters and paging of a collection search.
type CollectionSearch struct {
	CommonsInstance string
	CommonsGroupID  string
	Page            int
	Size            int
	Sort            string
	Order           string
	IncludeDeleted  bool
}

// CollectionSearchResult is one page of matching collections.
type CollectionSearchResult struct {
	Hits   []*Collection
	Total  int
	Page   int
	Size   int
	SortBy string
}

var sortFields = map[string]func(a, b *Collection) int{
	constants.SortTitle: func(a, b *Collection) int {
		return strings.Compare(strings.ToLower(a.Metadata.Title), strings.ToLower(b.Metadata.Title))
	},
	constants.SortCreated: func(a, b *Collection) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
	constants.SortUpdated: func(a, b *Collection) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	},
	constants.SortCommonsGroupID: func(a, b *Collection) int {
		return strings.Compare(a.CustomFields.CommonsGroupID, b.CustomFields.CommonsGroupID)
	},
	constants.SortCommonsGroupName: func(a, b *Collection) int {
		return strings.Compare(strings.ToLower(a.CustomFields.CommonsGroupName), strings.ToLower(b.CustomFields.CommonsGroupName))
	},
}

// Normalize fills in paging defaults and validates the search parameters.
func (s *CollectionSearch) Normalize() error {
	if s.Page == 0 {
		s.Page = constants.SearchDefaultPage
	}
	if s.Page < 1 {
		return errors.NewValidation("page must be 1 or greater")
	}

	if s.Size == 0 {
		s.Size = constants.SearchDefaultSize
	}
	if s.Size < constants.SearchMinSize || s.Size > constants.SearchMaxSize {
		return errors.NewValidation(fmt.Sprintf("size must be between %d and %d", constants.SearchMinSize, constants.SearchMaxSize))
	}

	if s.Sort == "" {
		s.Sort = constants.SortTitle
	}
	if _, ok := sortFields[s.Sort]; !ok {
		return errors.NewValidation(fmt.Sprintf("unsupported sort field: %s", s.Sort))
	}

	switch s.Order {
	case "":
		s.Order = constants.OrderAsc
	case constants.OrderAsc, constants.OrderDesc:
	default:
		return errors.NewValidation(fmt.Sprintf("unsupported sort order: %s", s.Order))
	}

	return nil
}

// Matches reports whether c satisfies the search filters.
// Only collections owned by a commons instance ever match.
func (s *CollectionSearch) Matches(c *Collection) bool {
	if !c.IsCommonsCollection() {
		return false
	}
	if c.IsDeleted && !s.IncludeDeleted {
		return false
	}
	if s.CommonsInstance != "" && c.CustomFields.CommonsInstance != s.CommonsInstance {
		return false
	}
	if s.CommonsGroupID != "" && c.CustomFields.CommonsGroupID != s.CommonsGroupID {
		return false
	}
	return true
}

// Paginate sorts the matched collections and cuts out the requested page.
// Normalize must have been called first.
func (s *CollectionSearch) Paginate(matched []*Collection) *CollectionSearchResult {
	cmp := sortFields[s.Sort]
	sort.SliceStable(matched, func(i, j int) bool {
		c := cmp(matched[i], matched[j])
		if c == 0 {
			return matched[i].Slug < matched[j].Slug
		}
		if s.Order == constants.OrderDesc {
			return c > 0
		}
		return c < 0
	})

	result := &CollectionSearchResult{
		Total:  len(matched),
		Page:   s.Page,
		Size:   s.Size,
		SortBy: s.Sort,
		Hits:   []*Collection{},
	}

	start := (s.Page - 1) * s.Size
	if start >= len(matched) {
		return result
	}
	end := start + s.Size
	if end > len(matched) {
		end = len(matched)
	}
	result.Hits = matched[start:end]
	return result
}
