// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain entities of the group collections service.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// Sentinels reported by collection directories. They travel wrapped in the
// typed errors of pkg/errors.
var (
	// ErrSlugTaken is reported when a slug is already held by any collection, deleted or not.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrAlreadyMember is reported when a member is added twice to a collection.
	ErrAlreadyMember = errors.New("already a member")
)

// Collection is a content grouping owned by a Commons group.
type Collection struct {
	ID                  string              `json:"id"`
	Slug                string              `json:"slug"`
	Access              CollectionAccess    `json:"access"`
	Metadata            CollectionMetadata  `json:"metadata"`
	CustomFields        CommonsCustomFields `json:"custom_fields"`
	Members             []Member            `json:"members,omitempty"`
	Logo                string              `json:"logo,omitempty"`
	IsDeleted           bool                `json:"is_deleted"`
	DeletedAt           *time.Time          `json:"deleted_at,omitempty"`
	DeletionRequestOpen bool                `json:"deletion_request_open"`
	CreatedAt           time.Time           `json:"created"`
	UpdatedAt           time.Time           `json:"updated"`
	Revision            uint64              `json:"revision_id"`
}

// CollectionAccess holds the access policy of a collection.
type CollectionAccess struct {
	Visibility   string `json:"visibility"`
	MemberPolicy string `json:"member_policy"`
	RecordPolicy string `json:"record_policy"`
}

// CollectionMetadata is the descriptive metadata shown for a collection.
type CollectionMetadata struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	CurationPolicy string         `json:"curation_policy"`
	Page           string         `json:"page"`
	Website        string         `json:"website,omitempty"`
	Organizations  []Organization `json:"organizations"`
}

// Organization names an organization related to a collection.
type Organization struct {
	Name string `json:"name"`
}

// CommonsCustomFields ties a collection to the Commons group that owns it.
type CommonsCustomFields struct {
	CommonsInstance         string `json:"kcr:commons_instance,omitempty"`
	CommonsGroupID          string `json:"kcr:commons_group_id,omitempty"`
	CommonsGroupName        string `json:"kcr:commons_group_name,omitempty"`
	CommonsGroupDescription string `json:"kcr:commons_group_description,omitempty"`
	CommonsGroupVisibility  string `json:"kcr:commons_group_visibility,omitempty"`
}

// Member is a user or group holding a role in a collection.
type Member struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Role string `json:"role"`
}

// NewGroupCollection builds the collection record for a Commons group.
// The slug and the system fields are filled in by the caller and the directory.
func NewGroupCollection(instance, instanceTitle, groupID string, group *CommonsGroup) *Collection {
	return &Collection{
		Access: CollectionAccess{
			Visibility:   constants.CollectionVisibilityRestricted,
			MemberPolicy: constants.CollectionPolicyClosed,
			RecordPolicy: constants.CollectionPolicyClosed,
		},
		Metadata: CollectionMetadata{
			Title:       group.Name,
			Description: fmt.Sprintf("A collection managed by the %s group of %s", group.Name, instanceTitle),
			Page:        fmt.Sprintf("This is a collection of works curated by the %s group of %s", group.Name, instanceTitle),
			Website:     group.URL,
			Organizations: []Organization{
				{Name: group.Name},
				{Name: instanceTitle},
			},
		},
		CustomFields: CommonsCustomFields{
			CommonsInstance:         instance,
			CommonsGroupID:          groupID,
			CommonsGroupName:        group.Name,
			CommonsGroupDescription: group.Description,
			CommonsGroupVisibility:  group.Visibility,
		},
	}
}

// BelongsTo reports whether the collection is owned by the given group.
func (c *Collection) BelongsTo(instance, groupID string) bool {
	return c.CustomFields.CommonsInstance == instance && c.CustomFields.CommonsGroupID == groupID
}

// HasMember reports whether member already holds any role in the collection.
func (c *Collection) HasMember(member Member) bool {
	for _, m := range c.Members {
		if m.Type == member.Type && m.ID == member.ID {
			return true
		}
	}
	return false
}

// IsCommonsCollection reports whether the collection carries a commons instance custom field.
func (c *Collection) IsCommonsCollection() bool {
	return c.CustomFields.CommonsInstance != ""
}

// CreatedResult is returned to the Commons instance after a collection is created.
type CreatedResult struct {
	CommonsGroupID string `json:"commons_group_id"`
	Collection     string `json:"collection"`
}

// CreateCollectionRequest asks for a collection owned by a Commons group.
type CreateCollectionRequest struct {
	CommonsInstance        string
	CommonsGroupID         string
	CommonsGroupName       string
	CommonsGroupVisibility string
	RestoreDeleted         bool
}
