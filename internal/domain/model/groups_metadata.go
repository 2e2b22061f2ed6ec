// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"time"
)

// GroupMetadata is a versioned record describing a remote group and the
// roles it maps to locally.
type GroupMetadata struct {
	ID           string              `json:"id"`
	Access       GroupMetadataAccess `json:"access"`
	Metadata     GroupMetadataInfo   `json:"metadata"`
	InvenioRoles GroupInvenioRoles   `json:"invenio_roles"`
	CreatedAt    time.Time           `json:"created"`
	UpdatedAt    time.Time           `json:"updated"`
	Revision     uint64              `json:"revision_id"`
	IsDeleted    bool                `json:"is_deleted"`
}

// GroupMetadataAccess describes who can see the group and who may upload or accept records.
type GroupMetadataAccess struct {
	GroupPrivacy     string   `json:"group_privacy" validate:"required,oneof=public private hidden"`
	CommunityPrivacy string   `json:"community_privacy" validate:"required,oneof=public private hidden none"`
	CanUpload        []string `json:"can_upload" validate:"required,dive,oneof=members moderators administrators none"`
	CanAccept        []string `json:"can_accept" validate:"required,dive,oneof=members moderators administrators none"`
}

// GroupMetadataInfo is the descriptive part of a group metadata record.
type GroupMetadataInfo struct {
	GroupID          string `json:"group_id" validate:"required,min=1,max=250,lowercase"`
	GroupName        string `json:"group_name" validate:"required,min=1,max=2000"`
	GroupDescription string `json:"group_description,omitempty" validate:"max=2000"`
	GroupURL         string `json:"group_url,omitempty" validate:"omitempty,url"`
	ProfileImage     string `json:"profile_image,omitempty" validate:"max=250"`
	HasCommunity     *bool  `json:"has_community" validate:"required"`
}

// GroupInvenioRoles names the local roles granted to each remote group tier.
type GroupInvenioRoles struct {
	Administrator string `json:"administrator" validate:"required,min=1,max=250"`
	Moderator     string `json:"moderator" validate:"required,min=1,max=250"`
	Member        string `json:"member" validate:"required,min=1,max=250"`
}

// Validate checks the caller-supplied fields of the record.
func (g *GroupMetadata) Validate() error {
	return validateStruct(g)
}

// Normalize trims surrounding whitespace from the free text fields.
func (g *GroupMetadata) Normalize() {
	g.Metadata.GroupID = strings.TrimSpace(g.Metadata.GroupID)
	g.Metadata.GroupName = strings.TrimSpace(g.Metadata.GroupName)
	g.Metadata.GroupDescription = strings.TrimSpace(g.Metadata.GroupDescription)
	g.Metadata.GroupURL = strings.TrimSpace(g.Metadata.GroupURL)
}
