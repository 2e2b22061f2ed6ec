// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "time"

// Collection access settings applied to every group collection
const (
	CollectionVisibilityRestricted = "restricted"
	CollectionPolicyClosed         = "closed"
)

// Membership
const (
	// AdministratorGroupID is the local group added as manager of every collection
	AdministratorGroupID = "administrator"
	// ManagerRole is the collection role granted to AdministratorGroupID
	ManagerRole = "manager"
	// DefaultPermissionLevel receives remote roles missing from the mapping
	DefaultPermissionLevel = "reader"
	// AdministratorRole is the canonical name for admin style remote roles
	AdministratorRole = "administrator"

	MemberTypeGroup = "group"
	MemberTypeUser  = "user"
)

// Slug and role naming
const (
	SlugMaxLength = 100
	// MaxSlugAttempts bounds the base, base-1, ... candidate sequence
	MaxSlugAttempts = 100
	// RoleSlugSeparator joins the idp and the remote group id
	RoleSlugSeparator = "---"
	// RoleNameSeparator joins the role slug and the role
	RoleNameSeparator = "|"
)

// Search
const (
	SearchMinSize     = 4
	SearchMaxSize     = 1000
	SearchDefaultSize = 10
	SearchDefaultPage = 1

	SortTitle            = "title"
	SortCreated          = "created"
	SortUpdated          = "updated"
	SortCommonsGroupID   = "commons_group_id"
	SortCommonsGroupName = "commons_group_name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// CommonsRequestTimeout bounds metadata and avatar requests to a Commons instance
const CommonsRequestTimeout = 15 * time.Second
