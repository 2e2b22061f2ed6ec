// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// GroupRoleSlug joins an identity provider and a remote group id.
func GroupRoleSlug(idp, groupID string) string {
	return idp + constants.RoleSlugSeparator + groupID
}

// FormatGroupRoleName builds the local role name for a remote group role.
// "admin" and "administrator" both become "administrator".
func FormatGroupRoleName(role, idp, groupID string) string {
	if role == "admin" || role == constants.AdministratorRole {
		role = constants.AdministratorRole
	}
	return GroupRoleSlug(idp, groupID) + constants.RoleNameSeparator + role
}

// MapRemoteRolesToPermissions groups the local role names for roles under the
// permission level each is configured for. Every configured level is present
// in the result; roles no level claims fall back to the reader level.
func MapRemoteRolesToPermissions(cfg *config.Config, slug string, roles []string) (map[string][]string, error) {
	idp, groupID, ok := strings.Cut(slug, constants.RoleSlugSeparator)
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("invalid group role slug: %s", slug))
	}

	levels := cfg.GroupRoles(idp)
	if len(levels) == 0 {
		return nil, errors.NewUnexpected(fmt.Sprintf("no group_roles configuration found for IDP '%s'", idp))
	}

	result := make(map[string][]string, len(levels)+1)
	assigned := make(map[string]struct{}, len(roles))

	for level, remoteRoles := range levels {
		result[level] = []string{}
		for _, role := range roles {
			if !slices.Contains(remoteRoles, role) {
				continue
			}
			result[level] = append(result[level], FormatGroupRoleName(role, idp, groupID))
			assigned[role] = struct{}{}
		}
	}

	for _, role := range roles {
		if _, ok := assigned[role]; ok {
			continue
		}
		assigned[role] = struct{}{}
		result[constants.DefaultPermissionLevel] = append(result[constants.DefaultPermissionLevel], FormatGroupRoleName(role, idp, groupID))
	}

	return result, nil
}
