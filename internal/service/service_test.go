// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/pkg/constants"
)

const (
	testInstance   = "knowledgeCommons"
	testGroupURL   = "https://commons.test/groups/12"
	testAvatarURL  = "https://commons.test/avatars/12.png"
	testDefaultURL = "https://commons.test/avatars/default.png"
)

func testConfig() *config.Config {
	return &config.Config{
		IdentityProviders: map[string]config.IdentityProvider{
			testInstance: {Title: "Knowledge Commons"},
		},
		MetadataEndpoints: map[string]config.MetadataEndpoint{
			testInstance: {
				URL:           "https://commons.test/groups/{id}",
				TokenName:     "TEST_COMMONS_TOKEN",
				DefaultAvatar: testDefaultURL,
			},
		},
		RemoteDataEndpoints: map[string]config.RemoteDataEndpoint{
			testInstance: {
				EntityTypes: map[string]config.EntityTypeConfig{
					constants.EntityTypeUsers:  {Events: []string{"updated"}},
					constants.EntityTypeGroups: {Events: []string{"created", "updated", "deleted"}},
				},
				Groups: config.GroupsConfig{
					GroupRoles: map[string][]string{
						"administrator": {"administrator", "admin"},
						"curator":       {"moderator"},
					},
				},
			},
		},
	}
}
