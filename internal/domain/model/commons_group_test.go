// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonsGroup_AllRoles(t *testing.T) {
	tests := []struct {
		name     string
		group    CommonsGroup
		expected []string
	}{
		{
			name:     "no roles",
			group:    CommonsGroup{},
			expected: []string{},
		},
		{
			name: "overlapping roles are deduplicated",
			group: CommonsGroup{
				ModerateRoles: []string{"admin", "moderator"},
				UploadRoles:   []string{"member", "moderator", "admin"},
			},
			expected: []string{"admin", "moderator", "member"},
		},
		{
			name:     "upload only",
			group:    CommonsGroup{UploadRoles: []string{"member"}},
			expected: []string{"member"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.group.AllRoles())
		})
	}
}
