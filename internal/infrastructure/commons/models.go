// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package commons

import "github.com/mesh-research/group-collections-service/internal/domain/model"

// GroupResponse is the group document served by a Commons metadata endpoint
type GroupResponse struct {
	ID            any      `json:"id,omitempty"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Visibility    string   `json:"visibility"`
	URL           string   `json:"url"`
	Avatar        string   `json:"avatar"`
	UploadRoles   []string `json:"upload_roles"`
	ModerateRoles []string `json:"moderate_roles"`
}

// ToModel converts the response into the domain representation
func (g *GroupResponse) ToModel() *model.CommonsGroup {
	return &model.CommonsGroup{
		Name:          g.Name,
		Description:   g.Description,
		Visibility:    g.Visibility,
		URL:           g.URL,
		Avatar:        g.Avatar,
		UploadRoles:   g.UploadRoles,
		ModerateRoles: g.ModerateRoles,
	}
}
