// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// CommonsGroup is the group metadata served by a Commons instance.
type CommonsGroup struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Visibility    string   `json:"visibility"`
	URL           string   `json:"url"`
	Avatar        string   `json:"avatar"`
	UploadRoles   []string `json:"upload_roles"`
	ModerateRoles []string `json:"moderate_roles"`
}

// AllRoles returns the union of moderate and upload roles in first-seen order.
func (g *CommonsGroup) AllRoles() []string {
	seen := make(map[string]struct{}, len(g.ModerateRoles)+len(g.UploadRoles))
	roles := make([]string, 0, len(g.ModerateRoles)+len(g.UploadRoles))
	for _, list := range [][]string{g.ModerateRoles, g.UploadRoles} {
		for _, r := range list {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
	}
	return roles
}

// Avatar is a downloaded group image.
type Avatar struct {
	ContentType string
	Data        []byte
}
