// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Group is a row of the legacy groups table.
type Group struct {
	ID          int64   `json:"id"`
	GroupName   string  `json:"group_name" validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Slug        string  `json:"slug" validate:"required,max=255"`
	InvenioRole *string `json:"invenio_role,omitempty" validate:"omitempty,max=255"`
}

// Validate checks the column limits of the row.
func (g *Group) Validate() error {
	return validateStruct(g)
}
