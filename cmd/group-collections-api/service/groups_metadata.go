// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// CreateGroupsMetadata stores a new group metadata record.
func (a *GroupCollectionsAPI) CreateGroupsMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var record model.GroupMetadata
	if err := decodeJSON(r, &record); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, revision, err := a.metadata.Create(ctx, &record)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setETag(w, revision)
	writeJSON(ctx, w, http.StatusCreated, created)
}

// FindGroupsMetadata returns the live record of the group named by ?group_id=.
func (a *GroupCollectionsAPI) FindGroupsMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, revision, err := a.metadata.GetByGroupID(ctx, r.URL.Query().Get("group_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setETag(w, revision)
	writeJSON(ctx, w, http.StatusOK, record)
}

// GetGroupsMetadata returns one record by id.
func (a *GroupCollectionsAPI) GetGroupsMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, revision, err := a.metadata.Get(ctx, a.pathParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setETag(w, revision)
	writeJSON(ctx, w, http.StatusOK, record)
}

// UpdateGroupsMetadata replaces a record, honouring If-Match.
func (a *GroupCollectionsAPI) UpdateGroupsMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expected, err := parseIfMatch(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var record model.GroupMetadata
	if err := decodeJSON(r, &record); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, revision, err := a.metadata.Update(ctx, a.pathParam(r, "id"), &record, expected)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setETag(w, revision)
	writeJSON(ctx, w, http.StatusOK, updated)
}

// DeleteGroupsMetadata soft deletes a record, honouring If-Match.
func (a *GroupCollectionsAPI) DeleteGroupsMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expected, err := parseIfMatch(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := a.metadata.Delete(ctx, a.pathParam(r, "id"), expected); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
