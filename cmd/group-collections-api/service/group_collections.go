// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// createCollectionBody is the payload a Commons instance posts to create a collection.
type createCollectionBody struct {
	CommonsInstance        string         `json:"commons_instance"`
	CommonsGroupID         model.EntityID `json:"commons_group_id"`
	CommonsGroupName       string         `json:"commons_group_name,omitempty"`
	CommonsGroupVisibility string         `json:"commons_group_visibility,omitempty"`
}

// searchHits wraps the matches of a search with their total.
type searchHits struct {
	Hits  []*model.Collection `json:"hits"`
	Total int                 `json:"total"`
}

// searchResult is the body of a collection search.
type searchResult struct {
	Hits   searchHits `json:"hits"`
	SortBy string     `json:"sortBy"`
	Page   int        `json:"page"`
	Size   int        `json:"size"`
}

// SearchCollections lists the collections of a Commons instance or group.
func (a *GroupCollectionsAPI) SearchCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, err := queryInt(r, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includeDeleted, err := queryBool(r, "include_deleted")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := a.collections.Search(ctx, model.CollectionSearch{
		CommonsInstance: query.Get("commons_instance"),
		CommonsGroupID:  query.Get("commons_group_id"),
		Page:            page,
		Size:            size,
		Sort:            query.Get("sort"),
		Order:           query.Get("order"),
		IncludeDeleted:  includeDeleted,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, searchResult{
		Hits:   searchHits{Hits: result.Hits, Total: result.Total},
		SortBy: result.SortBy,
		Page:   result.Page,
		Size:   result.Size,
	})
}

// ReadCollection returns one collection by slug.
func (a *GroupCollectionsAPI) ReadCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collection, err := a.collections.Read(ctx, a.pathParam(r, "slug"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	setETag(w, collection.Revision)
	writeJSON(ctx, w, http.StatusOK, collection)
}

// CreateCollection creates the collection of a Commons group.
func (a *GroupCollectionsAPI) CreateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createCollectionBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}
	restoreDeleted, err := queryBool(r, "restore_deleted")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := a.collections.Create(ctx, model.CreateCollectionRequest{
		CommonsInstance:        body.CommonsInstance,
		CommonsGroupID:         string(body.CommonsGroupID),
		CommonsGroupName:       body.CommonsGroupName,
		CommonsGroupVisibility: body.CommonsGroupVisibility,
		RestoreDeleted:         restoreDeleted,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, result)
}

// DeleteCollection soft deletes a collection on behalf of the group owning it.
func (a *GroupCollectionsAPI) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	err := a.collections.Delete(ctx, a.pathParam(r, "slug"), query.Get("commons_instance"), query.Get("commons_group_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateCollection is routed but not supported yet.
func (a *GroupCollectionsAPI) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.collections.Update(ctx, a.pathParam(r, "slug")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
