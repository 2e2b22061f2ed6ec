// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the HTTP endpoints of the group collections API.
package service

import (
	"context"
	"log/slog"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/service"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/log"
)

// GroupCollectionsAPI serves the collection, webhook and groups metadata routes.
type GroupCollectionsAPI struct {
	auth        port.Authenticator
	webhookAuth port.Authenticator
	collections service.GroupCollectionsService
	webhook     service.RemoteDataWebhookProcessor
	metadata    service.GroupsMetadataService
	vars        func(*http.Request) map[string]string
}

// NewGroupCollectionsAPI returns the API implementation.
func NewGroupCollectionsAPI(
	auth port.Authenticator,
	webhookAuth port.Authenticator,
	collections service.GroupCollectionsService,
	webhook service.RemoteDataWebhookProcessor,
	metadata service.GroupsMetadataService,
) *GroupCollectionsAPI {
	return &GroupCollectionsAPI{
		auth:        auth,
		webhookAuth: webhookAuth,
		collections: collections,
		webhook:     webhook,
		metadata:    metadata,
	}
}

// Mount registers every route on mux.
func (a *GroupCollectionsAPI) Mount(mux goahttp.Muxer) {
	a.vars = mux.Vars

	for _, base := range []string{"/group_collections", "/group_collections/"} {
		mux.Handle(http.MethodGet, base, a.authenticated(a.SearchCollections))
		mux.Handle(http.MethodPost, base, a.authenticated(a.CreateCollection))
	}
	mux.Handle(http.MethodGet, "/group_collections/{slug}", a.authenticated(a.ReadCollection))
	mux.Handle(http.MethodDelete, "/group_collections/{slug}", a.authenticated(a.DeleteCollection))
	mux.Handle(http.MethodPatch, "/group_collections/{slug}", a.authenticated(a.UpdateCollection))

	mux.Handle(http.MethodPost, constants.WebhookPath, a.ReceiveRemoteDataUpdate)
	mux.Handle(http.MethodGet, constants.WebhookPath, a.WebhookStatus)
	mux.Handle(http.MethodPut, constants.WebhookPath, a.WebhookMethodNotAllowed)
	mux.Handle(http.MethodDelete, constants.WebhookPath, a.WebhookMethodNotAllowed)

	mux.Handle(http.MethodPost, "/groups_metadata", a.authenticated(a.CreateGroupsMetadata))
	mux.Handle(http.MethodGet, "/groups_metadata", a.authenticated(a.FindGroupsMetadata))
	mux.Handle(http.MethodGet, "/groups_metadata/{id}", a.authenticated(a.GetGroupsMetadata))
	mux.Handle(http.MethodPut, "/groups_metadata/{id}", a.authenticated(a.UpdateGroupsMetadata))
	mux.Handle(http.MethodDelete, "/groups_metadata/{id}", a.authenticated(a.DeleteGroupsMetadata))
}

// authenticated rejects requests without a valid bearer token and stores the
// principal in the request context.
func (a *GroupCollectionsAPI) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			writeError(ctx, w, errors.NewUnauthorized("missing bearer token"))
			return
		}

		principal, err := a.auth.ParsePrincipal(ctx, token, slog.Default())
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
		ctx = log.AppendCtx(ctx, slog.String("principal", principal))
		next(w, r.WithContext(ctx))
	}
}

func (a *GroupCollectionsAPI) pathParam(r *http.Request, name string) string {
	if a.vars == nil {
		return ""
	}
	return a.vars(r)[name]
}
