// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"goa.design/clue/health"

	apiservice "github.com/mesh-research/group-collections-service/cmd/group-collections-api/service"
	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/auth"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	"github.com/mesh-research/group-collections-service/internal/service"
	"github.com/mesh-research/group-collections-service/pkg/constants"
)

func newTestServerHandler(checks ...health.Pinger) http.Handler {
	repo := mock.NewMockRepository()
	repo.ClearAll()
	cfg := config.DefaultConfig()

	api := apiservice.NewGroupCollectionsAPI(
		mock.NewMockAuthService(),
		auth.NewWebhookTokenAuth(""),
		service.NewGroupCollectionsOrchestrator(
			service.WithConfig(cfg),
			service.WithCollectionDirectory(mock.NewMockCollectionDirectory(repo)),
			service.WithRoleStore(mock.NewMockRoleStore(repo)),
			service.WithCommonsGroupFetcher(mock.NewMockCommonsGroupFetcher(repo)),
		),
		service.NewRemoteDataWebhookProcessor(
			service.WithWebhookConfig(cfg),
			service.WithUserIdentityReader(mock.NewMockUserIdentityReader(repo)),
			service.WithMessagePublisher(mock.NewMockMessagePublisher(repo)),
		),
		service.NewGroupsMetadataOrchestrator(
			service.WithGroupsMetadataRepository(mock.NewMockGroupsMetadataRepository(repo)),
		),
	)

	return newHTTPHandler(api, checks...)
}

func TestHealthEndpointsAndMetrics(t *testing.T) {
	ok := readinessCheck{name: "collections", check: func(context.Context) error { return nil }}
	down := readinessCheck{name: "nats", check: func(context.Context) error { return stderrors.New("connection closed") }}

	tests := []struct {
		name       string
		checks     []health.Pinger
		path       string
		wantStatus int
	}{
		{name: "liveness", path: "/livez", wantStatus: http.StatusOK},
		{name: "ready", checks: []health.Pinger{ok}, path: "/readyz", wantStatus: http.StatusOK},
		{name: "not ready", checks: []health.Pinger{ok, down}, path: "/readyz", wantStatus: http.StatusServiceUnavailable},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServerHandler(tc.checks...)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestMiddlewareChain(t *testing.T) {
	handler := newTestServerHandler()

	req := httptest.NewRequest(http.MethodGet, constants.WebhookPath, nil)
	req.Header.Set(constants.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(constants.RequestIDHeader))
	assert.JSONEq(t, `{"message":"Webhook receiver is active","status":200}`, rec.Body.String())
}
