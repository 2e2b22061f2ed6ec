// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "keeps caller request id", incoming: "req-123"},
		{name: "generates request id when missing", incoming: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/group_collections", nil)
			if tc.incoming != "" {
				req.Header.Set(constants.RequestIDHeader, tc.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			} else {
				assert.Len(t, seen, 36)
			}
			assert.Equal(t, seen, rec.Header().Get(constants.RequestIDHeader))
		})
	}
}

func TestWebhookBodyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		maxBytes   int64
		wantStatus int
		wantBody   string
	}{
		{
			name:       "buffers webhook body",
			path:       constants.WebhookPath,
			body:       `{"idp":"knowledgeCommons","updates":{}}`,
			maxBytes:   1024,
			wantStatus: http.StatusOK,
			wantBody:   `{"idp":"knowledgeCommons","updates":{}}`,
		},
		{
			name:       "rejects oversized webhook body",
			path:       constants.WebhookPath,
			body:       strings.Repeat("a", 64),
			maxBytes:   16,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ignores other paths",
			path:       "/group_collections",
			body:       strings.Repeat("a", 64),
			maxBytes:   16,
			wantStatus: http.StatusOK,
			wantBody:   strings.Repeat("a", 64),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := WebhookBodyMiddleware(constants.WebhookPath, tc.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				got = string(body)
			}))

			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantBody, got)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/group_collections", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error","status":500}`, rec.Body.String())
}

func TestMetricsMiddlewarePassesStatusThrough(t *testing.T) {
	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/group_collections/pandas", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/group_collections", "/group_collections"},
		{"/group_collections/panda-studies", "/group_collections/{id}"},
		{"/groups_metadata/0b9a1c", "/groups_metadata/{id}"},
		{"/webhooks/idp_data_update", "/webhooks/idp_data_update"},
		{"/", "/"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, RouteLabel(tc.path))
		})
	}
}
