// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/pkg/constants"
)

func TestRemoteDataWebhook(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          string
		token         string
		wantStatus    int
		wantMessage   string
		wantPublished int
	}{
		{
			name:          "accepts group updates",
			method:        http.MethodPost,
			body:          `{"idp":"knowledgeCommons","updates":{"groups":[{"id":"1004290","event":"updated"}]}}`,
			token:         testWebhookToken,
			wantStatus:    http.StatusAccepted,
			wantMessage:   constants.WebhookAcceptedMessage,
			wantPublished: 2,
		},
		{
			name:          "accepts known users",
			method:        http.MethodPost,
			body:          `{"idp":"knowledgeCommons","updates":{"users":[{"id":"panda","event":"updated"}]}}`,
			token:         testWebhookToken,
			wantStatus:    http.StatusAccepted,
			wantMessage:   constants.WebhookAcceptedMessage,
			wantPublished: 2,
		},
		{
			name:       "unknown users only",
			method:     http.MethodPost,
			body:       `{"idp":"knowledgeCommons","updates":{"users":[{"id":"koala","event":"updated"}]}}`,
			token:      testWebhookToken,
			wantStatus: http.StatusNotFound,
		},
		{
			name:          "bad event next to a good one is still published",
			method:        http.MethodPost,
			body:          `{"idp":"knowledgeCommons","updates":{"groups":[{"id":"1","event":"updated"},{"id":"2","event":"exploded"}]}}`,
			token:         testWebhookToken,
			wantStatus:    http.StatusBadRequest,
			wantPublished: 2,
		},
		{
			name:       "unknown idp",
			method:     http.MethodPost,
			body:       `{"idp":"elsewhere","updates":{"groups":[{"id":"1","event":"updated"}]}}`,
			token:      testWebhookToken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			body:       `{"idp":`,
			token:      testWebhookToken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing token",
			method:     http.MethodPost,
			body:       `{"idp":"knowledgeCommons","updates":{"groups":[{"id":"1","event":"updated"}]}}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong token",
			method:     http.MethodPost,
			body:       `{"idp":"knowledgeCommons","updates":{"groups":[{"id":"1","event":"updated"}]}}`,
			token:      "guess",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "status check",
			method:      http.MethodGet,
			wantStatus:  http.StatusOK,
			wantMessage: constants.WebhookActiveMessage,
		},
		{
			name:        "put not allowed",
			method:      http.MethodPut,
			body:        `{}`,
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "Method not allowed",
		},
		{
			name:        "delete not allowed",
			method:      http.MethodDelete,
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "Method not allowed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, repo := newTestHandler(t)
			repo.AddUserIdentity(&model.UserIdentity{ID: "panda", Method: testInstance, UserID: "7"})

			var headers map[string]string
			if tc.token != "" {
				headers = bearer(tc.token)
			}
			rec := serve(handler, tc.method, constants.WebhookPath, tc.body, headers)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			var body messageResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantStatus, body.Status)
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, body.Message)
			}
			assert.Len(t, repo.Published(), tc.wantPublished)
		})
	}
}
