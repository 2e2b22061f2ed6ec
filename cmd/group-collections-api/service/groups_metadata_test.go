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

const groupsMetadataBody = `{
	"access": {
		"group_privacy": "public",
		"community_privacy": "none",
		"can_upload": ["members"],
		"can_accept": ["moderators"]
	},
	"metadata": {
		"group_id": "panda-studies",
		"group_name": "Panda Studies",
		"group_url": "https://commons.test/groups/panda-studies",
		"has_community": false
	},
	"invenio_roles": {
		"administrator": "knowledgeCommons---12|administrator",
		"moderator": "knowledgeCommons---12|moderator",
		"member": "knowledgeCommons---12|member"
	}
}`

func TestGroupsMetadataLifecycle(t *testing.T) {
	handler, _ := newTestHandler(t)
	auth := bearer("token")

	rec := serve(handler, http.MethodPost, "/groups_metadata", groupsMetadataBody, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get(constants.ETagHeader))

	var created model.GroupMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "panda-studies", created.Metadata.GroupID)

	rec = serve(handler, http.MethodPost, "/groups_metadata", groupsMetadataBody, auth)
	assert.Equal(t, http.StatusConflict, rec.Code, "group_id is unique among live records")

	rec = serve(handler, http.MethodGet, "/groups_metadata?group_id=panda-studies", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(handler, http.MethodGet, "/groups_metadata/"+created.ID, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(constants.ETagHeader))

	withIfMatch := func(revision string) map[string]string {
		return map[string]string{
			constants.AuthorizationHeader: auth[constants.AuthorizationHeader],
			constants.IfMatchHeader:       revision,
		}
	}

	rec = serve(handler, http.MethodPut, "/groups_metadata/"+created.ID, groupsMetadataBody, withIfMatch(`"7"`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(handler, http.MethodPut, "/groups_metadata/"+created.ID, groupsMetadataBody, withIfMatch("not-a-revision"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(handler, http.MethodPut, "/groups_metadata/"+created.ID, groupsMetadataBody, withIfMatch(`"1"`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get(constants.ETagHeader))

	rec = serve(handler, http.MethodDelete, "/groups_metadata/"+created.ID, "", withIfMatch("1"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(handler, http.MethodDelete, "/groups_metadata/"+created.ID, "", withIfMatch("2"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(handler, http.MethodGet, "/groups_metadata/"+created.ID, "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupsMetadataValidation(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "missing required fields", method: http.MethodPost, target: "/groups_metadata", body: `{"metadata":{"group_id":"x"}}`, wantStatus: http.StatusBadRequest},
		{name: "missing group_id filter", method: http.MethodGet, target: "/groups_metadata", wantStatus: http.StatusBadRequest},
		{name: "unknown record", method: http.MethodGet, target: "/groups_metadata/nope", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, _ := newTestHandler(t)

			rec := serve(handler, tc.method, tc.target, tc.body, bearer("token"))

			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantStatus, decodeError(t, rec).Status)
		})
	}
}
