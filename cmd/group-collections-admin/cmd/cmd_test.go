// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

func runAdmin(t *testing.T, args ...string) (string, error) {
	t.Helper()

	repo := mock.NewMockRepository()
	opener := func(context.Context, string) (port.GroupRepository, func(), error) {
		return mock.NewMockGroupRepository(repo), func() {}, nil
	}

	root := newRootCmd(opener)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSlugCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "plain name", args: []string{"slug", "Panda Studies"}, want: "panda-studies\n"},
		{name: "diacritics", args: []string{"slug", "Études Françaises"}, want: "etudes-francaises\n"},
		{name: "json output", args: []string{"slug", "Panda Studies", "-o", "json"}, want: "{\n  \"name\": \"Panda Studies\",\n  \"slug\": \"panda-studies\"\n}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runAdmin(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRolesCommand(t *testing.T) {
	out, err := runAdmin(t, "roles", "--group-id", "12", "administrator", "guest")
	require.NoError(t, err)
	assert.Contains(t, out, "owner: knowledgeCommons---12|administrator\n")
	assert.Contains(t, out, "reader: knowledgeCommons---12|guest\n")

	_, err = runAdmin(t, "roles", "--idp", "elsewhere", "--group-id", "12", "member")
	assert.IsType(t, errs.Unexpected{}, err)

	_, err = runAdmin(t, "roles", "member")
	assert.Error(t, err, "--group-id is required")
}

func TestGroupsCommands(t *testing.T) {
	mock.NewMockRepository().ClearAll()

	out, err := runAdmin(t, "groups", "add", "Panda Studies", "--role", "knowledgeCommons---12|member")
	require.NoError(t, err)
	assert.Equal(t, "created group 1 (panda-studies)\n", out)

	_, err = runAdmin(t, "groups", "add", "Panda Studies")
	assert.IsType(t, errs.Conflict{}, err)

	out, err = runAdmin(t, "groups", "list", "-o", "json")
	require.NoError(t, err)
	var rows []model.Group
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "panda-studies", rows[0].Slug)
	require.NotNil(t, rows[0].InvenioRole)
	assert.Equal(t, "knowledgeCommons---12|member", *rows[0].InvenioRole)

	out, err = runAdmin(t, "groups", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "panda-studies")

	_, err = runAdmin(t, "groups", "get", "bamboo")
	assert.IsType(t, errs.NotFound{}, err)

	_, err = runAdmin(t, "groups", "list", "-o", "xml")
	assert.Error(t, err)
}
