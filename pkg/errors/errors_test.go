// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamErr is a test error type to demonstrate errors.As functionality
type upstreamErr struct {
	code int
	msg  string
}

func (u upstreamErr) Error() string {
	return u.msg
}

func TestErrorsIsAndAs(t *testing.T) {
	notFound := NewNotFound("collection not found", sql.ErrNoRows)
	assert.True(t, errors.Is(notFound, sql.ErrNoRows))

	wrapped := NewUnprocessable("commons instance answered badly", upstreamErr{code: 502, msg: "bad gateway"})

	var extracted upstreamErr
	require.True(t, errors.As(wrapped, &extracted))
	assert.Equal(t, 502, extracted.code)
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation without cause", NewValidation("size must be between 4 and 1000"), "size must be between 4 and 1000"},
		{"not found without cause", NewNotFound("no collection found with the slug pandas"), "no collection found with the slug pandas"},
		{"forbidden without cause", NewForbidden("collection does not belong to group 12"), "collection does not belong to group 12"},
		{"conflict with cause", NewConflict("collection already exists", cause), "collection already exists: connection refused"},
		{"service unavailable with cause", NewServiceUnavailable("could not reach commons instance", cause), "could not reach commons instance: connection refused"},
		{"request timeout", NewRequestTimeout("commons instance timed out"), "commons instance timed out"},
		{"not implemented", NewNotImplemented("update is not supported"), "update is not supported"},
		{"unauthorized", NewUnauthorized("missing bearer token"), "missing bearer token"},
		{"method not allowed", NewMethodNotAllowed("Method not allowed"), "Method not allowed"},
		{"unexpected with cause", NewUnexpected("boom", cause), "boom: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrapWithoutCause(t *testing.T) {
	simple := NewServiceUnavailable("simple service error")
	assert.Nil(t, simple.Unwrap())

	root := errors.New("database connection lost")
	wrapped := NewServiceUnavailable("service temporarily unavailable", root)
	assert.NotNil(t, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, root))
}

func TestMessageOmitsCause(t *testing.T) {
	err := NewConflict("slug already taken", errors.New("key exists"))
	assert.Equal(t, "slug already taken", err.Message())
}

func TestErrorsAsThroughFmtWrap(t *testing.T) {
	var target Forbidden
	err := errors.Join(errors.New("context"), NewForbidden("not yours"))
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "not yours", target.Message())
}
