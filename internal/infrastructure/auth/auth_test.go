// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

func TestWebhookTokenAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		errorType  error
	}{
		{name: "matching token", configured: "s3cret", presented: "s3cret"},
		{name: "no secret configured", configured: "", presented: ""},
		{name: "missing token", configured: "s3cret", presented: "", errorType: errs.Unauthorized{}},
		{name: "wrong token", configured: "s3cret", presented: "guess", errorType: errs.Unauthorized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := NewWebhookTokenAuth(tt.configured).ParsePrincipal(context.Background(), tt.presented, slog.Default())
			if tt.errorType != nil {
				require.Error(t, err)
				assert.IsType(t, tt.errorType, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, WebhookPrincipal, principal)
		})
	}
}

func TestPrincipalClaims_Validate(t *testing.T) {
	assert.Error(t, (&PrincipalClaims{}).Validate(context.Background()))
	assert.NoError(t, (&PrincipalClaims{Principal: "jdoe"}).Validate(context.Background()))
}

func TestJWTAuth_RejectsGarbage(t *testing.T) {
	jwtAuth, err := NewJWTAuth(JWTAuthConfig{JWKSURL: "http://127.0.0.1:1/.well-known/jwks"})
	require.NoError(t, err)

	_, err = jwtAuth.ParsePrincipal(context.Background(), "", slog.Default())
	assert.IsType(t, errs.Unauthorized{}, err)

	_, err = jwtAuth.ParsePrincipal(context.Background(), "not.a.jwt", slog.Default())
	assert.IsType(t, errs.Unauthorized{}, err)
}
