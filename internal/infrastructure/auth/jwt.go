// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates the credentials presented to the API.
package auth

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

const (
	// PS256 is the signature algorithm of tokens minted by the gateway
	PS256 = validator.PS256

	defaultIssuer   = "heimdall"
	defaultAudience = "group-collections-service"
	defaultJWKSURL  = "http://heimdall:4457/.well-known/jwks"

	jwksCacheTTL = 5 * time.Minute
	clockSkew    = 5 * time.Second
)

// JWTAuthConfig holds the JWT validation settings
type JWTAuthConfig struct {
	JWKSURL  string
	Audience string
	Issuer   string
}

// NewJWTAuthConfigFromEnv reads JWKS_URL, JWT_AUDIENCE and JWT_ISSUER
func NewJWTAuthConfigFromEnv() JWTAuthConfig {
	return JWTAuthConfig{
		JWKSURL:  os.Getenv("JWKS_URL"),
		Audience: os.Getenv("JWT_AUDIENCE"),
		Issuer:   os.Getenv("JWT_ISSUER"),
	}
}

// PrincipalClaims are the custom claims the gateway adds to every token
type PrincipalClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate requires a principal
func (c *PrincipalClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return stderrors.New("principal must be provided")
	}
	return nil
}

// JWTAuth validates bearer tokens against a JWKS endpoint
type JWTAuth struct {
	validator *validator.Validator
}

// NewJWTAuth creates a JWT authenticator. Empty settings fall back to the gateway defaults.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}

	issuer, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, errors.NewUnexpected("invalid JWT issuer", err)
	}
	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, errors.NewUnexpected("invalid JWKS URL", err)
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &PrincipalClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		PS256,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(clockSkew),
	)
	if err != nil {
		return nil, errors.NewUnexpected("failed to set up the JWT validator", err)
	}

	return &JWTAuth{validator: jwtValidator}, nil
}

// ParsePrincipal validates token and returns the principal it carries
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if token == "" {
		return "", errors.NewUnauthorized("missing bearer token")
	}

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "token validation failed", "error", err)
		return "", errors.NewUnauthorized("invalid bearer token", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.NewUnauthorized("token claims could not be read")
	}
	custom, ok := claims.CustomClaims.(*PrincipalClaims)
	if !ok {
		return "", errors.NewUnauthorized("token does not carry a principal")
	}

	logger.DebugContext(ctx, "parsed principal", "principal", custom.Principal)
	return custom.Principal, nil
}

var _ port.Authenticator = (*JWTAuth)(nil)
