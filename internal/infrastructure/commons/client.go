// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package commons fetches group metadata and avatars from Commons instances.
package commons

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/metrics"
	"github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/httpclient"
)

type tokenSourceKey struct{}

// withTokenSource attaches the bearer token of one Commons instance to ctx
func withTokenSource(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenSourceKey{}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// bearerRoundTripper sets the Authorization header from the request's token source
type bearerRoundTripper struct{}

func (bearerRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	source, ok := req.Context().Value(tokenSourceKey{}).(oauth2.TokenSource)
	if !ok {
		return next(req)
	}

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain Commons API token: %w", err)
	}
	token.SetAuthHeader(req)
	return next(req)
}

// Client talks to the metadata endpoints of Commons instances
type Client struct {
	config       Config
	httpClient   *httpclient.Client
	avatarClient *httpclient.Client
}

// GetGroup fetches the group document from groupURL with the instance token
func (c *Client) GetGroup(ctx context.Context, groupURL, token string) (group *model.CommonsGroup, err error) {
	defer func() {
		metrics.CommonsRequestsTotal.WithLabelValues("group", metrics.Outcome(err)).Inc()
	}()

	start := time.Now()
	resp, err := c.httpClient.Request(withTokenSource(ctx, token), http.MethodGet, groupURL, nil, nil)
	if err != nil {
		return nil, MapHTTPError(ctx, err, "group metadata")
	}

	var body GroupResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		slog.ErrorContext(ctx, "failed to decode Commons group metadata",
			"error", err,
			"url", groupURL,
		)
		return nil, errors.NewUnprocessable("Commons instance returned malformed group metadata", err)
	}

	slog.DebugContext(ctx, "fetched Commons group metadata",
		"url", groupURL,
		"name", body.Name,
		"duration", time.Since(start),
	)
	return body.ToModel(), nil
}

// GetAvatar downloads the group avatar. Avatars are public so no token is sent.
func (c *Client) GetAvatar(ctx context.Context, avatarURL string) (avatar *model.Avatar, err error) {
	defer func() {
		metrics.CommonsRequestsTotal.WithLabelValues("avatar", metrics.Outcome(err)).Inc()
	}()

	resp, err := c.avatarClient.Request(ctx, http.MethodGet, avatarURL, nil, map[string]string{
		"Accept": "image/*",
	})
	if stderrors.Is(err, httpclient.ErrBodyTooLarge) {
		slog.WarnContext(ctx, "group avatar is too large",
			"url", avatarURL,
			"max_bytes", c.config.MaxAvatarBytes,
		)
		return nil, errors.NewUnprocessable(fmt.Sprintf("group avatar is larger than %d bytes", c.config.MaxAvatarBytes), err)
	}
	if err != nil {
		return nil, MapHTTPError(ctx, err, "group avatar")
	}

	contentType := resp.Headers.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(resp.Body)
	}

	return &model.Avatar{
		ContentType: contentType,
		Data:        resp.Body,
	}, nil
}

// NewClient creates a Commons client. Requests are never retried so the
// per-request timeout is the whole budget.
func NewClient(config Config) *Client {
	httpClient := httpclient.NewClient(httpclient.NoRetryConfig(config.Timeout))
	httpClient.AddRoundTripper(bearerRoundTripper{})

	avatarConfig := httpclient.NoRetryConfig(config.Timeout)
	avatarConfig.MaxBodyBytes = int64(config.MaxAvatarBytes)

	return &Client{
		config:       config,
		httpClient:   httpClient,
		avatarClient: httpclient.NewClient(avatarConfig),
	}
}

// NewCommonsGroupFetcher exposes the client through its port
func NewCommonsGroupFetcher(config Config) port.CommonsGroupFetcher {
	return NewClient(config)
}
