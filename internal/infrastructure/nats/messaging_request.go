// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

type messageRequest struct {
	client *NATSClient
}

// GetUserIdentity asks the accounts service for the local user behind a remote identity
func (m *messageRequest) GetUserIdentity(ctx context.Context, query model.UserIdentityQuery) (*model.UserIdentity, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return nil, errors.NewUnexpected("failed to marshal identity query", err)
	}

	requestCtx := ctx
	if m.client.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, m.client.timeout)
		defer cancel()
	}

	msg, err := m.client.conn.RequestWithContext(requestCtx, constants.UserIdentityLookupSubject, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to request user identity",
			"error", err,
			"method", query.Method,
			"id", query.ID,
		)
		if stderrors.Is(err, nats.ErrNoResponders) {
			return nil, errors.NewServiceUnavailable("accounts service is not running", err)
		}
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, nats.ErrTimeout) {
			return nil, errors.NewRequestTimeout("accounts service did not answer in time", err)
		}
		return nil, errors.NewServiceUnavailable("accounts service unavailable", err)
	}

	return decodeUserIdentity(ctx, query, msg.Data)
}

// decodeUserIdentity reads a reply. An empty reply or a "not found" error means
// the remote identity has no local user.
func decodeUserIdentity(ctx context.Context, query model.UserIdentityQuery, data []byte) (*model.UserIdentity, error) {
	notFound := errors.NewNotFound(fmt.Sprintf("no user found with %s identity %s", query.Method, query.ID))

	if len(data) == 0 {
		return nil, notFound
	}

	var errorResponse struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &errorResponse); err == nil && errorResponse.Error != "" {
		if strings.Contains(strings.ToLower(errorResponse.Error), "not found") {
			return nil, notFound
		}
		slog.WarnContext(ctx, "identity lookup responded with an error",
			"method", query.Method,
			"id", query.ID,
			"error", errorResponse.Error,
		)
		return nil, errors.NewUnexpected(errorResponse.Error)
	}

	identity := &model.UserIdentity{}
	if err := json.Unmarshal(data, identity); err != nil {
		return nil, errors.NewUnexpected("failed to unmarshal user identity", err)
	}
	if identity.UserID == "" {
		return nil, notFound
	}
	if identity.ID == "" {
		identity.ID = query.ID
	}
	if identity.Method == "" {
		identity.Method = query.Method
	}
	return identity, nil
}

// NewUserIdentityReader creates a user identity reader using NATS request/reply
func NewUserIdentityReader(client *NATSClient) port.UserIdentityReader {
	return &messageRequest{
		client: client,
	}
}
