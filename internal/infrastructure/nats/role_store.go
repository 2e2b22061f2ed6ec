// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

type roleStore struct {
	storage
}

// FindOrCreateRole returns the stored role or creates it. A concurrent create
// of the same name is resolved by reading the winner back.
func (s *roleStore) FindOrCreateRole(ctx context.Context, name string) (*model.Role, error) {
	if name == "" {
		return nil, errs.NewValidation("role name is required")
	}
	key := encodeKey(name)

	role, err := s.find(ctx, key)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, jetstream.ErrKeyNotFound) {
		slog.ErrorContext(ctx, "failed to get role", "error", err, "role", name)
		return nil, errs.NewServiceUnavailable("failed to get role", err)
	}

	role = &model.Role{Name: name, CreatedAt: time.Now().UTC()}
	if _, err := s.create(ctx, constants.KVBucketNameRoles, key, role); err != nil {
		if !errors.Is(err, jetstream.ErrKeyExists) {
			slog.ErrorContext(ctx, "failed to create role", "error", err, "role", name)
			return nil, errs.NewServiceUnavailable("failed to create role", err)
		}
		existing, errFind := s.find(ctx, key)
		if errFind != nil {
			return nil, errs.NewServiceUnavailable("failed to get role", errFind)
		}
		return existing, nil
	}

	slog.DebugContext(ctx, "nats storage: role created", "role", name)
	return role, nil
}

func (s *roleStore) find(ctx context.Context, key string) (*model.Role, error) {
	role := &model.Role{}
	if _, err := s.get(ctx, constants.KVBucketNameRoles, key, role); err != nil {
		return nil, err
	}
	return role, nil
}

// NewRoleStore creates a role store on the roles bucket
func NewRoleStore(client *NATSClient) port.RoleStore {
	return &roleStore{storage{client: client}}
}
