// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// uniqueViolation is the SQLSTATE of a unique constraint violation
const uniqueViolation = "23505"

// GroupRepository implements port.GroupRepository using PostgreSQL.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db *sql.DB) port.GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a row and returns it with its id.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO groups (group_name, description, slug, invenio_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	row := *group
	err := r.db.QueryRowContext(ctx, query,
		row.GroupName,
		nullString(row.Description),
		row.Slug,
		nullString(row.InvenioRole),
	).Scan(&row.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflict(fmt.Sprintf("group %s already exists", row.GroupName), err)
		}
		slog.ErrorContext(ctx, "failed to insert group", "error", err, "slug", row.Slug)
		return nil, errors.NewServiceUnavailable("failed to create group", err)
	}

	return &row, nil
}

// GetBySlug returns the row holding slug.
func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	query := `
		SELECT id, group_name, description, slug, invenio_role
		FROM groups
		WHERE slug = $1
	`

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound(fmt.Sprintf("group %s not found", slug), err)
		}
		return nil, errors.NewServiceUnavailable("failed to get group", err)
	}
	return group, nil
}

// List returns every row ordered by id.
func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	query := `
		SELECT id, group_name, description, slug, invenio_role
		FROM groups
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to list groups", err)
	}
	defer rows.Close()

	var groups []*model.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, errors.NewServiceUnavailable("failed to read group", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewServiceUnavailable("failed to list groups", err)
	}

	return groups, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(s scanner) (*model.Group, error) {
	var (
		group       model.Group
		description sql.NullString
		invenioRole sql.NullString
	)
	if err := s.Scan(&group.ID, &group.GroupName, &description, &group.Slug, &invenioRole); err != nil {
		return nil, err
	}
	group.Description = nullStringValue(description)
	group.InvenioRole = nullStringValue(invenioRole)
	return &group, nil
}

// nullString converts an optional string to sql.NullString.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullStringValue extracts an optional string from sql.NullString.
func nullStringValue(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
