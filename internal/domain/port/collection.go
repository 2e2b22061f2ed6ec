// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
)

// CollectionReader defines the read side of the collection directory
type CollectionReader interface {
	// GetBySlug returns the collection holding slug, deleted or not.
	// It returns errors.NotFound when no collection holds the slug.
	GetBySlug(ctx context.Context, slug string) (*model.Collection, error)
	// Search returns one page of the collections matching search.
	// The search must already be normalized.
	Search(ctx context.Context, search model.CollectionSearch) (*model.CollectionSearchResult, error)
}

// CollectionWriter defines the write side of the collection directory
type CollectionWriter interface {
	// Create stores a new collection under its slug and fills in the system fields.
	// A taken slug is reported as errors.Conflict wrapping model.ErrSlugTaken.
	Create(ctx context.Context, collection *model.Collection) (*model.Collection, error)
	// SoftDelete marks the collection deleted if its revision still matches.
	SoftDelete(ctx context.Context, slug string, revision uint64) error
	// AddMember grants a role on the collection.
	// A repeated member is reported as errors.Conflict wrapping model.ErrAlreadyMember.
	AddMember(ctx context.Context, slug string, member model.Member) error
	// UpdateLogo stores the logo of the collection.
	UpdateLogo(ctx context.Context, slug string, logo *model.Avatar) error
}

// CollectionDirectory is the full collection directory capability
type CollectionDirectory interface {
	CollectionReader
	CollectionWriter
	IsReady(ctx context.Context) error
}
