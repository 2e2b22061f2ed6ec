// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

// maxUpdateAttempts bounds read-modify-write retries on concurrent updates
const maxUpdateAttempts = 3

type collectionDirectory struct {
	storage
}

// GetBySlug resolves the slug lookup key and loads the collection
func (d *collectionDirectory) GetBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	slog.DebugContext(ctx, "nats storage: getting collection", "slug", slug)

	id, _, err := d.getString(ctx, constants.KVBucketNameCollections, slugLookupKey(slug))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errs.NewNotFound(fmt.Sprintf("no collection found with the slug %s", slug))
		}
		slog.ErrorContext(ctx, "failed to get collection lookup", "error", err, "slug", slug)
		return nil, errs.NewServiceUnavailable("failed to get collection", err)
	}

	return d.getByID(ctx, id)
}

func (d *collectionDirectory) getByID(ctx context.Context, id string) (*model.Collection, error) {
	collection := &model.Collection{}
	rev, err := d.get(ctx, constants.KVBucketNameCollections, id, collection)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errs.NewNotFound(fmt.Sprintf("collection %s not found", id))
		}
		slog.ErrorContext(ctx, "failed to get collection", "error", err, "collection_id", id)
		return nil, errs.NewServiceUnavailable("failed to get collection", err)
	}
	collection.Revision = rev
	return collection, nil
}

// Search scans the bucket and pages through the matching collections
func (d *collectionDirectory) Search(ctx context.Context, search model.CollectionSearch) (*model.CollectionSearchResult, error) {
	keys, err := d.keys(ctx, constants.KVBucketNameCollections)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list collections", "error", err)
		return nil, errs.NewServiceUnavailable("failed to list collections", err)
	}

	var matched []*model.Collection
	for _, key := range keys {
		if isLookupKey(key) {
			continue
		}
		collection, err := d.getByID(ctx, key)
		if err != nil {
			var notFound errs.NotFound
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		if search.Matches(collection) {
			matched = append(matched, collection)
		}
	}

	slog.DebugContext(ctx, "nats storage: collections searched",
		"scanned", len(keys),
		"matched", len(matched),
	)
	return search.Paginate(matched), nil
}

// Create claims the slug lookup key first so two writers can never share a slug
func (d *collectionDirectory) Create(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	now := time.Now().UTC()
	stored := *collection
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.IsDeleted = false
	stored.DeletedAt = nil

	lookupKey := slugLookupKey(stored.Slug)
	if _, err := d.create(ctx, constants.KVBucketNameCollections, lookupKey, stored.ID); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			slog.WarnContext(ctx, "slug already taken", "slug", stored.Slug)
			return nil, errs.NewConflict(fmt.Sprintf("slug %s is already taken", stored.Slug), model.ErrSlugTaken)
		}
		slog.ErrorContext(ctx, "failed to claim slug", "error", err, "slug", stored.Slug)
		return nil, errs.NewServiceUnavailable("failed to claim slug", err)
	}

	rev, err := d.create(ctx, constants.KVBucketNameCollections, stored.ID, &stored)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create collection, releasing slug",
			"error", err,
			"slug", stored.Slug,
			"collection_id", stored.ID,
		)
		if errDelete := d.delete(ctx, constants.KVBucketNameCollections, lookupKey, 0); errDelete != nil {
			slog.ErrorContext(ctx, "failed to release slug", "error", errDelete, "slug", stored.Slug)
		}
		return nil, errs.NewServiceUnavailable("failed to create collection", err)
	}
	stored.Revision = rev

	slog.DebugContext(ctx, "nats storage: collection created",
		"slug", stored.Slug,
		"collection_id", stored.ID,
		"revision", rev,
	)
	return &stored, nil
}

// SoftDelete flags the collection deleted. The slug stays claimed.
func (d *collectionDirectory) SoftDelete(ctx context.Context, slug string, revision uint64) error {
	collection, err := d.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	collection.IsDeleted = true
	collection.DeletedAt = &now
	collection.UpdatedAt = now

	if _, err := d.update(ctx, constants.KVBucketNameCollections, collection.ID, collection, revision); err != nil {
		if isRevisionMismatch(err) {
			return errs.NewConflict(fmt.Sprintf("collection %s was modified concurrently", slug), err)
		}
		slog.ErrorContext(ctx, "failed to delete collection", "error", err, "slug", slug)
		return errs.NewServiceUnavailable("failed to delete collection", err)
	}
	return nil
}

// AddMember appends member, retrying when another writer got there first
func (d *collectionDirectory) AddMember(ctx context.Context, slug string, member model.Member) error {
	return d.modify(ctx, slug, func(c *model.Collection) error {
		if c.HasMember(member) {
			return errs.NewConflict(fmt.Sprintf("%s %s is already a member of %s", member.Type, member.ID, slug), model.ErrAlreadyMember)
		}
		c.Members = append(c.Members, member)
		return nil
	})
}

// UpdateLogo stores the image in the logo object store and records its name
func (d *collectionDirectory) UpdateLogo(ctx context.Context, slug string, logo *model.Avatar) error {
	store, exists := d.client.objectStore[constants.ObjectStoreNameLogos]
	if !exists || store == nil {
		return errs.NewServiceUnavailable("object store not available")
	}

	collection, err := d.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	meta := jetstream.ObjectMeta{
		Name:        collection.ID,
		Description: "logo of " + slug,
		Metadata:    map[string]string{"content_type": logo.ContentType},
	}
	if _, err := store.Put(ctx, meta, bytes.NewReader(logo.Data)); err != nil {
		slog.ErrorContext(ctx, "failed to store logo", "error", err, "slug", slug)
		return errs.NewServiceUnavailable("failed to store logo", err)
	}

	return d.modify(ctx, slug, func(c *model.Collection) error {
		c.Logo = collection.ID
		return nil
	})
}

// modify runs a read-modify-write cycle guarded by the entry revision
func (d *collectionDirectory) modify(ctx context.Context, slug string, change func(*model.Collection) error) error {
	for attempt := 1; ; attempt++ {
		collection, err := d.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if err := change(collection); err != nil {
			return err
		}
		collection.UpdatedAt = time.Now().UTC()

		_, err = d.update(ctx, constants.KVBucketNameCollections, collection.ID, collection, collection.Revision)
		if err == nil {
			return nil
		}
		if !isRevisionMismatch(err) {
			slog.ErrorContext(ctx, "failed to update collection", "error", err, "slug", slug)
			return errs.NewServiceUnavailable("failed to update collection", err)
		}
		if attempt >= maxUpdateAttempts {
			return errs.NewConflict(fmt.Sprintf("collection %s kept changing, giving up", slug), err)
		}
		slog.DebugContext(ctx, "collection changed during update, retrying",
			"slug", slug,
			"attempt", attempt,
		)
	}
}

// NewCollectionDirectory creates a collection directory on the collections bucket
func NewCollectionDirectory(client *NATSClient) port.CollectionDirectory {
	return &collectionDirectory{storage{client: client}}
}
