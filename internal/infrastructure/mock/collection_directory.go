// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// MockCollectionDirectory is an in-memory collection directory
type MockCollectionDirectory struct {
	mock *MockRepository
}

// NewMockCollectionDirectory creates a collection directory backed by mock
func NewMockCollectionDirectory(mock *MockRepository) port.CollectionDirectory {
	return &MockCollectionDirectory{mock: mock}
}

// GetBySlug returns the collection holding slug
func (d *MockCollectionDirectory) GetBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	d.mock.mu.RLock()
	defer d.mock.mu.RUnlock()

	if err := d.mock.errorFor(OpGetCollection, slug); err != nil {
		return nil, err
	}

	c, ok := d.mock.collections[slug]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no collection found with the slug %s", slug))
	}
	return cloneCollection(c), nil
}

// Search returns one page of the matching collections
func (d *MockCollectionDirectory) Search(ctx context.Context, search model.CollectionSearch) (*model.CollectionSearchResult, error) {
	d.mock.mu.RLock()
	defer d.mock.mu.RUnlock()

	if err := d.mock.errorFor(OpSearchCollections, AnyKey); err != nil {
		return nil, err
	}

	var matched []*model.Collection
	for _, c := range d.mock.collections {
		if search.Matches(c) {
			matched = append(matched, cloneCollection(c))
		}
	}
	return search.Paginate(matched), nil
}

// Create stores a new collection
func (d *MockCollectionDirectory) Create(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	d.mock.mu.RLock()
	hooks := append([]func(string){}, d.mock.createHooks...)
	d.mock.mu.RUnlock()
	for _, hook := range hooks {
		hook(collection.Slug)
	}

	d.mock.mu.Lock()
	defer d.mock.mu.Unlock()

	if err := d.mock.errorFor(OpCreateCollection, collection.Slug); err != nil {
		return nil, err
	}

	if _, taken := d.mock.collections[collection.Slug]; taken {
		return nil, errors.NewConflict(fmt.Sprintf("slug %s is already taken", collection.Slug), model.ErrSlugTaken)
	}

	c := cloneCollection(collection)
	now := time.Now()
	c.ID = uuid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Revision = 1
	d.mock.collections[c.Slug] = c

	return cloneCollection(c), nil
}

// SoftDelete marks the collection deleted
func (d *MockCollectionDirectory) SoftDelete(ctx context.Context, slug string, revision uint64) error {
	d.mock.mu.Lock()
	defer d.mock.mu.Unlock()

	if err := d.mock.errorFor(OpDeleteCollection, slug); err != nil {
		return err
	}

	c, ok := d.mock.collections[slug]
	if !ok {
		return errors.NewNotFound(fmt.Sprintf("no collection found with the slug %s", slug))
	}
	if c.Revision != revision {
		return errors.NewConflict(fmt.Sprintf("collection %s was modified", slug))
	}

	now := time.Now()
	c.IsDeleted = true
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.Revision++
	return nil
}

// AddMember grants a role on the collection
func (d *MockCollectionDirectory) AddMember(ctx context.Context, slug string, member model.Member) error {
	d.mock.mu.Lock()
	defer d.mock.mu.Unlock()

	if err := d.mock.errorFor(OpAddMember, member.ID); err != nil {
		return err
	}

	c, ok := d.mock.collections[slug]
	if !ok {
		return errors.NewNotFound(fmt.Sprintf("no collection found with the slug %s", slug))
	}
	if c.HasMember(member) {
		return errors.NewConflict(fmt.Sprintf("%s is already a member of %s", member.ID, slug), model.ErrAlreadyMember)
	}

	c.Members = append(c.Members, member)
	c.Revision++
	return nil
}

// UpdateLogo stores the collection logo
func (d *MockCollectionDirectory) UpdateLogo(ctx context.Context, slug string, logo *model.Avatar) error {
	d.mock.mu.Lock()
	defer d.mock.mu.Unlock()

	if err := d.mock.errorFor(OpUpdateLogo, slug); err != nil {
		return err
	}

	c, ok := d.mock.collections[slug]
	if !ok {
		return errors.NewNotFound(fmt.Sprintf("no collection found with the slug %s", slug))
	}

	d.mock.logos[slug] = logo
	c.Logo = slug
	c.Revision++
	return nil
}

// IsReady always succeeds
func (d *MockCollectionDirectory) IsReady(ctx context.Context) error {
	return nil
}
