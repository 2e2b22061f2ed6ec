// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/metrics"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/log"
)

// roleCreationConcurrency bounds parallel FindOrCreateRole calls during create
const roleCreationConcurrency = 4

// GroupCollectionsService manages the collections owned by Commons groups
type GroupCollectionsService interface {
	// Create builds the collection for a Commons group from its remote metadata
	Create(ctx context.Context, request model.CreateCollectionRequest) (*model.CreatedResult, error)
	// Read returns the collection holding slug
	Read(ctx context.Context, slug string) (*model.Collection, error)
	// Search returns a page of Commons collections
	Search(ctx context.Context, search model.CollectionSearch) (*model.CollectionSearchResult, error)
	// Delete soft deletes the collection on behalf of its owning group
	Delete(ctx context.Context, slug, instance, groupID string) error
	// Update is not supported
	Update(ctx context.Context, slug string) error
	// IsReady reports whether the collection directory can serve requests
	IsReady(ctx context.Context) error
}

// groupCollectionsOrchestratorOption defines a function type for setting options
type groupCollectionsOrchestratorOption func(*groupCollectionsOrchestrator)

// WithCollectionDirectory sets the collection directory
func WithCollectionDirectory(directory port.CollectionDirectory) groupCollectionsOrchestratorOption {
	return func(o *groupCollectionsOrchestrator) {
		o.directory = directory
	}
}

// WithRoleStore sets the role store
func WithRoleStore(roles port.RoleStore) groupCollectionsOrchestratorOption {
	return func(o *groupCollectionsOrchestrator) {
		o.roles = roles
	}
}

// WithCommonsGroupFetcher sets the Commons client
func WithCommonsGroupFetcher(fetcher port.CommonsGroupFetcher) groupCollectionsOrchestratorOption {
	return func(o *groupCollectionsOrchestrator) {
		o.commons = fetcher
	}
}

// WithConfig sets the identity provider configuration
func WithConfig(cfg *config.Config) groupCollectionsOrchestratorOption {
	return func(o *groupCollectionsOrchestrator) {
		o.config = cfg
	}
}

type groupCollectionsOrchestrator struct {
	directory port.CollectionDirectory
	roles     port.RoleStore
	commons   port.CommonsGroupFetcher
	config    *config.Config
}

// NewGroupCollectionsOrchestrator creates the collections orchestrator
func NewGroupCollectionsOrchestrator(opts ...groupCollectionsOrchestratorOption) GroupCollectionsService {
	o := &groupCollectionsOrchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	if o.config == nil {
		o.config = config.DefaultConfig()
	}
	return o
}

// Create builds and stores the collection for a Commons group
func (o *groupCollectionsOrchestrator) Create(ctx context.Context, request model.CreateCollectionRequest) (result *model.CreatedResult, err error) {
	defer func() {
		metrics.CollectionOperationsTotal.WithLabelValues("create", metrics.Outcome(err)).Inc()
	}()

	instance, groupID := request.CommonsInstance, request.CommonsGroupID
	if instance == "" || groupID == "" {
		return nil, errors.NewValidation("commons_instance and commons_group_id are required")
	}

	slog.DebugContext(ctx, "executing create collection use case",
		"commons_instance", instance,
		"commons_group_id", groupID,
	)

	// Step 1: resolve the instance configuration
	instanceTitle, ok := o.config.InstanceTitle(instance)
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("unknown commons instance: %s", instance))
	}
	endpoint, ok := o.config.MetadataEndpoint(instance)
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("no metadata endpoint configured for commons instance: %s", instance))
	}

	// Step 2: fetch the group from the Commons instance
	group, err := o.commons.GetGroup(ctx, endpoint.GroupURL(groupID), endpoint.Token())
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch commons group metadata",
			"error", err,
			"commons_instance", instance,
			"commons_group_id", groupID,
		)
		return nil, err
	}
	if group.Name == "" {
		group.Name = request.CommonsGroupName
	}
	if group.Visibility == "" {
		group.Visibility = request.CommonsGroupVisibility
	}
	if group.Name == "" {
		return nil, errors.NewUnprocessable(fmt.Sprintf("commons group %s from %s has no name", groupID, instance))
	}
	if group.Avatar == endpoint.DefaultAvatar {
		group.Avatar = ""
	}

	// Step 3: make sure the permission roles exist
	roleMap, err := MapRemoteRolesToPermissions(o.config, GroupRoleSlug(instance, groupID), group.AllRoles())
	if err != nil {
		return nil, err
	}
	if err := o.ensureRoles(ctx, roleMap); err != nil {
		return nil, err
	}

	// Step 4: claim a slug and store the collection
	collection := model.NewGroupCollection(instance, instanceTitle, groupID, group)
	created, deletedSlugs, err := o.createWithFreshSlug(ctx, collection, group.Name, request.RestoreDeleted)
	if err != nil {
		return nil, err
	}

	// Step 5 and 6: grant the administrator group and the remote roles
	if err := o.addMembers(ctx, created.Slug, roleMap); err != nil {
		o.discardCollection(ctx, created)
		return nil, err
	}

	// Step 7: the logo is best effort
	if group.Avatar != "" {
		o.updateAvatar(ctx, created.Slug, group.Avatar)
	}

	slog.InfoContext(ctx, "collection created",
		"slug", created.Slug,
		"deleted_slugs", deletedSlugs,
		"commons_instance", instance,
		"commons_group_id", groupID,
	)

	return &model.CreatedResult{
		CommonsGroupID: groupID,
		Collection:     created.Slug,
	}, nil
}

// ensureRoles finds or creates every mapped role name.
func (o *groupCollectionsOrchestrator) ensureRoles(ctx context.Context, roleMap map[string][]string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(roleCreationConcurrency)

	for _, names := range roleMap {
		for _, name := range names {
			g.Go(func() error {
				if _, err := o.roles.FindOrCreateRole(gctx, name); err != nil {
					slog.ErrorContext(gctx, "failed to find or create role",
						"error", err,
						"role", name,
					)
					return err
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// createWithFreshSlug stores the collection under the first free slug. A slug
// claimed concurrently between resolution and creation is checked again, so a
// collection stored by a parallel request for the same group is a Conflict and
// one stored by another group moves the search to the next increment.
// The slugs of soft deleted collections of the group seen on every pass are
// returned alongside.
func (o *groupCollectionsOrchestrator) createWithFreshSlug(ctx context.Context, collection *model.Collection, groupName string, restoreDeleted bool) (*model.Collection, []string, error) {
	instance := collection.CustomFields.CommonsInstance
	groupID := collection.CustomFields.CommonsGroupID
	base := MakeBaseGroupSlug(groupName)

	var deletedSlugs []string
	start := 0
	for restart := 0; restart < constants.MaxSlugAttempts; restart++ {
		resolution, err := resolveGroupSlugFrom(ctx, o.directory, base, groupID, instance, start)
		if err != nil {
			return nil, nil, err
		}

		for _, slug := range resolution.DeletedSlugs {
			if !slices.Contains(deletedSlugs, slug) {
				deletedSlugs = append(deletedSlugs, slug)
			}
		}

		if len(deletedSlugs) > 0 {
			if restoreDeleted {
				return nil, nil, errors.NewNotImplemented("restoring deleted group collections is not supported")
			}
			slog.InfoContext(ctx, "group collection was deleted previously and is not restored, continuing with a new slug",
				"deleted_slugs", deletedSlugs,
				"slug", resolution.FreshSlug,
			)
		}

		collection.Slug = resolution.FreshSlug
		created, err := o.directory.Create(ctx, collection)
		if err == nil {
			metrics.SlugAttempts.Observe(float64(resolution.Attempt + 1))
			return created, deletedSlugs, nil
		}

		if !stderrors.Is(err, model.ErrSlugTaken) {
			slog.ErrorContext(ctx, "failed to create collection",
				"error", err,
				"slug", resolution.FreshSlug,
			)
			return nil, nil, err
		}

		slog.WarnContext(ctx, "slug was claimed before the collection was stored, resolving again",
			"slug", resolution.FreshSlug,
		)
		start = resolution.Attempt
	}

	return nil, nil, errors.NewConflict(fmt.Sprintf(
		"slug for group %s from %s kept being claimed concurrently", groupID, instance))
}

// discardCollection soft deletes a collection whose members could not be
// granted, so the group is free to create it again.
func (o *groupCollectionsOrchestrator) discardCollection(ctx context.Context, created *model.Collection) {
	revision := created.Revision
	if current, err := o.directory.GetBySlug(ctx, created.Slug); err == nil {
		revision = current.Revision
	}
	if err := o.directory.SoftDelete(ctx, created.Slug, revision); err != nil {
		slog.ErrorContext(ctx, "failed to discard collection without members, manual cleanup required",
			"error", err,
			"slug", created.Slug,
			"commons_instance", created.CustomFields.CommonsInstance,
			"commons_group_id", created.CustomFields.CommonsGroupID,
			log.PriorityCritical(),
		)
		return
	}
	slog.WarnContext(ctx, "discarded collection without members",
		"slug", created.Slug,
		"commons_instance", created.CustomFields.CommonsInstance,
		"commons_group_id", created.CustomFields.CommonsGroupID,
	)
}

// addMembers grants the administrator group the manager role and every mapped
// role its permission level. Repeated members are skipped.
func (o *groupCollectionsOrchestrator) addMembers(ctx context.Context, slug string, roleMap map[string][]string) error {
	members := []model.Member{{
		Type: constants.MemberTypeGroup,
		ID:   constants.AdministratorGroupID,
		Role: constants.ManagerRole,
	}}

	levels := make([]string, 0, len(roleMap))
	for level := range roleMap {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	for _, level := range levels {
		for _, name := range roleMap[level] {
			members = append(members, model.Member{
				Type: constants.MemberTypeGroup,
				ID:   name,
				Role: level,
			})
		}
	}

	for _, member := range members {
		err := o.directory.AddMember(ctx, slug, member)
		if err == nil {
			continue
		}
		if stderrors.Is(err, model.ErrAlreadyMember) {
			slog.WarnContext(ctx, "group was already a member of the collection",
				"slug", slug,
				"member", member.ID,
				"role", member.Role,
			)
			continue
		}
		slog.ErrorContext(ctx, "failed to add group to collection",
			"error", err,
			"slug", slug,
			"member", member.ID,
		)
		return err
	}

	return nil
}

// Read returns the collection holding slug
func (o *groupCollectionsOrchestrator) Read(ctx context.Context, slug string) (*model.Collection, error) {
	if slug == "" {
		return nil, errors.NewValidation("slug is required")
	}
	return o.directory.GetBySlug(ctx, slug)
}

// Search returns a page of Commons collections
func (o *groupCollectionsOrchestrator) Search(ctx context.Context, search model.CollectionSearch) (*model.CollectionSearchResult, error) {
	if err := search.Normalize(); err != nil {
		return nil, err
	}

	result, err := o.directory.Search(ctx, search)
	if err != nil {
		return nil, err
	}

	if result.Total == 0 {
		msg := "no group collections found"
		if search.CommonsInstance != "" {
			msg += " for " + search.CommonsInstance
		}
		if search.CommonsGroupID != "" {
			msg += " group " + search.CommonsGroupID
		}
		return nil, errors.NewNotFound(msg)
	}

	return result, nil
}

// Delete soft deletes the collection on behalf of its owning group
func (o *groupCollectionsOrchestrator) Delete(ctx context.Context, slug, instance, groupID string) (err error) {
	defer func() {
		metrics.CollectionOperationsTotal.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	}()

	if slug == "" || instance == "" || groupID == "" {
		return errors.NewValidation("slug, commons_instance and commons_group_id are required")
	}

	collection, err := o.directory.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if collection.CustomFields.CommonsInstance != instance {
		return errors.NewForbidden(fmt.Sprintf("collection %s does not belong to %s", slug, instance))
	}
	if collection.CustomFields.CommonsGroupID != groupID {
		return errors.NewForbidden(fmt.Sprintf("collection %s does not belong to group %s", slug, groupID))
	}
	if collection.IsDeleted {
		return errors.NewUnprocessable(fmt.Sprintf("collection %s is already deleted", slug))
	}
	if collection.DeletionRequestOpen {
		return errors.NewUnprocessable(fmt.Sprintf("collection %s has an open deletion request", slug))
	}

	if err := o.directory.SoftDelete(ctx, slug, collection.Revision); err != nil {
		slog.ErrorContext(ctx, "failed to delete collection",
			"error", err,
			"slug", slug,
		)
		return err
	}

	slog.InfoContext(ctx, "collection deleted",
		"slug", slug,
		"commons_instance", instance,
		"commons_group_id", groupID,
	)
	return nil
}

// Update is not supported
func (o *groupCollectionsOrchestrator) Update(ctx context.Context, slug string) error {
	return errors.NewNotImplemented("updating group collections is not supported")
}

// IsReady reports whether the collection directory can serve requests
func (o *groupCollectionsOrchestrator) IsReady(ctx context.Context) error {
	return o.directory.IsReady(ctx)
}
