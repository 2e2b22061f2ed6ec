// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of every port for tests and local runs.
package mock

import (
	"sync"
	"time"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// Operations that can be made to fail with SetError
const (
	OpGetCollection     = "get_collection"
	OpCreateCollection  = "create_collection"
	OpSearchCollections = "search_collections"
	OpDeleteCollection  = "delete_collection"
	OpAddMember         = "add_member"
	OpUpdateLogo        = "update_logo"
	OpFindOrCreateRole  = "find_or_create_role"
	OpGetGroup          = "get_group"
	OpGetAvatar         = "get_avatar"
	OpQueue             = "queue"
	OpSignal            = "signal"
	OpGetUserIdentity   = "get_user_identity"
	OpGroupsMetadata    = "groups_metadata"
	OpGroups            = "groups"
)

// AnyKey makes a simulated error apply to every key of an operation
const AnyKey = "*"

// Global mock repository instance to share data between all mocks
var (
	globalMockRepo     *MockRepository
	globalMockRepoOnce = &sync.Once{}
)

// PublishedMessage records a message handed to the mock publisher
type PublishedMessage struct {
	Channel string
	Subject string
	Message any
}

// MockRepository holds the state behind every mock port
type MockRepository struct {
	collections             map[string]*model.Collection // slug -> collection
	logos                   map[string]*model.Avatar     // slug -> logo
	roles                   map[string]*model.Role       // name -> role
	commonsGroups           map[string]*model.CommonsGroup
	avatars                 map[string]*model.Avatar
	userIdentities          map[string]*model.UserIdentity // method|id -> identity
	groupsMetadata          map[string]*model.GroupMetadata
	groupsMetadataRevisions map[string]uint64
	groups                  []*model.Group
	published               []PublishedMessage
	errors                  map[string]map[string]error // op -> key -> error
	createHooks             []func(slug string)
	mu                      sync.RWMutex
}

// NewMockRepository returns the shared mock repository, seeding it on first use
func NewMockRepository() *MockRepository {
	globalMockRepoOnce.Do(func() {
		globalMockRepo = &MockRepository{}
		globalMockRepo.reset()
		globalMockRepo.seed()
	})

	return globalMockRepo
}

func (m *MockRepository) reset() {
	m.collections = make(map[string]*model.Collection)
	m.logos = make(map[string]*model.Avatar)
	m.roles = make(map[string]*model.Role)
	m.commonsGroups = make(map[string]*model.CommonsGroup)
	m.avatars = make(map[string]*model.Avatar)
	m.userIdentities = make(map[string]*model.UserIdentity)
	m.groupsMetadata = make(map[string]*model.GroupMetadata)
	m.groupsMetadataRevisions = make(map[string]uint64)
	m.groups = nil
	m.published = nil
	m.errors = make(map[string]map[string]error)
	m.createHooks = nil
}

// seed adds sample data for running the API with REPOSITORY_SOURCE=mock
func (m *MockRepository) seed() {
	now := time.Now()

	sample := &model.Collection{
		ID:   "5f0c2a5e-7d4b-4a8e-9d53-1c2e3f4a5b6c",
		Slug: "digital-humanities",
		Access: model.CollectionAccess{
			Visibility:   constants.CollectionVisibilityRestricted,
			MemberPolicy: constants.CollectionPolicyClosed,
			RecordPolicy: constants.CollectionPolicyClosed,
		},
		Metadata: model.CollectionMetadata{
			Title:         "Digital Humanities",
			Description:   "A collection managed by the Digital Humanities group of Knowledge Commons",
			Page:          "This is a collection of works curated by the Digital Humanities group of Knowledge Commons",
			Organizations: []model.Organization{{Name: "Digital Humanities"}, {Name: "Knowledge Commons"}},
		},
		CustomFields: model.CommonsCustomFields{
			CommonsInstance:        "knowledgeCommons",
			CommonsGroupID:         "1000551",
			CommonsGroupName:       "Digital Humanities",
			CommonsGroupVisibility: "public",
		},
		Members: []model.Member{
			{Type: constants.MemberTypeGroup, ID: constants.AdministratorGroupID, Role: constants.ManagerRole},
		},
		CreatedAt: now.Add(-48 * time.Hour),
		UpdatedAt: now.Add(-48 * time.Hour),
		Revision:  1,
	}
	m.collections[sample.Slug] = sample

	m.commonsGroups["https://hcommons-dev.org/wp-json/commons/v1/groups/1004290"] = &model.CommonsGroup{
		Name:          "The Inklings",
		Description:   "Readers of each other's work",
		Visibility:    "public",
		URL:           "https://hcommons-dev.org/groups/the-inklings/",
		ModerateRoles: []string{"administrator", "moderator"},
		UploadRoles:   []string{"member", "moderator", "administrator"},
	}
}

// ClearAll drops every stored entity and simulated error
func (m *MockRepository) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
}

// SetError makes op fail with err for key, or for every key when key is AnyKey
func (m *MockRepository) SetError(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errors[op] == nil {
		m.errors[op] = make(map[string]error)
	}
	m.errors[op][key] = err
}

// ClearErrors removes every simulated error
func (m *MockRepository) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = make(map[string]map[string]error)
}

// errorFor must be called with the lock held
func (m *MockRepository) errorFor(op, key string) error {
	byKey := m.errors[op]
	if byKey == nil {
		return nil
	}
	if err, ok := byKey[key]; ok {
		return err
	}
	return byKey[AnyKey]
}

// OnCreate registers fn to run before each collection is stored, with the lock released
func (m *MockRepository) OnCreate(fn func(slug string)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createHooks = append(m.createHooks, fn)
}

// AddCollection stores a collection as is
func (m *MockRepository) AddCollection(collection *model.Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := cloneCollection(collection)
	if c.Revision == 0 {
		c.Revision = 1
	}
	m.collections[c.Slug] = c
}

// AddCommonsGroup serves group from groupURL
func (m *MockRepository) AddCommonsGroup(groupURL string, group *model.CommonsGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := *group
	m.commonsGroups[groupURL] = &g
}

// AddAvatar serves avatar from avatarURL
func (m *MockRepository) AddAvatar(avatarURL string, avatar *model.Avatar) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.avatars[avatarURL] = avatar
}

// AddUserIdentity registers a known remote identity
func (m *MockRepository) AddUserIdentity(identity *model.UserIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userIdentities[identityKey(identity.Method, identity.ID)] = identity
}

// AddRole registers an existing role
func (m *MockRepository) AddRole(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roles[name] = &model.Role{Name: name, CreatedAt: time.Now()}
}

// Collection returns a copy of the stored collection or nil
func (m *MockRepository) Collection(slug string) *model.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[slug]
	if !ok {
		return nil
	}
	return cloneCollection(c)
}

// Logo returns the stored logo of a collection or nil
func (m *MockRepository) Logo(slug string) *model.Avatar {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.logos[slug]
}

// RoleNames returns the names of every stored role
func (m *MockRepository) RoleNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.roles))
	for name := range m.roles {
		names = append(names, name)
	}
	return names
}

// Published returns the messages handed to the mock publisher
func (m *MockRepository) Published() []PublishedMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PublishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

func identityKey(method, id string) string {
	return method + "|" + id
}

func cloneCollection(c *model.Collection) *model.Collection {
	out := *c
	out.Members = append([]model.Member(nil), c.Members...)
	out.Metadata.Organizations = append([]model.Organization(nil), c.Metadata.Organizations...)
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		out.DeletedAt = &t
	}
	return &out
}
