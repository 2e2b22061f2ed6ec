// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package config loads the identity provider configuration shared by the
// collections API, the webhook receiver and the admin tooling.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// IdentityProvider describes a Commons instance known to the service
type IdentityProvider struct {
	Title string `yaml:"title"`
}

// MetadataEndpoint is where a Commons instance serves group metadata
type MetadataEndpoint struct {
	// URL contains an {id} placeholder for the remote group id
	URL string `yaml:"url"`

	// TokenName is the environment variable holding the bearer token
	TokenName string `yaml:"token_name"`

	// DefaultAvatar is the placeholder image the instance serves for groups without an avatar
	DefaultAvatar string `yaml:"default_avatar"`
}

// GroupURL returns the metadata URL for groupID.
func (m MetadataEndpoint) GroupURL(groupID string) string {
	return strings.ReplaceAll(m.URL, "{id}", url.PathEscape(groupID))
}

// Token reads the bearer token from the environment.
func (m MetadataEndpoint) Token() string {
	if m.TokenName == "" {
		return ""
	}
	return os.Getenv(m.TokenName)
}

// EntityTypeConfig lists the events accepted for one entity type
type EntityTypeConfig struct {
	Events []string `yaml:"events"`
}

// GroupsConfig holds the group role mapping of an identity provider
type GroupsConfig struct {
	// GroupRoles maps a permission level to the remote roles granted it
	GroupRoles map[string][]string `yaml:"group_roles"`
}

// RemoteDataEndpoint configures remote data updates for an identity provider
type RemoteDataEndpoint struct {
	EntityTypes map[string]EntityTypeConfig `yaml:"entity_types"`
	Groups      GroupsConfig                `yaml:"groups"`
}

// Config is the identity provider configuration
type Config struct {
	IdentityProviders   map[string]IdentityProvider   `yaml:"SSO_SAML_IDPS"`
	MetadataEndpoints   map[string]MetadataEndpoint   `yaml:"GROUP_COLLECTIONS_METADATA_ENDPOINTS"`
	RemoteRoles         map[string][]string           `yaml:"GROUP_COLLECTIONS_REMOTE_ROLES"`
	RemoteDataEndpoints map[string]RemoteDataEndpoint `yaml:"REMOTE_USER_DATA_API_ENDPOINTS"`

	// WebhookToken guards the webhook receiver when set
	WebhookToken string `yaml:"-"`
}

// DefaultConfig returns the configuration for a single knowledgeCommons instance
func DefaultConfig() *Config {
	return &Config{
		IdentityProviders: map[string]IdentityProvider{
			"knowledgeCommons": {Title: "Knowledge Commons"},
		},
		MetadataEndpoints: map[string]MetadataEndpoint{
			"knowledgeCommons": {
				URL:       "https://hcommons-dev.org/wp-json/commons/v1/groups/{id}",
				TokenName: "KNOWLEDGE_COMMONS_API_TOKEN",
			},
		},
		RemoteRoles: map[string][]string{
			"knowledgeCommons": {"administrator", "member", "moderator"},
		},
		RemoteDataEndpoints: map[string]RemoteDataEndpoint{
			"knowledgeCommons": {
				EntityTypes: map[string]EntityTypeConfig{
					constants.EntityTypeUsers:  {Events: []string{"created", "updated", "deleted"}},
					constants.EntityTypeGroups: {Events: []string{"created", "updated", "deleted"}},
				},
				Groups: GroupsConfig{
					GroupRoles: map[string][]string{
						"owner":   {"administrator"},
						"manager": {"moderator"},
						"reader":  {"member"},
					},
				},
			},
		},
	}
}

// NewConfigFromEnv loads the file named by GROUP_COLLECTIONS_CONFIG, falling
// back to DefaultConfig when the variable is unset.
func NewConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(constants.EnvConfigFile); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.WebhookToken = os.Getenv(constants.EnvWebhookToken)

	return cfg, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// InstanceTitle returns the human readable name of a Commons instance.
func (c *Config) InstanceTitle(instance string) (string, bool) {
	idp, ok := c.IdentityProviders[instance]
	if !ok {
		return "", false
	}
	return idp.Title, true
}

// MetadataEndpoint returns where the instance serves group metadata.
func (c *Config) MetadataEndpoint(instance string) (MetadataEndpoint, bool) {
	ep, ok := c.MetadataEndpoints[instance]
	return ep, ok
}

// RemoteDataEndpoint returns the remote data settings of an identity provider.
func (c *Config) RemoteDataEndpoint(idp string) (RemoteDataEndpoint, bool) {
	ep, ok := c.RemoteDataEndpoints[idp]
	return ep, ok
}

// GroupRoles returns the permission level mapping of an identity provider.
func (c *Config) GroupRoles(idp string) map[string][]string {
	return c.RemoteDataEndpoints[idp].Groups.GroupRoles
}

// AcceptsEvent reports whether the entity type is configured and, if so,
// whether event is one of its accepted events.
func (e RemoteDataEndpoint) AcceptsEvent(entityType, event string) (typeKnown, eventKnown bool) {
	cfg, ok := e.EntityTypes[entityType]
	if !ok {
		return false, false
	}
	for _, ev := range cfg.Events {
		if ev == event {
			return true, true
		}
	}
	return true, false
}
