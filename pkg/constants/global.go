// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the group collections service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "group-collections"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"

	// AuthorizationHeader is the header name for the authorization
	AuthorizationHeader = "Authorization"

	// IfMatchHeader carries the expected revision on conditional updates
	IfMatchHeader = "If-Match"

	// ETagHeader returns the current revision of a record
	ETagHeader = "ETag"
)

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvWebhookToken is the bearer token remote IdPs present to the webhook
	EnvWebhookToken = "REMOTE_USER_DATA_WEBHOOK_TOKEN"
	// EnvConfigFile points to the YAML file holding the IdP configuration
	EnvConfigFile = "GROUP_COLLECTIONS_CONFIG"
	// EnvDatabaseURL is the Postgres DSN for the legacy groups table
	EnvDatabaseURL = "DATABASE_URL"
)
