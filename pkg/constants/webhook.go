// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Remote entity types carried by the idp_data_update webhook
const (
	EntityTypeUsers  = "users"
	EntityTypeGroups = "groups"
)

// Webhook retry configuration for queue publishing
const (
	WebhookMaxRetries     = 3
	WebhookRetryBaseDelay = 100  // milliseconds
	WebhookRetryMaxDelay  = 5000 // milliseconds
)

// Webhook responses
const (
	WebhookPath            = "/webhooks/idp_data_update"
	WebhookAcceptedMessage = "Webhook notification accepted"
	WebhookActiveMessage   = "Webhook receiver is active"
	WebhookMaxBodyBytes    = 10 * 1024 * 1024
)
