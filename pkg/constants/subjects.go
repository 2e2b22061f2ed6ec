// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subject constants for message publishing
const (
	// UserDataUpdatesStream is the JetStream stream backing the user-data-updates queue
	UserDataUpdatesStream = "USER_DATA_UPDATES"

	// UserDataUpdatesSubject is the JetStream subject of the user-data-updates queue
	UserDataUpdatesSubject = "group-collections.queue.user-data-updates"

	// RemoteDataUpdatedSignalSubject is the core NATS subject of the remote_data_updated signal
	RemoteDataUpdatedSignalSubject = "group-collections.signal.remote_data_updated"

	// UserIdentityLookupSubject is the request/reply subject answered by the accounts service
	UserIdentityLookupSubject = "accounts.user_identity.get"
)
