// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MessagePublisher delivers remote data update notifications to the rest of the platform
type MessagePublisher interface {
	// Queue persists the message on a stream so workers can process it later
	Queue(ctx context.Context, subject string, message any) error

	// Signal broadcasts the message to whoever is listening right now
	Signal(ctx context.Context, subject string, message any) error
}
