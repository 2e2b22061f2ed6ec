// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// messagingPublisher implements the MessagePublisher interface using NATS
type messagingPublisher struct {
	client *NATSClient
}

// Queue persists a msgpack encoded message on the JetStream stream bound to subject.
// Workers consume it at their own pace.
func (m *messagingPublisher) Queue(ctx context.Context, subject string, message any) error {
	if err := m.ready(ctx, subject, "queue"); err != nil {
		return err
	}

	data, err := msgpack.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal message to msgpack",
			"error", err,
			"subject", subject,
		)
		return errors.NewUnexpected("failed to marshal message", err)
	}

	ack, err := m.client.js.Publish(ctx, subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish message to JetStream",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("failed to queue message", err)
	}

	slog.DebugContext(ctx, "message queued successfully",
		"subject", subject,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"message_size", len(data),
	)
	return nil
}

// Signal broadcasts a JSON message on core NATS. Nobody listening is not an error.
func (m *messagingPublisher) Signal(ctx context.Context, subject string, message any) error {
	if err := m.ready(ctx, subject, "signal"); err != nil {
		return err
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal message to JSON",
			"error", err,
			"subject", subject,
		)
		return errors.NewUnexpected("failed to marshal message", err)
	}

	if err := m.client.conn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish message to NATS",
			"error", err,
			"subject", subject,
		)
		return errors.NewServiceUnavailable("failed to publish message", err)
	}

	slog.DebugContext(ctx, "signal published successfully",
		"subject", subject,
		"message_size", len(data),
	)
	return nil
}

func (m *messagingPublisher) ready(ctx context.Context, subject, channel string) error {
	if err := m.client.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS client is not ready for publishing",
			"error", err,
			"subject", subject,
			"channel", channel,
		)
		return errors.NewServiceUnavailable("NATS client is not ready", err)
	}
	return nil
}

// NewMessagePublisher creates a new MessagePublisher using NATS
func NewMessagePublisher(client *NATSClient) port.MessagePublisher {
	return &messagingPublisher{
		client: client,
	}
}
