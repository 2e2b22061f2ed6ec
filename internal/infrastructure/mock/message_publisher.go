// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
)

// MockMessagePublisher records published messages on the repository
type MockMessagePublisher struct {
	mock *MockRepository
}

// NewMockMessagePublisher creates a publisher backed by mock
func NewMockMessagePublisher(mock *MockRepository) port.MessagePublisher {
	return &MockMessagePublisher{mock: mock}
}

// Queue records a queued message
func (p *MockMessagePublisher) Queue(ctx context.Context, subject string, message any) error {
	return p.record(ctx, OpQueue, subject, message)
}

// Signal records a signal
func (p *MockMessagePublisher) Signal(ctx context.Context, subject string, message any) error {
	return p.record(ctx, OpSignal, subject, message)
}

func (p *MockMessagePublisher) record(ctx context.Context, channel, subject string, message any) error {
	p.mock.mu.Lock()
	defer p.mock.mu.Unlock()

	if err := p.mock.errorFor(channel, subject); err != nil {
		return err
	}

	slog.DebugContext(ctx, "mock publish",
		"channel", channel,
		"subject", subject,
	)
	p.mock.published = append(p.mock.published, PublishedMessage{Channel: channel, Subject: subject, Message: message})
	return nil
}
