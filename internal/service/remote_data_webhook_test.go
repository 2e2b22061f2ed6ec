// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/utils"
)

func newTestWebhookProcessor(mockRepo *mock.MockRepository) RemoteDataWebhookProcessor {
	return NewRemoteDataWebhookProcessor(
		WithWebhookConfig(testConfig()),
		WithUserIdentityReader(mock.NewMockUserIdentityReader(mockRepo)),
		WithMessagePublisher(mock.NewMockMessagePublisher(mockRepo)),
		WithPublishRetry(utils.NewRetryConfig(2, time.Millisecond, time.Millisecond)),
	)
}

func updates(entries map[string][]model.RemoteEntityUpdate) *model.RemoteUpdateRequest {
	return &model.RemoteUpdateRequest{IDP: testInstance, Updates: entries}
}

func TestRemoteDataWebhookProcessorProcess(t *testing.T) {
	ctx := context.Background()
	mockRepo := mock.NewMockRepository()
	processor := newTestWebhookProcessor(mockRepo)

	knownUser := func() {
		mockRepo.AddUserIdentity(&model.UserIdentity{ID: "jdoe", Method: testInstance, UserID: "7"})
	}

	tests := []struct {
		name           string
		request        *model.RemoteUpdateRequest
		setupMock      func()
		errorType      error
		expectedEvents []model.RemoteDataEvent
		validate       func(t *testing.T, outcome *WebhookOutcome)
	}{
		{
			name: "users and groups are published",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeUsers:  {{ID: "jdoe", Event: "updated"}},
				constants.EntityTypeGroups: {{ID: "1004290", Event: "created"}},
			}),
			setupMock: knownUser,
			expectedEvents: []model.RemoteDataEvent{
				{IDP: testInstance, EntityType: constants.EntityTypeGroups, Event: "created", ID: "1004290"},
				{IDP: testInstance, EntityType: constants.EntityTypeUsers, Event: "updated", ID: "jdoe"},
			},
		},
		{
			name:      "missing idp",
			request:   &model.RemoteUpdateRequest{Updates: map[string][]model.RemoteEntityUpdate{}},
			setupMock: func() {},
			errorType: errs.Validation{},
		},
		{
			name:      "missing updates",
			request:   &model.RemoteUpdateRequest{IDP: testInstance},
			setupMock: func() {},
			errorType: errs.Validation{},
		},
		{
			name: "unknown idp",
			request: &model.RemoteUpdateRequest{
				IDP:     "msuCommons",
				Updates: map[string][]model.RemoteEntityUpdate{constants.EntityTypeGroups: {{ID: "1", Event: "created"}}},
			},
			setupMock: func() {},
			errorType: errs.Validation{},
		},
		{
			name: "unknown entity type is reported with the published events",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeGroups: {{ID: "1", Event: "deleted"}},
				"posts":                    {{ID: "9", Event: "created"}},
			}),
			setupMock: func() {},
			errorType: errs.Validation{},
			expectedEvents: []model.RemoteDataEvent{
				{IDP: testInstance, EntityType: constants.EntityTypeGroups, Event: "deleted", ID: "1"},
			},
			validate: func(t *testing.T, outcome *WebhookOutcome) {
				require.NotNil(t, outcome)
				assert.Equal(t, []string{"posts"}, outcome.BadEntityTypes)
				assert.Len(t, outcome.Events, 1)
			},
		},
		{
			name: "unknown event is reported",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeGroups: {{ID: "1", Event: "created"}, {ID: "2", Event: "archived"}},
			}),
			setupMock: func() {},
			errorType: errs.Validation{},
			expectedEvents: []model.RemoteDataEvent{
				{IDP: testInstance, EntityType: constants.EntityTypeGroups, Event: "created", ID: "1"},
			},
			validate: func(t *testing.T, outcome *WebhookOutcome) {
				require.NotNil(t, outcome)
				assert.Equal(t, []model.RemoteEntityUpdate{{ID: "2", Event: "archived"}}, outcome.BadEvents)
			},
		},
		{
			name: "only unknown users",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeUsers: {{ID: "ghost", Event: "updated"}},
			}),
			setupMock: func() {},
			errorType: errs.NotFound{},
			validate: func(t *testing.T, outcome *WebhookOutcome) {
				require.NotNil(t, outcome)
				assert.Equal(t, []string{"ghost"}, outcome.BadUsers)
			},
		},
		{
			name: "unknown user next to a known one",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeUsers: {{ID: "ghost", Event: "updated"}, {ID: "jdoe", Event: "updated"}},
			}),
			setupMock: knownUser,
			expectedEvents: []model.RemoteDataEvent{
				{IDP: testInstance, EntityType: constants.EntityTypeUsers, Event: "updated", ID: "jdoe"},
			},
			validate: func(t *testing.T, outcome *WebhookOutcome) {
				assert.Equal(t, []string{"ghost"}, outcome.BadUsers)
			},
		},
		{
			name: "only unknown events",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeUsers: {{ID: "jdoe", Event: "created"}},
			}),
			setupMock: knownUser,
			errorType: errs.Validation{},
		},
		{
			name: "identity lookup failure",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeUsers: {{ID: "jdoe", Event: "updated"}},
			}),
			setupMock: func() {
				mockRepo.SetError(mock.OpGetUserIdentity, "jdoe", errs.NewServiceUnavailable("accounts service down"))
			},
			errorType: errs.ServiceUnavailable{},
		},
		{
			name: "queue failure",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeGroups: {{ID: "1", Event: "updated"}},
			}),
			setupMock: func() {
				mockRepo.SetError(mock.OpQueue, constants.UserDataUpdatesSubject, errs.NewServiceUnavailable("jetstream down"))
			},
			errorType: errs.ServiceUnavailable{},
		},
		{
			name: "signal failure",
			request: updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeGroups: {{ID: "1", Event: "updated"}},
			}),
			setupMock: func() {
				mockRepo.SetError(mock.OpSignal, constants.RemoteDataUpdatedSignalSubject, errs.NewServiceUnavailable("nats down"))
			},
			errorType: errs.ServiceUnavailable{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ClearAll()
			tt.setupMock()

			outcome, err := processor.Process(ctx, tt.request)
			if tt.errorType != nil {
				require.Error(t, err)
				assert.IsType(t, tt.errorType, err)
			} else {
				require.NoError(t, err)
			}

			if tt.expectedEvents != nil {
				published := mockRepo.Published()
				require.Len(t, published, 2)
				assert.Equal(t, mock.OpQueue, published[0].Channel)
				assert.Equal(t, constants.UserDataUpdatesSubject, published[0].Subject)
				assert.Equal(t, tt.expectedEvents, published[0].Message)
				assert.Equal(t, mock.OpSignal, published[1].Channel)
				assert.Equal(t, model.RemoteDataSignal{Events: tt.expectedEvents}, published[1].Message)
			} else if tt.errorType != nil {
				assert.Empty(t, mockRepo.Published())
			}

			if tt.validate != nil {
				tt.validate(t, outcome)
			}
		})
	}

	mockRepo.ClearAll()
}

func TestRemoteDataWebhookProcessorQueueRetries(t *testing.T) {
	mockRepo := mock.NewMockRepository()
	mockRepo.ClearAll()
	defer mockRepo.ClearAll()

	tests := []struct {
		name          string
		failWith      error
		expectedCalls int
		expectError   bool
	}{
		{"transient failure is retried", errs.NewServiceUnavailable("stream not ready"), 2, false},
		{"timeout is retried", errs.NewRequestTimeout("publish timed out"), 2, false},
		{"permanent failure is not retried", errs.NewUnexpected("failed to marshal message"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ClearAll()
			publisher := &flakyPublisher{next: mock.NewMockMessagePublisher(mockRepo), failures: 1, failWith: tt.failWith}
			processor := NewRemoteDataWebhookProcessor(
				WithWebhookConfig(testConfig()),
				WithUserIdentityReader(mock.NewMockUserIdentityReader(mockRepo)),
				WithMessagePublisher(publisher),
				WithPublishRetry(utils.NewRetryConfig(3, time.Millisecond, time.Millisecond)),
			)

			_, err := processor.Process(context.Background(), updates(map[string][]model.RemoteEntityUpdate{
				constants.EntityTypeGroups: {{ID: "1", Event: "updated"}},
			}))
			assert.Equal(t, tt.expectedCalls, publisher.queueCalls)
			if tt.expectError {
				require.Error(t, err)
				assert.IsType(t, errs.ServiceUnavailable{}, err)
				assert.Empty(t, mockRepo.Published())
				return
			}
			require.NoError(t, err)
			assert.Len(t, mockRepo.Published(), 2)
		})
	}
}

// flakyPublisher fails the first queue calls before delegating.
type flakyPublisher struct {
	next       port.MessagePublisher
	failures   int
	failWith   error
	queueCalls int
}

func (f *flakyPublisher) Queue(ctx context.Context, subject string, message any) error {
	f.queueCalls++
	if f.queueCalls <= f.failures {
		return f.failWith
	}
	return f.next.Queue(ctx, subject, message)
}

func (f *flakyPublisher) Signal(ctx context.Context, subject string, message any) error {
	return f.next.Signal(ctx, subject, message)
}
