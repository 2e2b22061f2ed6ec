// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/metrics"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/utils"
)

// RemoteDataWebhookProcessor turns remote update notifications into queued events
type RemoteDataWebhookProcessor interface {
	Process(ctx context.Context, request *model.RemoteUpdateRequest) (*WebhookOutcome, error)
}

// WebhookOutcome reports how each update of a notification was handled
type WebhookOutcome struct {
	Events         []model.RemoteDataEvent
	BadEntityTypes []string
	BadEvents      []model.RemoteEntityUpdate
	BadUsers       []string
	BadGroups      []string
	users          int
	groups         int
}

// remoteDataWebhookOption defines a function type for setting options
type remoteDataWebhookOption func(*remoteDataWebhookProcessor)

// WithWebhookConfig sets the identity provider configuration
func WithWebhookConfig(cfg *config.Config) remoteDataWebhookOption {
	return func(p *remoteDataWebhookProcessor) {
		p.config = cfg
	}
}

// WithUserIdentityReader sets the user identity reader
func WithUserIdentityReader(reader port.UserIdentityReader) remoteDataWebhookOption {
	return func(p *remoteDataWebhookProcessor) {
		p.identities = reader
	}
}

// WithMessagePublisher sets the publisher
func WithMessagePublisher(publisher port.MessagePublisher) remoteDataWebhookOption {
	return func(p *remoteDataWebhookProcessor) {
		p.publisher = publisher
	}
}

// WithPublishRetry overrides the attempts and delays of queue publishing.
// Only transient failures are ever repeated.
func WithPublishRetry(retry utils.RetryConfig) remoteDataWebhookOption {
	return func(p *remoteDataWebhookProcessor) {
		p.retry = retry
	}
}

type remoteDataWebhookProcessor struct {
	config     *config.Config
	identities port.UserIdentityReader
	publisher  port.MessagePublisher
	retry      utils.RetryConfig
}

// NewRemoteDataWebhookProcessor creates the webhook processor
func NewRemoteDataWebhookProcessor(opts ...remoteDataWebhookOption) RemoteDataWebhookProcessor {
	p := &remoteDataWebhookProcessor{
		retry: utils.NewRetryConfig(
			constants.WebhookMaxRetries,
			constants.WebhookRetryBaseDelay*time.Millisecond,
			constants.WebhookRetryMaxDelay*time.Millisecond,
		).WithJitter(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.config == nil {
		p.config = config.DefaultConfig()
	}
	return p
}

// Process filters the updates against the identity provider configuration,
// publishes the accepted ones as a single batch and reports the rejected ones.
func (p *remoteDataWebhookProcessor) Process(ctx context.Context, request *model.RemoteUpdateRequest) (*WebhookOutcome, error) {
	if request == nil || request.IDP == "" || request.Updates == nil {
		slog.ErrorContext(ctx, "received malformed remote data update")
		return nil, errors.NewValidation("request must contain idp and updates")
	}

	idp := request.IDP
	endpoint, ok := p.config.RemoteDataEndpoint(idp)
	if !ok {
		slog.ErrorContext(ctx, "received remote data update from unknown idp", "idp", idp)
		return nil, errors.NewValidation(fmt.Sprintf("unknown idp: %s", idp))
	}

	outcome := &WebhookOutcome{}

	entityTypes := make([]string, 0, len(request.Updates))
	for entityType := range request.Updates {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Strings(entityTypes)

	for _, entityType := range entityTypes {
		if _, known := endpoint.EntityTypes[entityType]; !known {
			outcome.BadEntityTypes = append(outcome.BadEntityTypes, entityType)
			metrics.WebhookEntitiesTotal.WithLabelValues(entityType, metrics.OutcomeIgnored).Inc()
			slog.ErrorContext(ctx, "received update signal for unknown entity type",
				"idp", idp,
				"entity_type", entityType,
			)
			continue
		}

		slog.DebugContext(ctx, "received update signal",
			"idp", idp,
			"entity_type", entityType,
			"count", len(request.Updates[entityType]),
		)

		for _, update := range request.Updates[entityType] {
			if err := p.handleUpdate(ctx, idp, entityType, endpoint, update, outcome); err != nil {
				return nil, err
			}
		}
	}

	if len(outcome.Events) > 0 {
		if err := p.publish(ctx, outcome.Events); err != nil {
			return nil, err
		}
	} else {
		var missing []string
		if outcome.users == 0 && len(outcome.BadUsers) > 0 {
			missing = append(missing, constants.EntityTypeUsers)
		}
		if outcome.groups == 0 && len(outcome.BadGroups) > 0 {
			missing = append(missing, constants.EntityTypeGroups)
		}
		if len(missing) > 0 {
			slog.ErrorContext(ctx, "requested updates for entities that do not exist",
				"idp", idp,
				"entities", missing,
			)
			return outcome, errors.NewNotFound(fmt.Sprintf("%s requested updates for %s that do not exist", idp, strings.Join(missing, " and ")))
		}
		slog.ErrorContext(ctx, "no valid events received", "idp", idp)
		return outcome, errors.NewValidation("no valid events received")
	}

	if len(outcome.BadEntityTypes) > 0 || len(outcome.BadEvents) > 0 {
		return outcome, errors.NewValidation(fmt.Sprintf(
			"published %d events but rejected %d entity types and %d events",
			len(outcome.Events), len(outcome.BadEntityTypes), len(outcome.BadEvents)))
	}

	return outcome, nil
}

func (p *remoteDataWebhookProcessor) handleUpdate(ctx context.Context, idp, entityType string, endpoint config.RemoteDataEndpoint, update model.RemoteEntityUpdate, outcome *WebhookOutcome) error {
	if _, accepted := endpoint.AcceptsEvent(entityType, update.Event); !accepted {
		outcome.BadEvents = append(outcome.BadEvents, update)
		metrics.WebhookEntitiesTotal.WithLabelValues(entityType, metrics.OutcomeIgnored).Inc()
		slog.ErrorContext(ctx, "received update signal for unknown event",
			"idp", idp,
			"entity_type", entityType,
			"event", update.Event,
			"id", update.ID,
		)
		return nil
	}

	id := string(update.ID)
	event := model.RemoteDataEvent{
		IDP:        idp,
		EntityType: entityType,
		Event:      update.Event,
		ID:         id,
	}

	switch entityType {
	case constants.EntityTypeUsers:
		_, err := p.identities.GetUserIdentity(ctx, model.UserIdentityQuery{ID: id, Method: idp})
		if err != nil {
			var notFound errors.NotFound
			if !stderrors.As(err, &notFound) {
				slog.ErrorContext(ctx, "failed to look up user identity",
					"error", err,
					"idp", idp,
					"id", id,
				)
				return err
			}
			outcome.BadUsers = append(outcome.BadUsers, id)
			metrics.WebhookEntitiesTotal.WithLabelValues(entityType, metrics.OutcomeFailure).Inc()
			slog.ErrorContext(ctx, "received update signal for unknown user",
				"idp", idp,
				"id", id,
			)
			return nil
		}
		outcome.users++
		outcome.Events = append(outcome.Events, event)
	case constants.EntityTypeGroups:
		outcome.groups++
		outcome.Events = append(outcome.Events, event)
	default:
		slog.WarnContext(ctx, "no handler for configured entity type, update dropped",
			"idp", idp,
			"entity_type", entityType,
		)
		return nil
	}

	metrics.WebhookEntitiesTotal.WithLabelValues(entityType, metrics.OutcomeSuccess).Inc()
	return nil
}

// publish queues the batch and then signals listeners.
func (p *remoteDataWebhookProcessor) publish(ctx context.Context, events []model.RemoteDataEvent) error {
	retry := p.retry.WithRetryable(isTransientPublishError)
	err := utils.RetryWithExponentialBackoff(ctx, retry, "queue remote data updates", func(ctx context.Context) error {
		return p.publisher.Queue(ctx, constants.UserDataUpdatesSubject, events)
	})
	metrics.MessagesPublishedTotal.WithLabelValues("queue", metrics.Outcome(err)).Inc()
	if err != nil {
		return errors.NewServiceUnavailable("failed to queue remote data updates", err)
	}

	err = p.publisher.Signal(ctx, constants.RemoteDataUpdatedSignalSubject, model.RemoteDataSignal{Events: events})
	metrics.MessagesPublishedTotal.WithLabelValues("signal", metrics.Outcome(err)).Inc()
	if err != nil {
		return errors.NewServiceUnavailable("failed to signal remote data updates", err)
	}

	slog.DebugContext(ctx, "published events to queue and emitted remote_data_updated signal",
		"count", len(events),
	)
	return nil
}

// isTransientPublishError reports failures a later attempt may get past
func isTransientPublishError(err error) bool {
	var unavailable errors.ServiceUnavailable
	var timeout errors.RequestTimeout
	return stderrors.As(err, &unavailable) || stderrors.As(err, &timeout)
}
