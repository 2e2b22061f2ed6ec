// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/auth"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/commons"
	infrastructure "github.com/mesh-research/group-collections-service/internal/infrastructure/mock"
	"github.com/mesh-research/group-collections-service/internal/infrastructure/nats"
)

// Repository sources selected with REPOSITORY_SOURCE
const (
	RepositorySourceNATS = "nats"
	RepositorySourceMock = "mock"
)

var (
	natsClient *nats.NATSClient
	natsDoOnce sync.Once
)

func natsInit(ctx context.Context) {
	natsDoOnce.Do(func() {
		natsConfig, err := nats.NewConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid NATS configuration: %v", err)
		}

		client, errNewClient := nats.NewClient(ctx, natsConfig)
		if errNewClient != nil {
			log.Fatalf("failed to create NATS client: %v", errNewClient)
		}
		natsClient = client
	})
}

// RepositorySource returns REPOSITORY_SOURCE, defaulting to nats.
func RepositorySource() string {
	repoSource := os.Getenv("REPOSITORY_SOURCE")
	if repoSource == "" {
		repoSource = RepositorySourceNATS
	}
	if repoSource != RepositorySourceNATS && repoSource != RepositorySourceMock {
		log.Fatalf("unsupported repository implementation: %s", repoSource)
	}
	return repoSource
}

// NATSClient returns the shared NATS client, or nil when running on mocks.
func NATSClient(ctx context.Context) *nats.NATSClient {
	if RepositorySource() != RepositorySourceNATS {
		return nil
	}
	natsInit(ctx)
	return natsClient
}

// AuthService initializes the authentication service implementation
func AuthService(ctx context.Context) port.Authenticator {
	var authService port.Authenticator

	authSource := os.Getenv("AUTH_SOURCE")
	if authSource == "" {
		authSource = "jwt"
	}

	switch authSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock authentication service")
		authService = infrastructure.NewMockAuthService()
	case "jwt":
		slog.InfoContext(ctx, "initializing JWT authentication service")
		jwtAuth, err := auth.NewJWTAuth(auth.NewJWTAuthConfigFromEnv())
		if err != nil {
			log.Fatalf("failed to initialize JWT authentication service: %v", err)
		}
		authService = jwtAuth
	default:
		log.Fatalf("unsupported authentication service implementation: %s", authSource)
	}

	return authService
}

// WebhookAuthService checks the shared token presented to the webhook receiver
func WebhookAuthService(ctx context.Context, cfg *config.Config) port.Authenticator {
	if cfg.WebhookToken == "" {
		slog.WarnContext(ctx, "REMOTE_USER_DATA_WEBHOOK_TOKEN is not set, webhook accepts unauthenticated calls")
	}
	return auth.NewWebhookTokenAuth(cfg.WebhookToken)
}

// CollectionDirectory initializes the collection directory implementation
func CollectionDirectory(ctx context.Context) port.CollectionDirectory {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock collection directory")
		return infrastructure.NewMockCollectionDirectory(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing NATS collection directory")
		return nats.NewCollectionDirectory(NATSClient(ctx))
	}
}

// RoleStore initializes the role store implementation
func RoleStore(ctx context.Context) port.RoleStore {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock role store")
		return infrastructure.NewMockRoleStore(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing NATS role store")
		return nats.NewRoleStore(NATSClient(ctx))
	}
}

// GroupsMetadataRepository initializes the groups metadata storage implementation
func GroupsMetadataRepository(ctx context.Context) port.GroupsMetadataRepository {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock groups metadata repository")
		return infrastructure.NewMockGroupsMetadataRepository(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing NATS groups metadata repository")
		return nats.NewGroupsMetadataStore(NATSClient(ctx))
	}
}

// MessagePublisher initializes the queue and signal publisher implementation
func MessagePublisher(ctx context.Context) port.MessagePublisher {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock message publisher")
		return infrastructure.NewMockMessagePublisher(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing NATS message publisher")
		return nats.NewMessagePublisher(NATSClient(ctx))
	}
}

// UserIdentityReader initializes the accounts service lookup implementation
func UserIdentityReader(ctx context.Context) port.UserIdentityReader {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock user identity reader")
		return infrastructure.NewMockUserIdentityReader(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing NATS user identity reader")
		return nats.NewUserIdentityReader(NATSClient(ctx))
	}
}

// CommonsGroupFetcher initializes the Commons API client
func CommonsGroupFetcher(ctx context.Context) port.CommonsGroupFetcher {
	switch RepositorySource() {
	case RepositorySourceMock:
		slog.InfoContext(ctx, "initializing mock commons group fetcher")
		return infrastructure.NewMockCommonsGroupFetcher(infrastructure.NewMockRepository())
	default:
		slog.InfoContext(ctx, "initializing commons group fetcher")
		return commons.NewCommonsGroupFetcher(commons.NewConfigFromEnv())
	}
}
