// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Command group-collections-api serves the group collections HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goa.design/clue/health"
	"golang.org/x/sync/errgroup"

	apiservice "github.com/mesh-research/group-collections-service/cmd/group-collections-api/service"
	"github.com/mesh-research/group-collections-service/internal/config"
	"github.com/mesh-research/group-collections-service/internal/service"
	"github.com/mesh-research/group-collections-service/pkg/log"
	"github.com/mesh-research/group-collections-service/pkg/utils"
)

const (
	defaultPort             = "8080"
	gracefulShutdownTimeout = 25 * time.Second
	readHeaderTimeout       = 10 * time.Second
)

func main() {
	var (
		port = flag.String("p", envOrDefault("PORT", defaultPort), "listen port")
		bind = flag.String("bind", "", "interface to bind on")
	)
	flag.Parse()

	log.InitStructureLogConfig()

	if err := run(*bind, *port); err != nil {
		slog.Error("group collections api stopped", "error", err, log.PriorityCritical())
		os.Exit(1)
	}
}

func run(bind, port string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up OpenTelemetry: %w", err)
	}
	defer func() {
		if errShutdown := otelShutdown(context.Background()); errShutdown != nil {
			slog.Error("failed to shut down OpenTelemetry", "error", errShutdown)
		}
	}()

	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		return err
	}

	directory := apiservice.CollectionDirectory(ctx)

	collections := service.NewGroupCollectionsOrchestrator(
		service.WithConfig(cfg),
		service.WithCollectionDirectory(directory),
		service.WithRoleStore(apiservice.RoleStore(ctx)),
		service.WithCommonsGroupFetcher(apiservice.CommonsGroupFetcher(ctx)),
	)
	webhook := service.NewRemoteDataWebhookProcessor(
		service.WithWebhookConfig(cfg),
		service.WithUserIdentityReader(apiservice.UserIdentityReader(ctx)),
		service.WithMessagePublisher(apiservice.MessagePublisher(ctx)),
	)
	metadata := service.NewGroupsMetadataOrchestrator(
		service.WithGroupsMetadataRepository(apiservice.GroupsMetadataRepository(ctx)),
	)

	api := apiservice.NewGroupCollectionsAPI(
		apiservice.AuthService(ctx),
		apiservice.WebhookAuthService(ctx, cfg),
		collections,
		webhook,
		metadata,
	)

	checks := []health.Pinger{readinessCheck{name: "collections", check: collections.IsReady}}
	if client := apiservice.NATSClient(ctx); client != nil {
		checks = append(checks, readinessCheck{name: "nats", check: client.IsReady})
		defer func() {
			if errClose := client.Close(); errClose != nil {
				slog.Error("failed to close NATS client", "error", errClose)
			}
		}()
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(bind, port),
		Handler:           newHTTPHandler(api, checks...),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
