// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package nats implements the storage and messaging ports on NATS JetStream.
package nats

import (
	"context"
	"log/slog"
	"time"

	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSClient wraps the NATS connection and the JetStream buckets the service uses
type NATSClient struct {
	conn        *nats.Conn
	js          jetstream.JetStream
	config      Config
	kvStore     map[string]jetstream.KeyValue
	objectStore map[string]jetstream.ObjectStore
	timeout     time.Duration
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	Close() error
	IsReady(ctx context.Context) error
}

// Close drains subscriptions and closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}

// IsReady checks if the NATS client is ready
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil {
		slog.ErrorContext(ctx, "NATS client is not initialized or not connected")
		return errors.NewServiceUnavailable("NATS client is not initialized or not connected")
	}
	if !c.conn.IsConnected() || c.conn.IsDraining() {
		slog.ErrorContext(ctx, "NATS client is not ready",
			"connected", c.conn.IsConnected(),
			"draining", c.conn.IsDraining(),
		)
		return errors.NewServiceUnavailable("NATS client is not ready, connection is not established or is draining")
	}
	slog.DebugContext(ctx, "NATS client is ready", "url", c.conn.ConnectedUrl())
	return nil
}

// QueueStream creates or updates the work queue stream backing a queue subject.
// Each message is kept until one worker acknowledges it.
func (c *NATSClient) QueueStream(ctx context.Context, streamName, subject string) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		slog.ErrorContext(ctx, "error creating NATS queue stream",
			"error", err,
			"stream", streamName,
			"subject", subject,
		)
		return err
	}
	slog.DebugContext(ctx, "NATS queue stream ready", "stream", stream.CachedInfo().Config.Name)
	return nil
}

// KeyValueStore binds an existing JetStream key-value bucket.
func (c *NATSClient) KeyValueStore(ctx context.Context, bucketName string) error {
	kvStore, err := c.js.KeyValue(ctx, bucketName)
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS JetStream key-value store",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
			"bucket", bucketName,
		)
		return err
	}

	if c.kvStore == nil {
		c.kvStore = make(map[string]jetstream.KeyValue)
	}
	c.kvStore[bucketName] = kvStore
	return nil
}

// ObjectStore binds an existing JetStream object store.
func (c *NATSClient) ObjectStore(ctx context.Context, storeName string) error {
	store, err := c.js.ObjectStore(ctx, storeName)
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS JetStream object store",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
			"store", storeName,
		)
		return err
	}

	if c.objectStore == nil {
		c.objectStore = make(map[string]jetstream.ObjectStore)
	}
	c.objectStore[storeName] = store
	return nil
}

// keyValue returns a bound bucket or ServiceUnavailable
func (c *NATSClient) keyValue(bucket string) (jetstream.KeyValue, error) {
	kv, exists := c.kvStore[bucket]
	if !exists || kv == nil {
		return nil, errors.NewServiceUnavailable("KV bucket not available: " + bucket)
	}
	return kv, nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	if config.URL == "" {
		return nil, errors.NewUnexpected("NATS URL is required")
	}

	opts := []nats.Option{
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected",
				"error", err,
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With("error", err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With("error", err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed",
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to connect to NATS", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		slog.ErrorContext(ctx, "error creating NATS JetStream client",
			"error", err,
			"nats_url", conn.ConnectedUrl(),
		)
		return nil, errors.NewServiceUnavailable("failed to create JetStream client", err)
	}

	client := &NATSClient{
		conn:    conn,
		js:      js,
		config:  config,
		timeout: config.Timeout,
	}

	for _, bucketName := range []string{
		constants.KVBucketNameCollections,
		constants.KVBucketNameRoles,
		constants.KVBucketNameGroupsMetadata,
	} {
		if err := client.KeyValueStore(ctx, bucketName); err != nil {
			conn.Close()
			return nil, errors.NewServiceUnavailable("failed to initialize NATS key-value store", err)
		}
	}

	if err := client.ObjectStore(ctx, constants.ObjectStoreNameLogos); err != nil {
		conn.Close()
		return nil, errors.NewServiceUnavailable("failed to initialize NATS object store", err)
	}

	if err := client.QueueStream(ctx, constants.UserDataUpdatesStream, constants.UserDataUpdatesSubject); err != nil {
		conn.Close()
		return nil, errors.NewServiceUnavailable("failed to initialize NATS queue stream", err)
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
