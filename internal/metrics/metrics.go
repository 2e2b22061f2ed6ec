// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "group_collections"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeIgnored = "ignored"
)

// Collection metrics
var (
	// CollectionOperationsTotal counts collection operations by operation and outcome
	CollectionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_operations_total",
			Help:      "Total number of collection operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// SlugAttempts tracks how many candidates were looked at before a slug was found
	SlugAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slug_attempts",
			Help:      "Number of slug candidates checked per collection creation",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)
)

// Commons instance metrics
var (
	// CommonsRequestsTotal counts requests to Commons instances
	CommonsRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commons_requests_total",
			Help:      "Total number of requests to Commons instances by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// Webhook metrics
var (
	// WebhookEntitiesTotal counts remote entity updates by entity type and outcome
	WebhookEntitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_entities_total",
			Help:      "Total number of remote entity updates received by entity type and outcome",
		},
		[]string{"entity_type", "outcome"},
	)

	// MessagesPublishedTotal counts published messages by channel and outcome
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Total number of messages published by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts served requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15, 30},
		},
		[]string{"method", "route"},
	)
)

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
