// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"goa.design/clue/health"
	goahttp "goa.design/goa/v3/http"

	apiservice "github.com/mesh-research/group-collections-service/cmd/group-collections-api/service"
	"github.com/mesh-research/group-collections-service/internal/middleware"
	"github.com/mesh-research/group-collections-service/pkg/constants"
)

// readinessCheck adapts an IsReady style function to a clue health pinger.
type readinessCheck struct {
	name  string
	check func(context.Context) error
}

func (r readinessCheck) Name() string                  { return r.name }
func (r readinessCheck) Ping(ctx context.Context) error { return r.check(ctx) }

// newHTTPHandler mounts the API, the health checks and the metrics endpoint and wraps
// them in the middleware chain.
func newHTTPHandler(api *apiservice.GroupCollectionsAPI, checks ...health.Pinger) http.Handler {
	mux := goahttp.NewMuxer()

	api.Mount(mux)

	mux.Handle(http.MethodGet, "/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle(http.MethodGet, "/readyz", health.Handler(health.NewChecker(checks...)))
	mux.Handle(http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP)

	var handler http.Handler = mux
	handler = middleware.WebhookBodyMiddleware(constants.WebhookPath, constants.WebhookMaxBodyBytes)(handler)
	handler = middleware.MetricsMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.RecoveryMiddleware()(handler)
	handler = otelhttp.NewHandler(handler, constants.ServiceName)

	return handler
}
