// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// WebhookBodyMiddleware buffers the body of requests to path, rejecting
// anything larger than maxBytes before the handler decodes it.
func WebhookBodyMiddleware(path string, maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			body, err := io.ReadAll(r.Body)
			if err != nil {
				slog.WarnContext(r.Context(), "failed to read webhook body", "error", err)
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))

			next.ServeHTTP(w, r)
		})
	}
}
