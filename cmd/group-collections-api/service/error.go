// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// errorResult is the body of every failed response.
type errorResult struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// statusOf maps a single error of the taxonomy to its status code.
func statusOf(err error) (int, string, bool) {
	switch e := err.(type) {
	case errors.Validation:
		return http.StatusBadRequest, e.Message(), true
	case errors.Unauthorized:
		return http.StatusUnauthorized, e.Message(), true
	case errors.Forbidden:
		return http.StatusForbidden, e.Message(), true
	case errors.NotFound:
		return http.StatusNotFound, e.Message(), true
	case errors.MethodNotAllowed:
		return http.StatusMethodNotAllowed, e.Message(), true
	case errors.RequestTimeout:
		return http.StatusRequestTimeout, e.Message(), true
	case errors.Conflict:
		return http.StatusConflict, e.Message(), true
	case errors.Unprocessable:
		return http.StatusUnprocessableEntity, e.Message(), true
	case errors.NotImplemented:
		return http.StatusNotImplemented, e.Message(), true
	case errors.ServiceUnavailable:
		return http.StatusServiceUnavailable, e.Message(), true
	case errors.Unexpected:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), true
	}
	return 0, "", false
}

// classify walks the error chain and returns the status of the outermost
// typed error. Anything outside the taxonomy is a 500.
func classify(err error) (int, string) {
	for err != nil {
		if status, message, ok := statusOf(err); ok {
			return status, message
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if status, message := classify(inner); status != http.StatusInternalServerError {
					return status, message
				}
			}
			err = nil
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			err = nil
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// wrapError converts err into the JSON error body and its status code.
func wrapError(ctx context.Context, err error) (int, errorResult) {
	status, message := classify(err)
	if message == "" {
		message = http.StatusText(status)
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}

	return status, errorResult{Message: message, Status: status}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := wrapError(ctx, err)
	writeJSON(ctx, w, status, body)
}
