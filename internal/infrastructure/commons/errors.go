// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package commons

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mesh-research/group-collections-service/pkg/errors"
	"github.com/mesh-research/group-collections-service/pkg/httpclient"
)

// MapHTTPError maps httpclient errors to domain errors. what names the
// requested resource in messages.
func MapHTTPError(ctx context.Context, err error, what string) error {
	if err == nil {
		return nil
	}

	if httpclient.IsTimeout(err) {
		slog.WarnContext(ctx, "Commons request timed out", "resource", what, "error", err)
		return errors.NewRequestTimeout(fmt.Sprintf("request to Commons instance for %s timed out", what), err)
	}

	status := httpclient.StatusCode(err)
	if status == 0 {
		slog.ErrorContext(ctx, "Commons request failed with non-HTTP error",
			"resource", what,
			"error", err,
		)
		return errors.NewServiceUnavailable(fmt.Sprintf("could not connect to Commons instance to fetch %s", what), err)
	}

	slog.WarnContext(ctx, "Commons HTTP error occurred",
		"resource", what,
		"status_code", status,
	)

	switch status {
	case http.StatusNotFound, http.StatusGone:
		return errors.NewNotFound(fmt.Sprintf("%s could not be found on the Commons instance", what), err)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusProxyAuthRequired:
		return errors.NewUnprocessable(fmt.Sprintf("access to %s was not allowed by the Commons instance", what), err)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errors.NewUnprocessable(fmt.Sprintf("Commons instance failed while serving %s", what), err)
	default:
		return errors.NewUnprocessable(fmt.Sprintf("something went wrong requesting %s from the Commons instance", what), err)
	}
}
