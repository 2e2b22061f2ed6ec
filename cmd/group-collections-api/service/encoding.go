// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	goahttp "goa.design/goa/v3/http"

	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// messageResult is the body of the webhook status responses.
type messageResult struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := goahttp.ResponseEncoder(ctx, w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewValidation("request body is required")
		}
		return errors.NewValidation("invalid request body", err)
	}
	return nil
}

// bearerToken returns the credentials of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constants.AuthorizationHeader))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidation(fmt.Sprintf("%s must be a boolean", name))
	}
	return b, nil
}

// parseIfMatch reads the expected revision from If-Match. Zero means the
// header was absent.
func parseIfMatch(r *http.Request) (uint64, error) {
	raw := strings.TrimSpace(r.Header.Get(constants.IfMatchHeader))
	if raw == "" || raw == "*" {
		return 0, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	revision, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || revision == 0 {
		return 0, errors.NewValidation("If-Match must carry a record revision")
	}
	return revision, nil
}

func setETag(w http.ResponseWriter, revision uint64) {
	w.Header().Set(constants.ETagHeader, strconv.FormatUint(revision, 10))
}
