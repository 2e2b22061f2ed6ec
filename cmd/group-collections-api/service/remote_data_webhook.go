// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"log/slog"
	"net/http"

	"github.com/mesh-research/group-collections-service/internal/domain/model"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

// ReceiveRemoteDataUpdate accepts user and group update notifications from a
// remote identity provider.
func (a *GroupCollectionsAPI) ReceiveRemoteDataUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := a.webhookAuth.ParsePrincipal(ctx, bearerToken(r), slog.Default()); err != nil {
		writeError(ctx, w, err)
		return
	}

	var request model.RemoteUpdateRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := a.webhook.Process(ctx, &request)
	if err != nil {
		if outcome != nil {
			slog.WarnContext(ctx, "remote data update partly rejected",
				"idp", request.IDP,
				"events", len(outcome.Events),
				"bad_entity_types", outcome.BadEntityTypes,
				"bad_events", len(outcome.BadEvents),
				"bad_users", outcome.BadUsers,
			)
		}
		writeError(ctx, w, err)
		return
	}

	slog.InfoContext(ctx, "remote data update accepted",
		"idp", request.IDP,
		"events", len(outcome.Events),
	)
	writeJSON(ctx, w, http.StatusAccepted, messageResult{
		Message: constants.WebhookAcceptedMessage,
		Status:  http.StatusAccepted,
	})
}

// WebhookStatus lets a remote identity provider check the receiver is up.
func (a *GroupCollectionsAPI) WebhookStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, messageResult{
		Message: constants.WebhookActiveMessage,
		Status:  http.StatusOK,
	})
}

// WebhookMethodNotAllowed answers PUT and DELETE on the webhook path.
func (a *GroupCollectionsAPI) WebhookMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(r.Context(), w, errors.NewMethodNotAllowed("Method not allowed"))
}
