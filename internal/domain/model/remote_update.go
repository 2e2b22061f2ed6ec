// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RemoteUpdateRequest is the body a Commons instance posts to announce
// changed users or groups.
type RemoteUpdateRequest struct {
	IDP     string                          `json:"idp"`
	Updates map[string][]RemoteEntityUpdate `json:"updates"`
}

// RemoteEntityUpdate is a single changed entity.
type RemoteEntityUpdate struct {
	ID    EntityID `json:"id"`
	Event string   `json:"event"`
}

// EntityID accepts both string and numeric identifiers.
type EntityID string

// UnmarshalJSON implements json.Unmarshaler.
func (e *EntityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = EntityID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity id must be a string or a number: %w", err)
	}
	*e = EntityID(n.String())
	return nil
}

// RemoteDataEvent is published for each accepted remote update.
type RemoteDataEvent struct {
	IDP        string `json:"idp" msgpack:"idp"`
	EntityType string `json:"entity_type" msgpack:"entity_type"`
	Event      string `json:"event" msgpack:"event"`
	ID         string `json:"id" msgpack:"id"`
}

// RemoteDataSignal is sent on core NATS after a batch of events was queued.
type RemoteDataSignal struct {
	Events []RemoteDataEvent `json:"events"`
}

// UserIdentityQuery asks the accounts service for the local user behind a
// remote identity.
type UserIdentityQuery struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

// UserIdentity is the accounts service answer for a known identity.
type UserIdentity struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	UserID string `json:"user_id"`
}
