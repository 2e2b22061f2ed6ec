// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/akamensky/base58"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mesh-research/group-collections-service/pkg/constants"
	errs "github.com/mesh-research/group-collections-service/pkg/errors"
)

// storage holds the KV helpers shared by every NATS backed store
type storage struct {
	client *NATSClient
}

// encodeKey makes an arbitrary string safe for use as a KV key. Slugs carry
// percent escapes and role names carry '|', neither of which NATS accepts.
func encodeKey(raw string) string {
	return base58.Encode([]byte(raw))
}

func slugLookupKey(slug string) string {
	return fmt.Sprintf(constants.KVLookupCollectionSlugPrefix, encodeKey(slug))
}

func groupIDLookupKey(groupID string) string {
	return fmt.Sprintf(constants.KVLookupGroupsMetadataGroupIDPrefix, encodeKey(groupID))
}

func isLookupKey(key string) bool {
	return strings.HasPrefix(key, constants.CollectionLookupKeyPrefix)
}

// isRevisionMismatch reports a compare-and-set failure on Update or Delete
func isRevisionMismatch(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

// get unmarshals the value under key into out and returns its revision
func (s *storage) get(ctx context.Context, bucket, key string, out any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return 0, err
	}

	entry, err := kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	if out != nil {
		if err := json.Unmarshal(entry.Value(), out); err != nil {
			return 0, errs.NewUnexpected("failed to decode stored value", err)
		}
	}

	return entry.Revision(), nil
}

// getString returns a raw string value, used for lookup keys
func (s *storage) getString(ctx context.Context, bucket, key string) (string, uint64, error) {
	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return "", 0, err
	}

	entry, err := kv.Get(ctx, key)
	if err != nil {
		return "", 0, err
	}
	return string(entry.Value()), entry.Revision(), nil
}

// create stores value under key only if the key does not exist yet
func (s *storage) create(ctx context.Context, bucket, key string, value any) (uint64, error) {
	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return 0, err
	}

	data, err := encodeValue(value)
	if err != nil {
		return 0, err
	}

	return kv.Create(ctx, key, data)
}

// update replaces the value under key if its revision still matches
func (s *storage) update(ctx context.Context, bucket, key string, value any, revision uint64) (uint64, error) {
	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return 0, err
	}

	data, err := encodeValue(value)
	if err != nil {
		return 0, err
	}

	return kv.Update(ctx, key, data, revision)
}

// delete removes key, guarded by revision when it is not zero
func (s *storage) delete(ctx context.Context, bucket, key string, revision uint64) error {
	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return err
	}

	var opts []jetstream.KVDeleteOpt
	if revision != 0 {
		opts = append(opts, jetstream.LastRevision(revision))
	}
	return kv.Delete(ctx, key, opts...)
}

// keys lists every live key of bucket
func (s *storage) keys(ctx context.Context, bucket string) ([]string, error) {
	kv, err := s.client.keyValue(bucket)
	if err != nil {
		return nil, err
	}

	lister, err := kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	return keys, nil
}

// encodeValue stores strings as is and everything else as JSON
func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, errs.NewUnexpected("failed to encode value", err)
	}
	return data, nil
}

// IsReady checks the underlying connection
func (s *storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}
