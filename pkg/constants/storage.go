// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameCollections is the name of the KV bucket for collections.
	KVBucketNameCollections = "group-collections"

	// KVBucketNameRoles is the name of the KV bucket for permission-group roles.
	KVBucketNameRoles = "group-collections-roles"

	// KVBucketNameGroupsMetadata is the name of the KV bucket for group metadata records.
	KVBucketNameGroupsMetadata = "groups-metadata"

	// ObjectStoreNameLogos is the object store holding collection logos.
	ObjectStoreNameLogos = "group-collections-logos"

	// CollectionLookupKeyPrefix prefixes every secondary key in the collections bucket
	CollectionLookupKeyPrefix = "lookup/"

	// KVLookupCollectionSlugPrefix maps a base58 encoded slug to a collection id
	KVLookupCollectionSlugPrefix = "lookup/slug/%s"

	// KVLookupGroupsMetadataGroupIDPrefix maps a group id to a metadata record id
	KVLookupGroupsMetadataGroupIDPrefix = "lookup/group_id/%s"
)
