// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"

	"github.com/mesh-research/group-collections-service/internal/domain/port"
	"github.com/mesh-research/group-collections-service/pkg/constants"
	"github.com/mesh-research/group-collections-service/pkg/errors"
)

var slugDisallowed = regexp.MustCompile(`[^a-z0-9_-]+`)

// SlugResolution is the outcome of looking for a free collection slug.
type SlugResolution struct {
	// FreshSlug is the first candidate not held by any collection
	FreshSlug string
	// DeletedSlugs are candidates held by soft deleted collections of the same group
	DeletedSlugs []string
	// Attempt is the increment FreshSlug was built with
	Attempt int
}

// MakeBaseGroupSlug derives the base collection slug from a group name.
func MakeBaseGroupSlug(groupName string) string {
	s := strings.ToLower(groupName)
	s = strings.ReplaceAll(s, " ", "-")
	s = transliterate(s)

	if r := []rune(s); len(r) > constants.SlugMaxLength {
		s = string(r[:constants.SlugMaxLength])
	}

	s = slugDisallowed.ReplaceAllString(s, "")

	return url.PathEscape(s)
}

// transliterate spells any script in ASCII. Compatibility forms such as
// ligatures and full width letters are folded first. Some scripts come back
// capitalized, so the result is lowered again.
func transliterate(s string) string {
	return strings.ToLower(unidecode.Unidecode(norm.NFKC.String(s)))
}

func slugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}

// ResolveGroupSlug finds the first free slug for the group's collection.
// Candidates are base, base-1, base-2 and so on. Slugs of soft deleted
// collections owned by the same group are reported in DeletedSlugs. An active
// collection of the same group is a Conflict.
func ResolveGroupSlug(ctx context.Context, reader port.CollectionReader, groupID, groupName, instance string) (*SlugResolution, error) {
	return resolveGroupSlugFrom(ctx, reader, MakeBaseGroupSlug(groupName), groupID, instance, 0)
}

func resolveGroupSlugFrom(ctx context.Context, reader port.CollectionReader, base, groupID, instance string, start int) (*SlugResolution, error) {
	if base == "" {
		return nil, errors.NewValidation("group name does not produce a usable slug")
	}

	resolution := &SlugResolution{DeletedSlugs: []string{}}

	for attempt := start; attempt < constants.MaxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, attempt)

		existing, err := reader.GetBySlug(ctx, candidate)
		if err != nil {
			var notFound errors.NotFound
			if stderrors.As(err, &notFound) {
				resolution.FreshSlug = candidate
				resolution.Attempt = attempt
				return resolution, nil
			}
			return nil, err
		}

		if !existing.BelongsTo(instance, groupID) {
			slog.DebugContext(ctx, "slug held by another group, trying next increment",
				"slug", candidate,
			)
			continue
		}

		if existing.IsDeleted {
			resolution.DeletedSlugs = append(resolution.DeletedSlugs, candidate)
			continue
		}

		return nil, errors.NewConflict(fmt.Sprintf(
			"group %s from %s already has an active collection with the slug %s", groupID, instance, candidate))
	}

	return nil, errors.NewConflict(fmt.Sprintf(
		"no available slug for group %s from %s after %d attempts", groupID, instance, constants.MaxSlugAttempts))
}
