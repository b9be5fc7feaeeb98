// Package citation assembles the flat citation record for a repository:
// base metadata, creator list and related identifiers, including the
// fork-lineage links resolved against the parent repository.
package citation

import (
	"context"
	"fmt"
	"strings"

	"github.com/citeworks/ghcite/internal/github"
	"github.com/citeworks/ghcite/internal/lineage"
)

// Source is the upstream data needed to build one record. A fresh source
// must be used per build; the histories it hands out are consumed once.
type Source interface {
	RepoMetadata(ctx context.Context) (*github.RepoMetadata, error)
	Contributors(ctx context.Context) ([]github.Contributor, error)
	Branches(ctx context.Context) ([]string, error)
	Releases(ctx context.Context) ([]github.Release, error)
	CommitHistory(ref string, onParent bool) *lineage.History[lineage.CommitRecord]
	ParentReleaseHistory() *lineage.History[lineage.ReleaseRecord]
}

// Build fetches everything the record needs and aggregates it. Any
// upstream failure aborts the build; no partial record is returned.
// Absent pieces (no parent, no common commit, no license) are simply
// omitted.
func Build(ctx context.Context, src Source) (*Record, error) {
	meta, err := src.RepoMetadata(ctx)
	if err != nil {
		return nil, err
	}
	contributors, err := src.Contributors(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := src.Branches(ctx)
	if err != nil {
		return nil, err
	}
	releases, err := src.Releases(ctx)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Title:           meta.Name,
		Description:     meta.Description,
		Identifier:      meta.URL,
		Publisher:       Publisher,
		PublicationYear: meta.PushedAt.UTC().Format("2006"),
		CreatedAt:       meta.CreatedAt,
		UpdatedAt:       meta.PushedAt,
	}
	if meta.License != nil {
		rec.License = &License{
			Name:   meta.License.Name,
			URL:    meta.License.URL,
			SPDXID: meta.License.SPDXID,
		}
	}

	for _, release := range releases {
		rec.RelatedIdentifiers = append(rec.RelatedIdentifiers, RelatedIdentifier{
			Value:        fmt.Sprintf("%s/releases/tag/%s", meta.URL, release.TagName),
			RelationType: RelationHasVersion,
		})
	}
	for _, branch := range branches {
		rec.RelatedIdentifiers = append(rec.RelatedIdentifiers, RelatedIdentifier{
			Value:        fmt.Sprintf("%s/tree/%s", meta.URL, branch),
			RelationType: RelationIsVariantFormOf,
		})
	}

	if meta.Parent != nil {
		derived, err := deriveFromParent(ctx, src, meta)
		if err != nil {
			return nil, err
		}
		rec.RelatedIdentifiers = append(rec.RelatedIdentifiers, derived...)
	}

	for _, contributor := range contributors {
		rec.Creators = append(rec.Creators, creatorFromContributor(contributor))
	}

	return rec, nil
}

// deriveFromParent produces the IsDerivedFrom identifiers for a fork: the
// parent repository, the most recent common commit when one exists, and
// the parent release that commit first shipped in when one exists.
func deriveFromParent(ctx context.Context, src Source, meta *github.RepoMetadata) ([]RelatedIdentifier, error) {
	identifiers := []RelatedIdentifier{{
		Value:        meta.Parent.URL,
		RelationType: RelationIsDerivedFrom,
	}}

	fork := src.CommitHistory(meta.DefaultRef, false)
	parent := src.CommitHistory(meta.Parent.DefaultRef, true)
	result, err := lineage.Resolve(ctx, fork, parent, src.ParentReleaseHistory())
	if err != nil {
		return nil, err
	}

	if result.Common != nil {
		identifiers = append(identifiers, RelatedIdentifier{
			Value:        fmt.Sprintf("%s/commit/%s", meta.Parent.URL, result.Common.ID),
			RelationType: RelationIsDerivedFrom,
		})
	}
	if result.ParentRelease != nil {
		identifiers = append(identifiers, RelatedIdentifier{
			Value:        fmt.Sprintf("%s/releases/tag/%s", meta.Parent.URL, result.ParentRelease.TagName),
			RelationType: RelationIsDerivedFrom,
		})
	}
	return identifiers, nil
}

// creatorFromContributor builds a creator entry. A display name splits on
// whitespace into given (first token) and family (last token) names; a
// single-token name stays unsplit, and a missing display name falls back
// to the login handle.
func creatorFromContributor(c github.Contributor) Creator {
	if c.Name == "" {
		return Creator{Name: c.Login}
	}
	creator := Creator{Name: c.Name}
	parts := strings.Fields(c.Name)
	if len(parts) > 1 {
		creator.GivenName = parts[0]
		creator.FamilyName = parts[len(parts)-1]
	}
	return creator
}
