// Package gitlocal serves commit and release pages from a local clone,
// implementing the same page contract as the API-backed data source. Tags
// stand in for releases, ordered ascending by their tagged commit time.
package gitlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/citeworks/ghcite/internal/lineage"
)

// PageSize matches the upstream API page maximum so local and remote
// walkers behave alike.
const PageSize = 100

// Open opens a repository working copy at path.
func Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CommitPages returns a page fetcher over the newest-first commit history
// starting at refName (HEAD when empty). The fetcher is stateful and must
// be consumed by a single walker in sequence.
func CommitPages(repo *git.Repository, refName string) (lineage.PageFunc[lineage.CommitRecord], error) {
	var from plumbing.Hash
	if refName == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, fmt.Errorf("resolving HEAD: %w", err)
		}
		from = head.Hash()
	} else {
		ref, err := repo.Reference(plumbing.ReferenceName(refName), true)
		if err != nil {
			return nil, fmt.Errorf("resolving ref %s: %w", refName, err)
		}
		from = ref.Hash()
	}

	iter, err := repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("opening commit log: %w", err)
	}

	exhausted := false
	return func(ctx context.Context, cursor string) (lineage.Page[lineage.CommitRecord], error) {
		var page lineage.Page[lineage.CommitRecord]
		for len(page.Items) < PageSize {
			commit, err := iter.Next()
			if errors.Is(err, io.EOF) {
				exhausted = true
				break
			}
			if err != nil {
				return lineage.Page[lineage.CommitRecord]{}, fmt.Errorf("walking commit log: %w", err)
			}
			page.Items = append(page.Items, lineage.CommitRecord{
				ID:          commit.Hash.String(),
				CommittedAt: commit.Committer.When,
			})
		}
		page.HasMore = !exhausted
		return page, nil
	}, nil
}

// TagPages returns a page fetcher over the repository's tags, ascending
// by tagged commit time. Tags that do not resolve to a commit yield
// records with a zero timestamp for the release walker to filter.
func TagPages(repo *git.Repository) (lineage.PageFunc[lineage.ReleaseRecord], error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var records []lineage.ReleaseRecord
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		record := lineage.ReleaseRecord{
			Name:    ref.Name().Short(),
			TagName: ref.Name().Short(),
		}

		target := ref.Hash()
		if tag, err := repo.TagObject(ref.Hash()); err == nil {
			// Annotated tag; follow it to its target.
			if tag.TargetType != plumbing.CommitObject {
				records = append(records, record)
				return nil
			}
			target = tag.Target
		}

		commit, err := repo.CommitObject(target)
		if err != nil {
			records = append(records, record)
			return nil
		}
		record.CommittedAt = commit.Committer.When
		record.CommitID = commit.Hash.String()
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CommittedAt.Before(records[j].CommittedAt)
	})

	offset := 0
	return func(ctx context.Context, cursor string) (lineage.Page[lineage.ReleaseRecord], error) {
		end := offset + PageSize
		if end > len(records) {
			end = len(records)
		}
		page := lineage.Page[lineage.ReleaseRecord]{
			Items:   records[offset:end],
			HasMore: end < len(records),
		}
		offset = end
		return page, nil
	}, nil
}
