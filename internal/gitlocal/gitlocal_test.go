package gitlocal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citeworks/ghcite/internal/lineage"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	})
	require.NoError(t, err)
	return hash
}

func initTestRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo, dir
}

func drain[T any](t *testing.T, h *lineage.History[T]) []T {
	t.Helper()
	var out []T
	for {
		item, ok, err := h.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

func TestCommitPagesNewestFirst(t *testing.T) {
	repo, dir := initTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	first := commitFile(t, repo, dir, "a.txt", "one", base)
	second := commitFile(t, repo, dir, "b.txt", "two", base.Add(time.Hour))

	fetch, err := CommitPages(repo, "")
	require.NoError(t, err)

	commits := drain(t, lineage.NewHistory(fetch))
	require.Len(t, commits, 2)
	assert.Equal(t, second.String(), commits[0].ID)
	assert.Equal(t, first.String(), commits[1].ID)
	assert.True(t, commits[1].CommittedAt.Before(commits[0].CommittedAt))
}

func TestCommitPagesResolvesNamedRef(t *testing.T) {
	repo, dir := initTestRepo(t)
	commitFile(t, repo, dir, "a.txt", "one", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	head, err := repo.Head()
	require.NoError(t, err)

	fetch, err := CommitPages(repo, head.Name().String())
	require.NoError(t, err)

	commits := drain(t, lineage.NewHistory(fetch))
	assert.Len(t, commits, 1)
}

func TestTagPagesAscending(t *testing.T) {
	repo, dir := initTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	first := commitFile(t, repo, dir, "a.txt", "one", base)
	second := commitFile(t, repo, dir, "b.txt", "two", base.Add(time.Hour))

	// Tag newest first to prove ordering comes from commit time, not
	// tag iteration order.
	_, err := repo.CreateTag("v2.0.0", second, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.0.0", first, nil)
	require.NoError(t, err)

	fetch, err := TagPages(repo)
	require.NoError(t, err)

	releases := drain(t, lineage.NewReleaseHistory(fetch))
	require.Len(t, releases, 2)
	assert.Equal(t, "v1.0.0", releases[0].TagName)
	assert.Equal(t, first.String(), releases[0].CommitID)
	assert.Equal(t, "v2.0.0", releases[1].TagName)
}

func TestLineageAcrossDivergedRefs(t *testing.T) {
	repo, dir := initTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	shared := commitFile(t, repo, dir, "a.txt", "one", base)

	head, err := repo.Head()
	require.NoError(t, err)
	trunk := head.Name()

	// Branch off, then let both refs advance independently.
	branchRef := plumbing.NewBranchReferenceName("fork")
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(branchRef, shared)))

	commitFile(t, repo, dir, "b.txt", "two", base.Add(time.Hour))

	forkFetch, err := CommitPages(repo, branchRef.String())
	require.NoError(t, err)
	parentFetch, err := CommitPages(repo, trunk.String())
	require.NoError(t, err)

	common, err := lineage.FindCommonCommit(context.Background(),
		lineage.NewHistory(forkFetch), lineage.NewHistory(parentFetch))
	require.NoError(t, err)
	require.NotNil(t, common)
	assert.Equal(t, shared.String(), common.ID)
}
