package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v77/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{WebURL: "https://github.example"}, "octo", "demo")
	require.NoError(t, err)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.gh.BaseURL = base
	return c
}

func TestCommitPageDecodesGraphQLHistory(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"repository":{"ref":{"target":{"history":{
			"pageInfo":{"endCursor":"abc123","hasNextPage":true},
			"nodes":[
				{"oid":"deadbeef","committedDate":"2024-03-01T12:00:00Z"},
				{"oid":"cafebabe","committedDate":"2024-02-28T08:30:00Z"}
			]}}}}}}`)
	}))

	page, err := c.commitPage(context.Background(), "refs/heads/main", "", false)
	require.NoError(t, err)
	assert.Equal(t, "abc123", page.NextCursor)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "deadbeef", page.Items[0].ID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), page.Items[0].CommittedAt)
}

func TestParentReleasePageMarksUnresolvableTags(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"repository":{"parent":{"releases":{
			"pageInfo":{"endCursor":"","hasNextPage":false},
			"edges":[
				{"node":{"name":"v1","tag":{"name":"v1.0.0","target":{"committedDate":"2023-01-01T00:00:00Z","oid":"aaa"}}}},
				{"node":{"name":"lightweight","tag":{"name":"misc","target":null}}}
			]}}}}}`)
	}))

	page, err := c.parentReleasePage(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "aaa", page.Items[0].CommitID)
	assert.False(t, page.Items[0].CommittedAt.IsZero())
	assert.True(t, page.Items[1].CommittedAt.IsZero(), "non-commit tag target must carry a zero timestamp")
}

func TestRepoMetadataParsesFork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"repository":{
			"name":"demo","description":"a demo","url":"https://github.example/octo/demo",
			"createdAt":"2020-05-01T10:00:00Z","pushedAt":"2024-06-01T10:00:00Z",
			"isArchived":false,"isFork":true,
			"licenseInfo":{"name":"MIT License","url":"https://api.github.com/licenses/mit","spdxId":"MIT"},
			"defaultBranchRef":{"prefix":"refs/heads/","name":"main"},
			"parent":{"name":"upstream","isArchived":false,
				"owner":{"login":"origin"},
				"defaultBranchRef":{"prefix":"refs/heads/","name":"trunk"}}}}}`)
	}))

	meta, err := c.RepoMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo", meta.Name)
	assert.Equal(t, "refs/heads/main", meta.DefaultRef)
	require.NotNil(t, meta.License)
	assert.Equal(t, "MIT", meta.License.SPDXID)
	require.NotNil(t, meta.Parent)
	assert.Equal(t, "https://github.example/origin/upstream", meta.Parent.URL)
	assert.Equal(t, "refs/heads/trunk", meta.Parent.DefaultRef)
}

func TestRunQuerySurfacesGraphQLErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"Could not resolve to a Repository"}]}`)
	}))

	_, err := c.RepoMetadata(context.Background())
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "Could not resolve to a Repository", upstream.Message)
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
}

func TestWrapAPIError(t *testing.T) {
	t.Run("rate limit gets token suggestion", func(t *testing.T) {
		err := wrapAPIError(&gogithub.RateLimitError{})
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
		assert.Contains(t, upstream.Message, "GitHub API token")
	})

	t.Run("error response passes message and status through", func(t *testing.T) {
		err := wrapAPIError(&gogithub.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusNotFound},
			Message:  "Not Found",
		})
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
		assert.Equal(t, "Not Found", upstream.Message)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, wrapAPIError(nil))
	})
}

func TestBranchesPaginates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"feature"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/demo/branches?page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[{"name":"main"},{"name":"dev"}]`)
	}))

	names, err := c.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "dev", "feature"}, names)
}

// Live API coverage, skipped without credentials.
func TestRepoMetadataLive(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping GitHub API tests")
	}

	c, err := NewClient(Config{Token: token}, "octocat", "Hello-World")
	require.NoError(t, err)

	meta, err := c.RepoMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello-World", meta.Name)
	assert.NotEmpty(t, meta.URL)
	assert.False(t, meta.CreatedAt.IsZero())
}
