// Package github is the data source for citation generation. It answers
// five questions about a repository — metadata, contributors, branches,
// releases, and paginated commit/release history — over the GitHub
// GraphQL and REST APIs, and maps every failure to a single UpstreamError.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v77/github"

	"github.com/citeworks/ghcite/internal/lineage"
)

const (
	// DefaultAPIURL is the public GitHub API endpoint.
	DefaultAPIURL = "https://api.github.com"
	// DefaultWebURL is the public GitHub web host, used to build
	// human-facing links for parent repositories.
	DefaultWebURL = "https://github.com"

	// pageSize is the upstream-defined page maximum; every paginated
	// query fetches exactly one page of this size at a time.
	pageSize = 100
)

// Config carries the connection parameters for a Client. Zero values fall
// back to the public GitHub endpoints and anonymous access.
type Config struct {
	APIURL string
	WebURL string
	Token  string
}

// Client fetches data for one repository. It is safe to discard after one
// citation generation; walkers handed out by CommitHistory and
// ParentReleaseHistory own their cursor state exclusively.
type Client struct {
	gh     *github.Client
	webURL string
	owner  string
	name   string
}

// NewClient creates a client for the given repository.
func NewClient(cfg Config, owner, name string) (*Client, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.WebURL == "" {
		cfg.WebURL = DefaultWebURL
	}

	gh := github.NewClient(nil)
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}
	if cfg.APIURL != DefaultAPIURL {
		var err error
		gh, err = gh.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring API base URL: %w", err)
		}
	}

	return &Client{
		gh:     gh,
		webURL: cfg.WebURL,
		owner:  owner,
		name:   name,
	}, nil
}

// Contributors returns the repository's contributors ordered by
// contribution count, each resolved to their display name via a user
// lookup.
func (c *Client) Contributors(ctx context.Context) ([]Contributor, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var all []Contributor
	for {
		contributors, resp, err := c.gh.Repositories.ListContributors(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, wrapAPIError(err)
		}

		for _, contributor := range contributors {
			login := contributor.GetLogin()
			user, _, err := c.gh.Users.Get(ctx, login)
			if err != nil {
				return nil, wrapAPIError(err)
			}
			all = append(all, Contributor{Login: login, Name: user.GetName()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// Branches returns all branch names of the repository.
func (c *Client) Branches(ctx context.Context) ([]string, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var names []string
	for {
		branches, resp, err := c.gh.Repositories.ListBranches(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, wrapAPIError(err)
		}

		for _, branch := range branches {
			names = append(names, branch.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// Releases returns the repository's own published releases, newest first.
// Draft releases are skipped.
func (c *Client) Releases(ctx context.Context) ([]Release, error) {
	opts := &github.ListOptions{PerPage: pageSize}

	var all []Release
	for {
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, wrapAPIError(err)
		}

		for _, release := range releases {
			if release.GetDraft() {
				continue
			}
			all = append(all, Release{Name: release.GetName(), TagName: release.GetTagName()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// CommitHistory returns a newest-first walker over the commit history of
// the given fully qualified ref, on the repository itself or its parent.
func (c *Client) CommitHistory(ref string, onParent bool) *lineage.History[lineage.CommitRecord] {
	return lineage.NewHistory(func(ctx context.Context, cursor string) (lineage.Page[lineage.CommitRecord], error) {
		return c.commitPage(ctx, ref, cursor, onParent)
	})
}

// ParentReleaseHistory returns a walker over the parent repository's
// releases, ascending by creation, with unresolvable tags filtered out.
func (c *Client) ParentReleaseHistory() *lineage.History[lineage.ReleaseRecord] {
	return lineage.NewReleaseHistory(c.parentReleasePage)
}
