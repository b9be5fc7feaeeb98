package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/citeworks/ghcite/internal/lineage"
)

const repoMetadataQuery = `
query RepoMetadata($repoOwner: String!, $repoName: String!) {
  repository(owner: $repoOwner, name: $repoName) {
    name
    description
    url
    createdAt
    pushedAt
    isArchived
    isFork
    licenseInfo {
      name
      url
      spdxId
    }
    defaultBranchRef {
      prefix
      name
    }
    parent {
      name
      isArchived
      owner {
        login
      }
      defaultBranchRef {
        prefix
        name
      }
    }
  }
}`

const commitPageQuery = `
query FetchCommits($repoOwner: String!, $repoName: String!, $ref: String!, $after: String) {
  repository(owner: $repoOwner, name: $repoName) {
    ref(qualifiedName: $ref) {
      target {
        ... on Commit {
          history(first: 100, after: $after) {
            pageInfo {
              endCursor
              hasNextPage
            }
            nodes {
              oid
              committedDate
            }
          }
        }
      }
    }
  }
}`

const parentCommitPageQuery = `
query FetchParentCommits($repoOwner: String!, $repoName: String!, $ref: String!, $after: String) {
  repository(owner: $repoOwner, name: $repoName) {
    parent {
      ref(qualifiedName: $ref) {
        target {
          ... on Commit {
            history(first: 100, after: $after) {
              pageInfo {
                endCursor
                hasNextPage
              }
              nodes {
                oid
                committedDate
              }
            }
          }
        }
      }
    }
  }
}`

const parentReleasePageQuery = `
query FetchParentReleases($repoOwner: String!, $repoName: String!, $after: String) {
  repository(owner: $repoOwner, name: $repoName) {
    parent {
      releases(first: 100, after: $after, orderBy: {field: CREATED_AT, direction: ASC}) {
        pageInfo {
          endCursor
          hasNextPage
        }
        edges {
          node {
            name
            tag {
              name
              target {
                ... on Commit {
                  committedDate
                  oid
                }
              }
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type pageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

type refNode struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}

func (r *refNode) qualified() string {
	if r == nil {
		return ""
	}
	return r.Prefix + r.Name
}

type licenseNode struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	SpdxID string `json:"spdxId"`
}

type repoMetadataData struct {
	Repository struct {
		Name             string       `json:"name"`
		Description      string       `json:"description"`
		URL              string       `json:"url"`
		CreatedAt        time.Time    `json:"createdAt"`
		PushedAt         time.Time    `json:"pushedAt"`
		IsArchived       bool         `json:"isArchived"`
		IsFork           bool         `json:"isFork"`
		LicenseInfo      *licenseNode `json:"licenseInfo"`
		DefaultBranchRef *refNode     `json:"defaultBranchRef"`
		Parent           *struct {
			Name       string `json:"name"`
			IsArchived bool   `json:"isArchived"`
			Owner      struct {
				Login string `json:"login"`
			} `json:"owner"`
			DefaultBranchRef *refNode `json:"defaultBranchRef"`
		} `json:"parent"`
	} `json:"repository"`
}

type commitHistoryNode struct {
	PageInfo pageInfo `json:"pageInfo"`
	Nodes    []struct {
		Oid           string    `json:"oid"`
		CommittedDate time.Time `json:"committedDate"`
	} `json:"nodes"`
}

type commitRefNode struct {
	Ref *struct {
		Target struct {
			History commitHistoryNode `json:"history"`
		} `json:"target"`
	} `json:"ref"`
}

type releaseConnection struct {
	PageInfo pageInfo `json:"pageInfo"`
	Edges    []struct {
		Node struct {
			Name string `json:"name"`
			Tag  *struct {
				Name   string `json:"name"`
				Target *struct {
					CommittedDate time.Time `json:"committedDate"`
					Oid           string    `json:"oid"`
				} `json:"target"`
			} `json:"tag"`
		} `json:"node"`
	} `json:"edges"`
}

// runQuery executes one GraphQL document against the API. The repository
// owner and name are always injected as $repoOwner and $repoName.
func (c *Client) runQuery(ctx context.Context, query string, vars map[string]any, data any) error {
	if vars == nil {
		vars = map[string]any{}
	}
	vars["repoOwner"] = c.owner
	vars["repoName"] = c.name

	req, err := c.gh.NewRequest(http.MethodPost, "graphql", graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("building graphql request: %w", err)
	}

	var resp graphQLResponse
	if _, err := c.gh.Do(ctx, req, &resp); err != nil {
		return wrapAPIError(err)
	}
	if len(resp.Errors) > 0 {
		return &UpstreamError{Message: resp.Errors[0].Message, StatusCode: http.StatusInternalServerError}
	}
	if err := json.Unmarshal(resp.Data, data); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}
	return nil
}

// RepoMetadata fetches the repository's citation-relevant metadata,
// including the parent summary when the repository is a fork.
func (c *Client) RepoMetadata(ctx context.Context) (*RepoMetadata, error) {
	var data repoMetadataData
	if err := c.runQuery(ctx, repoMetadataQuery, nil, &data); err != nil {
		return nil, err
	}

	repo := data.Repository
	meta := &RepoMetadata{
		Name:        repo.Name,
		Description: repo.Description,
		URL:         repo.URL,
		CreatedAt:   repo.CreatedAt,
		PushedAt:    repo.PushedAt,
		IsArchived:  repo.IsArchived,
		IsFork:      repo.IsFork,
		DefaultRef:  repo.DefaultBranchRef.qualified(),
	}
	if repo.LicenseInfo != nil {
		meta.License = &License{
			Name:   repo.LicenseInfo.Name,
			URL:    repo.LicenseInfo.URL,
			SPDXID: repo.LicenseInfo.SpdxID,
		}
	}
	if repo.Parent != nil {
		meta.Parent = &ParentRepo{
			Owner:      repo.Parent.Owner.Login,
			Name:       repo.Parent.Name,
			URL:        fmt.Sprintf("%s/%s/%s", c.webURL, repo.Parent.Owner.Login, repo.Parent.Name),
			DefaultRef: repo.Parent.DefaultBranchRef.qualified(),
			IsArchived: repo.Parent.IsArchived,
		}
	}
	return meta, nil
}

// commitPage fetches one page of commit history for a ref, on the
// repository or its parent.
func (c *Client) commitPage(ctx context.Context, ref, cursor string, onParent bool) (lineage.Page[lineage.CommitRecord], error) {
	vars := map[string]any{"ref": ref}
	if cursor != "" {
		vars["after"] = cursor
	}

	var history commitHistoryNode
	if onParent {
		var data struct {
			Repository struct {
				Parent commitRefNode `json:"parent"`
			} `json:"repository"`
		}
		if err := c.runQuery(ctx, parentCommitPageQuery, vars, &data); err != nil {
			return lineage.Page[lineage.CommitRecord]{}, err
		}
		if data.Repository.Parent.Ref == nil {
			return lineage.Page[lineage.CommitRecord]{}, nil
		}
		history = data.Repository.Parent.Ref.Target.History
	} else {
		var data struct {
			Repository commitRefNode `json:"repository"`
		}
		if err := c.runQuery(ctx, commitPageQuery, vars, &data); err != nil {
			return lineage.Page[lineage.CommitRecord]{}, err
		}
		if data.Repository.Ref == nil {
			return lineage.Page[lineage.CommitRecord]{}, nil
		}
		history = data.Repository.Ref.Target.History
	}

	page := lineage.Page[lineage.CommitRecord]{
		NextCursor: history.PageInfo.EndCursor,
		HasMore:    history.PageInfo.HasNextPage,
	}
	for _, node := range history.Nodes {
		page.Items = append(page.Items, lineage.CommitRecord{
			ID:          node.Oid,
			CommittedAt: node.CommittedDate,
		})
	}
	return page, nil
}

// parentReleasePage fetches one page of the parent repository's releases,
// ascending by creation date. Releases whose tag target is not a commit
// come back with a zero timestamp; the release walker filters them.
func (c *Client) parentReleasePage(ctx context.Context, cursor string) (lineage.Page[lineage.ReleaseRecord], error) {
	vars := map[string]any{}
	if cursor != "" {
		vars["after"] = cursor
	}

	var data struct {
		Repository struct {
			Parent *struct {
				Releases releaseConnection `json:"releases"`
			} `json:"parent"`
		} `json:"repository"`
	}
	if err := c.runQuery(ctx, parentReleasePageQuery, vars, &data); err != nil {
		return lineage.Page[lineage.ReleaseRecord]{}, err
	}
	if data.Repository.Parent == nil {
		return lineage.Page[lineage.ReleaseRecord]{}, nil
	}

	releases := data.Repository.Parent.Releases
	page := lineage.Page[lineage.ReleaseRecord]{
		NextCursor: releases.PageInfo.EndCursor,
		HasMore:    releases.PageInfo.HasNextPage,
	}
	for _, edge := range releases.Edges {
		record := lineage.ReleaseRecord{Name: edge.Node.Name}
		if tag := edge.Node.Tag; tag != nil {
			record.TagName = tag.Name
			if tag.Target != nil {
				record.CommittedAt = tag.Target.CommittedDate
				record.CommitID = tag.Target.Oid
			}
		}
		page.Items = append(page.Items, record)
	}
	return page, nil
}
