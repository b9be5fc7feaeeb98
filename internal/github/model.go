package github

import "time"

// RepoMetadata is the repository information consumed by the citation
// builder. Optional pieces (license, parent, default branch) are nil when
// the platform reports none.
type RepoMetadata struct {
	Name        string
	Description string
	URL         string
	CreatedAt   time.Time
	PushedAt    time.Time
	IsArchived  bool
	IsFork      bool
	DefaultRef  string // fully qualified, e.g. refs/heads/main
	License     *License
	Parent      *ParentRepo
}

// License is the repository's license metadata.
type License struct {
	Name   string
	URL    string
	SPDXID string
}

// ParentRepo summarizes the upstream repository a fork was created from.
type ParentRepo struct {
	Owner      string
	Name       string
	URL        string
	DefaultRef string
	IsArchived bool
}

// Contributor is one repository contributor. Name is the display name and
// may be empty; Login is always set.
type Contributor struct {
	Login string
	Name  string
}

// Release is a published release of the repository itself, used for the
// HasVersion related identifiers.
type Release struct {
	Name    string
	TagName string
}
