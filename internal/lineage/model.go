package lineage

import "time"

// CommitRecord is a single commit as reported by the upstream history
// query. Identity is ID; CommittedAt is the ordering key when comparing
// commits across two different histories.
type CommitRecord struct {
	ID          string    `json:"id"`
	CommittedAt time.Time `json:"committed_at"`
}

// ReleaseRecord is a release together with the commit its tag points at.
// A record whose tag does not resolve to a commit carries a zero
// CommittedAt and is dropped by the release history walker.
type ReleaseRecord struct {
	Name        string    `json:"name"`
	TagName     string    `json:"tag_name"`
	CommittedAt time.Time `json:"committed_at"`
	CommitID    string    `json:"commit_id"`
}

// Result holds the outcome of one lineage resolution. Either field may be
// nil: no common commit means unrelated histories, and a missing parent
// release means no release contains the common commit.
type Result struct {
	Common        *CommitRecord
	ParentRelease *ReleaseRecord
}
