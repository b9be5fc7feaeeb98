package lineage

import (
	"context"
	"time"
)

// FindCommonCommit merges two newest-first commit histories until it finds
// a commit present in both. The side whose current commit is newer is
// advanced, pulling it back in time toward the other side; on equal
// timestamps with different ids the fork side is advanced. A nil result
// with a nil error means the histories share no commit within the pages
// the upstream was able to serve.
func FindCommonCommit(ctx context.Context, fork, parent *History[CommitRecord]) (*CommitRecord, error) {
	forkCur, ok, err := fork.Next(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	parentCur, ok, err := parent.Next(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	for forkCur.ID != parentCur.ID {
		if forkCur.CommittedAt.Before(parentCur.CommittedAt) {
			parentCur, ok, err = parent.Next(ctx)
		} else {
			forkCur, ok, err = fork.Next(ctx)
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	common := forkCur
	return &common, nil
}

// LastReleaseBefore scans a release history ordered ascending by tagged
// commit time and returns the first release committed strictly after the
// given timestamp, i.e. the release the commit at that timestamp first
// appeared in. Nil without error means no release qualifies.
func LastReleaseBefore(ctx context.Context, releases *History[ReleaseRecord], ts time.Time) (*ReleaseRecord, error) {
	for {
		rel, ok, err := releases.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if ts.Before(rel.CommittedAt) {
			found := rel
			return &found, nil
		}
	}
}

// Resolve runs a full lineage resolution: common commit first, then the
// parent release containing it. No common commit short-circuits the
// release lookup. The walkers are consumed and must not be reused.
func Resolve(ctx context.Context, fork, parent *History[CommitRecord], releases *History[ReleaseRecord]) (Result, error) {
	common, err := FindCommonCommit(ctx, fork, parent)
	if err != nil {
		return Result{}, err
	}
	if common == nil {
		return Result{}, nil
	}
	release, err := LastReleaseBefore(ctx, releases, common.CommittedAt)
	if err != nil {
		return Result{}, err
	}
	return Result{Common: common, ParentRelease: release}, nil
}
