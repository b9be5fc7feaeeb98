// Package lineage locates the most recent commit a fork shares with its
// parent repository, and the parent release that commit first shipped in.
// It walks two externally paginated commit histories without ever holding
// more than one page per history in memory.
package lineage

import "context"

// Page is one fetched slice of an upstream sequence. A page is a one-shot
// view: NextCursor from this page is required to fetch the following one.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// PageFunc fetches one page of a sequence. An empty cursor requests the
// first page. Implementations live at the transport boundary; the walker
// never issues two fetches for the same page.
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// History lazily walks a paginated sequence item by item, fetching the
// next page only once the current page's items are consumed and the
// previous page reported more remaining.
type History[T any] struct {
	fetch   PageFunc[T]
	items   []T
	pos     int
	cursor  string
	hasMore bool
	started bool
}

// NewHistory returns a walker over the sequence served by fetch.
func NewHistory[T any](fetch PageFunc[T]) *History[T] {
	return &History[T]{fetch: fetch}
}

// NewReleaseHistory returns a walker over a release sequence that drops
// releases without a resolvable tagged-commit timestamp. Filtering happens
// in a single forward pass per page; upstream ordering is preserved.
func NewReleaseHistory(fetch PageFunc[ReleaseRecord]) *History[ReleaseRecord] {
	filtered := func(ctx context.Context, cursor string) (Page[ReleaseRecord], error) {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return Page[ReleaseRecord]{}, err
		}
		kept := page.Items[:0:0]
		for _, r := range page.Items {
			if !r.CommittedAt.IsZero() {
				kept = append(kept, r)
			}
		}
		page.Items = kept
		return page, nil
	}
	return NewHistory(filtered)
}

// Next returns the next item in the sequence. The second return value is
// false once the sequence is exhausted; a fetch failure propagates
// unchanged and the walker must not be used afterwards.
func (h *History[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for h.pos >= len(h.items) {
		if h.started && !h.hasMore {
			return zero, false, nil
		}
		page, err := h.fetch(ctx, h.cursor)
		if err != nil {
			return zero, false, err
		}
		h.started = true
		h.items = page.Items
		h.pos = 0
		h.cursor = page.NextCursor
		h.hasMore = page.HasMore
	}
	item := h.items[h.pos]
	h.pos++
	return item, true, nil
}
