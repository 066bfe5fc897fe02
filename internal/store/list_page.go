package store

import (
	"context"
	"errors"
	"time"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
	"auctioneer/internal/util"
)

// DefaultPageSize is the number of auctions per list page.
const DefaultPageSize = 10

var (
	ErrNoPreviousPage  = errors.New("already on the first page")
	ErrNoNextPage      = errors.New("already on the last page")
	ErrLastPageUnknown = errors.New("the last page is not known until a page has loaded")
)

// ListedAuction is a search result with its end date parsed.
type ListedAuction struct {
	model.Auction
	End time.Time
}

// AuctionListPageStore is one paginated auction search. Filters are passed
// on every call; the store only remembers where it is.
type AuctionListPageStore struct {
	Lifecycle
	client   *api.Client
	session  *Session
	pageSize int

	pageIndex int
	total     *int
	items     []ListedAuction
}

// NewAuctionListPageStore creates a page store. A pageSize below 1 uses
// DefaultPageSize.
func NewAuctionListPageStore(client *api.Client, session *Session, pageSize int) *AuctionListPageStore {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &AuctionListPageStore{client: client, session: session, pageSize: pageSize}
}

// maxPageIndex is the last valid page for total results.
func maxPageIndex(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total+pageSize-1)/pageSize - 1
}

// Reload returns to the first page, forgets the result count and fetches.
func (s *AuctionListPageStore) Reload(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, true, func() (int, error) { return 0, nil })
}

// Refresh re-fetches the current page.
func (s *AuctionListPageStore) Refresh(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, false, func() (int, error) { return s.pageIndex, nil })
}

// GoToFirstPage fetches page 0.
func (s *AuctionListPageStore) GoToFirstPage(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, false, func() (int, error) { return 0, nil })
}

// GoToLastPage fetches the last known page.
func (s *AuctionListPageStore) GoToLastPage(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, false, func() (int, error) {
		if s.total == nil {
			return 0, ErrLastPageUnknown
		}
		return maxPageIndex(*s.total, s.pageSize), nil
	})
}

// GoToNextPage fetches the following page. Before the first load the last
// page is unknown, so moving forward is allowed.
func (s *AuctionListPageStore) GoToNextPage(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, false, func() (int, error) {
		next := s.pageIndex + 1
		if s.total != nil && next > maxPageIndex(*s.total, s.pageSize) {
			return 0, ErrNoNextPage
		}
		return next, nil
	})
}

// GoToPrevPage fetches the preceding page.
func (s *AuctionListPageStore) GoToPrevPage(ctx context.Context, f model.AuctionFilters) error {
	return s.navigate(ctx, f, false, func() (int, error) {
		if s.pageIndex == 0 {
			return 0, ErrNoPreviousPage
		}
		return s.pageIndex - 1, nil
	})
}

// navigate picks the target page under the lock, then fetches it. A bounds
// error or a pending fetch leaves the store untouched.
func (s *AuctionListPageStore) navigate(ctx context.Context, f model.AuctionFilters, resetTotal bool, target func() (int, error)) error {
	s.mu.Lock()
	if s.status.IsPending() {
		s.mu.Unlock()
		return nil
	}
	index, err := target()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.pageIndex = index
	if resetTotal {
		s.total = nil
	}
	s.status = StatusPending()
	s.mu.Unlock()
	s.Notify()

	page, err := s.client.SearchAuctions(ctx, index*s.pageSize, s.pageSize, f)
	if err != nil {
		return s.FailWith(ctx, s.session, err)
	}

	items := make([]ListedAuction, 0, len(page.Auctions))
	for _, a := range page.Auctions {
		end, _ := util.ParseServerTime(a.EndDate)
		items = append(items, ListedAuction{Auction: a, End: end})
	}
	total := page.Count
	s.Succeed(func() {
		s.items = items
		s.total = &total
	})
	return nil
}

// PageSize returns the fixed page size.
func (s *AuctionListPageStore) PageSize() int { return s.pageSize }

// PageIndex returns the zero-based current page.
func (s *AuctionListPageStore) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// TotalCount returns the server's result count once a page has loaded.
func (s *AuctionListPageStore) TotalCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == nil {
		return 0, false
	}
	return *s.total, true
}

// MaxPageIndex returns the last page index once the result count is known.
func (s *AuctionListPageStore) MaxPageIndex() (int, bool) {
	total, ok := s.TotalCount()
	if !ok {
		return 0, false
	}
	return maxPageIndex(total, s.pageSize), true
}

// HasPrevPage reports whether GoToPrevPage would succeed.
func (s *AuctionListPageStore) HasPrevPage() bool {
	return s.PageIndex() > 0
}

// HasNextPage reports whether GoToNextPage would succeed.
func (s *AuctionListPageStore) HasNextPage() bool {
	last, ok := s.MaxPageIndex()
	return !ok || s.PageIndex() < last
}

// Items returns the auctions on the current page.
func (s *AuctionListPageStore) Items() []ListedAuction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ListedAuction(nil), s.items...)
}
