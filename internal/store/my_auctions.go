package store

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/model"

	"golang.org/x/sync/errgroup"
)

// MyAuctionsStore pages through the auctions a user sells and the auctions
// they bid on as one list. Both searches share a page index; a search with
// fewer pages simply contributes nothing past its last page.
type MyAuctionsStore struct {
	observable
	userID    int
	pageIndex int

	Selling *AuctionListPageStore
	Bidding *AuctionListPageStore
}

func NewMyAuctionsStore(client *api.Client, session *Session, userID, pageSize int) *MyAuctionsStore {
	return &MyAuctionsStore{
		userID:  userID,
		Selling: NewAuctionListPageStore(client, session, pageSize),
		Bidding: NewAuctionListPageStore(client, session, pageSize),
	}
}

func (s *MyAuctionsStore) sellingFilters() model.AuctionFilters {
	f := model.DefaultFilters()
	id := s.userID
	f.SellerID = &id
	return f
}

func (s *MyAuctionsStore) biddingFilters() model.AuctionFilters {
	f := model.DefaultFilters()
	id := s.userID
	f.BidderID = &id
	return f
}

func (s *MyAuctionsStore) setPage(index int) {
	s.mu.Lock()
	s.pageIndex = index
	s.mu.Unlock()
	s.Notify()
}

// Reload starts both searches over from the first page.
func (s *MyAuctionsStore) Reload(ctx context.Context) error {
	if s.IsLoading() {
		return nil
	}
	s.setPage(0)
	var g errgroup.Group
	g.Go(func() error { return s.Selling.Reload(ctx, s.sellingFilters()) })
	g.Go(func() error { return s.Bidding.Reload(ctx, s.biddingFilters()) })
	return g.Wait()
}

func (s *MyAuctionsStore) GoToFirstPage(ctx context.Context) error {
	if s.IsLoading() {
		return nil
	}
	s.setPage(0)
	var g errgroup.Group
	g.Go(func() error { return s.Selling.GoToFirstPage(ctx, s.sellingFilters()) })
	g.Go(func() error { return s.Bidding.GoToFirstPage(ctx, s.biddingFilters()) })
	return g.Wait()
}

// GoToLastPage moves to the last combined page. Only the searches that
// reach that far are fetched.
func (s *MyAuctionsStore) GoToLastPage(ctx context.Context) error {
	if s.IsLoading() {
		return nil
	}
	last, ok := s.MaxPageIndex()
	if !ok {
		return ErrLastPageUnknown
	}
	s.setPage(last)

	var g errgroup.Group
	if m, _ := s.Selling.MaxPageIndex(); m == last {
		g.Go(func() error { return s.Selling.GoToLastPage(ctx, s.sellingFilters()) })
	}
	if m, _ := s.Bidding.MaxPageIndex(); m == last {
		g.Go(func() error { return s.Bidding.GoToLastPage(ctx, s.biddingFilters()) })
	}
	return g.Wait()
}

func (s *MyAuctionsStore) GoToPrevPage(ctx context.Context) error {
	if s.IsLoading() {
		return nil
	}
	current := s.PageIndex()
	if current == 0 {
		return ErrNoPreviousPage
	}

	var g errgroup.Group
	if s.Selling.PageIndex() == current {
		g.Go(func() error { return s.Selling.GoToPrevPage(ctx, s.sellingFilters()) })
	}
	if s.Bidding.PageIndex() == current {
		g.Go(func() error { return s.Bidding.GoToPrevPage(ctx, s.biddingFilters()) })
	}
	s.setPage(current - 1)
	return g.Wait()
}

func (s *MyAuctionsStore) GoToNextPage(ctx context.Context) error {
	if s.IsLoading() {
		return nil
	}
	next := s.PageIndex() + 1
	if last, ok := s.MaxPageIndex(); ok && next > last {
		return ErrNoNextPage
	}
	s.setPage(next)

	var g errgroup.Group
	if m, ok := s.Selling.MaxPageIndex(); !ok || m >= next {
		g.Go(func() error { return s.Selling.GoToNextPage(ctx, s.sellingFilters()) })
	}
	if m, ok := s.Bidding.MaxPageIndex(); !ok || m >= next {
		g.Go(func() error { return s.Bidding.GoToNextPage(ctx, s.biddingFilters()) })
	}
	return g.Wait()
}

func (s *MyAuctionsStore) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// PageSize is the most auctions one combined page can show.
func (s *MyAuctionsStore) PageSize() int {
	return s.Selling.PageSize() + s.Bidding.PageSize()
}

// TotalCount sums both searches once neither is loading.
func (s *MyAuctionsStore) TotalCount() (int, bool) {
	if s.IsLoading() {
		return 0, false
	}
	selling, ok1 := s.Selling.TotalCount()
	bidding, ok2 := s.Bidding.TotalCount()
	if !ok1 || !ok2 {
		return 0, false
	}
	return selling + bidding, true
}

// MaxPageIndex is the larger of the two searches' last pages.
func (s *MyAuctionsStore) MaxPageIndex() (int, bool) {
	if s.IsLoading() {
		return 0, false
	}
	selling, ok1 := s.Selling.MaxPageIndex()
	bidding, ok2 := s.Bidding.MaxPageIndex()
	if !ok1 || !ok2 {
		return 0, false
	}
	return max(selling, bidding), true
}

func (s *MyAuctionsStore) HasPrevPage() bool {
	return s.PageIndex() > 0
}

func (s *MyAuctionsStore) HasNextPage() bool {
	last, ok := s.MaxPageIndex()
	return !ok || s.PageIndex() < last
}

// Auctions merges the searches sitting on the current page, dropping
// auctions that appear in both. It is nil until both searches are done.
func (s *MyAuctionsStore) Auctions() []ListedAuction {
	if !s.Selling.Status().IsDone() || !s.Bidding.Status().IsDone() {
		return nil
	}
	current := s.PageIndex()
	var lists [][]ListedAuction
	if s.Selling.PageIndex() == current {
		lists = append(lists, s.Selling.Items())
	}
	if s.Bidding.PageIndex() == current {
		lists = append(lists, s.Bidding.Items())
	}
	return dedupAuctions(lists...)
}

func (s *MyAuctionsStore) Status() LoadStatus {
	return Combine(s.Selling.Status(), s.Bidding.Status())
}

func (s *MyAuctionsStore) IsLoading() bool {
	return s.Selling.IsLoading() || s.Bidding.IsLoading()
}

// Subscribe listens to the shared page index and both searches.
func (s *MyAuctionsStore) Subscribe(fn func()) func() {
	return joinSubscriptions(
		s.observable.Subscribe(fn),
		s.Selling.Subscribe(fn),
		s.Bidding.Subscribe(fn),
	)
}
