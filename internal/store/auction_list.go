package store

import (
	"context"

	"auctioneer/internal/api"
)

// AuctionListStore is the auction browser: a page store driven by a
// FiltersStore.
type AuctionListStore struct {
	Page    *AuctionListPageStore
	Filters *FiltersStore
}

// NewAuctionListStore creates a browser with default filters.
func NewAuctionListStore(client *api.Client, session *Session, pageSize int) *AuctionListStore {
	return &AuctionListStore{
		Page:    NewAuctionListPageStore(client, session, pageSize),
		Filters: NewFiltersStore(),
	}
}

func (s *AuctionListStore) Reload(ctx context.Context) error {
	return s.Page.Reload(ctx, s.Filters.Build())
}

func (s *AuctionListStore) Refresh(ctx context.Context) error {
	return s.Page.Refresh(ctx, s.Filters.Build())
}

func (s *AuctionListStore) GoToFirstPage(ctx context.Context) error {
	return s.Page.GoToFirstPage(ctx, s.Filters.Build())
}

func (s *AuctionListStore) GoToLastPage(ctx context.Context) error {
	return s.Page.GoToLastPage(ctx, s.Filters.Build())
}

func (s *AuctionListStore) GoToNextPage(ctx context.Context) error {
	return s.Page.GoToNextPage(ctx, s.Filters.Build())
}

func (s *AuctionListStore) GoToPrevPage(ctx context.Context) error {
	return s.Page.GoToPrevPage(ctx, s.Filters.Build())
}

// Subscribe listens to both the page and the filters.
func (s *AuctionListStore) Subscribe(fn func()) func() {
	return joinSubscriptions(s.Page.Subscribe(fn), s.Filters.Subscribe(fn))
}
