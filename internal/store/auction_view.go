package store

import (
	"context"

	"auctioneer/internal/api"

	"golang.org/x/sync/errgroup"
)

// AuctionViewStore gathers everything the auction page shows. The similar
// auctions are only known once the details have loaded.
type AuctionViewStore struct {
	observable
	client   *api.Client
	session  *Session
	pageSize int

	Details    *AuctionDetailsStore
	Photo      *PhotoStore
	Bids       *BidsStore
	Categories *CategoriesStore

	similar      *SimilarAuctionsStore
	unsubSimilar func()
}

// NewAuctionViewStore binds the page to auctionID. categories is shared
// with the rest of the application.
func NewAuctionViewStore(client *api.Client, session *Session, categories *CategoriesStore, auctionID, pageSize int) *AuctionViewStore {
	return &AuctionViewStore{
		client:     client,
		session:    session,
		pageSize:   pageSize,
		Details:    NewAuctionDetailsStore(client, session, auctionID),
		Photo:      NewPhotoStore(client, session, api.AuctionImagePath(auctionID)),
		Bids:       NewBidsStore(client, session, auctionID),
		Categories: categories,
	}
}

func (s *AuctionViewStore) AuctionID() int { return s.Details.AuctionID() }

// Load fetches the details, photo, bids and categories concurrently, then
// the similar auctions for the loaded details.
func (s *AuctionViewStore) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		if err := s.Details.Fetch(ctx); err != nil {
			return err
		}
		return s.loadSimilar(ctx)
	})
	g.Go(func() error { return s.Photo.Fetch(ctx) })
	g.Go(func() error { return s.Bids.Fetch(ctx) })
	if !s.Categories.Loaded() {
		g.Go(func() error { return s.Categories.Fetch(ctx) })
	}
	return g.Wait()
}

func (s *AuctionViewStore) loadSimilar(ctx context.Context) error {
	details := s.Details.Auction()
	if details == nil {
		return nil
	}
	similar := NewSimilarAuctionsStore(s.client, s.session, details.Auction, s.pageSize)

	s.mu.Lock()
	if s.unsubSimilar != nil {
		s.unsubSimilar()
	}
	s.similar = similar
	s.unsubSimilar = similar.Subscribe(s.Notify)
	s.mu.Unlock()
	s.Notify()

	return similar.Load(ctx)
}

// Similar returns the similar auctions, nil until the details have loaded.
func (s *AuctionViewStore) Similar() *SimilarAuctionsStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.similar
}

// Status reflects the details, which decide whether the page can render.
func (s *AuctionViewStore) Status() LoadStatus {
	return s.Details.Status()
}

// IsOwnAuction reports whether the logged-in user is the seller.
func (s *AuctionViewStore) IsOwnAuction() bool {
	details := s.Details.Auction()
	return details != nil && s.session.IsCurrentUser(details.SellerID)
}

// Subscribe listens to every part of the page.
func (s *AuctionViewStore) Subscribe(fn func()) func() {
	return joinSubscriptions(
		s.observable.Subscribe(fn),
		s.Details.Subscribe(fn),
		s.Photo.Subscribe(fn),
		s.Bids.Subscribe(fn),
		s.Categories.Subscribe(fn),
	)
}
