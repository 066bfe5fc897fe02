package store

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
)

// BidsStore holds one auction's bid history, highest first.
type BidsStore struct {
	Lifecycle
	client    *api.Client
	session   *Session
	auctionID int

	bids []model.Bid
}

// NewBidsStore creates a store bound to auctionID.
func NewBidsStore(client *api.Client, session *Session, auctionID int) *BidsStore {
	return &BidsStore{client: client, session: session, auctionID: auctionID}
}

// AuctionID returns the auction this store is bound to.
func (s *BidsStore) AuctionID() int { return s.auctionID }

// Fetch loads the bid history.
func (s *BidsStore) Fetch(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}

	bids, err := s.client.GetBids(ctx, s.auctionID)
	switch {
	case err == nil:
		s.Succeed(func() { s.bids = bids })
	case api.IsNotFound(err):
		s.Succeed(func() { s.bids = []model.Bid{} })
	default:
		return s.FailWith(ctx, s.session, err)
	}
	return nil
}

// Bids returns a copy of the fetched history.
func (s *BidsStore) Bids() []model.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Bid(nil), s.bids...)
}

// Leader returns the leading bid, nil when there are none.
func (s *BidsStore) Leader() *model.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bids) == 0 {
		return nil
	}
	b := s.bids[0]
	return &b
}

// HighestBid returns the leading amount and whether any bid exists.
func (s *BidsStore) HighestBid() (int, bool) {
	if b := s.Leader(); b != nil {
		return b.Amount, true
	}
	return 0, false
}

// MinimumNextBid is the smallest amount that would become the new leader.
func (s *BidsStore) MinimumNextBid() int {
	if highest, ok := s.HighestBid(); ok {
		return highest + 1
	}
	return 1
}
