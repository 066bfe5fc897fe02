package store

import (
	"context"
	"time"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
	"auctioneer/internal/util"
)

// AuctionDetailsStore holds one auction's full details.
type AuctionDetailsStore struct {
	Lifecycle
	client    *api.Client
	session   *Session
	auctionID int

	auction *model.AuctionDetails
	endDate time.Time
}

// NewAuctionDetailsStore creates a store bound to auctionID.
func NewAuctionDetailsStore(client *api.Client, session *Session, auctionID int) *AuctionDetailsStore {
	return &AuctionDetailsStore{client: client, session: session, auctionID: auctionID}
}

// AuctionID returns the auction this store is bound to.
func (s *AuctionDetailsStore) AuctionID() int { return s.auctionID }

// Fetch loads the auction. A missing auction is a successful empty result.
func (s *AuctionDetailsStore) Fetch(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}

	details, err := s.client.GetAuction(ctx, s.auctionID)
	switch {
	case err == nil:
		end, perr := util.ParseServerTime(details.EndDate)
		if perr != nil {
			return s.FailWith(ctx, s.session, perr)
		}
		s.Succeed(func() {
			s.auction = &details
			s.endDate = end
		})
	case api.IsNotFound(err):
		s.Succeed(func() {
			s.auction = nil
			s.endDate = time.Time{}
		})
	default:
		return s.FailWith(ctx, s.session, err)
	}
	return nil
}

// Auction returns the fetched details, nil before loading or when the
// auction does not exist.
func (s *AuctionDetailsStore) Auction() *model.AuctionDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auction == nil {
		return nil
	}
	a := *s.auction
	return &a
}

// EndDate is the parsed closing time.
func (s *AuctionDetailsStore) EndDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endDate
}

// DoesNotExist reports whether the server answered that the auction is gone.
func (s *AuctionDetailsStore) DoesNotExist() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.IsDone() && s.auction == nil
}

// IsClosed reports whether the auction has ended as of now.
func (s *AuctionDetailsStore) IsClosed(now time.Time) bool {
	end := s.EndDate()
	return !end.IsZero() && !end.After(now)
}
