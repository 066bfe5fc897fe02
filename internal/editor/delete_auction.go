package editor

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/store"
)

// DeleteAuctionStore deletes one auction.
type DeleteAuctionStore struct {
	store.Lifecycle
	client    *api.Client
	session   *store.Session
	auctionID int
}

func NewDeleteAuctionStore(client *api.Client, session *store.Session, auctionID int) *DeleteAuctionStore {
	return &DeleteAuctionStore{client: client, session: session, auctionID: auctionID}
}

func (s *DeleteAuctionStore) Submit(ctx context.Context) error {
	token, err := s.session.RequireToken()
	if err != nil {
		return err
	}
	if !s.Begin() {
		return nil
	}
	if err := s.client.DeleteAuction(ctx, s.auctionID, token); err != nil {
		return s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)
	return nil
}
