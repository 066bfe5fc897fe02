package editor

import (
	"context"
	"strconv"
	"strings"

	"auctioneer/internal/api"
	"auctioneer/internal/form"
	"auctioneer/internal/store"
)

// PlaceBidStore backs the bid entry of an auction page.
type PlaceBidStore struct {
	store.Lifecycle
	client  *api.Client
	session *store.Session
	bids    *store.BidsStore

	Amount *form.Value[string]
}

// NewPlaceBidStore pre-fills the smallest bid that would lead.
func NewPlaceBidStore(client *api.Client, session *store.Session, bids *store.BidsStore) *PlaceBidStore {
	return &PlaceBidStore{
		client:  client,
		session: session,
		bids:    bids,
		Amount:  form.NewValue(strconv.Itoa(bids.MinimumNextBid()), form.PositiveInteger),
	}
}

// BeatError is the live check against the current leader. It is "" while
// the amount is untouched, not a number, or when there are no bids yet.
func (s *PlaceBidStore) BeatError() string {
	if !s.Amount.Touched() {
		return ""
	}
	return s.beatError()
}

func (s *PlaceBidStore) beatError() string {
	amount, err := strconv.Atoi(strings.TrimSpace(s.Amount.Value()))
	if err != nil {
		return ""
	}
	if highest, ok := s.bids.HighestBid(); ok && amount <= highest {
		return form.MsgBidTooLow
	}
	return ""
}

// Error is the message to show under the amount field.
func (s *PlaceBidStore) Error() string {
	if msg := s.Amount.Error(); msg != "" {
		return msg
	}
	return s.BeatError()
}

// Submit places the bid and reloads the bid history.
func (s *PlaceBidStore) Submit(ctx context.Context) error {
	valid := s.Amount.Validate()
	if !valid || s.beatError() != "" {
		return invalidForm("place bid")
	}
	token, err := s.session.RequireToken()
	if err != nil {
		return err
	}
	if !s.Begin() {
		return nil
	}

	if err := s.client.PlaceBid(ctx, s.bids.AuctionID(), token, atoi(s.Amount.Value())); err != nil {
		return s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)

	_ = s.bids.Fetch(ctx)
	return nil
}
