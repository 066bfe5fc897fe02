package store

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
)

// ProfileDetailsStore holds one user's public profile.
type ProfileDetailsStore struct {
	Lifecycle
	client  *api.Client
	session *Session
	userID  int

	details *model.UserDetails
}

// NewProfileDetailsStore creates a store bound to userID.
func NewProfileDetailsStore(client *api.Client, session *Session, userID int) *ProfileDetailsStore {
	return &ProfileDetailsStore{client: client, session: session, userID: userID}
}

// Fetch loads the profile, authenticated when a session exists so the
// owner also receives their email.
func (s *ProfileDetailsStore) Fetch(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}

	details, err := s.client.GetUser(ctx, s.userID, s.session.Token())
	switch {
	case err == nil:
		s.Succeed(func() { s.details = &details })
	case api.IsNotFound(err):
		s.Succeed(func() { s.details = nil })
	default:
		return s.FailWith(ctx, s.session, err)
	}
	return nil
}

// Details returns the fetched profile, nil when unknown.
func (s *ProfileDetailsStore) Details() *model.UserDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.details == nil {
		return nil
	}
	d := *s.details
	return &d
}

// HasDetails reports whether a profile was found.
func (s *ProfileDetailsStore) HasDetails() bool {
	return s.Details() != nil
}
