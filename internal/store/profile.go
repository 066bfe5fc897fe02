package store

import (
	"context"
	"fmt"
)

// ProfileStore backs the profile page of one user.
type ProfileStore struct {
	User    *User
	session *Session
}

// NewProfileStore opens the profile of userID, with owner capabilities when
// it is the logged-in user.
func NewProfileStore(session *Session, userID int) *ProfileStore {
	return &ProfileStore{User: session.UserFor(userID), session: session}
}

func (s *ProfileStore) Load(ctx context.Context) error {
	return s.User.Load(ctx)
}

// PageTitle names whose profile this is.
func (s *ProfileStore) PageTitle() string {
	if s.session.IsCurrentUser(s.User.ID) {
		return "My Profile"
	}
	if d := s.User.Details.Details(); d != nil {
		return fmt.Sprintf("%s %s's Profile", d.FirstName, d.LastName)
	}
	return fmt.Sprintf("User #%d's Profile", s.User.ID)
}

func (s *ProfileStore) Status() LoadStatus {
	return Combine(s.User.Details.Status(), s.User.Photo.Status())
}

func (s *ProfileStore) Subscribe(fn func()) func() {
	subs := []func(){s.User.Details.Subscribe(fn), s.User.Photo.Subscribe(fn)}
	if a := s.User.Account(); a != nil {
		subs = append(subs, a.Subscribe(fn))
	}
	return joinSubscriptions(subs...)
}
