package editor

import (
	"context"

	"auctioneer/internal/form"
	"auctioneer/internal/store"
)

// LoginStore backs the login form.
type LoginStore struct {
	store.Lifecycle
	session *store.Session

	Email    *form.Value[string]
	Password *form.Value[string]
}

func NewLoginStore(session *store.Session) *LoginStore {
	return &LoginStore{
		session:  session,
		Email:    form.NewValue("", form.Email),
		Password: form.NewValue("", form.Password),
	}
}

// Submit logs in with the entered credentials.
func (s *LoginStore) Submit(ctx context.Context) error {
	if !form.ValidateAll(s.Email, s.Password) {
		return invalidForm("login")
	}
	if !s.Begin() {
		return nil
	}

	if err := s.session.LogIn(ctx, s.Email.Value(), s.Password.Value()); err != nil {
		s.Fail(err)
		return err
	}
	s.Succeed(nil)
	return nil
}
