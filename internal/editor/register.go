package editor

import (
	"context"
	"fmt"

	"auctioneer/internal/api"
	"auctioneer/internal/form"
	"auctioneer/internal/model"
	"auctioneer/internal/store"
)

// Registered is the outcome of a successful registration. Warning is set
// when the account exists but logging in or uploading the photo failed.
type Registered struct {
	UserID  int
	Warning error
}

// RegisterStore backs the sign-up form.
type RegisterStore struct {
	store.Lifecycle
	client  *api.Client
	session *store.Session

	FirstName *form.Value[string]
	LastName  *form.Value[string]
	Email     *form.Value[string]
	Password  *form.Value[string]
	Photo     *form.Value[*model.Photo]
}

func NewRegisterStore(client *api.Client, session *store.Session) *RegisterStore {
	return &RegisterStore{
		client:    client,
		session:   session,
		FirstName: form.NewValue("", form.NotEmpty),
		LastName:  form.NewValue("", form.NotEmpty),
		Email:     form.NewValue("", form.Email),
		Password:  form.NewValue("", form.All(form.NotEmpty, form.Password)),
		Photo:     form.NewValue[*model.Photo](nil, form.Optional[*model.Photo]),
	}
}

// Submit creates the account, logs in and uploads the optional photo.
// Only a failed registration is an error; the later steps report through
// Registered.Warning.
func (s *RegisterStore) Submit(ctx context.Context) (Registered, error) {
	if !form.ValidateAll(s.FirstName, s.LastName, s.Email, s.Password) {
		return Registered{}, invalidForm("register")
	}
	if !s.Begin() {
		return Registered{}, nil
	}

	email, password := s.Email.Value(), s.Password.Value()
	userID, err := s.client.Register(ctx, api.Registration{
		FirstName: s.FirstName.Value(),
		LastName:  s.LastName.Value(),
		Email:     email,
		Password:  password,
	})
	if err != nil {
		s.Fail(err)
		return Registered{}, err
	}
	s.Succeed(nil)

	result := Registered{UserID: userID}
	if err := s.session.LogIn(ctx, email, password); err != nil {
		result.Warning = fmt.Errorf("account created but logging in failed, please log in manually: %w", err)
		return result, nil
	}

	photo := s.Photo.Value()
	if photo == nil {
		return result, nil
	}
	account := s.session.User().Account()
	if err := account.UploadPhoto(ctx, *photo); err != nil {
		result.Warning = fmt.Errorf("account created but the profile photo upload failed: %w", err)
	}
	return result, nil
}
