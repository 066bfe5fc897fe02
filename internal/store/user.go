package store

import (
	"context"
	"fmt"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
)

// User aggregates one user's profile and photo. The logged-in user also
// carries an Account with the operations only its owner may perform.
type User struct {
	ID      int
	Details *ProfileDetailsStore
	Photo   *PhotoStore

	account *Account
}

func newUser(client *api.Client, session *Session, userID int, token string) *User {
	u := &User{
		ID:      userID,
		Details: NewProfileDetailsStore(client, session, userID),
		Photo:   NewPhotoStore(client, session, api.UserImagePath(userID)),
	}
	if token != "" {
		u.account = &Account{user: u, client: client, session: session, token: token}
	}
	return u
}

// Account returns the owner capability, or nil when this aggregate
// describes someone other than the logged-in user.
func (u *User) Account() *Account {
	return u.account
}

// IsEditable reports whether the user may change this profile.
func (u *User) IsEditable() bool {
	return u.account != nil
}

// Load fetches the profile details and photo.
func (u *User) Load(ctx context.Context) error {
	detailsErr := u.Details.Fetch(ctx)
	photoErr := u.Photo.Fetch(ctx)
	if detailsErr != nil {
		return detailsErr
	}
	return photoErr
}

// Account holds the logged-in user's token and the photo mutations.
type Account struct {
	Lifecycle
	user    *User
	client  *api.Client
	session *Session
	token   string
}

// Token returns the session token.
func (a *Account) Token() string { return a.token }

// UserID returns the owning user's id.
func (a *Account) UserID() int { return a.user.ID }

// UploadPhoto replaces the profile photo and refreshes it.
func (a *Account) UploadPhoto(ctx context.Context, photo model.Photo) error {
	return a.photoMutation(ctx, func() error {
		return a.client.PutImage(ctx, a.user.Photo.Path(), a.token, photo)
	})
}

// DeletePhoto removes the profile photo and refreshes it.
func (a *Account) DeletePhoto(ctx context.Context) error {
	return a.photoMutation(ctx, func() error {
		return a.client.DeleteImage(ctx, a.user.Photo.Path(), a.token)
	})
}

func (a *Account) photoMutation(ctx context.Context, call func() error) error {
	if !a.Begin() {
		return nil
	}
	if err := call(); err != nil {
		return a.FailWith(ctx, a.session, fmt.Errorf("failed to update profile photo: %w", err))
	}
	a.Succeed(nil)

	_ = a.user.Photo.Fetch(ctx)
	return nil
}
