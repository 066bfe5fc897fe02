package editor

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/form"
	"auctioneer/internal/store"
)

// ProfileDetailsEditor edits the logged-in user's name and email.
type ProfileDetailsEditor struct {
	store.Lifecycle
	client  *api.Client
	session *store.Session
	user    *store.User

	FirstName *form.Value[string]
	LastName  *form.Value[string]
	Email     *form.Value[string]
}

// NewProfileDetailsEditor pre-fills the form from the user's loaded
// details. It returns nil when user is not the logged-in user.
func NewProfileDetailsEditor(client *api.Client, session *store.Session, user *store.User) *ProfileDetailsEditor {
	if !user.IsEditable() {
		return nil
	}
	var first, last, email string
	if d := user.Details.Details(); d != nil {
		first, last = d.FirstName, d.LastName
		if d.Email != nil {
			email = *d.Email
		}
	}
	return &ProfileDetailsEditor{
		client:    client,
		session:   session,
		user:      user,
		FirstName: form.NewValue(first, form.NotEmpty),
		LastName:  form.NewValue(last, form.NotEmpty),
		Email:     form.NewValue(email, form.Email),
	}
}

func (s *ProfileDetailsEditor) fields() []*form.Value[string] {
	return []*form.Value[string]{s.FirstName, s.LastName, s.Email}
}

func (s *ProfileDetailsEditor) IsEdited() bool {
	for _, f := range s.fields() {
		if f.Touched() {
			return true
		}
	}
	return false
}

// Submit sends the edited fields and reloads the profile.
func (s *ProfileDetailsEditor) Submit(ctx context.Context) error {
	if !s.IsEdited() {
		return nil
	}
	var patch api.UserPatch
	targets := []**string{&patch.FirstName, &patch.LastName, &patch.Email}
	ok := true
	for i, f := range s.fields() {
		if !f.Touched() {
			continue
		}
		if !f.Validate() {
			ok = false
			continue
		}
		v := f.Value()
		*targets[i] = &v
	}
	if !ok {
		return invalidForm("profile")
	}
	if !s.Begin() {
		return nil
	}

	if err := s.client.PatchUser(ctx, s.user.ID, s.user.Account().Token(), patch); err != nil {
		return s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)
	for _, f := range s.fields() {
		f.ResetTouched()
	}

	_ = s.user.Details.Fetch(ctx)
	return nil
}

// PasswordEditor changes the logged-in user's password.
type PasswordEditor struct {
	store.Lifecycle
	client  *api.Client
	session *store.Session
	account *store.Account

	CurrentPassword *form.Value[string]
	NewPassword     *form.Value[string]
}

func NewPasswordEditor(client *api.Client, session *store.Session, account *store.Account) *PasswordEditor {
	return &PasswordEditor{
		client:          client,
		session:         session,
		account:         account,
		CurrentPassword: form.NewValue("", form.NotEmpty),
		NewPassword:     form.NewValue("", form.Password),
	}
}

func (s *PasswordEditor) Submit(ctx context.Context) error {
	if !form.ValidateAll(s.CurrentPassword, s.NewPassword) {
		return invalidForm("change password")
	}
	if !s.Begin() {
		return nil
	}

	current, next := s.CurrentPassword.Value(), s.NewPassword.Value()
	patch := api.UserPatch{CurrentPassword: &current, Password: &next}
	if err := s.client.PatchUser(ctx, s.account.UserID(), s.account.Token(), patch); err != nil {
		return s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)
	return nil
}
