package editor_test

import (
	"context"
	"net/http"
	"testing"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/editor"
	"auctioneer/internal/form"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedBids(t *testing.T, srv *apitest.Server, session *store.Session, amounts ...int) *store.BidsStore {
	t.Helper()
	bids := make([]map[string]any, 0, len(amounts))
	for _, a := range amounts {
		bids = append(bids, map[string]any{"bidderId": 2, "amount": a, "firstName": "Bo", "lastName": "Kim", "timestamp": "2024-05-01T10:00:00.000Z"})
	}
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/bids", apitest.JSON(http.StatusOK, bids))
	b := store.NewBidsStore(srv.Client(), session, 4)
	require.NoError(t, b.Fetch(context.Background()))
	return b
}

func TestPlaceBidMustBeatHighest(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/auctions/{id:[0-9]+}/bids", apitest.Status(http.StatusCreated))
	session := loggedIn(srv)
	s := editor.NewPlaceBidStore(srv.Client(), session, loadedBids(t, srv, session, 100))

	assert.Equal(t, "101", s.Amount.Value())
	assert.Empty(t, s.Error(), "untouched field shows no error")

	s.Amount.Set("100")
	assert.Equal(t, form.MsgBidTooLow, s.Error())
	assert.ErrorIs(t, s.Submit(context.Background()), model.ErrValidation)
	assert.Zero(t, srv.Count(http.MethodPost, "/auctions/4/bids"))

	s.Amount.Set("101")
	assert.Empty(t, s.Error())
	require.NoError(t, s.Submit(context.Background()))

	req, _ := srv.Last(http.MethodPost, "/auctions/4/bids")
	assert.Equal(t, map[string]any{"amount": float64(101)}, req.JSONBody())
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/auctions/4/bids"), "bids are refetched")
}

func TestPlaceBidWithoutBids(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/auctions/{id:[0-9]+}/bids", apitest.Status(http.StatusCreated))
	session := loggedIn(srv)
	s := editor.NewPlaceBidStore(srv.Client(), session, loadedBids(t, srv, session))

	assert.Equal(t, "1", s.Amount.Value())

	s.Amount.Set("0")
	assert.Equal(t, form.MsgPositiveInteger, s.Error())
	assert.ErrorIs(t, s.Submit(context.Background()), model.ErrValidation)

	s.Amount.Set("1")
	require.NoError(t, s.Submit(context.Background()))
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/auctions/4/bids"))
}

func loadedUser(t *testing.T, srv *apitest.Server, session *store.Session) *store.User {
	t.Helper()
	srv.Handle(http.MethodGet, "/users/{id:[0-9]+}", apitest.JSON(http.StatusOK, map[string]any{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	}))
	u := session.User()
	require.NoError(t, u.Details.Fetch(context.Background()))
	return u
}

func TestProfileDetailsEditorSparsePatch(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPatch, "/users/{id:[0-9]+}", apitest.Status(http.StatusOK))
	session := loggedIn(srv)
	s := editor.NewProfileDetailsEditor(srv.Client(), session, loadedUser(t, srv, session))
	require.NotNil(t, s)

	assert.Equal(t, "ada@example.com", s.Email.Value())
	require.NoError(t, s.Submit(context.Background()))
	assert.Zero(t, srv.Count(http.MethodPatch, "/users/5"))

	s.LastName.Set("Byron")
	require.NoError(t, s.Submit(context.Background()))

	req, ok := srv.Last(http.MethodPatch, "/users/5")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"lastName": "Byron"}, req.JSONBody())
	assert.Equal(t, "tok", req.Header.Get("X-Authorization"))
	assert.False(t, s.IsEdited())
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/users/5"))
}

func TestProfileDetailsEditorOnlyForOwner(t *testing.T) {
	srv := apitest.New(t)
	session := loggedIn(srv)

	assert.Nil(t, editor.NewProfileDetailsEditor(srv.Client(), session, session.UserFor(6)))
}

func TestPasswordEditor(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPatch, "/users/{id:[0-9]+}", apitest.Status(http.StatusOK))
	session := loggedIn(srv)
	s := editor.NewPasswordEditor(srv.Client(), session, session.User().Account())

	s.NewPassword.Set("short")
	assert.ErrorIs(t, s.Submit(context.Background()), model.ErrValidation)
	assert.Equal(t, form.MsgRequired, s.CurrentPassword.Error())
	assert.Equal(t, form.MsgPasswordTooShort, s.NewPassword.Error())

	s.CurrentPassword.Set("secret1")
	s.NewPassword.Set("secret2")
	require.NoError(t, s.Submit(context.Background()))

	req, _ := srv.Last(http.MethodPatch, "/users/5")
	assert.Equal(t, map[string]any{"currentPassword": "secret1", "password": "secret2"}, req.JSONBody())
}
