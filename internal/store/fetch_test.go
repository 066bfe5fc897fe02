package store_test

import (
	"context"
	"net/http"
	"testing"

	"auctioneer/internal/api"
	"auctioneer/internal/api/apitest"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n")

func TestPhotoStoreFetch(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/image", apitest.Image("image/png", pngBytes))
	s := store.NewPhotoStore(srv.Client(), loggedOut(srv), api.AuctionImagePath(3))

	assert.True(t, s.Status().IsNotYetAttempted())
	require.NoError(t, s.Fetch(context.Background()))

	assert.True(t, s.Status().IsDone())
	require.True(t, s.HasPhoto())
	assert.Equal(t, "image/png", s.Photo().ContentType)
	assert.Equal(t, pngBytes, s.Photo().Data)
}

func TestPhotoStoreMissingImageIsDone(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/users/{id:[0-9]+}/image", apitest.Status(http.StatusNotFound))
	s := store.NewPhotoStore(srv.Client(), loggedOut(srv), api.UserImagePath(8))

	require.NoError(t, s.Fetch(context.Background()))

	assert.True(t, s.Status().IsDone())
	assert.Nil(t, s.Photo())
}

func TestPhotoStoreServerError(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/users/{id:[0-9]+}/image", apitest.Status(http.StatusInternalServerError))
	s := store.NewPhotoStore(srv.Client(), loggedOut(srv), api.UserImagePath(8))

	err := s.Fetch(context.Background())
	require.Error(t, err)

	assert.True(t, s.Status().IsError())
	assert.Equal(t, model.KindServer, model.KindOf(s.Status().Err()))
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/image", apitest.Status(http.StatusUnauthorized))
	session, kv := loggedIn(t, srv, 5)
	s := store.NewPhotoStore(srv.Client(), session, api.AuctionImagePath(3))

	err := s.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, model.KindSessionExpired, model.KindOf(err))
	assert.True(t, s.Status().IsNotYetAttempted(), "a rejected token is not a load error")
	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/users/logout"))
	assert.False(t, kv.has(keyPrefix+"token"))
}

func TestFetchWhilePendingIsNoOp(t *testing.T) {
	srv := apitest.New(t)
	started := make(chan struct{})
	release := make(chan struct{})
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/image",
		apitest.Blocking(apitest.Image("image/png", pngBytes), started, release))
	s := store.NewPhotoStore(srv.Client(), loggedOut(srv), api.AuctionImagePath(3))

	done := make(chan error, 1)
	go func() { done <- s.Fetch(context.Background()) }()
	<-started

	assert.True(t, s.IsLoading())
	require.NoError(t, s.Fetch(context.Background()))

	close(release)
	require.NoError(t, <-done)
	assert.True(t, s.Status().IsDone())
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/auctions/3/image"))
}

func TestAuctionDetailsStore(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		srv := apitest.New(t)
		details := auctionJSON(4, 9, 2)
		details["description"] = "Oak"
		srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}", apitest.JSON(http.StatusOK, details))
		s := store.NewAuctionDetailsStore(srv.Client(), loggedOut(srv), 4)

		require.NoError(t, s.Fetch(context.Background()))

		a := s.Auction()
		require.NotNil(t, a)
		assert.Equal(t, "Oak", a.Description)
		assert.Equal(t, 2030, s.EndDate().Year())
		assert.False(t, s.DoesNotExist())
	})

	t.Run("missing", func(t *testing.T) {
		srv := apitest.New(t)
		srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}", apitest.Status(http.StatusNotFound))
		s := store.NewAuctionDetailsStore(srv.Client(), loggedOut(srv), 4)

		require.NoError(t, s.Fetch(context.Background()))

		assert.True(t, s.Status().IsDone())
		assert.Nil(t, s.Auction())
		assert.True(t, s.DoesNotExist())
	})
}

func TestBidsStore(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/bids", apitest.JSON(http.StatusOK, []map[string]any{
		{"bidderId": 2, "amount": 100, "firstName": "Ada", "lastName": "L", "timestamp": "2024-05-01T10:00:00.000Z"},
		{"bidderId": 3, "amount": 60, "firstName": "Bo", "lastName": "K", "timestamp": "2024-05-01T09:00:00.000Z"},
	}))
	s := store.NewBidsStore(srv.Client(), loggedOut(srv), 4)

	assert.Equal(t, 1, s.MinimumNextBid())
	require.NoError(t, s.Fetch(context.Background()))

	require.NotNil(t, s.Leader())
	assert.Equal(t, 2, s.Leader().BidderID)
	highest, ok := s.HighestBid()
	assert.True(t, ok)
	assert.Equal(t, 100, highest)
	assert.Equal(t, 101, s.MinimumNextBid())
	assert.Len(t, s.Bids(), 2)
}

func TestCategoriesStore(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/categories", apitest.JSON(http.StatusOK, []map[string]any{
		{"categoryId": 2, "name": "Tools"},
		{"categoryId": 1, "name": "Books"},
	}))
	s := store.NewCategoriesStore(srv.Client(), loggedOut(srv))

	assert.False(t, s.Loaded())
	require.NoError(t, s.Fetch(context.Background()))

	assert.True(t, s.Loaded())
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(3))
	assert.Equal(t, "Tools", s.Name(2))
	assert.Equal(t, []model.Category{{CategoryID: 1, Name: "Books"}, {CategoryID: 2, Name: "Tools"}}, s.Categories())
}

func TestProfileDetailsStoreSendsToken(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/users/{id:[0-9]+}", apitest.JSON(http.StatusOK, map[string]any{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	}))
	session, _ := loggedIn(t, srv, 5)
	s := store.NewProfileDetailsStore(srv.Client(), session, 5)

	require.NoError(t, s.Fetch(context.Background()))

	req, ok := srv.Last(http.MethodGet, "/users/5")
	require.True(t, ok)
	assert.Equal(t, "tok", req.Header.Get(api.AuthHeader))
	require.True(t, s.HasDetails())
	require.NotNil(t, s.Details().Email)
	assert.Equal(t, "ada@example.com", *s.Details().Email)
}

func TestSubscribeNotifiesOnTransitions(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/bids", apitest.JSON(http.StatusOK, []any{}))
	s := store.NewBidsStore(srv.Client(), loggedOut(srv), 4)

	var seen []store.State
	unsubscribe := s.Subscribe(func() { seen = append(seen, s.Status().State()) })
	require.NoError(t, s.Fetch(context.Background()))
	unsubscribe()
	require.NoError(t, s.Fetch(context.Background()))

	assert.Equal(t, []store.State{store.Pending, store.Done}, seen)
}
