package editor_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/editor"
	"auctioneer/internal/form"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAuction(s *editor.CreateAuctionStore, end time.Time) {
	s.Title.Set("Oak desk")
	s.Category.Set(intPtr(2))
	s.EndDate.Set(&end)
	s.Description.Set("Solid oak")
	s.Photo.Set(&model.Photo{ContentType: "image/png", Data: pngBytes})
}

func TestCreateAuction(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/auctions", apitest.JSON(http.StatusCreated, map[string]any{"auctionId": 41}))
	srv.Handle(http.MethodPut, "/auctions/{id:[0-9]+}/image", apitest.Status(http.StatusCreated))
	session := loggedIn(srv)
	s := editor.NewCreateAuctionStore(srv.Client(), session, categories(t, srv, session))

	assert.Equal(t, editor.DefaultReserve, s.Reserve.Value())
	fillAuction(s, time.Date(2099, 1, 2, 3, 4, 5, 0, time.Local))
	result, err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 41, result.AuctionID)
	assert.NoError(t, result.Warning)

	req, _ := srv.Last(http.MethodPost, "/auctions")
	assert.Equal(t, "tok", req.Header.Get("X-Authorization"))
	assert.Equal(t, map[string]any{
		"title":       "Oak desk",
		"description": "Solid oak",
		"categoryId":  float64(2),
		"endDate":     "2099-01-02 03:04:05.000",
		"reserve":     float64(1),
	}, req.JSONBody())

	img, ok := srv.Last(http.MethodPut, "/auctions/41/image")
	require.True(t, ok)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))
	assert.True(t, s.PhotoStatus.Status().IsDone())
}

func TestCreateAuctionPhotoFailureKeepsAuction(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/auctions", apitest.JSON(http.StatusCreated, map[string]any{"auctionId": 41}))
	srv.Handle(http.MethodPut, "/auctions/{id:[0-9]+}/image", apitest.Status(http.StatusBadRequest))
	session := loggedIn(srv)
	s := editor.NewCreateAuctionStore(srv.Client(), session, categories(t, srv, session))

	fillAuction(s, time.Now().Add(48*time.Hour))
	result, err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 41, result.AuctionID)
	assert.Error(t, result.Warning)
	assert.True(t, s.Status().IsDone())
	assert.True(t, s.PhotoStatus.Status().IsError())
	assert.Zero(t, srv.Count(http.MethodDelete, "/auctions/41"))
}

func TestCreateAuctionValidation(t *testing.T) {
	srv := apitest.New(t)
	session := loggedIn(srv)
	s := editor.NewCreateAuctionStore(srv.Client(), session, categories(t, srv, session))

	past := time.Now().Add(-time.Hour)
	s.EndDate.Set(&past)
	s.Category.Set(intPtr(99))
	s.Reserve.Set("0")
	_, err := s.Submit(context.Background())

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, form.MsgRequired, s.Title.Error())
	assert.Equal(t, form.MsgInvalidCategory, s.Category.Error())
	assert.Equal(t, form.MsgFutureDate, s.EndDate.Error())
	assert.Equal(t, form.MsgPositiveInteger, s.Reserve.Error())
	assert.Equal(t, form.MsgPhotoRequired, s.Photo.Error())
	assert.Zero(t, srv.Count(http.MethodPost, "/auctions"))
}

func loadedDetails(t *testing.T, srv *apitest.Server, session *store.Session) *store.AuctionDetailsStore {
	t.Helper()
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}", apitest.JSON(http.StatusOK, map[string]any{
		"auctionId": 4, "title": "Lamp", "description": "Brass", "categoryId": 1, "sellerId": 5,
		"reserve": 20, "numBids": 0, "endDate": "2099-06-01 12:00:00.000",
	}))
	d := store.NewAuctionDetailsStore(srv.Client(), session, 4)
	require.NoError(t, d.Fetch(context.Background()))
	return d
}

func TestEditAuctionSendsOnlyEditedFields(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPatch, "/auctions/{id:[0-9]+}", apitest.Status(http.StatusOK))
	session := loggedIn(srv)
	details := loadedDetails(t, srv, session)
	s := editor.NewAuctionEditStore(srv.Client(), session, details, categories(t, srv, session))
	require.NotNil(t, s)

	assert.Equal(t, "Lamp", s.Title.Value())
	assert.Equal(t, "20", s.Reserve.Value())
	assert.False(t, s.IsEdited())

	s.Title.Set("Brass lamp")
	assert.True(t, s.IsEdited())
	require.NoError(t, s.Submit(context.Background()))

	req, ok := srv.Last(http.MethodPatch, "/auctions/4")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"title": "Brass lamp"}, req.JSONBody())
	assert.False(t, s.IsEdited(), "fields are reset after a save")
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/auctions/4"), "details are refetched")
}

func TestEditAuctionUnchangedSendsNothing(t *testing.T) {
	srv := apitest.New(t)
	session := loggedIn(srv)
	details := loadedDetails(t, srv, session)
	s := editor.NewAuctionEditStore(srv.Client(), session, details, categories(t, srv, session))

	require.NoError(t, s.Submit(context.Background()))

	assert.Zero(t, srv.Count(http.MethodPatch, "/auctions/4"))
	assert.True(t, s.Status().IsNotYetAttempted())
}

func TestEditAuctionInvalidEditSendsNothing(t *testing.T) {
	srv := apitest.New(t)
	session := loggedIn(srv)
	details := loadedDetails(t, srv, session)
	s := editor.NewAuctionEditStore(srv.Client(), session, details, categories(t, srv, session))

	s.Title.Set("")
	s.Description.Set("Copper")

	assert.ErrorIs(t, s.Submit(context.Background()), model.ErrValidation)
	assert.Equal(t, form.MsgRequired, s.Title.Error())
	assert.Zero(t, srv.Count(http.MethodPatch, "/auctions/4"))
}

func TestEditAuctionNeedsDetails(t *testing.T) {
	srv := apitest.New(t)
	session := loggedIn(srv)
	d := store.NewAuctionDetailsStore(srv.Client(), session, 4)

	assert.Nil(t, editor.NewAuctionEditStore(srv.Client(), session, d, store.NewCategoriesStore(srv.Client(), session)))
}

func TestDeleteAuction(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodDelete, "/auctions/{id:[0-9]+}", apitest.Status(http.StatusOK))
	s := editor.NewDeleteAuctionStore(srv.Client(), loggedIn(srv), 4)

	require.NoError(t, s.Submit(context.Background()))

	req, ok := srv.Last(http.MethodDelete, "/auctions/4")
	require.True(t, ok)
	assert.Equal(t, "tok", req.Header.Get("X-Authorization"))
	assert.True(t, s.Status().IsDone())
}

func TestDeleteAuctionSessionExpired(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodDelete, "/auctions/{id:[0-9]+}", apitest.Status(http.StatusUnauthorized))
	session := loggedIn(srv)
	s := editor.NewDeleteAuctionStore(srv.Client(), session, 4)

	err := s.Submit(context.Background())

	assert.Equal(t, model.KindSessionExpired, model.KindOf(err))
	assert.False(t, session.IsLoggedIn())
	assert.False(t, s.Status().IsError())
}

func TestDeleteAuctionRequiresLogin(t *testing.T) {
	srv := apitest.New(t)
	s := editor.NewDeleteAuctionStore(srv.Client(), newSession(srv, nil), 4)

	assert.ErrorIs(t, s.Submit(context.Background()), store.ErrNotLoggedIn)
	assert.Empty(t, srv.Requests())
}

func TestLoadPhoto(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "photo.dat")
	require.NoError(t, os.WriteFile(pngPath, pngBytes, 0o600))
	textPath := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o600))

	photo, err := editor.LoadPhoto(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, pngBytes, photo.Data)

	_, err = editor.LoadPhoto(textPath)
	assert.ErrorIs(t, err, editor.ErrUnsupportedPhoto)

	_, err = editor.LoadPhoto(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
