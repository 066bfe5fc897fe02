package store_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	none := store.LoadStatus{}

	tests := []struct {
		name               string
		primary, secondary store.LoadStatus
		want               store.LoadStatus
	}{
		{"both idle", none, none, none},
		{"one pending", store.StatusDone(), store.StatusPending(), store.StatusPending()},
		{"pending beats error", store.StatusError(errA), store.StatusPending(), store.StatusPending()},
		{"primary error wins", store.StatusError(errA), store.StatusError(errB), store.StatusError(errA)},
		{"secondary error", store.StatusDone(), store.StatusError(errB), store.StatusError(errB)},
		{"both done", store.StatusDone(), store.StatusDone(), store.StatusDone()},
		{"one done", store.StatusDone(), none, none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Combine(tt.primary, tt.secondary)
			assert.Equal(t, tt.want.State(), got.State())
			assert.Equal(t, tt.want.Err(), got.Err())
		})
	}
}

// serveSearch answers searches by filter: sellerId, bidderId or
// categoryIds each map to a fixed page.
func serveSearch(srv *apitest.Server, byKey map[string]map[string]any) {
	srv.Handle(http.MethodGet, "/auctions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, key := range []string{"sellerId", "bidderId", "categoryIds"} {
			if q.Has(key) {
				if page, ok := byKey[key]; ok {
					apitest.JSON(http.StatusOK, page)(w, r)
					return
				}
			}
		}
		apitest.Status(http.StatusInternalServerError)(w, r)
	})
}

func ids(auctions []store.ListedAuction) []int {
	out := make([]int, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, a.AuctionID)
	}
	return out
}

func TestSimilarAuctions(t *testing.T) {
	srv := apitest.New(t)
	serveSearch(srv, map[string]map[string]any{
		"sellerId":    pageJSON(3, 4, 5, 6),
		"categoryIds": pageJSON(3, 6, 7, 4),
	})
	auction := model.Auction{AuctionID: 4, SellerID: 9, CategoryID: 2}
	s := store.NewSimilarAuctionsStore(srv.Client(), loggedOut(srv), auction, 10)

	assert.Nil(t, s.Auctions())
	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.Status().IsDone())
	assert.Equal(t, []int{6, 7, 5}, ids(s.Auctions()))

	var sellerReq, categoryReq apitest.Request
	for _, r := range srv.Requests() {
		if r.Query.Has("sellerId") {
			sellerReq = r
		} else {
			categoryReq = r
		}
	}
	assert.Equal(t, "9", sellerReq.Query.Get("sellerId"))
	assert.Equal(t, []string{"2"}, categoryReq.Query["categoryIds"])
	assert.Equal(t, "CLOSING_SOON", categoryReq.Query.Get("sortBy"))
}

func TestSimilarAuctionsPartialFailure(t *testing.T) {
	srv := apitest.New(t)
	serveSearch(srv, map[string]map[string]any{
		"sellerId": pageJSON(1, 5),
	})
	s := store.NewSimilarAuctionsStore(srv.Client(), loggedOut(srv), model.Auction{AuctionID: 4, SellerID: 9, CategoryID: 2}, 10)

	require.Error(t, s.Load(context.Background()))

	assert.True(t, s.SameSeller.Status().IsDone(), "one side failing does not cancel the other")
	assert.True(t, s.Status().IsError())
	assert.Nil(t, s.Auctions())
}

func TestMyAuctions(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	// 12 auctions sold (2 pages), 4 bid on (1 page); auction 3 is in both.
	srv.Handle(http.MethodGet, "/auctions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Has("sellerId") && q.Get("startIndex") == "0":
			apitest.JSON(http.StatusOK, pageJSON(12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))(w, r)
		case q.Has("sellerId"):
			apitest.JSON(http.StatusOK, pageJSON(12, 11, 12))(w, r)
		case q.Has("bidderId"):
			apitest.JSON(http.StatusOK, pageJSON(4, 3, 20, 21, 22))(w, r)
		}
	})
	session, _ := loggedIn(t, srv, 5)
	s := store.NewMyAuctionsStore(srv.Client(), session, 5, 10)

	require.NoError(t, s.Reload(ctx))

	assert.True(t, s.Status().IsDone())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20, 21, 22}, ids(s.Auctions()))
	total, ok := s.TotalCount()
	require.True(t, ok)
	assert.Equal(t, 16, total)
	last, _ := s.MaxPageIndex()
	assert.Equal(t, 1, last)
	assert.Equal(t, 20, s.PageSize())

	bidderRequests := countWith(srv, "bidderId")
	require.NoError(t, s.GoToNextPage(ctx))
	assert.Equal(t, 1, s.PageIndex())
	assert.Equal(t, []int{11, 12}, ids(s.Auctions()))
	assert.Equal(t, bidderRequests, countWith(srv, "bidderId"), "exhausted search is not fetched")

	assert.ErrorIs(t, s.GoToNextPage(ctx), store.ErrNoNextPage)

	require.NoError(t, s.GoToPrevPage(ctx))
	assert.Equal(t, 0, s.PageIndex())
	assert.Len(t, s.Auctions(), 13)
	assert.ErrorIs(t, s.GoToPrevPage(ctx), store.ErrNoPreviousPage)

	require.NoError(t, s.GoToLastPage(ctx))
	assert.Equal(t, 1, s.PageIndex())
	assert.Equal(t, []int{11, 12}, ids(s.Auctions()))
}

func countWith(srv *apitest.Server, key string) int {
	n := 0
	for _, r := range srv.Requests() {
		if r.Query.Has(key) {
			n++
		}
	}
	return n
}

func TestMyAuctionsSendsOwnID(t *testing.T) {
	srv := apitest.New(t)
	serveSearch(srv, map[string]map[string]any{
		"sellerId": pageJSON(0),
		"bidderId": pageJSON(0),
	})
	session, _ := loggedIn(t, srv, 5)
	s := store.NewMyAuctionsStore(srv.Client(), session, 5, 10)

	require.NoError(t, s.Reload(context.Background()))

	for _, r := range srv.Requests() {
		if r.Query.Has("sellerId") {
			assert.Equal(t, "5", r.Query.Get("sellerId"))
			assert.False(t, r.Query.Has("bidderId"))
		}
		if r.Query.Has("bidderId") {
			assert.Equal(t, "5", r.Query.Get("bidderId"))
		}
	}
	assert.Empty(t, s.Auctions())
}

func TestAuctionViewLoad(t *testing.T) {
	srv := apitest.New(t)
	details := auctionJSON(4, 9, 2)
	details["description"] = "Oak"
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}", apitest.JSON(http.StatusOK, details))
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/image", apitest.Status(http.StatusNotFound))
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/bids", apitest.JSON(http.StatusOK, []any{}))
	srv.Handle(http.MethodGet, "/auctions/categories", apitest.JSON(http.StatusOK, []map[string]any{{"categoryId": 2, "name": "Tools"}}))
	serveSearch(srv, map[string]map[string]any{
		"sellerId":    pageJSON(1, 4),
		"categoryIds": pageJSON(2, 4, 8),
	})
	session, _ := loggedIn(t, srv, 9)
	categories := store.NewCategoriesStore(srv.Client(), session)
	v := store.NewAuctionViewStore(srv.Client(), session, categories, 4, 10)

	assert.Nil(t, v.Similar())
	require.NoError(t, v.Load(context.Background()))

	assert.True(t, v.Status().IsDone())
	assert.True(t, v.IsOwnAuction())
	assert.Equal(t, "Tools", categories.Name(2))
	assert.False(t, v.Photo.HasPhoto())
	require.NotNil(t, v.Similar())
	assert.Equal(t, []int{8}, ids(v.Similar().Auctions()))
}

func TestAuctionViewMissingAuction(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}", apitest.Status(http.StatusNotFound))
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/image", apitest.Status(http.StatusNotFound))
	srv.Handle(http.MethodGet, "/auctions/{id:[0-9]+}/bids", apitest.Status(http.StatusNotFound))
	srv.Handle(http.MethodGet, "/auctions/categories", apitest.JSON(http.StatusOK, []any{}))
	session := loggedOut(srv)
	v := store.NewAuctionViewStore(srv.Client(), session, store.NewCategoriesStore(srv.Client(), session), 4, 10)

	require.NoError(t, v.Load(context.Background()))

	assert.True(t, v.Details.DoesNotExist())
	assert.Nil(t, v.Similar())
	assert.Zero(t, srv.Count(http.MethodGet, "/auctions"))
}
