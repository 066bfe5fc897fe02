package store_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// servePages answers searches over total auctions with ids 1..total.
func servePages(srv *apitest.Server, total int) {
	srv.Handle(http.MethodGet, "/auctions", func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		var ids []int
		for id := start + 1; id <= total && id <= start+count; id++ {
			ids = append(ids, id)
		}
		apitest.JSON(http.StatusOK, pageJSON(total, ids...))(w, r)
	})
}

func TestListPageNavigation(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	servePages(srv, 23)
	s := store.NewAuctionListPageStore(srv.Client(), loggedOut(srv), 10)
	f := model.DefaultFilters()

	_, known := s.MaxPageIndex()
	assert.False(t, known)
	assert.ErrorIs(t, s.GoToLastPage(ctx, f), store.ErrLastPageUnknown)
	assert.Zero(t, srv.Count(http.MethodGet, "/auctions"))

	require.NoError(t, s.Reload(ctx, f))
	total, _ := s.TotalCount()
	assert.Equal(t, 23, total)
	last, _ := s.MaxPageIndex()
	assert.Equal(t, 2, last)
	assert.Len(t, s.Items(), 10)

	assert.ErrorIs(t, s.GoToPrevPage(ctx, f), store.ErrNoPreviousPage)
	assert.Equal(t, 0, s.PageIndex())

	require.NoError(t, s.GoToLastPage(ctx, f))
	assert.Equal(t, 2, s.PageIndex())
	require.Len(t, s.Items(), 3)
	assert.Equal(t, 21, s.Items()[0].AuctionID)

	requests := srv.Count(http.MethodGet, "/auctions")
	assert.ErrorIs(t, s.GoToNextPage(ctx, f), store.ErrNoNextPage)
	assert.Equal(t, 2, s.PageIndex())
	assert.Equal(t, requests, srv.Count(http.MethodGet, "/auctions"), "bounds errors issue no request")

	require.NoError(t, s.GoToPrevPage(ctx, f))
	assert.Equal(t, 1, s.PageIndex())
	req, _ := srv.Last(http.MethodGet, "/auctions")
	assert.Equal(t, "10", req.Query.Get("startIndex"))
	assert.Equal(t, "10", req.Query.Get("count"))

	require.NoError(t, s.GoToFirstPage(ctx, f))
	assert.Equal(t, 0, s.PageIndex())
	assert.False(t, s.HasPrevPage())
	assert.True(t, s.HasNextPage())
}

func TestListPageNextAllowedBeforeFirstLoad(t *testing.T) {
	srv := apitest.New(t)
	servePages(srv, 23)
	s := store.NewAuctionListPageStore(srv.Client(), loggedOut(srv), 10)

	assert.True(t, s.HasNextPage())
	require.NoError(t, s.GoToNextPage(context.Background(), model.DefaultFilters()))
	assert.Equal(t, 1, s.PageIndex())
}

func TestListPageEmptyResult(t *testing.T) {
	srv := apitest.New(t)
	servePages(srv, 0)
	s := store.NewAuctionListPageStore(srv.Client(), loggedOut(srv), 0)

	require.NoError(t, s.Reload(context.Background(), model.DefaultFilters()))

	assert.Equal(t, store.DefaultPageSize, s.PageSize())
	last, ok := s.MaxPageIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, last)
	assert.False(t, s.HasNextPage())
	assert.Empty(t, s.Items())
}

func TestListPageSendsFilters(t *testing.T) {
	srv := apitest.New(t)
	servePages(srv, 0)
	s := store.NewAuctionListPageStore(srv.Client(), loggedOut(srv), 10)
	seller := 7
	f := model.AuctionFilters{Query: "chair", CategoryIDs: []int{1, 4}, SellerID: &seller, SortBy: model.SortReserveAsc, Status: model.StatusClosed}

	require.NoError(t, s.Reload(context.Background(), f))

	req, ok := srv.Last(http.MethodGet, "/auctions")
	require.True(t, ok)
	assert.Equal(t, "chair", req.Query.Get("q"))
	assert.Equal(t, []string{"1", "4"}, req.Query["categoryIds"])
	assert.Equal(t, "7", req.Query.Get("sellerId"))
	assert.Equal(t, "RESERVE_ASC", req.Query.Get("sortBy"))
	assert.Equal(t, "CLOSED", req.Query.Get("status"))
}

func TestListPageRejectsUnknownSort(t *testing.T) {
	srv := apitest.New(t)
	servePages(srv, 0)
	s := store.NewAuctionListPageStore(srv.Client(), loggedOut(srv), 10)

	err := s.Reload(context.Background(), model.AuctionFilters{SortBy: "NEWEST"})

	require.Error(t, err)
	assert.Equal(t, model.KindUnexpected, model.KindOf(err))
	assert.True(t, s.Status().IsError())
	assert.Zero(t, srv.Count(http.MethodGet, "/auctions"))
}

func TestFiltersStore(t *testing.T) {
	s := store.NewFiltersStore()
	notified := 0
	s.Subscribe(func() { notified++ })

	assert.Equal(t, model.DefaultFilters(), s.Build())

	s.SetQuery("desk")
	s.ToggleCategory(3)
	s.ToggleCategory(5)
	s.ToggleCategory(3)
	s.CycleSortBy()
	s.CycleStatus()

	f := s.Build()
	assert.Equal(t, "desk", f.Query)
	assert.Equal(t, []int{5}, f.CategoryIDs)
	assert.Equal(t, model.SortOptions[1], f.SortBy)
	assert.Equal(t, model.StatusOptions[1], f.Status)
	assert.Equal(t, 6, notified)

	f.CategoryIDs[0] = 99
	assert.Equal(t, []int{5}, s.Build().CategoryIDs, "Build returns a copy")

	s.Clear()
	assert.Equal(t, model.DefaultFilters(), s.Build())
}

func TestAuctionListStoreUsesFilters(t *testing.T) {
	srv := apitest.New(t)
	servePages(srv, 15)
	s := store.NewAuctionListStore(srv.Client(), loggedOut(srv), 10)

	s.Filters.SetQuery("vase")
	require.NoError(t, s.Reload(context.Background()))
	require.NoError(t, s.GoToNextPage(context.Background()))

	req, _ := srv.Last(http.MethodGet, "/auctions")
	assert.Equal(t, "vase", req.Query.Get("q"))
	assert.Equal(t, "10", req.Query.Get("startIndex"))
	assert.Len(t, s.Page.Items(), 5)
}
