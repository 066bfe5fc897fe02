package store

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/model"

	"golang.org/x/sync/errgroup"
)

// SimilarAuctionsStore lists auctions sharing a seller or a category with
// one auction.
type SimilarAuctionsStore struct {
	auction      model.Auction
	SameSeller   *AuctionListPageStore
	SameCategory *AuctionListPageStore
}

func NewSimilarAuctionsStore(client *api.Client, session *Session, auction model.Auction, pageSize int) *SimilarAuctionsStore {
	return &SimilarAuctionsStore{
		auction:      auction,
		SameSeller:   NewAuctionListPageStore(client, session, pageSize),
		SameCategory: NewAuctionListPageStore(client, session, pageSize),
	}
}

func (s *SimilarAuctionsStore) sameSellerFilters() model.AuctionFilters {
	f := model.DefaultFilters()
	sellerID := s.auction.SellerID
	f.SellerID = &sellerID
	return f
}

func (s *SimilarAuctionsStore) sameCategoryFilters() model.AuctionFilters {
	f := model.DefaultFilters()
	f.CategoryIDs = []int{s.auction.CategoryID}
	return f
}

// Load fetches both lists at once. Each list settles independently; the
// first error is returned.
func (s *SimilarAuctionsStore) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.SameSeller.Reload(ctx, s.sameSellerFilters()) })
	g.Go(func() error { return s.SameCategory.Reload(ctx, s.sameCategoryFilters()) })
	return g.Wait()
}

func (s *SimilarAuctionsStore) Status() LoadStatus {
	return Combine(s.SameSeller.Status(), s.SameCategory.Status())
}

func (s *SimilarAuctionsStore) IsLoading() bool {
	return s.SameSeller.IsLoading() || s.SameCategory.IsLoading()
}

// Auctions returns the union of both lists without duplicates and without
// the auction itself. It is nil until both lists are done.
func (s *SimilarAuctionsStore) Auctions() []ListedAuction {
	if !s.SameSeller.Status().IsDone() || !s.SameCategory.Status().IsDone() {
		return nil
	}
	merged := dedupAuctions(s.SameCategory.Items(), s.SameSeller.Items())
	out := merged[:0]
	for _, a := range merged {
		if a.AuctionID != s.auction.AuctionID {
			out = append(out, a)
		}
	}
	return out
}

func (s *SimilarAuctionsStore) Subscribe(fn func()) func() {
	return joinSubscriptions(s.SameSeller.Subscribe(fn), s.SameCategory.Subscribe(fn))
}

// dedupAuctions concatenates lists keeping the first occurrence of each id.
func dedupAuctions(lists ...[]ListedAuction) []ListedAuction {
	seen := make(map[int]struct{})
	var out []ListedAuction
	for _, list := range lists {
		for _, a := range list {
			if _, ok := seen[a.AuctionID]; ok {
				continue
			}
			seen[a.AuctionID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
