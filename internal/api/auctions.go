package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"auctioneer/internal/model"
	"auctioneer/internal/util"

	"github.com/patrickmn/go-cache"
)

const categoriesCacheKey = "categories"

// NewAuction is the body of a create request.
type NewAuction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int    `json:"categoryId"`
	EndDate     string `json:"endDate"`
	Reserve     int    `json:"reserve"`
}

// AuctionPatch is a sparse auction update. Nil fields are omitted.
type AuctionPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *int    `json:"categoryId,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Reserve     *int    `json:"reserve,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p AuctionPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil && p.EndDate == nil && p.Reserve == nil
}

// AuctionImagePath is the photo resource of an auction.
func AuctionImagePath(auctionID int) string {
	return fmt.Sprintf("/auctions/%d/image", auctionID)
}

// SearchQuery builds the query string for one page of an auction search.
func SearchQuery(startIndex, count int, f model.AuctionFilters) (url.Values, error) {
	if f.SortBy != "" && !f.SortBy.Valid() {
		return nil, fmt.Errorf("unsupported sort key %q", f.SortBy)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("unsupported status filter %q", f.Status)
	}

	params := url.Values{}
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("count", strconv.Itoa(count))
	if f.Query != "" {
		params.Set("q", f.Query)
	}
	for _, id := range f.CategoryIDs {
		params.Add("categoryIds", strconv.Itoa(id))
	}
	if f.SellerID != nil {
		params.Set("sellerId", strconv.Itoa(*f.SellerID))
	}
	if f.BidderID != nil {
		params.Set("bidderId", strconv.Itoa(*f.BidderID))
	}
	if f.SortBy != "" {
		params.Set("sortBy", string(f.SortBy))
	}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	return params, nil
}

// SearchAuctions fetches one page of auctions matching the filters.
func (c *Client) SearchAuctions(ctx context.Context, startIndex, count int, f model.AuctionFilters) (model.AuctionPage, error) {
	params, err := SearchQuery(startIndex, count, f)
	if err != nil {
		return model.AuctionPage{}, unexpected(err)
	}

	var result searchResponse
	if err := c.getJSON(ctx, "/auctions", params, "", &result); err != nil {
		return model.AuctionPage{}, err
	}

	auctions := result.Auctions
	if auctions == nil {
		auctions = []model.Auction{}
	}
	return model.AuctionPage{Auctions: auctions, Count: result.Count}, nil
}

// GetAuction fetches the details of one auction.
func (c *Client) GetAuction(ctx context.Context, auctionID int) (model.AuctionDetails, error) {
	var details model.AuctionDetails
	err := c.getJSON(ctx, fmt.Sprintf("/auctions/%d", auctionID), nil, "", &details)
	return details, err
}

// CreateAuction creates an auction and returns its id.
func (c *Client) CreateAuction(ctx context.Context, token string, a NewAuction) (int, error) {
	var result struct {
		AuctionID int `json:"auctionId"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/auctions", token, a, &result); err != nil {
		return 0, err
	}
	return result.AuctionID, nil
}

// PatchAuction applies a sparse update to an auction.
func (c *Client) PatchAuction(ctx context.Context, auctionID int, token string, patch AuctionPatch) error {
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/auctions/%d", auctionID), token, patch, nil)
}

// DeleteAuction deletes an auction.
func (c *Client) DeleteAuction(ctx context.Context, auctionID int, token string) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/auctions/%d", auctionID), token, nil, nil)
}

// GetBids fetches the bid history of an auction, highest first.
func (c *Client) GetBids(ctx context.Context, auctionID int) ([]model.Bid, error) {
	var raw []bidResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/auctions/%d/bids", auctionID), nil, "", &raw); err != nil {
		return nil, err
	}

	bids := make([]model.Bid, 0, len(raw))
	for _, b := range raw {
		bid := model.Bid{
			BidderID:  b.BidderID,
			Amount:    b.Amount,
			FirstName: b.FirstName,
			LastName:  b.LastName,
		}
		if b.Timestamp != "" {
			ts, err := util.ParseServerTime(b.Timestamp)
			if err != nil {
				return nil, unexpected(fmt.Errorf("failed to parse bid timestamp: %w", err))
			}
			bid.Timestamp = ts
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// PlaceBid places a bid on an auction.
func (c *Client) PlaceBid(ctx context.Context, auctionID int, token string, amount int) error {
	body := struct {
		Amount int `json:"amount"`
	}{Amount: amount}
	return c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/auctions/%d/bids", auctionID), token, body, nil)
}

// GetCategories fetches every auction category. Results are cached when a
// categories TTL is configured.
func (c *Client) GetCategories(ctx context.Context) ([]model.Category, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(categoriesCacheKey); ok {
			return append([]model.Category(nil), cached.([]model.Category)...), nil
		}
	}

	var categories []model.Category
	if err := c.getJSON(ctx, "/auctions/categories", nil, "", &categories); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(categoriesCacheKey, append([]model.Category(nil), categories...), cache.DefaultExpiration)
	}
	return categories, nil
}

// API response types

type searchResponse struct {
	Auctions []model.Auction `json:"auctions"`
	Count    int             `json:"count"`
}

type bidResponse struct {
	BidderID  int    `json:"bidderId"`
	Amount    int    `json:"amount"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Timestamp string `json:"timestamp"`
}
