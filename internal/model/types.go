package model

import "time"

// Auction is the list-page shape of an auction.
type Auction struct {
	AuctionID       int    `json:"auctionId"`
	Title           string `json:"title"`
	CategoryID      int    `json:"categoryId"`
	SellerID        int    `json:"sellerId"`
	SellerFirstName string `json:"sellerFirstName"`
	SellerLastName  string `json:"sellerLastName"`
	Reserve         int    `json:"reserve"`
	NumBids         int    `json:"numBids"`
	HighestBid      *int   `json:"highestBid"`
	EndDate         string `json:"endDate"`
}

// AuctionDetails is the single-auction shape, which adds the description.
type AuctionDetails struct {
	Auction
	Description string `json:"description"`
}

// Bid is one entry of an auction's bid history. The server orders bids
// highest first.
type Bid struct {
	BidderID  int
	Amount    int
	FirstName string
	LastName  string
	Timestamp time.Time
}

// Category is an auction category.
type Category struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
}

// UserDetails is a user's public profile. Email is only returned to the
// user themselves.
type UserDetails struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
}

// Session is an authenticated user id and token pair.
type Session struct {
	UserID int
	Token  string
}

// Photo is an opaque image payload.
type Photo struct {
	ContentType string
	Data        []byte
}

// SortBy is an auction search ordering accepted by the server.
type SortBy string

const (
	SortAlphabeticalAsc  SortBy = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc SortBy = "ALPHABETICAL_DESC"
	SortBidsAsc          SortBy = "BIDS_ASC"
	SortBidsDesc         SortBy = "BIDS_DESC"
	SortReserveAsc       SortBy = "RESERVE_ASC"
	SortReserveDesc      SortBy = "RESERVE_DESC"
	SortClosingSoon      SortBy = "CLOSING_SOON"
	SortClosingLast      SortBy = "CLOSING_LAST"
)

// SortOptions lists every SortBy in display order.
var SortOptions = []SortBy{
	SortClosingSoon,
	SortClosingLast,
	SortAlphabeticalAsc,
	SortAlphabeticalDesc,
	SortBidsAsc,
	SortBidsDesc,
	SortReserveAsc,
	SortReserveDesc,
}

// Valid reports whether s is one of the known sort keys.
func (s SortBy) Valid() bool {
	for _, o := range SortOptions {
		if s == o {
			return true
		}
	}
	return false
}

// Label returns a short human readable name.
func (s SortBy) Label() string {
	switch s {
	case SortAlphabeticalAsc:
		return "title A-Z"
	case SortAlphabeticalDesc:
		return "title Z-A"
	case SortBidsAsc:
		return "lowest bid"
	case SortBidsDesc:
		return "highest bid"
	case SortReserveAsc:
		return "lowest reserve"
	case SortReserveDesc:
		return "highest reserve"
	case SortClosingSoon:
		return "closing soon"
	case SortClosingLast:
		return "closing last"
	}
	return string(s)
}

// AuctionStatus filters auctions by whether they have closed.
type AuctionStatus string

const (
	StatusAny    AuctionStatus = "ANY"
	StatusOpen   AuctionStatus = "OPEN"
	StatusClosed AuctionStatus = "CLOSED"
)

// StatusOptions lists every AuctionStatus in display order.
var StatusOptions = []AuctionStatus{StatusAny, StatusOpen, StatusClosed}

// Valid reports whether s is one of the known status filters.
func (s AuctionStatus) Valid() bool {
	return s == StatusAny || s == StatusOpen || s == StatusClosed
}

// AuctionFilters is the full set of search parameters for one list query.
type AuctionFilters struct {
	Query       string
	CategoryIDs []int
	SellerID    *int
	BidderID    *int
	SortBy      SortBy
	Status      AuctionStatus
}

// DefaultFilters returns filters matching every auction, closing soonest first.
func DefaultFilters() AuctionFilters {
	return AuctionFilters{
		SortBy: SortClosingSoon,
		Status: StatusAny,
	}
}

// AuctionPage is one page of search results.
type AuctionPage struct {
	Auctions []Auction
	Count    int
}
