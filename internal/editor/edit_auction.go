package editor

import (
	"context"
	"strconv"
	"time"

	"auctioneer/internal/api"
	"auctioneer/internal/form"
	"auctioneer/internal/store"
	"auctioneer/internal/util"
)

// AuctionEditStore backs the edit form of an existing auction. Only the
// fields the user changed are sent.
type AuctionEditStore struct {
	store.Lifecycle
	client     *api.Client
	session    *store.Session
	details    *store.AuctionDetailsStore
	Categories *store.CategoriesStore

	Title       *form.Value[string]
	Category    *form.Value[*int]
	EndDate     *form.Value[*time.Time]
	Description *form.Value[string]
	Reserve     *form.Value[string]
}

// NewAuctionEditStore pre-fills the form from loaded details. It returns
// nil when the details are not loaded.
func NewAuctionEditStore(client *api.Client, session *store.Session, details *store.AuctionDetailsStore, categories *store.CategoriesStore) *AuctionEditStore {
	a := details.Auction()
	if a == nil {
		return nil
	}
	categoryID := a.CategoryID
	end := details.EndDate()
	return &AuctionEditStore{
		client:      client,
		session:     session,
		details:     details,
		Categories:  categories,
		Title:       form.NewValue(a.Title, form.NotEmpty),
		Category:    form.NewValue(&categoryID, form.Category(categories.Has)),
		EndDate:     form.NewValue(&end, form.FutureDate(time.Now)),
		Description: form.NewValue(a.Description, form.NotEmpty),
		Reserve:     form.NewValue(strconv.Itoa(a.Reserve), form.PositiveInteger),
	}
}

// IsEdited reports whether any field was changed.
func (s *AuctionEditStore) IsEdited() bool {
	return s.Title.Touched() || s.Category.Touched() || s.EndDate.Touched() ||
		s.Description.Touched() || s.Reserve.Touched()
}

// Patch builds the sparse update. It validates only the edited fields and
// reports false when one of them is invalid.
func (s *AuctionEditStore) Patch() (api.AuctionPatch, bool) {
	var p api.AuctionPatch
	ok := true
	if s.Title.Touched() {
		if s.Title.Validate() {
			v := s.Title.Value()
			p.Title = &v
		} else {
			ok = false
		}
	}
	if s.Description.Touched() {
		if s.Description.Validate() {
			v := s.Description.Value()
			p.Description = &v
		} else {
			ok = false
		}
	}
	if s.Category.Touched() {
		if s.Category.Validate() {
			v := *s.Category.Value()
			p.CategoryID = &v
		} else {
			ok = false
		}
	}
	if s.EndDate.Touched() {
		if s.EndDate.Validate() {
			v := util.FormatAuctionDate(*s.EndDate.Value())
			p.EndDate = &v
		} else {
			ok = false
		}
	}
	if s.Reserve.Touched() {
		if s.Reserve.Validate() {
			v := atoi(s.Reserve.Value())
			p.Reserve = &v
		} else {
			ok = false
		}
	}
	return p, ok
}

// Submit sends the changed fields and reloads the auction. With nothing
// edited it succeeds without a request.
func (s *AuctionEditStore) Submit(ctx context.Context) error {
	if !s.IsEdited() {
		return nil
	}
	patch, ok := s.Patch()
	if !ok {
		return invalidForm("edit auction")
	}
	token, err := s.session.RequireToken()
	if err != nil {
		return err
	}
	if !s.Begin() {
		return nil
	}

	if err := s.client.PatchAuction(ctx, s.details.AuctionID(), token, patch); err != nil {
		return s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)
	for _, f := range []interface{ ResetTouched() }{s.Title, s.Category, s.EndDate, s.Description, s.Reserve} {
		f.ResetTouched()
	}

	_ = s.details.Fetch(ctx)
	return nil
}
