package editor

import (
	"context"
	"fmt"
	"time"

	"auctioneer/internal/api"
	"auctioneer/internal/form"
	"auctioneer/internal/model"
	"auctioneer/internal/store"
	"auctioneer/internal/util"
)

// DefaultReserve pre-fills the reserve of a new auction.
const DefaultReserve = "1"

// Created is the outcome of a successful auction creation. Warning is set
// when the auction exists but its photo could not be uploaded.
type Created struct {
	AuctionID int
	Warning   error
}

// CreateAuctionStore backs the new auction form.
type CreateAuctionStore struct {
	store.Lifecycle
	client     *api.Client
	session    *store.Session
	Categories *store.CategoriesStore

	Title       *form.Value[string]
	Category    *form.Value[*int]
	EndDate     *form.Value[*time.Time]
	Description *form.Value[string]
	Reserve     *form.Value[string]
	Photo       *form.Value[*model.Photo]

	// PhotoStatus tracks the upload that follows creation.
	PhotoStatus store.Lifecycle
}

func NewCreateAuctionStore(client *api.Client, session *store.Session, categories *store.CategoriesStore) *CreateAuctionStore {
	return &CreateAuctionStore{
		client:      client,
		session:     session,
		Categories:  categories,
		Title:       form.NewValue("", form.NotEmpty),
		Category:    form.NewValue[*int](nil, form.Category(categories.Has)),
		EndDate:     form.NewValue[*time.Time](nil, form.FutureDate(time.Now)),
		Description: form.NewValue("", form.NotEmpty),
		Reserve:     form.NewValue(DefaultReserve, form.PositiveInteger),
		Photo:       form.NewValue[*model.Photo](nil, form.PhotoRequired),
	}
}

// IsLoading reports whether creation or the photo upload is in flight.
func (s *CreateAuctionStore) IsLoading() bool {
	return s.Lifecycle.IsLoading() || s.PhotoStatus.IsLoading() || s.Categories.IsLoading()
}

// Submit creates the auction and then uploads its photo. A failed upload
// does not undo the auction; it is reported as Created.Warning.
func (s *CreateAuctionStore) Submit(ctx context.Context) (Created, error) {
	if !form.ValidateAll(s.Title, s.Category, s.EndDate, s.Description, s.Reserve, s.Photo) {
		return Created{}, invalidForm("create auction")
	}
	token, err := s.session.RequireToken()
	if err != nil {
		return Created{}, err
	}
	if !s.Begin() {
		return Created{}, nil
	}

	auctionID, err := s.client.CreateAuction(ctx, token, api.NewAuction{
		Title:       s.Title.Value(),
		Description: s.Description.Value(),
		CategoryID:  *s.Category.Value(),
		EndDate:     util.FormatAuctionDate(*s.EndDate.Value()),
		Reserve:     atoi(s.Reserve.Value()),
	})
	if err != nil {
		return Created{}, s.FailWith(ctx, s.session, err)
	}
	s.Succeed(nil)

	result := Created{AuctionID: auctionID}
	if err := s.uploadPhoto(ctx, auctionID, token); err != nil {
		result.Warning = fmt.Errorf("auction created but the photo upload failed, please try again later: %w", err)
	}
	return result, nil
}

func (s *CreateAuctionStore) uploadPhoto(ctx context.Context, auctionID int, token string) error {
	if !s.PhotoStatus.Begin() {
		return nil
	}
	if err := s.client.PutImage(ctx, api.AuctionImagePath(auctionID), token, *s.Photo.Value()); err != nil {
		return s.PhotoStatus.FailWith(ctx, s.session, err)
	}
	s.PhotoStatus.Succeed(nil)
	return nil
}

// Subscribe listens to creation, the photo upload and the categories.
func (s *CreateAuctionStore) Subscribe(fn func()) func() {
	unsubs := []func(){s.Lifecycle.Subscribe(fn), s.PhotoStatus.Subscribe(fn), s.Categories.Subscribe(fn)}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
