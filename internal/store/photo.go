package store

import (
	"context"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
)

// PhotoStore holds the image at one API path.
type PhotoStore struct {
	Lifecycle
	client  *api.Client
	session *Session
	path    string

	photo *model.Photo
}

// NewPhotoStore creates a store for the image at path. Nothing is fetched
// until Fetch is called.
func NewPhotoStore(client *api.Client, session *Session, path string) *PhotoStore {
	return &PhotoStore{client: client, session: session, path: path}
}

// Path returns the image resource this store is bound to.
func (s *PhotoStore) Path() string { return s.path }

// Fetch loads the image. A missing image is a successful empty result.
func (s *PhotoStore) Fetch(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}

	photo, err := s.client.GetImage(ctx, s.path)
	switch {
	case err == nil:
		s.Succeed(func() { s.photo = photo })
	case api.IsNotFound(err):
		s.Succeed(func() { s.photo = nil })
	default:
		return s.FailWith(ctx, s.session, err)
	}
	return nil
}

// Photo returns the last fetched image, nil when there is none.
func (s *PhotoStore) Photo() *model.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photo
}

// HasPhoto reports whether an image was found.
func (s *PhotoStore) HasPhoto() bool {
	return s.Photo() != nil
}
