package store

import (
	"context"
	"sort"

	"auctioneer/internal/api"
	"auctioneer/internal/model"
)

// CategoriesStore holds the list of auction categories.
type CategoriesStore struct {
	Lifecycle
	client  *api.Client
	session *Session

	byID map[int]string
}

// NewCategoriesStore creates an empty categories store.
func NewCategoriesStore(client *api.Client, session *Session) *CategoriesStore {
	return &CategoriesStore{client: client, session: session}
}

// Fetch loads every category.
func (s *CategoriesStore) Fetch(ctx context.Context) error {
	if !s.Begin() {
		return nil
	}

	categories, err := s.client.GetCategories(ctx)
	switch {
	case err == nil:
		byID := make(map[int]string, len(categories))
		for _, c := range categories {
			byID[c.CategoryID] = c.Name
		}
		s.Succeed(func() { s.byID = byID })
	case api.IsNotFound(err):
		s.Succeed(func() { s.byID = map[int]string{} })
	default:
		return s.FailWith(ctx, s.session, err)
	}
	return nil
}

// Loaded reports whether categories are available.
func (s *CategoriesStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID != nil
}

// Has reports whether id is a known category.
func (s *CategoriesStore) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok
}

// Name returns the category's name, or "" when unknown.
func (s *CategoriesStore) Name(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// Categories returns every category sorted by name.
func (s *CategoriesStore) Categories() []model.Category {
	s.mu.Lock()
	out := make([]model.Category, 0, len(s.byID))
	for id, name := range s.byID {
		out = append(out, model.Category{CategoryID: id, Name: name})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
