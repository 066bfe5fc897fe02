package store

import "auctioneer/internal/model"

// FiltersStore is the user-editable filter set of the auction browser.
type FiltersStore struct {
	observable
	filters model.AuctionFilters
}

// NewFiltersStore starts with DefaultFilters.
func NewFiltersStore() *FiltersStore {
	return &FiltersStore{filters: model.DefaultFilters()}
}

// Build returns a snapshot of the current filters.
func (s *FiltersStore) Build() model.AuctionFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.CategoryIDs = append([]int(nil), s.filters.CategoryIDs...)
	return f
}

func (s *FiltersStore) update(fn func(f *model.AuctionFilters)) {
	s.mu.Lock()
	fn(&s.filters)
	s.mu.Unlock()
	s.Notify()
}

// Clear restores DefaultFilters.
func (s *FiltersStore) Clear() {
	s.update(func(f *model.AuctionFilters) { *f = model.DefaultFilters() })
}

func (s *FiltersStore) SetQuery(q string) {
	s.update(func(f *model.AuctionFilters) { f.Query = q })
}

func (s *FiltersStore) SetCategoryIDs(ids []int) {
	ids = append([]int(nil), ids...)
	s.update(func(f *model.AuctionFilters) { f.CategoryIDs = ids })
}

// ToggleCategory adds id to the category filter, or removes it when present.
func (s *FiltersStore) ToggleCategory(id int) {
	s.update(func(f *model.AuctionFilters) {
		for i, c := range f.CategoryIDs {
			if c == id {
				f.CategoryIDs = append(f.CategoryIDs[:i:i], f.CategoryIDs[i+1:]...)
				return
			}
		}
		f.CategoryIDs = append(f.CategoryIDs, id)
	})
}

func (s *FiltersStore) SetSellerID(id *int) {
	s.update(func(f *model.AuctionFilters) { f.SellerID = id })
}

func (s *FiltersStore) SetBidderID(id *int) {
	s.update(func(f *model.AuctionFilters) { f.BidderID = id })
}

func (s *FiltersStore) SetSortBy(sortBy model.SortBy) {
	s.update(func(f *model.AuctionFilters) { f.SortBy = sortBy })
}

func (s *FiltersStore) SetStatus(status model.AuctionStatus) {
	s.update(func(f *model.AuctionFilters) { f.Status = status })
}

// CycleSortBy advances to the next sort key.
func (s *FiltersStore) CycleSortBy() {
	s.update(func(f *model.AuctionFilters) { f.SortBy = nextOf(model.SortOptions, f.SortBy) })
}

// CycleStatus advances to the next status filter.
func (s *FiltersStore) CycleStatus() {
	s.update(func(f *model.AuctionFilters) { f.Status = nextOf(model.StatusOptions, f.Status) })
}

func nextOf[T comparable](options []T, current T) T {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
