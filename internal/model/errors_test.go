package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubKindError struct{ kind ErrorKind }

func (e stubKindError) Error() string   { return "stub" }
func (e stubKindError) Kind() ErrorKind { return e.kind }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"validation", ErrValidation, KindValidation},
		{"wrapped validation", fmt.Errorf("failed to submit: %w", ErrValidation), KindValidation},
		{"kinded", stubKindError{KindServer}, KindServer},
		{"wrapped kinded", fmt.Errorf("failed to fetch: %w", stubKindError{KindSessionExpired}), KindSessionExpired},
		{"plain", errors.New("boom"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSortByValid(t *testing.T) {
	for _, s := range SortOptions {
		assert.True(t, s.Valid(), s)
	}
	assert.Len(t, SortOptions, 8)
	assert.False(t, SortBy("PRICE_ASC").Valid())
	assert.False(t, AuctionStatus("SOLD").Valid())
}
