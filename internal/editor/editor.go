// Package editor holds the stores behind every form that writes to the
// server. Each validates its fields first and sends nothing when one is
// invalid.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	"auctioneer/internal/model"
)

func invalidForm(form string) error {
	return fmt.Errorf("%s: %w", form, model.ErrValidation)
}

// atoi parses a field that has already passed PositiveInteger.
func atoi(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}
