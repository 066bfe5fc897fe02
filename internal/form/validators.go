package form

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"auctioneer/internal/model"
)

const (
	MsgRequired         = "This field is required."
	MsgInvalidEmail     = "Invalid email."
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgPositiveInteger  = "Please enter a whole number greater than zero."
	MsgFutureDate       = "Please choose a date in the future"
	MsgDateRequired     = "A date is required"
	MsgCategoryRequired = "A category is required"
	MsgInvalidCategory  = "Invalid category"
	MsgPhotoRequired    = "A photo is required."
	MsgBidTooLow        = "Your bid must beat the highest so far."
)

const (
	maxEmailLength    = 128
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^.*@.+$`)

// NotEmpty rejects the empty string.
func NotEmpty(v string) string {
	if v == "" {
		return MsgRequired
	}
	return ""
}

// Email requires a value that looks like an address and fits the server's
// column.
func Email(v string) string {
	if msg := NotEmpty(v); msg != "" {
		return msg
	}
	if !emailPattern.MatchString(v) || len(v) > maxEmailLength {
		return MsgInvalidEmail
	}
	return ""
}

// Password requires at least six characters.
func Password(v string) string {
	if len([]rune(v)) < minPasswordLength {
		return MsgPasswordTooShort
	}
	return ""
}

// PositiveInteger requires a base-10 integer of at least 1.
func PositiveInteger(v string) string {
	if msg := NotEmpty(v); msg != "" {
		return msg
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return MsgPositiveInteger
	}
	return ""
}

// FutureDate returns a validator that requires a time after now().
func FutureDate(now func() time.Time) Validator[*time.Time] {
	return func(v *time.Time) string {
		if v == nil {
			return MsgDateRequired
		}
		if !v.After(now()) {
			return MsgFutureDate
		}
		return ""
	}
}

// Category returns a validator that requires one of the known categories.
func Category(known func(id int) bool) Validator[*int] {
	return func(v *int) string {
		if v == nil {
			return MsgCategoryRequired
		}
		if !known(*v) {
			return MsgInvalidCategory
		}
		return ""
	}
}

// PhotoRequired rejects a missing photo.
func PhotoRequired(v *model.Photo) string {
	if v == nil {
		return MsgPhotoRequired
	}
	return ""
}

// Optional is a validator that accepts anything.
func Optional[T any](T) string {
	return ""
}

// All chains validators and reports the first failure.
func All[T any](validators ...Validator[T]) Validator[T] {
	return func(v T) string {
		for _, validate := range validators {
			if msg := validate(v); msg != "" {
				return msg
			}
		}
		return ""
	}
}
